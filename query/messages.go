package query

import (
	"strings"

	"github.com/goliatone/go-remote/core"
)

const (
	TypePreviewRequest = "remote.query.request.preview"
	TypeListVerbs      = "remote.query.verbs.list"
)

type PreviewRequestMessage struct {
	Object core.Object
	Method string
	Verb   core.Verb
	Body   any
}

func (PreviewRequestMessage) Type() string { return TypePreviewRequest }

func (m PreviewRequestMessage) Validate() error {
	if m.Object == nil {
		return queryValidationError("object", "target object is required")
	}
	if strings.TrimSpace(m.Method) == "" {
		return queryValidationError("method", "http method is required")
	}
	if strings.TrimSpace(string(m.Verb)) == "" {
		return queryValidationError("verb", "verb is required")
	}
	return nil
}

// ListVerbsMessage filters the verb table. Zero values match every verb.
type ListVerbsMessage struct {
	Scope      core.VerbScope
	GlobalOnly bool
}

func (ListVerbsMessage) Type() string { return TypeListVerbs }

func (m ListVerbsMessage) Validate() error {
	switch m.Scope {
	case "", core.VerbScopeResource, core.VerbScopeCollection:
		return nil
	default:
		return queryValidationError("scope", "scope must be resource or collection")
	}
}
