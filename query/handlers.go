package query

import (
	"context"

	"github.com/goliatone/go-remote/core"
)

type RequestPreviewer interface {
	Preview(obj core.Object, method string, verb core.Verb, options ...core.BuildOption) (core.Request, error)
}

type VerbTable interface {
	Verbs() []core.Verb
	VerbSpec(verb core.Verb) (core.VerbSpec, bool)
}

// VerbDescriptor is one row of the verb table.
type VerbDescriptor struct {
	Verb   core.Verb
	Scope  core.VerbScope
	Global bool
}

// PreviewRequestQuery builds the request a command would send, without
// dispatching it.
type PreviewRequestQuery struct {
	previewer RequestPreviewer
}

func NewPreviewRequestQuery(previewer RequestPreviewer) *PreviewRequestQuery {
	return &PreviewRequestQuery{previewer: previewer}
}

func (q *PreviewRequestQuery) Query(_ context.Context, msg PreviewRequestMessage) (core.Request, error) {
	if q == nil || q.previewer == nil {
		return core.Request{}, queryDependencyError("query: request previewer is required")
	}
	var options []core.BuildOption
	if msg.Body != nil {
		options = append(options, core.WithBody(msg.Body))
	}
	return q.previewer.Preview(msg.Object, msg.Method, msg.Verb, options...)
}

type ListVerbsQuery struct {
	table VerbTable
}

func NewListVerbsQuery(table VerbTable) *ListVerbsQuery {
	return &ListVerbsQuery{table: table}
}

func (q *ListVerbsQuery) Query(_ context.Context, msg ListVerbsMessage) ([]VerbDescriptor, error) {
	if q == nil || q.table == nil {
		return nil, queryDependencyError("query: verb table is required")
	}
	out := []VerbDescriptor{}
	for _, verb := range q.table.Verbs() {
		spec, ok := q.table.VerbSpec(verb)
		if !ok {
			continue
		}
		if msg.Scope != "" && spec.Scope != msg.Scope {
			continue
		}
		if msg.GlobalOnly && !spec.Global {
			continue
		}
		out = append(out, VerbDescriptor{Verb: verb, Scope: spec.Scope, Global: spec.Global})
	}
	return out, nil
}
