package command

import (
	"strings"

	"github.com/goliatone/go-remote/core"
)

const (
	TypeExecute  = "remote.command.execute"
	TypeDispatch = "remote.command.dispatch"
)

// ExecuteMessage applies Verb to Object with Method. Body, when set,
// replaces the payload the object would produce.
type ExecuteMessage struct {
	Object core.Object
	Method string
	Verb   core.Verb
	Body   any
}

func (ExecuteMessage) Type() string { return TypeExecute }

func (m ExecuteMessage) Validate() error {
	if m.Object == nil {
		return commandValidationError("object", "target object is required")
	}
	if strings.TrimSpace(m.Method) == "" {
		return commandValidationError("method", "http method is required")
	}
	if strings.TrimSpace(string(m.Verb)) == "" {
		return commandValidationError("verb", "verb is required")
	}
	return nil
}

func (m ExecuteMessage) buildOptions() []core.BuildOption {
	if m.Body == nil {
		return nil
	}
	return []core.BuildOption{core.WithBody(m.Body)}
}

// DispatchMessage runs a request descriptor produced by a preview.
type DispatchMessage struct {
	Request core.Request
}

func (DispatchMessage) Type() string { return TypeDispatch }

func (m DispatchMessage) Validate() error {
	if m.Request.Object == nil {
		return commandValidationError("request.object", "target object is required")
	}
	if strings.TrimSpace(m.Request.URL) == "" {
		return commandValidationError("request.url", "request url is required")
	}
	if strings.TrimSpace(m.Request.Method) == "" {
		return commandValidationError("request.method", "http method is required")
	}
	return nil
}
