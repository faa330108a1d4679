package command

import (
	"context"
	"strings"

	"github.com/goliatone/go-remote/core"
)

const TypeExecuteResource = "remote.command.execute_resource"

// Resource is a plain object description that survives a queue round trip.
// Entity names the collection and Identifier the member.
type Resource struct {
	Entity     string         `json:"entity"`
	Identifier string         `json:"id"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func (*Resource) IsFetching() bool { return false }

func (r *Resource) FetchPayload(core.Verb) (any, error) {
	if r.Payload == nil {
		return nil, nil
	}
	return r.Payload, nil
}

func (r *Resource) ID() string { return r.Identifier }

func (r *Resource) EntityName() string { return r.Entity }

// ExecuteResourceMessage is the queue friendly form of ExecuteMessage. Every
// field decodes from job parameters, so a worker can run it.
type ExecuteResourceMessage struct {
	Resource Resource  `json:"resource"`
	Method   string    `json:"method"`
	Verb     core.Verb `json:"verb"`
}

func (ExecuteResourceMessage) Type() string { return TypeExecuteResource }

func (m ExecuteResourceMessage) Validate() error {
	if strings.TrimSpace(m.Resource.Entity) == "" {
		return commandValidationError("resource.entity", "resource entity is required")
	}
	if strings.TrimSpace(m.Method) == "" {
		return commandValidationError("method", "http method is required")
	}
	if strings.TrimSpace(string(m.Verb)) == "" {
		return commandValidationError("verb", "verb is required")
	}
	return nil
}

// Parameters renders the message as job parameters for a queue.
func (m ExecuteResourceMessage) Parameters() map[string]any {
	resource := map[string]any{
		"entity": m.Resource.Entity,
		"id":     m.Resource.Identifier,
	}
	if m.Resource.Payload != nil {
		resource["payload"] = m.Resource.Payload
	}
	return map[string]any{
		"resource": resource,
		"method":   m.Method,
		"verb":     string(m.Verb),
	}
}

type ExecuteResourceCommand struct {
	executor Executor
}

func NewExecuteResourceCommand(executor Executor) *ExecuteResourceCommand {
	return &ExecuteResourceCommand{executor: executor}
}

// Execute validates before dispatching because queue workers call it
// without the go-command runner.
func (c *ExecuteResourceCommand) Execute(ctx context.Context, msg ExecuteResourceMessage) error {
	if c == nil || c.executor == nil {
		return commandDependencyError("command: executor is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	resource := msg.Resource
	out, err := c.executor.Execute(ctx, &resource, msg.Method, msg.Verb)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}
