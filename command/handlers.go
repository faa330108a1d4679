package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-remote/core"
)

type Executor interface {
	Execute(ctx context.Context, obj core.Object, method string, verb core.Verb, options ...core.BuildOption) (core.Result, error)
}

type RequestDispatcher interface {
	Dispatch(ctx context.Context, req core.Request) (core.Result, error)
}

type ExecuteCommand struct {
	executor Executor
}

func NewExecuteCommand(executor Executor) *ExecuteCommand {
	return &ExecuteCommand{executor: executor}
}

// Execute returns build errors directly. Dispatch failures are reported
// through notifications and the stored core.Result, not as an error.
func (c *ExecuteCommand) Execute(ctx context.Context, msg ExecuteMessage) error {
	if c == nil || c.executor == nil {
		return commandDependencyError("command: executor is required")
	}
	out, err := c.executor.Execute(ctx, msg.Object, msg.Method, msg.Verb, msg.buildOptions()...)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DispatchCommand struct {
	dispatcher RequestDispatcher
}

func NewDispatchCommand(dispatcher RequestDispatcher) *DispatchCommand {
	return &DispatchCommand{dispatcher: dispatcher}
}

func (c *DispatchCommand) Execute(ctx context.Context, msg DispatchMessage) error {
	if c == nil || c.dispatcher == nil {
		return commandDependencyError("command: dispatcher is required")
	}
	out, err := c.dispatcher.Dispatch(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
