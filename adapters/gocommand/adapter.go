package gocommand

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	gocmd "github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	remotecommand "github.com/goliatone/go-remote/command"
	"github.com/goliatone/go-remote/core"
	remotequery "github.com/goliatone/go-remote/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := gocmd.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(gocmd.Message)
	if !ok {
		return adapterError("gocommand: message must implement Type() string", core.ErrorBadInput)
	}
	if strings.TrimSpace(m.Type()) == "" {
		return adapterError("gocommand: message type is required", core.ErrorBadInput)
	}
	return nil
}

type RegistryAdapter struct {
	registry *gocmd.Registry
}

func NewRegistryAdapter(registry *gocmd.Registry) *RegistryAdapter {
	if registry == nil {
		registry = gocmd.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *gocmd.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) register(handler any) error {
	if a == nil || a.registry == nil {
		return errRegistryNotConfigured()
	}
	return a.registry.RegisterCommand(handler)
}

func (a *RegistryAdapter) AddResolver(key string, resolver gocmd.Resolver) error {
	if a == nil || a.registry == nil {
		return errRegistryNotConfigured()
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

// AddQueueResolver mirrors registered commands into a go-job queue registry
// during Initialize. Query handlers are skipped.
//
// Only ExecuteResourceMessage can run from job parameters. ExecuteMessage and
// DispatchMessage hold a core.Object interface that go-job cannot decode, so
// their mirror entries are registration only and fail when a worker runs them.
func (a *RegistryAdapter) AddQueueResolver(key string, queueRegistry *jobqueuecommand.Registry) error {
	if queueRegistry == nil {
		return adapterError("gocommand: queue registry is required", core.ErrorBadInput)
	}
	mirror := jobqueuecommand.QueueResolver(queueRegistry)
	return a.AddResolver(key, func(cmd any, meta gocmd.CommandMeta, registry *gocmd.Registry) error {
		if !isCommandHandler(cmd) {
			return nil
		}
		return mirror(cmd, meta, registry)
	})
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return errRegistryNotConfigured()
	}
	return a.registry.Initialize()
}

// Handlers groups the remote commands and queries exposed on the bus.
type Handlers struct {
	Execute         *remotecommand.ExecuteCommand
	Dispatch        *remotecommand.DispatchCommand
	ExecuteResource *remotecommand.ExecuteResourceCommand
	Preview         *remotequery.PreviewRequestQuery
	Verbs           *remotequery.ListVerbsQuery
}

// NewHandlers builds every handler on top of one dispatcher.
func NewHandlers(dispatcher *core.Dispatcher) Handlers {
	if dispatcher == nil {
		return Handlers{}
	}
	return Handlers{
		Execute:         remotecommand.NewExecuteCommand(dispatcher),
		Dispatch:        remotecommand.NewDispatchCommand(dispatcher),
		ExecuteResource: remotecommand.NewExecuteResourceCommand(dispatcher),
		Preview:         remotequery.NewPreviewRequestQuery(dispatcher),
		Verbs:           remotequery.NewListVerbsQuery(dispatcher.Configuration()),
	}
}

// Subscriptions holds the dispatcher subscriptions created by Register.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// Register subscribes every non-nil handler on the go-command dispatcher and
// records it in the registry. On failure, subscriptions made so far are
// released.
func Register(adapter *RegistryAdapter, handlers Handlers, runnerOpts ...runner.Option) (Subscriptions, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, errRegistryNotConfigured()
	}

	var subs Subscriptions
	track := func(sub commanddispatcher.Subscription, err error) error {
		if err != nil {
			subs.Unsubscribe()
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	if handlers.Execute != nil {
		if err := track(RegisterAndSubscribe[remotecommand.ExecuteMessage](adapter, handlers.Execute, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.Dispatch != nil {
		if err := track(RegisterAndSubscribe[remotecommand.DispatchMessage](adapter, handlers.Dispatch, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.ExecuteResource != nil {
		if err := track(RegisterAndSubscribe[remotecommand.ExecuteResourceMessage](adapter, handlers.ExecuteResource, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.Preview != nil {
		if err := track(RegisterAndSubscribeQuery[remotequery.PreviewRequestMessage, core.Request](adapter, handlers.Preview, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.Verbs != nil {
		if err := track(RegisterAndSubscribeQuery[remotequery.ListVerbsMessage, []remotequery.VerbDescriptor](adapter, handlers.Verbs, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if len(subs) == 0 {
		return nil, adapterError("gocommand: at least one handler is required", core.ErrorBadInput)
	}
	return subs, nil
}

func SubscribeCommand[T any](cmd gocmd.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry gocmd.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd gocmd.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, errRegistryNotConfigured()
	}
	if cmd == nil {
		return nil, adapterError("gocommand: command is required", core.ErrorBadInput)
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.register(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry gocmd.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, errRegistryNotConfigured()
	}
	if qry == nil {
		return nil, adapterError("gocommand: query is required", core.ErrorBadInput)
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.register(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// Execute sends an ExecuteMessage through the dispatcher and returns the
// result the handler stored.
func Execute(ctx context.Context, msg remotecommand.ExecuteMessage) (core.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return commanddispatcher.DispatchWithResult[remotecommand.ExecuteMessage, core.Result](ctx, msg)
}

func Preview(ctx context.Context, msg remotequery.PreviewRequestMessage) (core.Request, error) {
	return commanddispatcher.Query[remotequery.PreviewRequestMessage, core.Request](ctx, msg)
}

func ListVerbs(ctx context.Context, msg remotequery.ListVerbsMessage) ([]remotequery.VerbDescriptor, error) {
	return commanddispatcher.Query[remotequery.ListVerbsMessage, []remotequery.VerbDescriptor](ctx, msg)
}

func isCommandHandler(handler any) bool {
	if handler == nil {
		return false
	}
	_, ok := reflect.TypeOf(handler).MethodByName("Execute")
	return ok
}

func errRegistryNotConfigured() error {
	return adapterError("gocommand: registry is not configured", core.ErrorInternal)
}

func adapterError(message string, textCode string) error {
	category := goerrors.CategoryInternal
	code := http.StatusInternalServerError
	if textCode == core.ErrorBadInput {
		category = goerrors.CategoryBadInput
		code = http.StatusBadRequest
	}
	return goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
}
