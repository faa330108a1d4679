package gocommand

import (
	"context"
	"net/http"
	"testing"

	gocmd "github.com/goliatone/go-command"
	job "github.com/goliatone/go-job"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	remotecommand "github.com/goliatone/go-remote/command"
	"github.com/goliatone/go-remote/core"
	remotequery "github.com/goliatone/go-remote/query"
)

type widget struct {
	id string
}

func (w *widget) IsFetching() bool { return false }

func (w *widget) FetchPayload(core.Verb) (any, error) {
	return map[string]any{"id": w.id}, nil
}

func (w *widget) ID() string { return w.id }

type okTransport struct {
	calls int
	last  core.TransportRequest
}

func (t *okTransport) Kind() string { return "ok" }

func (t *okTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	t.calls++
	t.last = req
	return core.TransportResponse{StatusCode: http.StatusOK, Body: []byte(`{"name":"a"}`)}, nil
}

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

func newDispatcher(t *testing.T, transport core.TransportAdapter) *core.Dispatcher {
	t.Helper()
	dispatcher, err := core.NewDispatcher(core.Config{BaseURL: "http://api.test"}, core.WithTransport(transport))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return dispatcher
}

func TestValidateMessageContract(t *testing.T) {
	valid := remotecommand.ExecuteMessage{Object: &widget{id: "1"}, Method: http.MethodGet, Verb: core.VerbFetch}
	if err := ValidateMessageContract(valid); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(remotecommand.ExecuteMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegisterRoutesRemoteMessages(t *testing.T) {
	transport := &okTransport{}
	adapter := NewRegistryAdapter(nil)

	subs, err := Register(adapter, NewHandlers(newDispatcher(t, transport)))
	if err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	t.Cleanup(subs.Unsubscribe)
	if len(subs) != 5 {
		t.Fatalf("expected five subscriptions, got %d", len(subs))
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	result, err := Execute(context.Background(), remotecommand.ExecuteMessage{
		Object: &widget{id: "7"},
		Method: http.MethodPut,
		Verb:   core.VerbSaveUpdate,
	})
	if err != nil {
		t.Fatalf("execute through bus: %v", err)
	}
	if result.Status != core.ResultSucceeded || transport.calls != 1 {
		t.Fatalf("expected one successful dispatch, got %#v after %d calls", result, transport.calls)
	}

	preview, err := Preview(context.Background(), remotequery.PreviewRequestMessage{
		Object: &widget{id: "7"},
		Method: http.MethodDelete,
		Verb:   core.VerbDelete,
	})
	if err != nil {
		t.Fatalf("preview through bus: %v", err)
	}
	if preview.URL != "http://api.test/widgets/7" || transport.calls != 1 {
		t.Fatalf("expected preview without transport call, got %q", preview.URL)
	}

	verbs, err := ListVerbs(context.Background(), remotequery.ListVerbsMessage{Scope: core.VerbScopeCollection})
	if err != nil {
		t.Fatalf("list verbs through bus: %v", err)
	}
	if len(verbs) != 3 {
		t.Fatalf("expected three collection verbs, got %d", len(verbs))
	}
}

func TestQueueResolverMirrorsCommandsOnly(t *testing.T) {
	adapter := NewRegistryAdapter(gocmd.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if !adapter.HasResolver(" queue ") {
		t.Fatalf("expected queue resolver to be registered")
	}
	subs, err := Register(adapter, NewHandlers(newDispatcher(t, &okTransport{})))
	if err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	t.Cleanup(subs.Unsubscribe)
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	for _, id := range []string{remotecommand.TypeExecute, remotecommand.TypeDispatch} {
		if _, ok := queueRegistry.Get(id); !ok {
			t.Fatalf("expected %q to be mirrored into queue registry", id)
		}
	}
	if _, ok := queueRegistry.Get(remotequery.TypePreviewRequest); ok {
		t.Fatalf("expected queries to stay out of the queue registry")
	}
}

func TestQueuedResourceExecuteRunsThroughWorkerTask(t *testing.T) {
	adapter := NewRegistryAdapter(gocmd.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()
	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	transport := &okTransport{}
	subs, err := Register(adapter, NewHandlers(newDispatcher(t, transport)))
	if err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	t.Cleanup(subs.Unsubscribe)
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	msg := remotecommand.ExecuteResourceMessage{
		Resource: remotecommand.Resource{Entity: "widget", Identifier: "7", Payload: map[string]any{"name": "a"}},
		Method:   http.MethodPut,
		Verb:     core.VerbSaveUpdate,
	}
	task := jobqueuecommand.NewTask(queueRegistry, remotecommand.TypeExecuteResource)
	if err := task.Execute(context.Background(), &job.ExecutionMessage{Parameters: msg.Parameters()}); err != nil {
		t.Fatalf("run queued execute: %v", err)
	}
	if transport.calls != 1 {
		t.Fatalf("expected one transport call from the worker task, got %d", transport.calls)
	}
	if transport.last.URL != "http://api.test/widgets/7" || string(transport.last.Body) != `{"name":"a"}` {
		t.Fatalf("unexpected queued request %s %q", transport.last.URL, string(transport.last.Body))
	}

	invalid := jobqueuecommand.NewTask(queueRegistry, remotecommand.TypeExecuteResource)
	if err := invalid.Execute(context.Background(), &job.ExecutionMessage{Parameters: map[string]any{"method": "GET"}}); err == nil {
		t.Fatalf("expected queued message without resource entity to fail")
	}
}

func TestRegisterRequiresHandlers(t *testing.T) {
	if _, err := Register(nil, Handlers{}); err == nil {
		t.Fatalf("expected nil adapter to fail")
	}
	if _, err := Register(NewRegistryAdapter(nil), NewHandlers(nil)); err == nil {
		t.Fatalf("expected empty handler set to fail")
	}
	if err := NewRegistryAdapter(nil).AddQueueResolver("queue", nil); err == nil {
		t.Fatalf("expected nil queue registry to fail")
	}
}
