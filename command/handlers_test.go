package command

import (
	"context"
	"errors"
	"net/http"
	"testing"

	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-remote/core"
)

type widget struct {
	id   string
	name string
}

func (w *widget) IsFetching() bool { return false }

func (w *widget) FetchPayload(core.Verb) (any, error) {
	return map[string]any{"name": w.name}, nil
}

func (w *widget) ID() string { return w.id }

type stubExecutor struct {
	executeFn func(ctx context.Context, obj core.Object, method string, verb core.Verb, options ...core.BuildOption) (core.Result, error)
}

func (s stubExecutor) Execute(
	ctx context.Context,
	obj core.Object,
	method string,
	verb core.Verb,
	options ...core.BuildOption,
) (core.Result, error) {
	return s.executeFn(ctx, obj, method, verb, options...)
}

type stubRequestDispatcher struct {
	dispatchFn func(ctx context.Context, req core.Request) (core.Result, error)
}

func (s stubRequestDispatcher) Dispatch(ctx context.Context, req core.Request) (core.Result, error) {
	return s.dispatchFn(ctx, req)
}

type staticTransport struct {
	status int
	body   string
	last   core.TransportRequest
}

func (t *staticTransport) Kind() string { return "static" }

func (t *staticTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	t.last = req
	return core.TransportResponse{StatusCode: t.status, Body: []byte(t.body)}, nil
}

func TestExecuteCommand_DelegatesAndStoresResult(t *testing.T) {
	expected := core.Result{DispatchID: "d-1", Status: core.ResultSucceeded, StatusCode: http.StatusOK}
	called := false
	executor := stubExecutor{
		executeFn: func(_ context.Context, obj core.Object, method string, verb core.Verb, options ...core.BuildOption) (core.Result, error) {
			called = true
			if obj.ID() != "7" || method != http.MethodPut || verb != core.VerbSaveUpdate {
				t.Fatalf("unexpected execute arguments: %s %s %s", obj.ID(), method, verb)
			}
			if len(options) != 0 {
				t.Fatalf("expected no build options without body override")
			}
			return expected, nil
		},
	}

	cmd := NewExecuteCommand(executor)
	collector := gocmd.NewResult[core.Result]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, ExecuteMessage{Object: &widget{id: "7"}, Method: http.MethodPut, Verb: core.VerbSaveUpdate})
	if err != nil {
		t.Fatalf("execute command: %v", err)
	}
	if !called {
		t.Fatalf("expected executor invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.DispatchID != expected.DispatchID || result.Status != expected.Status {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestExecuteCommand_ReturnsBuildErrors(t *testing.T) {
	sentinel := errors.New("validation failed")
	cmd := NewExecuteCommand(stubExecutor{
		executeFn: func(context.Context, core.Object, string, core.Verb, ...core.BuildOption) (core.Result, error) {
			return core.Result{}, sentinel
		},
	})
	collector := gocmd.NewResult[core.Result]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, ExecuteMessage{Object: &widget{id: "1"}, Method: http.MethodGet, Verb: core.VerbFetch})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected executor error, got %v", err)
	}
	if _, ok := collector.Load(); ok {
		t.Fatalf("expected no stored result on error")
	}
}

func TestExecuteCommand_BodyOverrideReachesTransport(t *testing.T) {
	transport := &staticTransport{status: http.StatusOK, body: `{"saved":true}`}
	dispatcher, err := core.NewDispatcher(core.Config{BaseURL: "http://api.test"}, core.WithTransport(transport))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	collector := gocmd.NewResult[core.Result]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)
	err = NewExecuteCommand(dispatcher).Execute(ctx, ExecuteMessage{
		Object: &widget{id: "7", name: "a"},
		Method: http.MethodPut,
		Verb:   core.VerbSaveUpdate,
		Body:   map[string]any{"name": "override"},
	})
	if err != nil {
		t.Fatalf("execute command: %v", err)
	}
	if string(transport.last.Body) != `{"name":"override"}` {
		t.Fatalf("expected override body, got %q", string(transport.last.Body))
	}
	result, _ := collector.Load()
	if result.Status != core.ResultSucceeded {
		t.Fatalf("expected succeeded result, got %#v", result)
	}
}

func TestDispatchCommand_DelegatesAndStoresResult(t *testing.T) {
	req := core.Request{URL: "http://api.test/widgets/1", Method: http.MethodGet, Verb: core.VerbFetch, Object: &widget{id: "1"}}
	cmd := NewDispatchCommand(stubRequestDispatcher{
		dispatchFn: func(_ context.Context, got core.Request) (core.Result, error) {
			if got.URL != req.URL {
				t.Fatalf("unexpected request %q", got.URL)
			}
			return core.Result{Status: core.ResultFailed, StatusCode: http.StatusNotFound}, nil
		},
	})
	collector := gocmd.NewResult[core.Result]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := cmd.Execute(ctx, DispatchMessage{Request: req}); err != nil {
		t.Fatalf("execute dispatch: %v", err)
	}
	result, ok := collector.Load()
	if !ok || result.StatusCode != http.StatusNotFound {
		t.Fatalf("expected stored failed result, got %#v", result)
	}
}

func TestMessages_ValidateReturnsRichError(t *testing.T) {
	cases := map[string]interface{ Validate() error }{
		"execute without object":  ExecuteMessage{Method: http.MethodGet, Verb: core.VerbFetch},
		"execute without method":  ExecuteMessage{Object: &widget{}, Verb: core.VerbFetch},
		"execute without verb":    ExecuteMessage{Object: &widget{}, Method: http.MethodGet},
		"dispatch without object": DispatchMessage{Request: core.Request{URL: "http://api.test", Method: http.MethodGet}},
		"dispatch without url":    DispatchMessage{Request: core.Request{Object: &widget{}, Method: http.MethodGet}},
	}
	for name, msg := range cases {
		err := msg.Validate()
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			t.Fatalf("%s: expected go-errors envelope, got %T", name, err)
		}
		if rich.Category != goerrors.CategoryValidation {
			t.Fatalf("%s: expected validation category, got %q", name, rich.Category)
		}
		if rich.TextCode != core.ErrorBadInput {
			t.Fatalf("%s: expected %q text code, got %q", name, core.ErrorBadInput, rich.TextCode)
		}
	}

	valid := ExecuteMessage{Object: &widget{}, Method: http.MethodGet, Verb: core.VerbFetch}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if valid.Type() != TypeExecute || (DispatchMessage{}).Type() != TypeDispatch {
		t.Fatalf("unexpected message types")
	}
}

func TestCommands_NilDependencyReturnsRichError(t *testing.T) {
	var execute *ExecuteCommand
	err := execute.Execute(context.Background(), ExecuteMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal envelope, got %v", err)
	}

	if err := NewDispatchCommand(nil).Execute(context.Background(), DispatchMessage{}); err == nil {
		t.Fatalf("expected dispatcher dependency error")
	}
}

func TestExecuteResourceCommand_DispatchesPlainResource(t *testing.T) {
	transport := &staticTransport{status: http.StatusOK, body: `{"id":7,"name":"a"}`}
	dispatcher, err := core.NewDispatcher(core.Config{BaseURL: "http://api.test"}, core.WithTransport(transport))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	collector := gocmd.NewResult[core.Result]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)
	err = NewExecuteResourceCommand(dispatcher).Execute(ctx, ExecuteResourceMessage{
		Resource: Resource{Entity: "widget", Identifier: "7", Payload: map[string]any{"name": "a"}},
		Method:   http.MethodPut,
		Verb:     core.VerbSaveUpdate,
	})
	if err != nil {
		t.Fatalf("execute resource command: %v", err)
	}
	if transport.last.URL != "http://api.test/widgets/7" || string(transport.last.Body) != `{"name":"a"}` {
		t.Fatalf("unexpected request %s %q", transport.last.URL, string(transport.last.Body))
	}
	result, _ := collector.Load()
	if result.Status != core.ResultSucceeded {
		t.Fatalf("expected succeeded result, got %#v", result)
	}
}

func TestExecuteResourceCommand_ValidatesBeforeDispatch(t *testing.T) {
	called := false
	cmd := NewExecuteResourceCommand(stubExecutor{
		executeFn: func(context.Context, core.Object, string, core.Verb, ...core.BuildOption) (core.Result, error) {
			called = true
			return core.Result{}, nil
		},
	})
	err := cmd.Execute(context.Background(), ExecuteResourceMessage{Method: http.MethodGet, Verb: core.VerbFetch})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatalf("expected no dispatch for an invalid message")
	}
}

func TestExecuteResourceMessage_ParametersRoundTrip(t *testing.T) {
	msg := ExecuteResourceMessage{
		Resource: Resource{Entity: "widget", Identifier: "7", Payload: map[string]any{"name": "a"}},
		Method:   http.MethodPut,
		Verb:     core.VerbSaveUpdate,
	}
	params := msg.Parameters()
	resource, ok := params["resource"].(map[string]any)
	if !ok || resource["entity"] != "widget" || resource["id"] != "7" {
		t.Fatalf("unexpected resource params %#v", params["resource"])
	}
	if params["method"] != http.MethodPut || params["verb"] != string(core.VerbSaveUpdate) {
		t.Fatalf("unexpected params %#v", params)
	}
	if msg.Type() != TypeExecuteResource {
		t.Fatalf("unexpected message type %q", msg.Type())
	}
}
