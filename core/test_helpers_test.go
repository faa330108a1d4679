package core

import (
	"context"
	"sync"
	"testing"
)

type widget struct {
	id         string
	name       string
	fetching   bool
	payloadErr error
}

func (w *widget) IsFetching() bool { return w.fetching }

func (w *widget) FetchPayload(Verb) (any, error) {
	if w.payloadErr != nil {
		return nil, w.payloadErr
	}
	return map[string]any{"name": w.name}, nil
}

func (w *widget) ID() string { return w.id }

type guardedWidget struct {
	*widget
	allowed map[Verb]bool
	valid   bool
}

func (w *guardedWidget) ValidateAction(verb Verb) bool { return w.allowed[verb] }

func (w *guardedWidget) EntityName() string { return "widget" }

func (w *guardedWidget) IsValid() bool { return w.valid }

type basePathWidget struct {
	*widget
	path string
}

func (w *basePathWidget) APIBasePath() string { return w.path }

type transportCall func(ctx context.Context, req TransportRequest) (TransportResponse, error)

type fakeTransport struct {
	mu       sync.Mutex
	requests []TransportRequest
	do       transportCall
}

func newFakeTransport(do transportCall) *fakeTransport {
	return &fakeTransport{do: do}
}

func respondWith(status int, body string) *fakeTransport {
	return newFakeTransport(func(context.Context, TransportRequest) (TransportResponse, error) {
		return TransportResponse{StatusCode: status, Body: []byte(body)}, nil
	})
}

func (t *fakeTransport) Kind() string { return "fake" }

func (t *fakeTransport) Do(ctx context.Context, req TransportRequest) (TransportResponse, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.mu.Unlock()
	if t.do == nil {
		return TransportResponse{StatusCode: 200}, nil
	}
	return t.do(ctx, req)
}

func (t *fakeTransport) calls() []TransportRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TransportRequest, len(t.requests))
	copy(out, t.requests)
	return out
}

type recordingObserver struct {
	mu            sync.Mutex
	notifications []Notification
}

func (o *recordingObserver) Notify(_ context.Context, notification Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifications = append(o.notifications, notification)
}

func (o *recordingObserver) snapshot() []Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Notification, len(o.notifications))
	copy(out, o.notifications)
	return out
}

func (o *recordingObserver) statuses() []NotificationStatus {
	items := o.snapshot()
	out := make([]NotificationStatus, 0, len(items))
	for _, item := range items {
		out = append(out, item.Status)
	}
	return out
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
	err    error
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if l.err != nil {
		return nil, l.err
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

func newTestDispatcher(t *testing.T, transport TransportAdapter, opts ...Option) (*Dispatcher, *recordingObserver) {
	t.Helper()
	observer := &recordingObserver{}
	base := []Option{
		WithTransport(transport),
		WithObserver(observer),
		WithLogger(stubLogger{}),
		WithLoggerProvider(stubLoggerProvider{logger: stubLogger{}}),
	}
	dispatcher, err := NewDispatcher(Config{BaseURL: "http://api.test"}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return dispatcher, observer
}

func assertStatuses(t *testing.T, got []NotificationStatus, want ...NotificationStatus) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected notifications %v, got %v", want, got)
	}
	for index := range want {
		if got[index] != want[index] {
			t.Fatalf("expected notifications %v, got %v", want, got)
		}
	}
}
