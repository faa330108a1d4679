package core

import (
	"context"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Object is the domain entity a verb is applied to. The pipeline only reads
// it and hands it back untouched inside notifications.
type Object interface {
	IsFetching() bool
	FetchPayload(verb Verb) (any, error)
	ID() string
}

// ActionValidator lets an object reject a verb before any request is built.
type ActionValidator interface {
	ValidateAction(verb Verb) bool
}

// APIBasePather reports the class-level collection path of an object.
type APIBasePather interface {
	APIBasePath() string
}

// Namer reports the class name used to derive the collection path.
type Namer interface {
	EntityName() string
}

type Validatable interface {
	IsValid() bool
}

type Observer interface {
	Notify(ctx context.Context, notification Notification)
}

type ObserverFunc func(ctx context.Context, notification Notification)

func (f ObserverFunc) Notify(ctx context.Context, notification Notification) {
	if f == nil {
		return
	}
	f(ctx, notification)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              http.Header
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// TransportFactory builds an adapter once the dispatcher configuration has
// been resolved.
type TransportFactory func(cfg Config) (TransportAdapter, error)

type IDGenerator func() string

type Clock func() time.Time
