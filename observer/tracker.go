package observer

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-remote/core"
	"github.com/puzpuzpuz/xsync/v3"
)

// ObjectState is what the tracker remembers about one object.
type ObjectState struct {
	Key        string
	InFlight   bool
	DispatchID string
	Verb       core.Verb
	StatusCode int
	Data       any
	Err        error
	UpdatedAt  time.Time
}

// InFlightTracker is a reference state store driven by notifications. It
// marks an object in flight on start and clears the flag on the terminal
// notification, keeping the last data or error.
type InFlightTracker struct {
	states *xsync.MapOf[string, ObjectState]
	logger core.Logger
	clock  core.Clock
}

type TrackerOption func(*InFlightTracker)

func WithTrackerLogger(logger core.Logger) TrackerOption {
	return func(t *InFlightTracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithTrackerClock(clock core.Clock) TrackerOption {
	return func(t *InFlightTracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func NewInFlightTracker(opts ...TrackerOption) *InFlightTracker {
	tracker := &InFlightTracker{
		states: xsync.NewMapOf[string, ObjectState](),
		logger: glog.Nop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(tracker)
		}
	}
	return tracker
}

func (t *InFlightTracker) Notify(ctx context.Context, notification core.Notification) {
	if t == nil {
		return
	}
	key := core.ObjectKey(notification.Object)
	if key == "" {
		return
	}
	state, _ := t.states.Compute(key, func(previous ObjectState, _ bool) (ObjectState, bool) {
		next := previous
		next.Key = key
		next.DispatchID = notification.DispatchID
		next.Verb = notification.Verb
		next.UpdatedAt = t.clock()
		switch notification.Status {
		case core.NotificationStart:
			next.InFlight = true
		case core.NotificationSuccess:
			next.InFlight = false
			next.StatusCode = notification.StatusCode
			next.Data = notification.Data
			next.Err = nil
		case core.NotificationError:
			next.InFlight = false
			next.StatusCode = notification.StatusCode
			next.Err = notification.Err
		}
		return next, false
	})

	logger := t.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	logger.Debug("tracked object updated",
		"key", key,
		"status", string(notification.Status),
		"in_flight", state.InFlight,
		"dispatch_id", notification.DispatchID,
	)
}

func (t *InFlightTracker) IsFetching(obj core.Object) bool {
	state, ok := t.State(obj)
	return ok && state.InFlight
}

func (t *InFlightTracker) State(obj core.Object) (ObjectState, bool) {
	if t == nil {
		return ObjectState{}, false
	}
	key := core.ObjectKey(obj)
	if key == "" {
		return ObjectState{}, false
	}
	return t.states.Load(key)
}

func (t *InFlightTracker) Forget(obj core.Object) {
	if t == nil {
		return
	}
	if key := core.ObjectKey(obj); key != "" {
		t.states.Delete(key)
	}
}

func (t *InFlightTracker) Len() int {
	if t == nil {
		return 0
	}
	return t.states.Size()
}

var _ core.Observer = (*InFlightTracker)(nil)
