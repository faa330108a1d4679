package observer

import (
	"context"

	"github.com/goliatone/go-remote/core"
)

// Fanout delivers every notification to each observer in registration order.
type Fanout struct {
	observers []core.Observer
}

func NewFanout(observers ...core.Observer) *Fanout {
	fanout := &Fanout{}
	for _, observer := range observers {
		fanout.Add(observer)
	}
	return fanout
}

// Add is not safe for use concurrently with Notify.
func (f *Fanout) Add(observer core.Observer) {
	if f == nil || observer == nil {
		return
	}
	f.observers = append(f.observers, observer)
}

func (f *Fanout) Len() int {
	if f == nil {
		return 0
	}
	return len(f.observers)
}

func (f *Fanout) Notify(ctx context.Context, notification core.Notification) {
	if f == nil {
		return
	}
	for _, observer := range f.observers {
		observer.Notify(ctx, notification)
	}
}

var _ core.Observer = (*Fanout)(nil)
