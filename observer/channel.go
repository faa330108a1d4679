// Package observer provides notification consumers for the dispatcher:
// channel delivery, fan-out and a per object in-flight state store.
package observer

import (
	"context"

	"github.com/goliatone/go-remote/core"
)

// Channel forwards notifications to a channel. A send blocks until the
// receiver is ready or ctx is done, in which case the notification is
// dropped.
type Channel struct {
	out chan<- core.Notification
}

func NewChannel(out chan<- core.Notification) *Channel {
	return &Channel{out: out}
}

func (c *Channel) Notify(ctx context.Context, notification core.Notification) {
	if c == nil || c.out == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case c.out <- notification:
	case <-ctx.Done():
	}
}

var _ core.Observer = (*Channel)(nil)
