// Package loop runs callbacks one at a time on a single goroutine.
//
// Timer and gesture handlers posted to a Loop never run concurrently, so the
// state they share needs no locking.
package loop

import (
	"context"
	"sync"
	"time"
)

// Loop is a single-threaded event loop.
type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

// New returns a Loop buffering up to n pending callbacks before Post blocks.
func New(n int) *Loop {
	return &Loop{
		events: make(chan func(), n),
		done:   make(chan struct{}),
	}
}

// Post queues f. It reports false if the loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- f:
		return true
	case <-l.done:
		return false
	}
}

// AfterFunc posts f once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() { l.Post(f) })
}

// Run executes posted callbacks in order until ctx is done. Callbacks still
// queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.events:
			f()
		}
	}
}
