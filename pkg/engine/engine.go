// Package engine owns the shell's UI-thread work queue.
//
// Work that touches UI-observable state (answering permission requests,
// page-load callbacks) is queued with Dispatch from any goroutine. The native
// embedder is woken through the callback registered with SetPlatformWake and
// calls Drain on its UI thread, which runs the queued callbacks in order.
package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/livego/shell/pkg/errors"
	"github.com/livego/shell/pkg/platform"
)

var app = newRunner()

func init() {
	platform.RegisterDispatch(Dispatch)
}

// SetPlatformWake registers the callback used to ask the embedder for a Drain
// on the UI thread. The callback must not block and must not call Drain itself.
func SetPlatformWake(fn func()) {
	app.setWake(fn)
}

// Dispatch schedules a callback to run on the UI thread during the next Drain.
// It is safe to call from any goroutine. Nil callbacks are ignored.
func Dispatch(callback func()) {
	app.dispatch(callback)
}

// Drain runs every callback queued before the call, in order, on the calling
// goroutine, which must be the UI thread. Callbacks queued while draining run
// on the next Drain. A panicking callback is reported and the rest still run.
// Returns the number of callbacks run.
func Drain() int {
	return app.drain()
}

// Run queues start for the UI thread and blocks until ctx is done or the
// embedder calls Shutdown. It returns ctx.Err() in the first case and nil in
// the second.
func Run(ctx context.Context, start func()) error {
	return app.run(ctx, start)
}

// Shutdown ends Run. The embedder calls it when the host activity is destroyed.
// Calling it more than once is safe.
func Shutdown() {
	app.shutdown()
}

type runner struct {
	mu    sync.Mutex
	queue []func()
	wake  atomic.Value // func()

	stopOnce sync.Once
	stopped  chan struct{}
}

func newRunner() *runner {
	return &runner{stopped: make(chan struct{})}
}

func (r *runner) setWake(fn func()) {
	if fn == nil {
		return
	}
	r.wake.Store(fn)
}

func (r *runner) dispatch(callback func()) {
	if callback == nil {
		return
	}
	r.mu.Lock()
	r.queue = append(r.queue, callback)
	r.mu.Unlock()

	if fn, ok := r.wake.Load().(func()); ok && fn != nil {
		fn()
	}
}

func (r *runner) drain() int {
	r.mu.Lock()
	callbacks := r.queue
	r.queue = nil
	r.mu.Unlock()

	for _, cb := range callbacks {
		runGuarded(cb)
	}
	return len(callbacks)
}

func runGuarded(cb func()) {
	defer errors.Recover("engine.Drain")
	cb()
}

func (r *runner) run(ctx context.Context, start func()) error {
	r.dispatch(start)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.stopped:
		return nil
	}
}

func (r *runner) shutdown() {
	r.stopOnce.Do(func() { close(r.stopped) })
}
