package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
	"github.com/hostlink/lua-bridge/guard"
	"github.com/hostlink/lua-bridge/interp"
)

// Dispatcher is the cross-thread work queue: multi-producer, drained by
// the single owner thread.
type Dispatcher struct {
	handle  *interp.Handle
	mu      sync.Mutex
	queue   []*task
	closed  bool
	pending atomic.Int64
}

// New creates a dispatcher bound to the interpreter handle that defines
// the owning thread.
func New(handle *interp.Handle) *Dispatcher {
	return &Dispatcher{handle: handle}
}

// SubmitBlocking enqueues fn and blocks the calling thread until the owner
// thread has executed it, returning fn's result. Callable from any thread.
//
// The wait ends in one of exactly three ways: the task ran (its own result),
// the dispatcher closed before it ran (Cancelled), or the dispatcher was
// already closed (DispatcherClosed). There is no timeout; the cadence is
// the host's tick.
//
// The owner thread itself must not submit blocking work: it is the only
// drainer, so the wait could never end. Such calls fail immediately.
func (d *Dispatcher) SubmitBlocking(fn Fn) (any, error) {
	if d.handle.IsOwnerThread() {
		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if closed {
			return nil, errors.DispatcherClosed()
		}
		return nil, errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
			Detail("blocking submit from the owner thread can never drain").
			Build()
	}
	t := &task{fn: fn, done: make(chan outcome, 1)}
	if err := d.enqueue(t); err != nil {
		return nil, err
	}
	out := <-t.done
	return out.value, out.err
}

// SubmitAsync enqueues fn without waiting for its result. A failure inside
// fn is surfaced through the guard reporting sink, not returned.
func (d *Dispatcher) SubmitAsync(fn Fn) error {
	return d.enqueue(&task{fn: fn})
}

func (d *Dispatcher) enqueue(t *task) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return errors.DispatcherClosed()
	}
	d.queue = append(d.queue, t)
	d.pending.Add(1)
	d.mu.Unlock()
	return nil
}

// DrainPending executes every task queued at the time of the call, in
// submission order, on the owner thread. The host's per-tick callback is
// the intended caller. Draining with an empty queue is a no-op.
//
// Each task body runs inside the unwind guard: a panicking task resolves
// as GuardCaught and draining continues with the next task.
func (d *Dispatcher) DrainPending() (int, error) {
	if err := d.handle.Check(); err != nil {
		return 0, err
	}

	if d.pending.Load() == 0 {
		return 0, nil
	}

	d.mu.Lock()
	batch := d.queue
	d.queue = nil
	d.mu.Unlock()

	st, err := d.handle.State()
	if err != nil {
		// The handle was cleared between the check and here; put the
		// batch back for Close to cancel.
		d.requeue(batch)
		return 0, err
	}

	for _, t := range batch {
		d.runTask(st, t)
		d.pending.Add(-1)
	}
	return len(batch), nil
}

func (d *Dispatcher) runTask(st luabridge.Address, t *task) {
	t.setState(TaskRunning)

	var value any
	err := guard.Protect("dispatch.task", func() error {
		v, ferr := t.fn(st)
		value = v
		return ferr
	})

	if err != nil {
		t.setState(TaskCompleted)
		t.resolve(nil, err)
		if t.done == nil && !errors.IsGuardCaught(err) {
			// Fire-and-forget failures have no waiting submitter; the
			// side channel is the only place they can surface.
			guard.Report(guard.Event{
				Kind:    guard.EventKindPanic,
				Message: fmt.Sprintf("async task failed: %v", err),
				Thread:  int64(luabridge.CurrentThreadID()),
			})
		}
		return
	}

	t.setState(TaskCompleted)
	t.resolve(value, nil)
}

// requeue puts a snapshotted batch back at the head of the queue. If the
// dispatcher closed in the meantime the batch is resolved as Cancelled
// instead; nothing will drain it and its submitters must not stay blocked.
func (d *Dispatcher) requeue(batch []*task) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.cancel(batch)
		return
	}
	d.queue = append(batch, d.queue...)
	d.mu.Unlock()
}

// Close transitions the dispatcher to its closed state and resolves every
// pending task as Cancelled so no submitter is left blocked. Further
// submissions fail with DispatcherClosed. Callable from any thread;
// idempotent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	orphans := d.queue
	d.queue = nil
	d.mu.Unlock()

	d.cancel(orphans)
}

func (d *Dispatcher) cancel(batch []*task) {
	for _, t := range batch {
		t.setState(TaskCancelled)
		t.resolve(nil, errors.Cancelled("dispatcher closed before execution"))
		d.pending.Add(-1)
		guard.Report(guard.Event{
			Kind:    guard.EventKindCancelled,
			Message: "pending task cancelled at teardown",
			Thread:  int64(luabridge.CurrentThreadID()),
		})
	}
}

// Len returns the number of tasks awaiting execution.
func (d *Dispatcher) Len() int { return int(d.pending.Load()) }

// IsEmpty reports whether no tasks await execution.
func (d *Dispatcher) IsEmpty() bool { return d.Len() == 0 }
