package dispatch

import (
	"sync/atomic"

	luabridge "github.com/hostlink/lua-bridge"
)

// Fn is one unit of cross-thread work. It runs on the owner thread and
// receives the interpreter state pointer, the only context in which
// touching it is legal.
type Fn func(state luabridge.Address) (any, error)

// TaskState tracks a task through its lifetime.
type TaskState int32

const (
	TaskPending TaskState = iota
	TaskRunning
	TaskCompleted
	TaskCancelled
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	}
	return "unknown"
}

type outcome struct {
	value any
	err   error
}

// task pairs the boxed callable with its one-shot completion channel.
// done is nil for fire-and-forget submissions.
type task struct {
	fn    Fn
	done  chan outcome
	state atomic.Int32
}

func (t *task) setState(s TaskState) { t.state.Store(int32(s)) }

func (t *task) State() TaskState { return TaskState(t.state.Load()) }

// resolve delivers the outcome to the submitter, if one is waiting. The
// channel is buffered so resolution never blocks the owner thread.
func (t *task) resolve(value any, err error) {
	if t.done != nil {
		t.done <- outcome{value: value, err: err}
	}
}
