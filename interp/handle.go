package interp

import (
	"runtime"
	"sync"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
)

// Handle pairs the opaque interpreter state pointer with the identity of
// the one thread permitted to use it.
type Handle struct {
	mu    sync.RWMutex
	state luabridge.Address
	owner luabridge.ThreadID
	bound bool
}

func NewHandle() *Handle {
	return &Handle{}
}

// BindOwner records the calling thread as the interpreter owner and pins
// the calling goroutine to it. Called exactly once, from the thread the
// host used to invoke the load entry point; a second bind is an error.
func (h *Handle) BindOwner(state luabridge.Address) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bound {
		return errors.New(errors.PhaseLifecycle, errors.KindAlreadyBound).
			Detail("interpreter owner already bound").
			Build()
	}

	// The goroutine must stay on this OS thread or the recorded identity
	// means nothing. Unpinned again in Clear.
	runtime.LockOSThread()

	h.state = state
	h.owner = luabridge.CurrentThreadID()
	h.bound = true
	return nil
}

// CurrentOwner returns the owning thread id, if an owner is bound.
func (h *Handle) CurrentOwner() (luabridge.ThreadID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.owner, h.bound
}

// IsOwnerThread reports whether the caller runs on the owning thread.
func (h *Handle) IsOwnerThread() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bound && luabridge.CurrentThreadID() == h.owner
}

// Check is the gate every interpreter-touching call passes first. It
// returns ModuleUnloaded when no owner is bound and WrongThread when called
// off the owning thread.
func (h *Handle) Check() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.bound {
		return errors.ModuleUnloaded("interpreter access")
	}
	if got := luabridge.CurrentThreadID(); got != h.owner {
		return errors.WrongThread(int64(got), int64(h.owner))
	}
	return nil
}

// State returns the interpreter state pointer after a successful ownership
// check.
func (h *Handle) State() (luabridge.Address, error) {
	if err := h.Check(); err != nil {
		return 0, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, nil
}

// Clear drops the owner binding at unload. Runs on the owner thread (the
// host invokes the unload entry point there); clearing from another thread
// leaves that thread's goroutine pinned, so it is checked.
func (h *Handle) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.bound {
		return errors.ModuleUnloaded("clear")
	}
	if got := luabridge.CurrentThreadID(); got != h.owner {
		return errors.WrongThread(int64(got), int64(h.owner))
	}

	runtime.UnlockOSThread()
	h.state = 0
	h.owner = 0
	h.bound = false
	return nil
}
