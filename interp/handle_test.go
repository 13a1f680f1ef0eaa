package interp

import (
	"runtime"
	"sync"
	"testing"

	"github.com/hostlink/lua-bridge/errors"
)

func TestHandle_BindAndCheck(t *testing.T) {
	h := NewHandle()

	if err := h.BindOwner(0xDEAD); err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer h.Clear()

	if err := h.Check(); err != nil {
		t.Fatalf("check on owner thread: %v", err)
	}
	if !h.IsOwnerThread() {
		t.Error("IsOwnerThread false on the binding thread")
	}

	st, err := h.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st != 0xDEAD {
		t.Errorf("state = %v, want 0xdead", st)
	}

	owner, ok := h.CurrentOwner()
	if !ok || owner == 0 {
		t.Errorf("CurrentOwner = (%v, %v)", owner, ok)
	}
}

func TestHandle_DoubleBind(t *testing.T) {
	h := NewHandle()
	if err := h.BindOwner(0x1); err != nil {
		t.Fatal(err)
	}
	defer h.Clear()

	if err := h.BindOwner(0x2); err == nil {
		t.Error("second bind must fail")
	}
}

func TestHandle_UnboundCheck(t *testing.T) {
	h := NewHandle()

	if err := h.Check(); !errors.IsModuleUnloaded(err) {
		t.Errorf("got %v, want ModuleUnloaded", err)
	}
	if h.IsOwnerThread() {
		t.Error("unbound handle claims ownership")
	}
	if _, ok := h.CurrentOwner(); ok {
		t.Error("unbound handle reports an owner")
	}
}

// Off-thread access must be detected in every trial, never silently pass.
func TestHandle_WrongThreadDetection(t *testing.T) {
	h := NewHandle()
	if err := h.BindOwner(0xABC); err != nil {
		t.Fatal(err)
	}
	defer h.Clear()

	const trials = 100
	results := make(chan error, trials)
	var wg sync.WaitGroup

	for i := 0; i < trials; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Pin so the goroutine cannot migrate onto a thread whose id
			// was sampled mid-check.
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			results <- h.Check()
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		if !errors.IsWrongThread(err) {
			t.Fatalf("off-thread check returned %v, want WrongThread", err)
		}
	}
}

func TestHandle_ClearThenCheck(t *testing.T) {
	h := NewHandle()
	if err := h.BindOwner(0x1); err != nil {
		t.Fatal(err)
	}
	if err := h.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if err := h.Check(); !errors.IsModuleUnloaded(err) {
		t.Errorf("got %v, want ModuleUnloaded after clear", err)
	}
	if _, err := h.State(); !errors.IsModuleUnloaded(err) {
		t.Errorf("state after clear returned %v, want ModuleUnloaded", err)
	}
	if err := h.Clear(); !errors.IsModuleUnloaded(err) {
		t.Errorf("double clear returned %v, want ModuleUnloaded", err)
	}
}

func TestHandle_ClearFromWrongThread(t *testing.T) {
	h := NewHandle()
	if err := h.BindOwner(0x1); err != nil {
		t.Fatal(err)
	}
	defer h.Clear()

	done := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		done <- h.Clear()
	}()

	if err := <-done; !errors.IsWrongThread(err) {
		t.Errorf("off-thread clear returned %v, want WrongThread", err)
	}
}

func TestHandle_RebindAfterClear(t *testing.T) {
	h := NewHandle()
	if err := h.BindOwner(0x1); err != nil {
		t.Fatal(err)
	}
	if err := h.Clear(); err != nil {
		t.Fatal(err)
	}

	// A fresh load on the same handle is legal once cleared.
	if err := h.BindOwner(0x2); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	defer h.Clear()

	st, err := h.State()
	if err != nil || st != 0x2 {
		t.Errorf("state = (%v, %v), want (0x2, nil)", st, err)
	}
}
