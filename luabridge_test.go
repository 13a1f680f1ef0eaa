package luabridge

import (
	"runtime"
	"testing"
)

func TestCurrentThreadID_StableOnPinnedThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	first := CurrentThreadID()
	if first == 0 || first == -1 {
		t.Fatalf("thread id = %d", first)
	}
	for i := 0; i < 100; i++ {
		if got := CurrentThreadID(); got != first {
			t.Fatalf("thread id changed on a pinned thread: %d then %d", first, got)
		}
	}
}

func TestCurrentThreadID_DistinctAcrossThreads(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	mine := CurrentThreadID()

	other := make(chan ThreadID, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		other <- CurrentThreadID()
	}()

	if theirs := <-other; theirs == mine {
		t.Errorf("two pinned threads share id %d", mine)
	}
}

func TestAddress(t *testing.T) {
	var zero Address
	if !zero.IsNil() {
		t.Error("zero address should be nil")
	}
	a := Address(0xDEADBEEF)
	if a.IsNil() {
		t.Error("nonzero address reported nil")
	}
	if a.String() != "0xdeadbeef" {
		t.Errorf("String = %q", a.String())
	}
}
