package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := SymbolNotFound("lua_pcall")
	msg := err.Error()

	if !strings.Contains(msg, "[resolve]") {
		t.Errorf("message %q missing phase", msg)
	}
	if !strings.Contains(msg, "symbol_not_found") {
		t.Errorf("message %q missing kind", msg)
	}
	if !strings.Contains(msg, "lua_pcall") {
		t.Errorf("message %q missing identifier", msg)
	}
}

func TestError_ThreadContext(t *testing.T) {
	err := WrongThread(42, 7)
	msg := err.Error()

	if !strings.Contains(msg, "thread 42") || !strings.Contains(msg, "owner 7") {
		t.Errorf("message %q missing thread ids", msg)
	}
	if err.GotThread != 42 || err.WantThread != 7 {
		t.Errorf("got threads (%d, %d), want (42, 7)", err.GotThread, err.WantThread)
	}
}

func TestError_Is(t *testing.T) {
	err := DispatcherClosed()

	if !stderrors.Is(err, DispatcherClosed()) {
		t.Error("Is should match same phase and kind")
	}
	if stderrors.Is(err, Cancelled("teardown")) {
		t.Error("Is should not match a different kind")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("mapped region vanished")
	err := Wrap(PhaseImage, KindInvalidInput, cause, "read section")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "mapped region vanished") {
		t.Errorf("message %q missing cause", err.Error())
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseEntry, KindGuardCaught).
		Entry("module_open").
		Thread(11, 11).
		Detail("index out of range").
		Build()

	if err.Phase != PhaseEntry || err.Kind != KindGuardCaught {
		t.Fatalf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	msg := err.Error()
	if !strings.Contains(msg, "module_open") || !strings.Contains(msg, "index out of range") {
		t.Errorf("message %q missing builder fields", msg)
	}
}

func TestKindPredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
		name string
	}{
		{SymbolNotFound("lua_gettop"), IsSymbolNotFound, "IsSymbolNotFound"},
		{WrongThread(1, 2), IsWrongThread, "IsWrongThread"},
		{Cancelled("teardown"), IsCancelled, "IsCancelled"},
		{DispatcherClosed(), IsDispatcherClosed, "IsDispatcherClosed"},
		{ModuleUnloaded("drain"), IsModuleUnloaded, "IsModuleUnloaded"},
		{GuardCaught("tick", "boom"), IsGuardCaught, "IsGuardCaught"},
	}

	for _, c := range cases {
		if !c.pred(c.err) {
			t.Errorf("%s failed on its own error", c.name)
		}
	}

	if IsSymbolNotFound(fmt.Errorf("plain")) {
		t.Error("predicate matched a plain error")
	}

	wrapped := fmt.Errorf("submit: %w", Cancelled("teardown"))
	if !IsCancelled(wrapped) {
		t.Error("predicate should see through fmt.Errorf wrapping")
	}
}
