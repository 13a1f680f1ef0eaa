package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseImage     Phase = "image"     // host binary parsing and lookup
	PhaseConfig    Phase = "config"    // signature table loading
	PhaseResolve   Phase = "resolve"   // symbol resolution
	PhaseDispatch  Phase = "dispatch"  // cross-thread task queue
	PhaseLifecycle Phase = "lifecycle" // module load/unload
	PhaseEntry     Phase = "entry"     // host-invoked entry points
)

// Kind categorizes the error
type Kind string

const (
	KindSymbolNotFound   Kind = "symbol_not_found"
	KindWrongThread      Kind = "wrong_thread"
	KindDispatcherClosed Kind = "dispatcher_closed"
	KindCancelled        Kind = "cancelled"
	KindModuleUnloaded   Kind = "module_unloaded"
	KindGuardCaught      Kind = "guard_caught"
	KindInvalidConfig    Kind = "invalid_config"
	KindInvalidInput     Kind = "invalid_input"
	KindAlreadyBound     Kind = "already_bound"
	KindNotFound         Kind = "not_found"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause      error
	Phase      Phase
	Kind       Kind
	Identifier string
	Entry      string
	Detail     string
	GotThread  int64
	WantThread int64
	hasThreads bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Identifier != "" {
		b.WriteString(": ")
		b.WriteString(e.Identifier)
	}

	if e.Entry != "" {
		b.WriteString(" in ")
		b.WriteString(e.Entry)
	}

	if e.hasThreads {
		fmt.Fprintf(&b, " (thread %d, owner %d)", e.GotThread, e.WantThread)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Identifier sets the logical symbol identifier
func (b *Builder) Identifier(id string) *Builder {
	b.err.Identifier = id
	return b
}

// Entry sets the host entry point name
func (b *Builder) Entry(name string) *Builder {
	b.err.Entry = name
	return b
}

// Thread records the calling and owning thread ids
func (b *Builder) Thread(got, want int64) *Builder {
	b.err.GotThread = got
	b.err.WantThread = want
	b.err.hasThreads = true
	return b
}

// Detail sets a human-readable detail message
func (b *Builder) Detail(detail string) *Builder {
	b.err.Detail = detail
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// SymbolNotFound reports a required logical identifier missing from the
// host image. Fatal at load time: the lifecycle controller aborts the load.
func SymbolNotFound(identifier string) *Error {
	return &Error{Phase: PhaseResolve, Kind: KindSymbolNotFound, Identifier: identifier}
}

// WrongThread reports interpreter access from a thread that is not the
// bound owner. This is a programming error, never silently tolerated.
func WrongThread(got, want int64) *Error {
	return &Error{Phase: PhaseDispatch, Kind: KindWrongThread, GotThread: got, WantThread: want, hasThreads: true}
}

// DispatcherClosed reports a submission after the dispatcher shut down.
func DispatcherClosed() *Error {
	return &Error{Phase: PhaseDispatch, Kind: KindDispatcherClosed}
}

// Cancelled reports a task resolved without running because the owner
// thread shut down first. Final: the submitter must not retry.
func Cancelled(detail string) *Error {
	return &Error{Phase: PhaseDispatch, Kind: KindCancelled, Detail: detail}
}

// ModuleUnloaded reports a bridging call after lifecycle teardown.
func ModuleUnloaded(op string) *Error {
	return &Error{Phase: PhaseLifecycle, Kind: KindModuleUnloaded, Detail: op}
}

// GuardCaught wraps a panic value captured at a host entry boundary.
func GuardCaught(entry string, panicValue any) *Error {
	return &Error{
		Phase:  PhaseEntry,
		Kind:   KindGuardCaught,
		Entry:  entry,
		Detail: fmt.Sprintf("%v", panicValue),
	}
}

// InvalidConfig reports a malformed signature table.
func InvalidConfig(detail string) *Error {
	return &Error{Phase: PhaseConfig, Kind: KindInvalidConfig, Detail: detail}
}

// InvalidInput reports a caller-supplied value the phase cannot accept.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidInput, Detail: detail}
}

// NotFound reports a missing entity (section, export, config group).
func NotFound(phase Phase, what, name string) *Error {
	return &Error{Phase: phase, Kind: KindNotFound, Detail: what + " " + name}
}

// Wrap attaches phase and kind to an underlying error
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Cause: cause, Detail: detail}
}

// IsKind reports whether err is a bridge error of the given kind
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsSymbolNotFound reports whether err is a missing-symbol error
func IsSymbolNotFound(err error) bool { return IsKind(err, KindSymbolNotFound) }

// IsWrongThread reports whether err is an ownership violation
func IsWrongThread(err error) bool { return IsKind(err, KindWrongThread) }

// IsCancelled reports whether err is a teardown cancellation
func IsCancelled(err error) bool { return IsKind(err, KindCancelled) }

// IsDispatcherClosed reports whether err is a post-shutdown submission
func IsDispatcherClosed(err error) bool { return IsKind(err, KindDispatcherClosed) }

// IsModuleUnloaded reports whether err is a post-teardown bridging call
func IsModuleUnloaded(err error) bool { return IsKind(err, KindModuleUnloaded) }

// IsGuardCaught reports whether err is a contained panic
func IsGuardCaught(err error) bool { return IsKind(err, KindGuardCaught) }
