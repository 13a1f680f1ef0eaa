package guard

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"go.uber.org/zap"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
)

// Event is the structured record emitted for every failure the bridge
// contains: a caught panic, or a task cancelled at teardown.
type Event struct {
	// Kind is the failure category: "panic" or "cancelled".
	Kind string
	// Message describes the failure, including the entry point name.
	Message string
	// Thread is the id of the thread the failure occurred on.
	Thread int64
}

// EventKindPanic and EventKindCancelled are the Kind values the bridge emits.
const (
	EventKindPanic     = "panic"
	EventKindCancelled = "cancelled"
)

// Reporter is the process-wide sink failures are surfaced through. The
// default logs via the package logger; hosts with their own crash-reporting
// channel install a Reporter over it.
type Reporter interface {
	Report(Event)
}

type zapReporter struct{}

func (zapReporter) Report(ev Event) {
	Logger().Error("contained failure",
		zap.String("kind", ev.Kind),
		zap.String("message", ev.Message),
		zap.Int64("thread", ev.Thread))
}

// reporterHolder gives atomic.Value a single concrete type to store,
// regardless of the Reporter implementation installed.
type reporterHolder struct{ r Reporter }

var reporter atomic.Value // reporterHolder

func init() {
	reporter.Store(reporterHolder{zapReporter{}})
}

// SetReporter installs the process-wide failure sink.
func SetReporter(r Reporter) {
	if r == nil {
		r = zapReporter{}
	}
	reporter.Store(reporterHolder{r})
}

// Report emits one structured failure event through the installed sink.
func Report(ev Event) {
	reporter.Load().(reporterHolder).r.Report(ev)
}

// Run executes a host-invoked entry point inside the unwind boundary. On a
// panic it reports exactly one event and returns the safe default return
// code; the panic never reaches the host's call stack.
func Run(entry string, fn func() luabridge.HostReturnCode) (ret luabridge.HostReturnCode) {
	defer func() {
		if r := recover(); r != nil {
			report(entry, r)
			ret = luabridge.HostOK
		}
	}()
	return fn()
}

// Protect executes library-internal work (a dispatched task body) inside
// the same boundary, converting a panic into a GuardCaught error for the
// caller instead of a return code for the host.
func Protect(entry string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			report(entry, r)
			err = errors.GuardCaught(entry, r)
		}
	}()
	return fn()
}

func report(entry string, panicValue any) {
	Report(Event{
		Kind:    EventKindPanic,
		Message: fmt.Sprintf("%s: %v", entry, panicValue),
		Thread:  int64(luabridge.CurrentThreadID()),
	})
	Logger().Debug("panic trace",
		zap.String("entry", entry),
		zap.ByteString("stack", debug.Stack()))
}
