// Package luabridge is a safety and ergonomics layer over the native C API
// of a closed game engine host that embeds a Lua scripting runtime.
//
// Extension modules built on this library run inside the host's process and
// must honor three hard rules the host itself never checks: the interpreter
// state is touched from exactly one thread, no panic may unwind across a
// host-invoked entry point, and the host's internal functions are reached by
// runtime address discovery rather than static linkage.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	lua-bridge/          Root package with shared primitives (Address, ThreadID)
//	├── bridge/          Module lifecycle controller and host entry surface
//	├── dispatch/        Cross-thread task queue drained on the owner thread
//	├── guard/           Panic containment at every host-invoked boundary
//	├── interp/          Interpreter handle and owner-thread enforcement
//	├── resolver/        Logical symbol resolution against a host image
//	├── image/           Read-only views of the host's loaded binaries
//	└── errors/          Structured error types shared across packages
//
// # Quick Start
//
// The host's load entry point constructs a controller and opens it on the
// thread the host called in on; that thread becomes the interpreter owner:
//
//	ctl := bridge.NewController(logger)
//	code := ctl.Open(img, cfg, hostVersion, platform, luaState)
//
// Worker threads never touch interpreter state directly. They submit work
// to the dispatcher and the host's per-tick callback drains it:
//
//	d, _ := ctl.Dispatcher()
//	result, err := d.SubmitBlocking(func(st luabridge.Address) (any, error) {
//	    // runs on the owner thread, interpreter access is legal here
//	    return 42, nil
//	})
//
// # Thread Safety
//
// Dispatcher submission is safe from any goroutine. Everything that
// dereferences interpreter state runs only on the owner thread; calls from
// any other thread fail with a WrongThread error rather than racing.
package luabridge
