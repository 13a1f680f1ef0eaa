// Package guard contains abnormal termination at the boundary between
// extension code and the host.
//
// The host's code is not built to handle unwinding across the module
// boundary: a panic escaping through a host-invoked entry point is
// undefined behavior for the whole process, not just the module. Every
// function pointer handed to the host is therefore wrapped in Run, which
// stops the panic at the boundary, reports it through the package's
// reporting sink, and hands the host a safe default return code.
//
// This is a hard correctness rule, not an optimization: no entry point may
// omit the guard.
package guard
