// Package errors provides structured error types for the lua-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the context a failed bridge operation
// has available: the logical symbol identifier, the entry point name, and
// the offending thread ids.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindWrongThread).
//		Thread(got, want).
//		Detail("drain must run on the owner thread").
//		Build()
//
// Or use convenience constructors for the common cases:
//
//	err := errors.SymbolNotFound("lua_pcall")
//	err := errors.DispatcherClosed()
//
// All errors implement the standard error interface and support
// errors.Is/As; Is matches on (Phase, Kind).
package errors
