// Package interp holds the handle to the host's interpreter state and
// enforces its single hard rule: the state pointer is dereferenced only
// from the thread that owns it.
//
// The host binds the owner when it invokes the module's load entry point;
// that calling thread stays the owner for the module's lifetime. Every
// interpreter-touching call path asks the handle for permission first and
// gets a WrongThread error instead of a data race when asked from anywhere
// else.
//
// The handle is process-wide state with an explicit lifecycle (bind at
// load, clear at unload) and is injected into its consumers rather than
// reached through a package global, so tests substitute their own.
package interp
