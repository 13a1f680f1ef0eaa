// Package bridge drives the module's lifecycle against the host's plugin
// protocol: the load entry point, the unload entry point, and the per-tick
// callback in between.
//
// The controller owns the pieces the rest of the library shares: the
// interpreter handle (owner bound at load), the resolved symbol table
// (published only when resolution fully succeeds), and the dispatcher
// (closed, with pending tasks cancelled, at unload). State moves
// Unloaded → Initializing → Ready → ShuttingDown → Unloaded; a failed
// initialization falls straight back to Unloaded and the host keeps
// running.
//
// Every method the host can invoke runs inside the unwind guard.
package bridge
