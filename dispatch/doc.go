// Package dispatch marshals work from arbitrary threads onto the
// interpreter's owning thread.
//
// Worker threads never touch interpreter state directly; they submit
// closures here. The owner thread drains the queue from the host's
// per-tick callback, so every closure runs with legal interpreter access,
// in submission order, and never concurrently with another task.
//
// The critical liveness property is that no blocking submitter waits
// forever: when the module tears down before a task runs, the task is
// resolved as Cancelled and its submitter unblocked, and submissions
// against a closed dispatcher fail immediately.
package dispatch
