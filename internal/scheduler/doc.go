// Package scheduler implements the spec's cooperative task-per-group
// concurrency model (§5): one worker goroutine per selected group; tasks
// share no mutable Context, only the lock-guarded varscope.Pool. The only
// suspension points inside a worker are: acquiring the pool lock,
// delay-sleep between repeats, Sender.send, and the event channel send —
// matching §5's enumerated list exactly. A worker acquires the pool lock
// exactly twice per job: once to snapshot a local Context at job start
// (NewContext), once to merge at job end (Merge); between the two it uses
// only its local Context, so the hot path (the network call) never holds
// the lock. Cross-group visibility of merged globals is therefore
// non-deterministic by construction, as §5 requires implementers to
// document.
package scheduler
