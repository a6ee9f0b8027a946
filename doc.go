// Package kvfifo provides Queue, a FIFO of key/value pairs that can also be
// inspected, reordered and drained per key.
//
// Entries leave the queue in the order they were pushed (global order). Each
// key additionally keeps its own sub-order, so PopKey removes the oldest entry
// of one key without disturbing the others, and MoveToBack sends every entry
// of a key behind all other entries. Key lookups are O(log n); keys iterate in
// sorted order.
//
// # Copies
//
// A Queue behaves like a value. Clone returns a copy that shares storage with
// its source until one of them is modified; the instance that writes first
// detaches into a private copy. Accessors that hand out a *V alias (Front,
// Back, First, Last) detach as well and mark the queue as exposed: the next
// Clone of an exposed queue copies eagerly, because the caller may still
// write through the alias. The UpdateFront family gives the same mutable
// access scoped to a callback and does not mark the queue.
//
// Move transfers the storage to a new Queue and leaves the source moved-from.
// A moved-from queue may only be the target of Assign or AssignMove, or be
// released; every other method reports ErrMovedFrom (methods without an error
// result panic with it).
//
// # Staged commits
//
// Stage returns a working copy of a queue that can be published back to it
// with Stage.Commit, or together with the stages of other queues with
// CommitAll. Publication is all-or-nothing.
//
// Queues are not safe for concurrent use, and two queues sharing storage must
// not be used from different goroutines without external synchronisation.
package kvfifo
