// Package store provides the ordered entry store behind kvfifo queues.
//
// Entries live in heap-allocated slots addressed by an ID. IDs stay valid
// until the entry is removed, including across MoveToBack, so other indexes
// can refer to entries by ID instead of by pointer. A removed ID is recycled
// for a later PushBack, but always with a fresh slot: a pointer obtained from
// Get before the removal never observes the new entry.
//
// The store is not safe for concurrent use.
package store
