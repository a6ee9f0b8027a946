// Package core coordinates all-or-nothing publication of staged queue state.
//
// A commit runs in two phases. Every Participant is asked to prepare in
// registration order; preparation must not change anything a reader can see.
// Only when all participants prepared successfully and the context is still
// live are the publish callbacks run, in registration order. Otherwise the
// abort callbacks of the already prepared participants run in reverse order
// and the error is returned.
package core
