package kvfifo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQueue is returned by operations that need at least one entry.
	ErrEmptyQueue = errors.New("kvfifo: queue is empty")
	// ErrUnknownKey is returned by key-scoped operations on an absent key.
	ErrUnknownKey = errors.New("kvfifo: no element with given key")
	// ErrMovedFrom is returned (or panicked with) when a moved-from queue is
	// used for anything but assignment or release.
	ErrMovedFrom = errors.New("kvfifo: queue was moved from")
)

func unknownKey[K any](key K) error {
	return fmt.Errorf("%w: %v", ErrUnknownKey, key)
}
