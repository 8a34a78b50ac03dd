package cache

import "errors"

var (
	// ErrUnknownResource is returned when a resource id is not present in
	// the registry the cache was constructed with.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrMutationPending is returned by TryBeginMutation while another
	// mutation of the same resource is still in flight. The caller must
	// wait for the outstanding write to settle; the cache never queues.
	ErrMutationPending = errors.New("mutation already pending")
)
