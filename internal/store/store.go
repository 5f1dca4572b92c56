// Package store defines the verification store contract shared by all
// backends. The store owns every pending verification record: callers only
// interact through Put and Consume, and a record can be redeemed at most
// once.
package store

import (
	"context"
	"time"
)

// Store holds at most one pending verification code per receiver.
type Store interface {
	// Put creates or replaces the record for receiver with the given code
	// and an expiry of now + ttl. A prior pending record is overwritten
	// silently.
	Put(ctx context.Context, receiver, code string, ttl time.Duration) error

	// Consume looks up the record for receiver and decides in one atomic
	// step:
	//   - absent                       -> false, no side effect
	//   - present but expired         -> record deleted, false
	//   - present, live, code matches -> record deleted, true
	//   - present, live, code differs -> record kept (retry allowed), false
	// The bool is the verification verdict; the error reports backend I/O
	// failures only and is always nil for the in-memory backend.
	Consume(ctx context.Context, receiver, code string) (bool, error)
}
