// Package notify delivers verification codes to receivers. One Dispatcher
// per channel; adding a channel means adding an implementation, not touching
// branching logic anywhere else.
package notify

import (
	"context"
	"time"
)

// Dispatcher hands a verification code to an external transport. The ttl is
// used only to phrase the expiry notice in the message. Implementations
// capture every transport-level failure and report it through the returned
// error — nothing panics through to the caller, and no retries happen at
// this layer.
type Dispatcher interface {
	Send(ctx context.Context, receiver, code string, ttl time.Duration) error
}
