package domain

import "fmt"

// Channel is the delivery mechanism for a verification code.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "mobile"
)

// ParseChannel maps an inbound method string to a Channel.
// Anything outside {email, mobile} is a client error.
func ParseChannel(method string) (Channel, error) {
	switch Channel(method) {
	case ChannelEmail:
		return ChannelEmail, nil
	case ChannelSMS:
		return ChannelSMS, nil
	default:
		return "", fmt.Errorf("invalid verification method %q: %w", method, ErrBadRequest)
	}
}

// VerificationRecord is one outstanding, unredeemed verification challenge.
// PK: receiver (email address or phone number).
// ExpiresAt is a Unix timestamp; it doubles as the DynamoDB TTL attribute.
type VerificationRecord struct {
	Receiver  string `json:"receiver" dynamodbav:"receiver"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
