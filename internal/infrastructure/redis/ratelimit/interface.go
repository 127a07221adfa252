package ratelimit

import "context"

//go:generate mockgen -source=interface.go -destination=mock/limiter_mock.go -package=mock

// Limiter counts requests in a sliding window stored as a Redis sorted set.
type Limiter interface {
	// CheckAndRecord admits and records the request, or denies it without recording.
	CheckAndRecord(ctx context.Context, identity string, policy Policy) (*Admission, error)
}
