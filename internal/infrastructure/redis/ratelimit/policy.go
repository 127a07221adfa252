package ratelimit

import "time"

// Policy bounds how many requests one identity may make per sliding window.
type Policy struct {
	Name        string
	Window      time.Duration
	MaxRequests int64
}

// Admission is the decision for a single request.
type Admission struct {
	Allowed   bool
	Remaining int64
	// ResetTime is when the oldest counted request leaves the window.
	ResetTime time.Time
}

// RetryAfter returns how long a denied caller should wait, never negative.
func (a *Admission) RetryAfter(now time.Time) time.Duration {
	return max(a.ResetTime.Sub(now), 0)
}

// PurchasePolicy limits purchase attempts per buyer.
func PurchasePolicy(window time.Duration, maxRequests int64) Policy {
	return Policy{Name: "purchase", Window: window, MaxRequests: maxRequests}
}

// GeneralPolicy limits requests per client origin.
func GeneralPolicy(window time.Duration, maxRequests int64) Policy {
	return Policy{Name: "general", Window: window, MaxRequests: maxRequests}
}
