package model

import "time"

// PendingKind discriminates the two awaiting-reply actions.
type PendingKind string

const (
	PendingCategory    PendingKind = "category"
	PendingTransaction PendingKind = "transaction"
)

// Pending is a stored yes/no question tied to one user. At most one
// exists per user; storing a new one discards an unresolved prior one.
// CreatedAt is recorded so staleness can be checked against a
// configurable TTL before the answer is acted upon.
type Pending struct {
	Kind PendingKind

	// Category suggestion fields (Kind == PendingCategory).
	RawCategory       string
	SuggestedCategory string

	// Transaction confirmation fields (Kind == PendingTransaction).
	Draft *Draft

	CreatedAt time.Time
}

// Expired reports whether the pending action is older than ttl.
// A zero ttl means pending actions never expire.
func (p *Pending) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(p.CreatedAt) > ttl
}
