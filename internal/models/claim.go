package models

import (
	"time"
)

type ClaimStatus string

const (
	ClaimStatusActive    ClaimStatus = "active"
	ClaimStatusCompleted ClaimStatus = "completed"
	ClaimStatusExpired   ClaimStatus = "expired"
)

// Claim reserves a single product instance for a user
// for the purpose of writing a review.
// The reservation is valid until ExpiresAt;
// an overdue claim is expired and its product instance is released
type Claim struct {
	ID        int
	User      User
	Product   Product
	Status    ClaimStatus
	ClaimedAt time.Time
	ExpiresAt time.Time
}

func NewClaim(userID, productID int, ttl time.Duration) Claim {
	now := time.Now()
	return Claim{
		User:      NewUserFromID(userID),
		Product:   Product{ID: productID},
		Status:    ClaimStatusActive,
		ClaimedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Overdue reports whether an active claim has outlived its review window
func (c Claim) Overdue(now time.Time) bool {
	return c.Status == ClaimStatusActive && now.After(c.ExpiresAt)
}
