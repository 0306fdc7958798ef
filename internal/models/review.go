package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

var ErrReviewAlreadyModerated = errors.New("review has already been moderated")

// Review is a user's write-up of a claimed product.
// The reward is copied from the product at submission time,
// so that later product edits do not change what the reviewer is owed
type Review struct {
	ID          int
	User        User
	Product     Product
	ClaimID     int
	Rating      int
	Title       string
	Body        string
	Reward      decimal.Decimal
	Status      ReviewStatus
	SubmittedAt time.Time
	ModeratedAt *time.Time
}

func NewReview(userID, productID, claimID, rating int, title, body string, reward decimal.Decimal) Review {
	return Review{
		User:        NewUserFromID(userID),
		Product:     Product{ID: productID},
		ClaimID:     claimID,
		Rating:      rating,
		Title:       title,
		Body:        body,
		Reward:      reward,
		Status:      ReviewStatusPending,
		SubmittedAt: time.Now(),
	}
}

// Moderated reports whether the review has reached a terminal status
func (r Review) Moderated() bool {
	return r.Status != ReviewStatusPending
}

// Moderate transitions a pending review to either of the terminal statuses.
// Moderating an already moderated review is an invalid operation
func (r *Review) Moderate(status ReviewStatus, at time.Time) error {
	if r.Moderated() {
		return ErrReviewAlreadyModerated
	}
	r.Status = status
	r.ModeratedAt = &at
	return nil
}
