package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral links a referred user to the referrer who brought them in.
// SiteFees accumulates the platform's cut of the referred user's
// review rewards; Commission is the referrer's share of those fees
type Referral struct {
	ID           int
	Referrer     User
	Referred     User
	TotalReviews int
	SiteFees     decimal.Decimal
	Commission   decimal.Decimal
	CreatedAt    time.Time
}

func NewReferral(referrerID, referredID int) Referral {
	return Referral{
		Referrer:  NewUserFromID(referrerID),
		Referred:  NewUserFromID(referredID),
		CreatedAt: time.Now(),
	}
}

// AffiliateStats is the aggregate view of a referrer's affiliate program standing,
// recomputed on demand from the referral records
type AffiliateStats struct {
	TotalReferrals  int
	ActiveReferrals int
	SiteFees        decimal.Decimal
	Commission      decimal.Decimal
}
