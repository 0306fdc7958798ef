package referrals

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

var ErrReferralNotFound = errors.New("referral not found")
var ErrReferralAlreadyRegistered = errors.New("user has already been referred")

type Repository interface {
	Add(context.Context, models.Referral) (models.Referral, error)
	// GetByReferredID returns the referral record that brought the given user in, if any
	GetByReferredID(context.Context, int) (models.Referral, error)
	GetListForReferrer(context.Context, int) ([]models.Referral, error)
	// RecordReviewEarnings accumulates an approved review's site fee
	// and the referrer's commission on the referred user's record
	RecordReviewEarnings(ctx context.Context, referredID int, siteFee, commission decimal.Decimal) error
	GetStatsForReferrer(context.Context, int) (models.AffiliateStats, error)
	// GetTotals aggregates the affiliate numbers across all referrers
	GetTotals(context.Context) (models.AffiliateStats, error)
}
