package affiliate

import (
	"context"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/referrals"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

type Service struct {
	referrals referrals.Repository
}

func New(referrals referrals.Repository) Service {
	return Service{referrals: referrals}
}

// GetStats returns the aggregate affiliate numbers for the user:
// referral counts and the lifetime fee and commission totals
func (s Service) GetStats(ctx context.Context, userID int) (models.AffiliateStats, error) {
	return s.referrals.GetStatsForReferrer(ctx, userID)
}

// GetReferralHistory returns the user's referrals, newest first
func (s Service) GetReferralHistory(ctx context.Context, userID int) ([]models.Referral, error) {
	return s.referrals.GetListForReferrer(ctx, userID)
}

// GetPlatformTotals returns the program-wide affiliate numbers
// for the administrative console
func (s Service) GetPlatformTotals(ctx context.Context) (models.AffiliateStats, error) {
	return s.referrals.GetTotals(ctx)
}
