package review

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/managers"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/referrals"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/users"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/ports/transactor"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/catalog"
)

var ErrReviewInvalidRating = errors.New("review rating must be between 1 and 5")
var ErrReviewNoActiveClaim = errors.New("user has no active claim for this product")

type Service struct {
	reviews        reviews.Repository
	users          users.Repository
	referrals      referrals.Repository
	managers       managers.Repository
	catalog        catalog.Service
	transactor     transactor.Transactor
	siteFeeShare   decimal.Decimal
	affiliateShare decimal.Decimal
}

func New(
	reviews reviews.Repository,
	users users.Repository,
	referrals referrals.Repository,
	managers managers.Repository,
	catalog catalog.Service,
	transactor transactor.Transactor,
	siteFeeShare decimal.Decimal,
	affiliateShare decimal.Decimal,
) Service {
	return Service{
		reviews:        reviews,
		users:          users,
		referrals:      referrals,
		managers:       managers,
		catalog:        catalog,
		transactor:     transactor,
		siteFeeShare:   siteFeeShare,
		affiliateShare: affiliateShare,
	}
}

// SubmitReview records the user's review of a product they hold
// an active claim for. The claim is completed in the same transaction,
// and the review's reward is frozen from the product at this point
func (s Service) SubmitReview(
	ctx context.Context,
	userID, productID, rating int,
	title, body string,
) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrReviewInvalidRating
	}
	claim, err := s.catalog.GetActiveClaim(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, claims.ErrClaimNotFound) {
			return models.Review{}, ErrReviewNoActiveClaim
		}
		return models.Review{}, err
	}
	// the claim row carries a product reference only,
	// the reward is frozen from the product itself
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return models.Review{}, err
	}

	var review models.Review
	err = s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		candidate := models.NewReview(
			userID, productID, claim.ID, rating, title, body, product.Reward,
		)
		added, addErr := s.reviews.Add(txCtx, candidate)
		if addErr != nil {
			return addErr
		}
		if complErr := s.catalog.CompleteClaim(txCtx, claim.ID); complErr != nil {
			return complErr
		}
		review = added
		return nil
	})
	if err != nil {
		return models.Review{}, err
	}

	log.Info().
		Int("userID", userID).Int("productID", productID).Int("reviewID", review.ID).
		Int("rating", rating).
		Msg("Submitted review")
	return review, nil
}

// ApproveReview transitions a pending review to the approved status,
// credits the frozen reward to the reviewer, folds the rating
// into the product's average, and, if the reviewer was referred,
// accrues the referrer's commission on the platform's fee.
// An already moderated review is never transitioned again
func (s Service) ApproveReview(ctx context.Context, id int, moderatorEmail string) (models.Review, error) {
	var review models.Review
	err := s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		moderated, modErr := s.reviews.SetModerated(txCtx, id, models.ReviewStatusApproved)
		if modErr != nil {
			return modErr
		}
		if accErr := s.users.AccrueEarnings(txCtx, moderated.User.ID, moderated.Reward); accErr != nil {
			return accErr
		}
		rateErr := s.catalog.ApplyApprovedRating(txCtx, moderated.Product.ID, moderated.Rating)
		if rateErr != nil {
			return rateErr
		}
		if comErr := s.accrueAffiliateCommission(txCtx, moderated); comErr != nil {
			return comErr
		}
		review = moderated
		return nil
	})
	if err != nil {
		return models.Review{}, err
	}
	s.countModeratorApproval(ctx, moderatorEmail)
	log.Info().
		Int("reviewID", id).Int("userID", review.User.ID).
		Stringer("reward", review.Reward).
		Msg("Approved review")
	return review, nil
}

// countModeratorApproval bumps the per-manager moderation counter.
// Approvals made by admins without a manager record are not counted
func (s Service) countModeratorApproval(ctx context.Context, moderatorEmail string) {
	if moderatorEmail == "" {
		return
	}
	manager, err := s.managers.GetByEmail(ctx, moderatorEmail)
	if err != nil {
		if !errors.Is(err, managers.ErrManagerNotFound) {
			log.Error().Err(err).Str("email", moderatorEmail).Msg("Failed to resolve moderating manager")
		}
		return
	}
	if err = s.managers.CountApprovedReview(ctx, manager.ID); err != nil {
		log.Error().Err(err).Int("managerID", manager.ID).Msg("Failed to count manager approval")
	}
}

// RejectReview transitions a pending review to the rejected status.
// No reward is credited; the claim stays completed.
// An already moderated review is never transitioned again
func (s Service) RejectReview(ctx context.Context, id int) (models.Review, error) {
	review, err := s.reviews.SetModerated(ctx, id, models.ReviewStatusRejected)
	if err != nil {
		return models.Review{}, err
	}
	log.Info().
		Int("reviewID", id).Int("userID", review.User.ID).
		Msg("Rejected review")
	return review, nil
}

// GetUserReviews returns the user's reviews, newest first
func (s Service) GetUserReviews(ctx context.Context, userID int) ([]models.Review, error) {
	return s.reviews.GetListForUser(ctx, userID)
}

// ListReviews returns the reviews matching the given filter
// for the moderation console
func (s Service) ListReviews(ctx context.Context, filter reviews.Filter) ([]models.Review, error) {
	return s.reviews.List(ctx, filter)
}

// GetSummary returns per-status counts and the approved reward total
// over all reviews
func (s Service) GetSummary(ctx context.Context) (reviews.Summary, error) {
	return s.reviews.GetSummary(ctx)
}

// accrueAffiliateCommission pays out the referrer's share of the platform fee
// charged on an approved review's reward. Users that were not referred
// generate no commission
func (s Service) accrueAffiliateCommission(ctx context.Context, review models.Review) error {
	referral, err := s.referrals.GetByReferredID(ctx, review.User.ID)
	if err != nil {
		if errors.Is(err, referrals.ErrReferralNotFound) {
			return nil
		}
		return err
	}
	siteFee := review.Reward.Mul(s.siteFeeShare).Round(2)
	commission := siteFee.Mul(s.affiliateShare).Round(2)
	if recErr := s.referrals.RecordReviewEarnings(ctx, review.User.ID, siteFee, commission); recErr != nil {
		return recErr
	}
	if commission.IsPositive() {
		if accErr := s.users.AccrueEarnings(ctx, referral.Referrer.ID, commission); accErr != nil {
			return accErr
		}
	}
	log.Debug().
		Int("reviewID", review.ID).Int("referrerID", referral.Referrer.ID).
		Stringer("siteFee", siteFee).Stringer("commission", commission).
		Msg("Accrued affiliate commission")
	return nil
}
