package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims/db"
	mdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/managers/db"
	pdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/products/db"
	refdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/referrals/db"
	rdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews/db"
	udb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/users/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/pkg/testutils"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/catalog"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/review"
)

const claimTTL = time.Hour * 24 * 7

func prepareServices(database *db.Database) (review.Service, catalog.Service, udb.Repository, pdb.Repository) {
	users := udb.New(database)
	managers := mdb.New(database)
	products := pdb.New(database)
	claims := cdb.New(database)
	reviews := rdb.New(database)
	referrals := refdb.New(database)

	catalogService := catalog.New(products, claims, reviews, database, claimTTL)
	reviewService := review.New(
		reviews, users, referrals, managers, catalogService, database,
		decimal.RequireFromString("0.20"), decimal.RequireFromString("0.50"),
	)
	return reviewService, catalogService, users, products
}

func TestReviewService_SubmitReview_OK(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	rs, cs, users, products := prepareServices(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := products.Add(ctx, models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString("15.00"), 5,
	))

	claim, err := cs.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)

	r, err := rs.SubmitReview(ctx, u.ID, p.ID, 5, "Great sound", "Very happy with these")
	require.NoError(t, err)
	assert.True(t, r.ID > 0)
	assert.Equal(t, models.ReviewStatusPending, r.Status)
	assert.Equal(t, "15", r.Reward.String())
	assert.Nil(t, r.ModeratedAt)

	// the claim is fulfilled by the submission
	userClaims, _ := cs.GetUserClaims(ctx, u.ID)
	require.Len(t, userClaims, 1)
	assert.Equal(t, claim.ID, userClaims[0].ID)
	assert.Equal(t, models.ClaimStatusCompleted, userClaims[0].Status)

	// no reward is credited until the review is approved
	u, _ = users.GetByID(ctx, u.ID)
	assert.Equal(t, "0", u.Balance.Current.String())
}

func TestReviewService_SubmitReview_FreezesRewardFromProduct(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	rs, cs, users, products := prepareServices(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := products.Add(ctx, models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString("15.00"), 5,
	))

	_, err := cs.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)
	r, err := rs.SubmitReview(ctx, u.ID, p.ID, 5, "Great sound", "Very happy with these")
	require.NoError(t, err)
	assert.Equal(t, "15", r.Reward.String())

	// bumping the product reward does not affect the submitted review
	p.Reward = decimal.RequireFromString("25.00")
	require.NoError(t, products.Update(ctx, p))

	approved, err := rs.ApproveReview(ctx, r.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "15", approved.Reward.String())

	u, _ = users.GetByID(ctx, u.ID)
	assert.Equal(t, "15", u.Balance.Current.String())
}

func TestReviewService_SubmitReview_RequiresClaim(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	rs, _, users, products := prepareServices(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := products.Add(ctx, models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString("15.00"), 5,
	))

	_, err := rs.SubmitReview(ctx, u.ID, p.ID, 4, "Great sound", "Very happy with these")
	require.ErrorIs(t, err, review.ErrReviewNoActiveClaim)
}

func TestReviewService_ApproveReview_CreditsReward(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	rs, cs, users, products := prepareServices(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := products.Add(ctx, models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString("15.00"), 5,
	))

	_, err := cs.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)
	r, err := rs.SubmitReview(ctx, u.ID, p.ID, 4, "Great sound", "Very happy with these")
	require.NoError(t, err)

	approved, err := rs.ApproveReview(ctx, r.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, approved.Status)
	require.NotNil(t, approved.ModeratedAt)

	// the frozen reward lands on the reviewer's available balance
	u, _ = users.GetByID(ctx, u.ID)
	assert.Equal(t, "15", u.Balance.Current.String())

	// the rating is folded into the product's running average
	p, _ = products.GetByID(ctx, p.ID)
	assert.Equal(t, "4", p.Rating.String())
	assert.Equal(t, 1, p.ReviewCount)
}

func TestReviewService_ApproveReview_PaysAffiliateCommission(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	rs, cs, users, products := prepareServices(database)
	referrals := refdb.New(database)

	referrer, _ := users.Create(ctx, models.NewUser("Alex", "alex@example.com", "str0ng", "REF-ALEX"))
	referred, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	_, err := referrals.Add(ctx, models.NewReferral(referrer.ID, referred.ID))
	require.NoError(t, err)

	p, _ := products.Add(ctx, models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString("20.00"), 5,
	))

	_, err = cs.ClaimProduct(ctx, referred.ID, p.ID)
	require.NoError(t, err)
	r, err := rs.SubmitReview(ctx, referred.ID, p.ID, 5, "Great sound", "Very happy with these")
	require.NoError(t, err)

	_, err = rs.ApproveReview(ctx, r.ID, "")
	require.NoError(t, err)

	// reviewer keeps the full reward
	referred, _ = users.GetByID(ctx, referred.ID)
	assert.Equal(t, "20", referred.Balance.Current.String())

	// the referrer earns half of the 20% platform fee: 20.00 * 0.20 * 0.50
	referrer, _ = users.GetByID(ctx, referrer.ID)
	assert.Equal(t, "2", referrer.Balance.Current.String())

	stats, err := referrals.GetStatsForReferrer(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReferrals)
	assert.Equal(t, 1, stats.ActiveReferrals)
	assert.Equal(t, "4", stats.SiteFees.String())
	assert.Equal(t, "2", stats.Commission.String())

	// platform-wide totals match, there is only one referrer
	totals, err := referrals.GetTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.TotalReferrals)
	assert.Equal(t, "4", totals.SiteFees.String())
	assert.Equal(t, "2", totals.Commission.String())
}

func TestReviewService_ModerationIsFinal(t *testing.T) {
	tests := []struct {
		name   string
		first  models.ReviewStatus
		second models.ReviewStatus
	}{
		{
			"approve then approve",
			models.ReviewStatusApproved,
			models.ReviewStatusApproved,
		},
		{
			"approve then reject",
			models.ReviewStatusApproved,
			models.ReviewStatusRejected,
		},
		{
			"reject then approve",
			models.ReviewStatusRejected,
			models.ReviewStatusApproved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.TODO()
			_, database, cancel := testutils.PrepareTestDatabase()
			defer cancel()

			rs, cs, users, products := prepareServices(database)

			u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
			p, _ := products.Add(ctx, models.NewProduct(
				"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
				decimal.RequireFromString("89.99"), decimal.RequireFromString("15.00"), 5,
			))

			_, err := cs.ClaimProduct(ctx, u.ID, p.ID)
			require.NoError(t, err)
			r, err := rs.SubmitReview(ctx, u.ID, p.ID, 4, "Great sound", "Very happy with these")
			require.NoError(t, err)

			moderate := func(status models.ReviewStatus) error {
				if status == models.ReviewStatusApproved {
					_, modErr := rs.ApproveReview(ctx, r.ID, "")
					return modErr
				}
				_, modErr := rs.RejectReview(ctx, r.ID)
				return modErr
			}

			require.NoError(t, moderate(tt.first))
			require.ErrorIs(t, moderate(tt.second), models.ErrReviewAlreadyModerated)

			// a double approval must not credit the reward twice
			u, _ = users.GetByID(ctx, u.ID)
			if tt.first == models.ReviewStatusApproved {
				assert.Equal(t, "15", u.Balance.Current.String())
			} else {
				assert.Equal(t, "0", u.Balance.Current.String())
			}
		})
	}
}

func TestReviewService_GetSummary(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	rs, cs, users, products := prepareServices(database)

	p, _ := products.Add(ctx, models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString("15.00"), 5,
	))

	reviewIDs := make([]int, 0, 3)
	for i, email := range []string{"u1@example.com", "u2@example.com", "u3@example.com"} {
		u, err := users.Create(ctx, models.NewUser("User", email, "str0ng", "REF-"+email))
		require.NoError(t, err)
		_, err = cs.ClaimProduct(ctx, u.ID, p.ID)
		require.NoError(t, err)
		r, err := rs.SubmitReview(ctx, u.ID, p.ID, 3+i, "Fine", "It works")
		require.NoError(t, err)
		reviewIDs = append(reviewIDs, r.ID)
	}

	_, err := rs.ApproveReview(ctx, reviewIDs[0], "")
	require.NoError(t, err)
	_, err = rs.RejectReview(ctx, reviewIDs[1])
	require.NoError(t, err)

	summary, err := rs.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.Approved)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, "15", summary.ApprovedReward.String())
}
