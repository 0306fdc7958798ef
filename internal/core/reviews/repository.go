package reviews

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")
var ErrReviewAlreadySubmitted = errors.New("user has already reviewed this product")

// Filter narrows a moderation listing by a free-text term
// matched against the reviewer and product names, and by status
type Filter struct {
	Term   string
	Status models.ReviewStatus
}

// Summary is the aggregate moderation view,
// recomputed on demand from the review records
type Summary struct {
	Pending        int
	Approved       int
	Rejected       int
	ApprovedReward decimal.Decimal
}

type Repository interface {
	Add(context.Context, models.Review) (models.Review, error)
	GetByID(context.Context, int) (models.Review, error)
	GetListForUser(context.Context, int) ([]models.Review, error)
	List(context.Context, Filter) ([]models.Review, error)
	// SetModerated transitions a pending review to the given terminal status.
	// Attempting to moderate an already moderated review
	// fails with models.ErrReviewAlreadyModerated
	SetModerated(ctx context.Context, id int, status models.ReviewStatus) (models.Review, error)
	ExistsForUserProduct(ctx context.Context, userID, productID int) (bool, error)
	GetSummary(context.Context) (Summary, error)
	// SumRewardsForUser totals the review rewards of the user's reviews in the given status
	SumRewardsForUser(ctx context.Context, userID int, status models.ReviewStatus) (decimal.Decimal, error)
}
