package products

import (
	"context"
	"errors"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

var ErrProductNotFound = errors.New("product not found")
var ErrProductOutOfStock = errors.New("product has no instances left in stock")

// Filter narrows a product listing by a free-text term,
// a category and/or availability
type Filter struct {
	Term          string
	Category      string
	OnlyAvailable bool
}

type Repository interface {
	Add(context.Context, models.Product) (models.Product, error)
	GetByID(context.Context, int) (models.Product, error)
	List(context.Context, Filter) ([]models.Product, error)
	Update(context.Context, models.Product) error
	SetAvailability(ctx context.Context, id int, available bool) error
	Delete(context.Context, int) error
	// HoldInstance reserves one product instance for a claim,
	// failing with ErrProductOutOfStock when none are left
	HoldInstance(context.Context, int) error
	// ReleaseInstance returns a reserved instance back to stock,
	// used when a claim expires without a review
	ReleaseInstance(context.Context, int) error
	// ApplyReviewRating folds an approved review's rating
	// into the product's running average and review count
	ApplyReviewRating(ctx context.Context, id int, rating int) error
	// Categories returns the distinct product categories present in the catalog
	Categories(context.Context) ([]string, error)
}
