package claims

import (
	"context"
	"errors"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

var ErrClaimNotFound = errors.New("claim not found")
var ErrClaimAlreadyActive = errors.New("user already has an active claim for this product")

type Repository interface {
	Add(context.Context, models.Claim) (models.Claim, error)
	GetByID(context.Context, int) (models.Claim, error)
	GetListForUser(context.Context, int) ([]models.Claim, error)
	SetStatus(ctx context.Context, id int, status models.ClaimStatus) error
	// HasActiveForUserProduct reports whether the user
	// currently holds an active claim for the given product
	HasActiveForUserProduct(ctx context.Context, userID, productID int) (bool, error)
}
