package managers

import (
	"context"
	"errors"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

var ErrManagerNotFound = errors.New("manager not found")
var ErrManagerEmailIsOccupied = errors.New("email is occupied by another manager")

type Repository interface {
	Create(context.Context, models.Manager) (models.Manager, error)
	GetByID(context.Context, int) (models.Manager, error)
	GetByEmail(context.Context, string) (models.Manager, error)
	Search(context.Context, string) ([]models.Manager, error)
	SetStatus(ctx context.Context, id int, status models.ManagerStatus) error
	// CountApprovedReview bumps the moderation counter of the manager record
	CountApprovedReview(ctx context.Context, id int) error
	Delete(context.Context, int) error
}
