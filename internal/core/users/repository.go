package users

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserEmailIsOccupied = errors.New("email is occupied by another user")
var ErrUserHasInsufficientBalance = errors.New("user has insufficient available balance")
var ErrUserHasInsufficientHeldFunds = errors.New("user has insufficient held funds")
var ErrUserCantMoveNegativeSum = errors.New("cannot move a non-positive sum between balances")

type Repository interface {
	Create(context.Context, models.User) (models.User, error)
	GetByID(context.Context, int) (models.User, error)
	GetByEmail(context.Context, string) (models.User, error)
	GetByReferralCode(context.Context, string) (models.User, error)
	Search(context.Context, string) ([]models.User, error)
	SetStatus(ctx context.Context, id int, status models.UserStatus) error
	Delete(context.Context, int) error
	// AccrueEarnings adds the given amount to the user's available balance
	AccrueEarnings(ctx context.Context, userID int, amount decimal.Decimal) error
	// HoldFunds reserves the given amount of the user's available balance
	// for a pending withdrawal request
	HoldFunds(ctx context.Context, userID int, amount decimal.Decimal) error
	// ReleaseFunds returns a previously held amount back to the available balance
	ReleaseFunds(ctx context.Context, userID int, amount decimal.Decimal) error
	// SettleFunds moves a previously held amount into the lifetime withdrawn total
	SettleFunds(ctx context.Context, userID int, amount decimal.Decimal) error
}
