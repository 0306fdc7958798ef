package withdrawals

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

var (
	ErrWithdrawalNotFound        = errors.New("withdrawal request not found")
	ErrWithdrawalInvalidDecision = errors.New("withdrawal decision must approve or reject")
)

// Filter narrows the administrative listing by a free-text term
// matched against the owner's name and email, and by status
type Filter struct {
	Term   string
	Status models.WithdrawalStatus
}

// StatusSummary is the per-status aggregate of the withdrawal requests,
// recomputed on demand for the administrative dashboard
type StatusSummary struct {
	Count  int
	Amount decimal.Decimal
}

type Summary struct {
	Pending  StatusSummary
	Approved StatusSummary
	Rejected StatusSummary
}

func (s Summary) Total() int {
	return s.Pending.Count + s.Approved.Count + s.Rejected.Count
}

type Repository interface {
	Add(context.Context, models.Withdrawal) (models.Withdrawal, error)
	GetByID(context.Context, int) (models.Withdrawal, error)
	GetListForUser(context.Context, int) ([]models.Withdrawal, error)
	List(context.Context, Filter) ([]models.Withdrawal, error)
	// SetDecision transitions a pending request to the given terminal status.
	// Deciding an already processed request
	// fails with models.ErrWithdrawalAlreadyProcessed
	SetDecision(
		ctx context.Context, id int, status models.WithdrawalStatus, reason string,
	) (models.Withdrawal, error)
	GetSummary(context.Context) (Summary, error)
}
