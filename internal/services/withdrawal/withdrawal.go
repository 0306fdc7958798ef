package withdrawal

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/users"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/withdrawals"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/ports/transactor"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/validation"
)

var ErrWithdrawalInvalidAmount = errors.New("withdrawal amount is not a valid currency amount")
var ErrWithdrawalBelowMinimum = errors.New("withdrawal amount is below the allowed minimum")
var ErrWithdrawalUnknownMethod = errors.New("unknown payment method")
var ErrWithdrawalMissingPaymentDetail = errors.New("payment method requires a payment detail")

// Eligibility describes whether the user is currently able
// to submit a withdrawal request, and if not, why
type Eligibility struct {
	Eligible  bool
	Available decimal.Decimal
	Minimum   decimal.Decimal
	Shortfall decimal.Decimal
}

type Service struct {
	withdrawals withdrawals.Repository
	users       users.Repository
	transactor  transactor.Transactor
	minimum     decimal.Decimal
}

func New(
	withdrawals withdrawals.Repository,
	users users.Repository,
	transactor transactor.Transactor,
	minimum decimal.Decimal,
) Service {
	return Service{
		withdrawals: withdrawals,
		users:       users,
		transactor:  transactor,
		minimum:     minimum,
	}
}

func (s Service) Minimum() decimal.Decimal {
	return s.minimum
}

// CheckEligibility reports whether the user's available balance
// currently clears the configured withdrawal minimum
func (s Service) CheckEligibility(ctx context.Context, userID int) (Eligibility, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Eligibility{}, err
	}
	el := Eligibility{
		Available: u.Balance.Current,
		Minimum:   s.minimum,
		Shortfall: decimal.Zero,
	}
	if u.Balance.Current.GreaterThanOrEqual(s.minimum) {
		el.Eligible = true
	} else {
		el.Shortfall = s.minimum.Sub(u.Balance.Current)
	}
	return el, nil
}

// RequestWithdrawal validates and submits a new withdrawal request
// on behalf of the user. The requested amount is moved from the available
// balance into the held balance in the same transaction the request
// is recorded in, so a pending request can never be backed
// by funds that are spendable elsewhere
func (s Service) RequestWithdrawal(
	ctx context.Context,
	userID int,
	amount decimal.Decimal,
	method models.PaymentMethod,
	paymentDetail string,
) (models.Withdrawal, error) {
	if !validation.CheckCurrencyAmount(amount) {
		return models.Withdrawal{}, ErrWithdrawalInvalidAmount
	}
	if amount.LessThan(s.minimum) {
		log.Debug().
			Int("userID", userID).
			Stringer("amount", amount).Stringer("minimum", s.minimum).
			Msg("Withdrawal amount is below the minimum")
		return models.Withdrawal{}, ErrWithdrawalBelowMinimum
	}
	if !method.Known() {
		return models.Withdrawal{}, ErrWithdrawalUnknownMethod
	}
	if method == models.PaymentMethodPayPal && paymentDetail == "" {
		return models.Withdrawal{}, ErrWithdrawalMissingPaymentDetail
	}

	var withdrawal models.Withdrawal
	err := s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		// the hold fails when the amount exceeds the available balance,
		// which also rolls back the request itself
		if holdErr := s.users.HoldFunds(txCtx, userID, amount); holdErr != nil {
			return holdErr
		}
		candidate := models.NewCandidateWithdrawal(userID, amount, method, paymentDetail)
		added, addErr := s.withdrawals.Add(txCtx, candidate)
		if addErr != nil {
			return addErr
		}
		withdrawal = added
		return nil
	})
	if err != nil {
		return models.Withdrawal{}, err
	}

	log.Info().
		Int("userID", userID).Int("withdrawalID", withdrawal.ID).
		Stringer("amount", amount).Str("method", string(method)).
		Msg("Submitted withdrawal request")
	return withdrawal, nil
}

// ApproveWithdrawal transitions a pending request to the approved status
// and settles the held funds into the user's lifetime withdrawn total.
// An already processed request is never transitioned again
func (s Service) ApproveWithdrawal(ctx context.Context, id int) (models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		decided, decErr := s.withdrawals.SetDecision(txCtx, id, models.WithdrawalStatusApproved, "")
		if decErr != nil {
			return decErr
		}
		if settleErr := s.users.SettleFunds(txCtx, decided.User.ID, decided.Amount); settleErr != nil {
			return settleErr
		}
		withdrawal = decided
		return nil
	})
	if err != nil {
		return models.Withdrawal{}, err
	}
	log.Info().
		Int("withdrawalID", id).Int("userID", withdrawal.User.ID).
		Stringer("amount", withdrawal.Amount).
		Msg("Approved withdrawal request")
	return withdrawal, nil
}

// RejectWithdrawal transitions a pending request to the rejected status,
// records the rejection reason and releases the held funds back
// to the user's available balance.
// An already processed request is never transitioned again
func (s Service) RejectWithdrawal(ctx context.Context, id int, reason string) (models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		decided, decErr := s.withdrawals.SetDecision(txCtx, id, models.WithdrawalStatusRejected, reason)
		if decErr != nil {
			return decErr
		}
		if relErr := s.users.ReleaseFunds(txCtx, decided.User.ID, decided.Amount); relErr != nil {
			return relErr
		}
		withdrawal = decided
		return nil
	})
	if err != nil {
		return models.Withdrawal{}, err
	}
	log.Info().
		Int("withdrawalID", id).Int("userID", withdrawal.User.ID).
		Stringer("amount", withdrawal.Amount).Str("reason", reason).
		Msg("Rejected withdrawal request")
	return withdrawal, nil
}

// GetUserWithdrawals returns the user's withdrawal requests,
// newest ones first
func (s Service) GetUserWithdrawals(ctx context.Context, userID int) ([]models.Withdrawal, error) {
	return s.withdrawals.GetListForUser(ctx, userID)
}

// ListWithdrawals returns the withdrawal requests matching the given filter
// for the administrative console
func (s Service) ListWithdrawals(ctx context.Context, filter withdrawals.Filter) ([]models.Withdrawal, error) {
	return s.withdrawals.List(ctx, filter)
}

// GetSummary returns per-status counts and amount totals
// over all withdrawal requests
func (s Service) GetSummary(ctx context.Context) (withdrawals.Summary, error) {
	return s.withdrawals.GetSummary(ctx)
}
