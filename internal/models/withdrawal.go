package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodVenmo  PaymentMethod = "venmo"
)

// KnownPaymentMethods is the closed set of payout methods the platform supports
var KnownPaymentMethods = []PaymentMethod{ // nolint: gochecknoglobals
	PaymentMethodPayPal,
	PaymentMethodBank,
	PaymentMethodVenmo,
}

func (m PaymentMethod) Known() bool {
	for _, known := range KnownPaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

var ErrWithdrawalAlreadyProcessed = errors.New("withdrawal request has already been processed")

// Withdrawal is a request for a payout of the user's earned rewards.
// The amount is fixed at submission time and never revised afterwards.
// A request starts out pending and is moved to one of the two terminal
// statuses, approved or rejected, by an administrative decision.
// Requests are never deleted, terminal ones remain visible as audit records
type Withdrawal struct {
	ID              int
	User            User
	Amount          decimal.Decimal
	Method          PaymentMethod
	PaymentDetail   string
	Status          WithdrawalStatus
	SubmittedAt     time.Time
	ProcessedAt     *time.Time
	RejectionReason string
}

func NewCandidateWithdrawal(userID int, amount decimal.Decimal, method PaymentMethod, detail string) Withdrawal {
	return Withdrawal{
		User:          NewUserFromID(userID),
		Amount:        amount,
		Method:        method,
		PaymentDetail: detail,
		Status:        WithdrawalStatusPending,
		SubmittedAt:   time.Now(),
	}
}

// Processed reports whether the request has reached a terminal status
func (w Withdrawal) Processed() bool {
	return w.Status != WithdrawalStatusPending
}

// Approve transitions a pending request to the approved status,
// stamping the processing time.
// Deciding an already processed request is an invalid operation
func (w *Withdrawal) Approve(at time.Time) error {
	if w.Processed() {
		return ErrWithdrawalAlreadyProcessed
	}
	w.Status = WithdrawalStatusApproved
	w.ProcessedAt = &at
	return nil
}

// Reject transitions a pending request to the rejected status,
// stamping the processing time and optionally attaching a reason
func (w *Withdrawal) Reject(at time.Time, reason string) error {
	if w.Processed() {
		return ErrWithdrawalAlreadyProcessed
	}
	w.Status = WithdrawalStatusRejected
	w.ProcessedAt = &at
	w.RejectionReason = reason
	return nil
}
