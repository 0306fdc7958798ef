package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	udb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/users/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/withdrawals"
	wdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/withdrawals/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/pkg/testutils"
)

func TestWithdrawalsRepo_Add_OK(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	users := udb.New(database)
	repo := wdb.New(database)

	u, err := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	require.NoError(t, err)

	before := time.Now()
	candidate := models.NewCandidateWithdrawal(
		u.ID, decimal.RequireFromString("100"), models.PaymentMethodPayPal, "sarah@example.com",
	)
	w, err := repo.Add(ctx, candidate)
	require.NoError(t, err)
	assert.True(t, w.ID > 0)

	w, err = repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, w.User.ID)
	assert.Equal(t, "Sarah", w.User.Name)
	assert.Equal(t, "100", w.Amount.String())
	assert.Equal(t, models.PaymentMethodPayPal, w.Method)
	assert.Equal(t, "sarah@example.com", w.PaymentDetail)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.True(t, !w.SubmittedAt.Before(before))
	assert.Nil(t, w.ProcessedAt)
	assert.Equal(t, "", w.RejectionReason)
}

func TestWithdrawalsRepo_GetByID_NotFound(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	repo := wdb.New(database)
	_, err := repo.GetByID(ctx, 9999999)
	require.ErrorIs(t, err, withdrawals.ErrWithdrawalNotFound)
}

func TestWithdrawalsRepo_SetDecision(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	users := udb.New(database)
	repo := wdb.New(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))

	approve, _ := repo.Add(ctx, models.NewCandidateWithdrawal(
		u.ID, decimal.RequireFromString("100"), models.PaymentMethodBank, "",
	))
	reject, _ := repo.Add(ctx, models.NewCandidateWithdrawal(
		u.ID, decimal.RequireFromString("60"), models.PaymentMethodVenmo, "",
	))

	approved, err := repo.SetDecision(ctx, approve.ID, models.WithdrawalStatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)
	assert.Equal(t, "", approved.RejectionReason)

	rejected, err := repo.SetDecision(ctx, reject.ID, models.WithdrawalStatusRejected, "suspicious activity")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, rejected.Status)
	require.NotNil(t, rejected.ProcessedAt)
	assert.Equal(t, "suspicious activity", rejected.RejectionReason)

	// a processed request cannot be decided again
	_, err = repo.SetDecision(ctx, approve.ID, models.WithdrawalStatusRejected, "nope")
	require.ErrorIs(t, err, models.ErrWithdrawalAlreadyProcessed)
	_, err = repo.SetDecision(ctx, reject.ID, models.WithdrawalStatusApproved, "")
	require.ErrorIs(t, err, models.ErrWithdrawalAlreadyProcessed)

	// and the original decision stands
	unchanged, err := repo.GetByID(ctx, approve.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, unchanged.Status)

	_, err = repo.SetDecision(ctx, 9999999, models.WithdrawalStatusApproved, "")
	require.ErrorIs(t, err, withdrawals.ErrWithdrawalNotFound)
}

func TestWithdrawalsRepo_List_Filtering(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	users := udb.New(database)
	repo := wdb.New(database)

	sarah, _ := users.Create(ctx, models.NewUser("Sarah Mitchell", "sarah@example.com", "str0ng", "REF-SARAH"))
	alex, _ := users.Create(ctx, models.NewUser("Alex Johnson", "alex@example.com", "str0ng", "REF-ALEX1"))

	w1, _ := repo.Add(ctx, models.NewCandidateWithdrawal(
		sarah.ID, decimal.RequireFromString("100"), models.PaymentMethodBank, "",
	))
	_, err := repo.SetDecision(ctx, w1.ID, models.WithdrawalStatusApproved, "")
	require.NoError(t, err)
	_, _ = repo.Add(ctx, models.NewCandidateWithdrawal(
		sarah.ID, decimal.RequireFromString("60"), models.PaymentMethodBank, "",
	))
	_, _ = repo.Add(ctx, models.NewCandidateWithdrawal(
		alex.ID, decimal.RequireFromString("75"), models.PaymentMethodVenmo, "",
	))

	all, err := repo.List(ctx, withdrawals.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bySarah, err := repo.List(ctx, withdrawals.Filter{Term: "sarah"})
	require.NoError(t, err)
	assert.Len(t, bySarah, 2)

	pending, err := repo.List(ctx, withdrawals.Filter{Status: models.WithdrawalStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	pendingSarah, err := repo.List(ctx, withdrawals.Filter{Term: "mitchell", Status: models.WithdrawalStatusPending})
	require.NoError(t, err)
	require.Len(t, pendingSarah, 1)
	assert.Equal(t, "60", pendingSarah[0].Amount.String())

	forAlex, err := repo.GetListForUser(ctx, alex.ID)
	require.NoError(t, err)
	require.Len(t, forAlex, 1)
	assert.Equal(t, "75", forAlex[0].Amount.String())
}
