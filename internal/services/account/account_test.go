package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	refdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/referrals/db"
	rdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews/db"
	udb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/users/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/pkg/testutils"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/account"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/security/hasher"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/security/hasher/bcrypt"
)

func prepareAccountService(database *db.Database) (account.Service, udb.Repository) {
	users := udb.New(database)
	svc := account.New(users, rdb.New(database), refdb.New(database), bcrypt.New())
	return svc, users
}

// prepareAccountServiceNoopHash skips the cost of bcrypt
// for the tests where hashing itself is not under test
func prepareAccountServiceNoopHash(database *db.Database) account.Service {
	return account.New(
		udb.New(database), rdb.New(database), refdb.New(database), hasher.NewNoopPasswordHasher(),
	)
}

func TestAccountService_RegisterNewUser_OK(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, _ := prepareAccountService(database)

	u, err := svc.RegisterNewUser(ctx, "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)
	assert.True(t, u.ID > 0)
	assert.Equal(t, "sarah@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, models.UserStatusActive, u.Status)
	// every account gets its own referral code
	assert.Contains(t, u.ReferralCode, "REF-")
	// the password is stored hashed
	assert.NotEqual(t, "str0ng", u.Password)
}

func TestAccountService_RegisterNewUser_DuplicateEmail(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, _ := prepareAccountService(database)

	_, err := svc.RegisterNewUser(ctx, "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)
	_, err = svc.RegisterNewUser(ctx, "Other Sarah", "Sarah@example.com", "secr3t", "")
	require.ErrorIs(t, err, account.ErrRegisterEmailOccupied)
}

func TestAccountService_RegisterNewUser_WithReferralCode(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, _ := prepareAccountService(database)
	referrals := refdb.New(database)

	referrer, err := svc.RegisterNewUser(ctx, "Alex", "alex@example.com", "str0ng", "")
	require.NoError(t, err)

	referred, err := svc.RegisterNewUser(ctx, "Sarah", "sarah@example.com", "secr3t", referrer.ReferralCode)
	require.NoError(t, err)

	ref, err := referrals.GetByReferredID(ctx, referred.ID)
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, ref.Referrer.ID)

	// a bogus code fails registration before anything is persisted
	_, err = svc.RegisterNewUser(ctx, "Eve", "eve@example.com", "secr3t", "REF-NOSUCH")
	require.ErrorIs(t, err, account.ErrRegisterUnknownReferralCode)
}

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, users := prepareAccountService(database)

	u, err := svc.RegisterNewUser(ctx, "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)

	logged, err := svc.Authenticate(ctx, "sarah@example.com", "str0ng")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, err = svc.Authenticate(ctx, "sarah@example.com", "wr0ng")
	require.ErrorIs(t, err, account.ErrAuthenticateInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "str0ng")
	require.ErrorIs(t, err, account.ErrAuthenticateInvalidCredentials)

	_, err = svc.Authenticate(ctx, "sarah@example.com", "")
	require.ErrorIs(t, err, account.ErrAuthenticateEmptyPassword)

	// suspended accounts are refused even with valid credentials
	require.NoError(t, users.SetStatus(ctx, u.ID, models.UserStatusSuspended))
	_, err = svc.Authenticate(ctx, "sarah@example.com", "str0ng")
	require.ErrorIs(t, err, account.ErrAuthenticateSuspendedAccount)
}

func TestAccountService_ToggleUserStatus(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc := prepareAccountServiceNoopHash(database)

	u, err := svc.RegisterNewUser(ctx, "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)

	toggled, err := svc.ToggleUserStatus(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, toggled.Status)

	toggled, err = svc.ToggleUserStatus(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, toggled.Status)
}

func TestAccountService_SearchUsers(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc := prepareAccountServiceNoopHash(database)

	_, err := svc.RegisterNewUser(ctx, "Sarah Mitchell", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)
	_, err = svc.RegisterNewUser(ctx, "Alex Johnson", "alex@example.com", "str0ng", "")
	require.NoError(t, err)

	found, err := svc.SearchUsers(ctx, "sarah")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sarah Mitchell", found[0].Name)

	all, err := svc.SearchUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := svc.SearchUsers(ctx, "nomatch")
	require.NoError(t, err)
	assert.Len(t, none, 0)
}
