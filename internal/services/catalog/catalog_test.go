package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims"
	cdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/products"
	pdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/products/db"
	rdb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews/db"
	udb "github.com/awmprojects/webdesign-bunny-submitted/internal/core/users/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/pkg/testutils"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/catalog"
)

const claimTTL = time.Hour * 24 * 7

func prepareCatalogService(database *db.Database) (catalog.Service, udb.Repository, pdb.Repository) {
	users := udb.New(database)
	productRepo := pdb.New(database)
	svc := catalog.New(productRepo, cdb.New(database), rdb.New(database), database, claimTTL)
	return svc, users, productRepo
}

func makeProduct(stock int) models.Product {
	return models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString("15.00"), stock,
	)
}

func TestCatalogService_ClaimProduct_OK(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, users, productRepo := prepareCatalogService(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := productRepo.Add(ctx, makeProduct(5))

	claim, err := svc.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, claim.ID > 0)
	assert.Equal(t, models.ClaimStatusActive, claim.Status)
	assert.WithinDuration(t, time.Now().Add(claimTTL), claim.ExpiresAt, time.Minute)

	// one instance is reserved for the claim
	p, _ = productRepo.GetByID(ctx, p.ID)
	assert.Equal(t, 4, p.Stock)
}

func TestCatalogService_ClaimProduct_OneActiveClaimPerProduct(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, users, productRepo := prepareCatalogService(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := productRepo.Add(ctx, makeProduct(5))

	_, err := svc.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)
	_, err = svc.ClaimProduct(ctx, u.ID, p.ID)
	require.ErrorIs(t, err, claims.ErrClaimAlreadyActive)

	// the failed claim must not burn a second instance
	p, _ = productRepo.GetByID(ctx, p.ID)
	assert.Equal(t, 4, p.Stock)
}

func TestCatalogService_ClaimProduct_OutOfStock(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, users, productRepo := prepareCatalogService(database)

	u1, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	u2, _ := users.Create(ctx, models.NewUser("Alex", "alex@example.com", "str0ng", "REF-ALEX1"))
	p, _ := productRepo.Add(ctx, makeProduct(1))

	_, err := svc.ClaimProduct(ctx, u1.ID, p.ID)
	require.NoError(t, err)
	_, err = svc.ClaimProduct(ctx, u2.ID, p.ID)
	require.ErrorIs(t, err, products.ErrProductOutOfStock)
}

func TestCatalogService_ClaimProduct_Unavailable(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, users, productRepo := prepareCatalogService(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := productRepo.Add(ctx, makeProduct(5))
	toggled, err := svc.ToggleProductAvailability(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, toggled.Available)

	_, err = svc.ClaimProduct(ctx, u.ID, p.ID)
	require.ErrorIs(t, err, catalog.ErrClaimProductUnavailable)
}

func TestCatalogService_GetUserClaims_ExpiresOverdue(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, users, productRepo := prepareCatalogService(database)
	claimRepo := cdb.New(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := productRepo.Add(ctx, makeProduct(5))

	// reserve an instance, then backdate the claim past its review window
	require.NoError(t, productRepo.HoldInstance(ctx, p.ID))
	overdue, err := claimRepo.Add(ctx, models.NewClaim(u.ID, p.ID, -time.Hour))
	require.NoError(t, err)

	userClaims, err := svc.GetUserClaims(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, userClaims, 1)
	assert.Equal(t, overdue.ID, userClaims[0].ID)
	assert.Equal(t, models.ClaimStatusExpired, userClaims[0].Status)

	// the reserved instance goes back into stock
	p, _ = productRepo.GetByID(ctx, p.ID)
	assert.Equal(t, 5, p.Stock)

	// an expired claim no longer blocks a fresh one
	fresh, err := svc.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusActive, fresh.Status)
}

func TestCatalogService_GetActiveClaim(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, users, productRepo := prepareCatalogService(database)

	u, _ := users.Create(ctx, models.NewUser("Sarah", "sarah@example.com", "str0ng", "REF-SARAH"))
	p, _ := productRepo.Add(ctx, makeProduct(5))
	other, _ := productRepo.Add(ctx, models.NewProduct(
		"Yoga Mat", "Sports", "Non-slip exercise mat",
		decimal.RequireFromString("24.99"), decimal.RequireFromString("5.00"), 3,
	))

	claimed, err := svc.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)

	active, err := svc.GetActiveClaim(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, claimed.ID, active.ID)

	_, err = svc.GetActiveClaim(ctx, u.ID, other.ID)
	require.ErrorIs(t, err, claims.ErrClaimNotFound)

	// a completed claim is no longer active
	require.NoError(t, svc.CompleteClaim(ctx, claimed.ID))
	_, err = svc.GetActiveClaim(ctx, u.ID, p.ID)
	require.ErrorIs(t, err, claims.ErrClaimNotFound)
}

func TestCatalogService_ListProducts_Filtering(t *testing.T) {
	ctx := context.TODO()
	_, database, cancel := testutils.PrepareTestDatabase()
	defer cancel()

	svc, _, productRepo := prepareCatalogService(database)

	_, err := productRepo.Add(ctx, makeProduct(5))
	require.NoError(t, err)
	mat, err := productRepo.Add(ctx, models.NewProduct(
		"Yoga Mat", "Sports", "Non-slip exercise mat",
		decimal.RequireFromString("24.99"), decimal.RequireFromString("5.00"), 3,
	))
	require.NoError(t, err)
	_, err = svc.ToggleProductAvailability(ctx, mat.ID)
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx, products.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := svc.ListProducts(ctx, products.Filter{OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Wireless Headphones", available[0].Name)

	sports, err := svc.ListProducts(ctx, products.Filter{Category: "Sports"})
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, "Yoga Mat", sports[0].Name)

	byTerm, err := svc.ListProducts(ctx, products.Filter{Term: "headphones"})
	require.NoError(t, err)
	require.Len(t, byTerm, 1)

	categories, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Electronics", "Sports"}, categories)
}
