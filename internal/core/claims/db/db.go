package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
)

type claimRow struct {
	ID        int
	UserID    int
	ProductID int
	Status    models.ClaimStatus
	ClaimedAt time.Time
	ExpiresAt time.Time
}

type Repository struct {
	db *db.Database
}

func New(db *db.Database) Repository {
	return Repository{db}
}

func (r Repository) Add(ctx context.Context, c models.Claim) (models.Claim, error) {
	conn := r.db.ExecContext(ctx)

	// one active claim per user and product
	active, err := r.HasActiveForUserProduct(ctx, c.User.ID, c.Product.ID)
	if err != nil {
		return models.Claim{}, err
	} else if active {
		log.Debug().
			Int("userID", c.User.ID).Int("productID", c.Product.ID).
			Msg("User already has an active claim for product")
		return models.Claim{}, claims.ErrClaimAlreadyActive
	}

	var newClaimID int
	err = conn.
		QueryRow(
			ctx,
			"INSERT INTO claims (user_id, product_id, status, claimed_at, expires_at) "+
				"VALUES ($1, $2, $3, $4, $5) RETURNING id",
			c.User.ID, c.Product.ID, c.Status, c.ClaimedAt, c.ExpiresAt,
		).
		Scan(&newClaimID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add claim")
		return models.Claim{}, err
	}

	log.Debug().
		Int("userID", c.User.ID).Int("productID", c.Product.ID).Int("ID", newClaimID).
		Msg("Registered new claim")
	created := c
	created.ID = newClaimID
	return created, nil
}

func (r Repository) GetByID(ctx context.Context, id int) (models.Claim, error) {
	var row claimRow
	result := r.db.ExecContext(ctx).QueryRow(
		ctx,
		"SELECT id, user_id, product_id, status, claimed_at, expires_at FROM claims WHERE id = $1",
		id,
	)
	if err := result.Scan(
		&row.ID, &row.UserID, &row.ProductID, &row.Status, &row.ClaimedAt, &row.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug().Int("ID", id).Msg("Claim not found in database")
			return models.Claim{}, claims.ErrClaimNotFound
		}
		log.Error().Err(err).Int("ID", id).Msg("Failed to retrieve claim by ID")
		return models.Claim{}, err
	}
	return row.toModel(), nil
}

func (r Repository) GetListForUser(ctx context.Context, userID int) ([]models.Claim, error) {
	rows, err := r.db.ExecContext(ctx).Query(
		ctx,
		"SELECT id, user_id, product_id, status, claimed_at, expires_at FROM claims "+
			"WHERE user_id = $1 ORDER BY claimed_at ASC",
		userID,
	)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Failed to query claims for user")
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Claim, 0)
	for rows.Next() {
		var row claimRow
		err = rows.Scan(&row.ID, &row.UserID, &row.ProductID, &row.Status, &row.ClaimedAt, &row.ExpiresAt)
		if err != nil {
			log.Error().Err(err).Int("userID", userID).Msg("Failed to read claims for user")
			return nil, err
		}
		items = append(items, row.toModel())
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Failed to fetch claims for user")
		return nil, err
	}

	return items, nil
}

func (r Repository) SetStatus(ctx context.Context, id int, status models.ClaimStatus) error {
	result, err := r.db.ExecContext(ctx).Exec(ctx, "UPDATE claims SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Str("status", string(status)).Msg("Failed to update claim status")
		return err
	}
	if result.RowsAffected() == 0 {
		return claims.ErrClaimNotFound
	}
	return nil
}

func (r Repository) HasActiveForUserProduct(ctx context.Context, userID, productID int) (bool, error) {
	var active bool
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"SELECT EXISTS(SELECT id FROM claims WHERE user_id = $1 AND product_id = $2 AND status = $3)",
			userID, productID, models.ClaimStatusActive,
		).
		Scan(&active)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Int("productID", productID).
			Msg("Failed to check for active claim")
		return false, err
	}
	return active, nil
}

func (row claimRow) toModel() models.Claim {
	return models.Claim{
		ID:        row.ID,
		User:      models.NewUserFromID(row.UserID),
		Product:   models.Product{ID: row.ProductID},
		Status:    row.Status,
		ClaimedAt: row.ClaimedAt,
		ExpiresAt: row.ExpiresAt,
	}
}
