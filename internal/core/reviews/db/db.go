package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
)

const reviewColumns = "r.id, r.user_id, u.name, r.product_id, p.name, r.claim_id, " +
	"r.rating, r.title, r.body, r.reward, r.status, r.submitted_at, r.moderated_at"

type reviewRow struct {
	ID          int
	UserID      int
	UserName    string
	ProductID   int
	ProductName string
	ClaimID     int
	Rating      int
	Title       string
	Body        string
	Reward      decimal.Decimal
	Status      models.ReviewStatus
	SubmittedAt time.Time
	ModeratedAt *time.Time
}

type Repository struct {
	db *db.Database
}

func New(db *db.Database) Repository {
	return Repository{db}
}

func (r Repository) Add(ctx context.Context, rv models.Review) (models.Review, error) {
	conn := r.db.ExecContext(ctx)

	// a product may be reviewed by the same user once
	exists, err := r.ExistsForUserProduct(ctx, rv.User.ID, rv.Product.ID)
	if err != nil {
		return models.Review{}, err
	} else if exists {
		log.Debug().
			Int("userID", rv.User.ID).Int("productID", rv.Product.ID).
			Msg("Review for same product already submitted by user")
		return models.Review{}, reviews.ErrReviewAlreadySubmitted
	}

	var newReviewID int
	err = conn.
		QueryRow(
			ctx,
			"INSERT INTO reviews "+
				"(user_id, product_id, claim_id, rating, title, body, reward, status, submitted_at) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id",
			rv.User.ID, rv.Product.ID, rv.ClaimID,
			rv.Rating, rv.Title, rv.Body, rv.Reward, rv.Status, rv.SubmittedAt,
		).
		Scan(&newReviewID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add review")
		return models.Review{}, err
	}

	log.Debug().
		Int("userID", rv.User.ID).Int("productID", rv.Product.ID).Int("ID", newReviewID).
		Msg("Registered new review")
	created := rv
	created.ID = newReviewID
	return created, nil
}

func (r Repository) GetByID(ctx context.Context, id int) (models.Review, error) {
	var row reviewRow
	result := r.db.ExecContext(ctx).QueryRow(
		ctx,
		"SELECT "+reviewColumns+" FROM reviews r "+
			"JOIN users u ON u.id = r.user_id JOIN products p ON p.id = r.product_id "+
			"WHERE r.id = $1",
		id,
	)
	if err := scanReview(result, &row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug().Int("ID", id).Msg("Review not found in database")
			return models.Review{}, reviews.ErrReviewNotFound
		}
		log.Error().Err(err).Int("ID", id).Msg("Failed to retrieve review by ID")
		return models.Review{}, err
	}
	return row.toModel(), nil
}

func (r Repository) GetListForUser(ctx context.Context, userID int) ([]models.Review, error) {
	return r.queryList(
		ctx,
		"SELECT "+reviewColumns+" FROM reviews r "+
			"JOIN users u ON u.id = r.user_id JOIN products p ON p.id = r.product_id "+
			"WHERE r.user_id = $1 ORDER BY r.submitted_at ASC",
		userID,
	)
}

func (r Repository) List(ctx context.Context, filter reviews.Filter) ([]models.Review, error) {
	return r.queryList(
		ctx,
		"SELECT "+reviewColumns+" FROM reviews r "+
			"JOIN users u ON u.id = r.user_id JOIN products p ON p.id = r.product_id "+
			"WHERE ($1 = '' OR u.name ILIKE '%' || $1 || '%' OR p.name ILIKE '%' || $1 || '%') "+
			"AND ($2 = '' OR r.status = $2) "+
			"ORDER BY r.submitted_at ASC",
		filter.Term, string(filter.Status),
	)
}

func (r Repository) queryList(ctx context.Context, query string, args ...interface{}) ([]models.Review, error) {
	rows, err := r.db.ExecContext(ctx).Query(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query reviews")
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Review, 0)
	for rows.Next() {
		var row reviewRow
		if err = scanReview(rows, &row); err != nil {
			log.Error().Err(err).Msg("Failed to read reviews")
			return nil, err
		}
		items = append(items, row.toModel())
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Msg("Failed to fetch reviews")
		return nil, err
	}

	return items, nil
}

// SetModerated transitions a pending review to the given terminal status.
// The transition itself is made by the model; the update stays conditional
// on the review still being pending, so a concurrent decision
// cannot silently reapply
func (r Repository) SetModerated(
	ctx context.Context, id int, status models.ReviewStatus,
) (models.Review, error) {
	review, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	if err = review.Moderate(status, time.Now()); err != nil {
		return models.Review{}, err
	}
	result, err := r.db.ExecContext(ctx).Exec(
		ctx,
		"UPDATE reviews SET status = $1, moderated_at = $2 WHERE id = $3 AND status = $4",
		review.Status, review.ModeratedAt, id, models.ReviewStatusPending,
	)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Str("status", string(status)).Msg("Failed to moderate review")
		return models.Review{}, err
	}
	if result.RowsAffected() == 0 {
		// lost the race to a concurrent decision
		return models.Review{}, models.ErrReviewAlreadyModerated
	}
	return review, nil
}

func (r Repository) ExistsForUserProduct(ctx context.Context, userID, productID int) (bool, error) {
	var exists bool
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"SELECT EXISTS(SELECT id FROM reviews WHERE user_id = $1 AND product_id = $2)",
			userID, productID,
		).
		Scan(&exists)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Int("productID", productID).
			Msg("Failed to check for existing review")
		return false, err
	}
	return exists, nil
}

func (r Repository) GetSummary(ctx context.Context) (reviews.Summary, error) {
	var summary reviews.Summary
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"SELECT "+
				"count(*) FILTER (WHERE status = 'pending'), "+
				"count(*) FILTER (WHERE status = 'approved'), "+
				"count(*) FILTER (WHERE status = 'rejected'), "+
				"coalesce(sum(reward) FILTER (WHERE status = 'approved'), 0) "+
				"FROM reviews",
		).
		Scan(&summary.Pending, &summary.Approved, &summary.Rejected, &summary.ApprovedReward)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute review summary")
		return reviews.Summary{}, err
	}
	return summary, nil
}

func (r Repository) SumRewardsForUser(
	ctx context.Context, userID int, status models.ReviewStatus,
) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"SELECT coalesce(sum(reward), 0) FROM reviews WHERE user_id = $1 AND status = $2",
			userID, status,
		).
		Scan(&sum)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Failed to sum review rewards for user")
		return decimal.Decimal{}, err
	}
	return sum, nil
}

type reviewScanner interface {
	Scan(dest ...interface{}) error
}

func scanReview(result reviewScanner, row *reviewRow) error {
	return result.Scan(
		&row.ID, &row.UserID, &row.UserName, &row.ProductID, &row.ProductName, &row.ClaimID,
		&row.Rating, &row.Title, &row.Body, &row.Reward, &row.Status, &row.SubmittedAt, &row.ModeratedAt,
	)
}

func (row reviewRow) toModel() models.Review {
	return models.Review{
		ID:          row.ID,
		User:        models.User{ID: row.UserID, Name: row.UserName},
		Product:     models.Product{ID: row.ProductID, Name: row.ProductName},
		ClaimID:     row.ClaimID,
		Rating:      row.Rating,
		Title:       row.Title,
		Body:        row.Body,
		Reward:      row.Reward,
		Status:      row.Status,
		SubmittedAt: row.SubmittedAt,
		ModeratedAt: row.ModeratedAt,
	}
}
