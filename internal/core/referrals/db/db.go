package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/referrals"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
)

const referralColumns = "r.id, r.referrer_id, r.referred_id, ref.name, ref.status, " +
	"r.total_reviews, r.site_fees, r.commission, r.created_at"

type referralRow struct {
	ID             int
	ReferrerID     int
	ReferredID     int
	ReferredName   string
	ReferredStatus models.UserStatus
	TotalReviews   int
	SiteFees       decimal.Decimal
	Commission     decimal.Decimal
	CreatedAt      time.Time
}

type Repository struct {
	db *db.Database
}

func New(db *db.Database) Repository {
	return Repository{db}
}

func (r Repository) Add(ctx context.Context, ref models.Referral) (models.Referral, error) {
	conn := r.db.ExecContext(ctx)

	// a user can be brought in by one referrer only
	var exists bool
	err := conn.
		QueryRow(ctx, "SELECT EXISTS(SELECT id FROM referrals WHERE referred_id = $1)", ref.Referred.ID).
		Scan(&exists)
	if err != nil {
		return models.Referral{}, err
	} else if exists {
		log.Debug().Int("referredID", ref.Referred.ID).Msg("User has already been referred")
		return models.Referral{}, referrals.ErrReferralAlreadyRegistered
	}

	var newReferralID int
	err = conn.
		QueryRow(
			ctx,
			"INSERT INTO referrals (referrer_id, referred_id, created_at) "+
				"VALUES ($1, $2, $3) RETURNING id",
			ref.Referrer.ID, ref.Referred.ID, ref.CreatedAt,
		).
		Scan(&newReferralID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add referral")
		return models.Referral{}, err
	}

	log.Debug().
		Int("referrerID", ref.Referrer.ID).Int("referredID", ref.Referred.ID).Int("ID", newReferralID).
		Msg("Registered new referral")
	created := ref
	created.ID = newReferralID
	return created, nil
}

func (r Repository) GetByReferredID(ctx context.Context, referredID int) (models.Referral, error) {
	var row referralRow
	result := r.db.ExecContext(ctx).QueryRow(
		ctx,
		"SELECT "+referralColumns+" FROM referrals r "+
			"JOIN users ref ON ref.id = r.referred_id WHERE r.referred_id = $1",
		referredID,
	)
	if err := scanReferral(result, &row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Referral{}, referrals.ErrReferralNotFound
		}
		log.Error().Err(err).Int("referredID", referredID).Msg("Failed to retrieve referral")
		return models.Referral{}, err
	}
	return row.toModel(), nil
}

func (r Repository) GetListForReferrer(ctx context.Context, referrerID int) ([]models.Referral, error) {
	rows, err := r.db.ExecContext(ctx).Query(
		ctx,
		"SELECT "+referralColumns+" FROM referrals r "+
			"JOIN users ref ON ref.id = r.referred_id "+
			"WHERE r.referrer_id = $1 ORDER BY r.created_at ASC",
		referrerID,
	)
	if err != nil {
		log.Error().Err(err).Int("referrerID", referrerID).Msg("Failed to query referrals")
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Referral, 0)
	for rows.Next() {
		var row referralRow
		if err = scanReferral(rows, &row); err != nil {
			log.Error().Err(err).Int("referrerID", referrerID).Msg("Failed to read referrals")
			return nil, err
		}
		items = append(items, row.toModel())
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Int("referrerID", referrerID).Msg("Failed to fetch referrals")
		return nil, err
	}

	return items, nil
}

func (r Repository) RecordReviewEarnings(
	ctx context.Context, referredID int, siteFee, commission decimal.Decimal,
) error {
	result, err := r.db.ExecContext(ctx).Exec(
		ctx,
		"UPDATE referrals SET "+
			"total_reviews = total_reviews + 1, site_fees = site_fees + $1, commission = commission + $2 "+
			"WHERE referred_id = $3",
		siteFee, commission, referredID,
	)
	if err != nil {
		log.Error().Err(err).Int("referredID", referredID).Msg("Failed to record referral earnings")
		return err
	}
	if result.RowsAffected() == 0 {
		return referrals.ErrReferralNotFound
	}
	return nil
}

func (r Repository) GetStatsForReferrer(ctx context.Context, referrerID int) (models.AffiliateStats, error) {
	var stats models.AffiliateStats
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"SELECT count(*), "+
				"count(*) FILTER (WHERE ref.status = 'active'), "+
				"coalesce(sum(r.site_fees), 0), coalesce(sum(r.commission), 0) "+
				"FROM referrals r JOIN users ref ON ref.id = r.referred_id "+
				"WHERE r.referrer_id = $1",
			referrerID,
		).
		Scan(&stats.TotalReferrals, &stats.ActiveReferrals, &stats.SiteFees, &stats.Commission)
	if err != nil {
		log.Error().Err(err).Int("referrerID", referrerID).Msg("Failed to compute affiliate stats")
		return models.AffiliateStats{}, err
	}
	return stats, nil
}

// GetTotals aggregates the affiliate numbers across the whole platform
// for the administrative console
func (r Repository) GetTotals(ctx context.Context) (models.AffiliateStats, error) {
	var totals models.AffiliateStats
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"SELECT count(*), "+
				"count(*) FILTER (WHERE ref.status = 'active'), "+
				"coalesce(sum(r.site_fees), 0), coalesce(sum(r.commission), 0) "+
				"FROM referrals r JOIN users ref ON ref.id = r.referred_id",
		).
		Scan(&totals.TotalReferrals, &totals.ActiveReferrals, &totals.SiteFees, &totals.Commission)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute affiliate totals")
		return models.AffiliateStats{}, err
	}
	return totals, nil
}

type referralScanner interface {
	Scan(dest ...interface{}) error
}

func scanReferral(result referralScanner, row *referralRow) error {
	return result.Scan(
		&row.ID, &row.ReferrerID, &row.ReferredID, &row.ReferredName, &row.ReferredStatus,
		&row.TotalReviews, &row.SiteFees, &row.Commission, &row.CreatedAt,
	)
}

func (row referralRow) toModel() models.Referral {
	return models.Referral{
		ID:           row.ID,
		Referrer:     models.NewUserFromID(row.ReferrerID),
		Referred:     models.User{ID: row.ReferredID, Name: row.ReferredName, Status: row.ReferredStatus},
		TotalReviews: row.TotalReviews,
		SiteFees:     row.SiteFees,
		Commission:   row.Commission,
		CreatedAt:    row.CreatedAt,
	}
}
