package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/withdrawals"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
)

const withdrawalColumns = "w.id, w.user_id, u.name, u.email, w.amount, w.method, w.payment_detail, " +
	"w.status, w.submitted_at, w.processed_at, coalesce(w.rejection_reason, '')"

type withdrawalRow struct {
	ID              int
	UserID          int
	UserName        string
	UserEmail       string
	Amount          decimal.Decimal
	Method          models.PaymentMethod
	PaymentDetail   string
	Status          models.WithdrawalStatus
	SubmittedAt     time.Time
	ProcessedAt     *time.Time
	RejectionReason string
}

type Repository struct {
	db *db.Database
}

func New(db *db.Database) Repository {
	return Repository{db}
}

func (r Repository) Add(ctx context.Context, cw models.Withdrawal) (models.Withdrawal, error) {
	var newWithdrawalID int
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"INSERT INTO withdrawals "+
				"(user_id, amount, method, payment_detail, status, submitted_at) "+
				"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
			cw.User.ID, cw.Amount, cw.Method, cw.PaymentDetail, cw.Status, cw.SubmittedAt,
		).
		Scan(&newWithdrawalID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add withdrawal request")
		return models.Withdrawal{}, err
	}

	log.Debug().
		Int("userID", cw.User.ID).Stringer("amount", cw.Amount).Int("ID", newWithdrawalID).
		Msg("Registered new withdrawal request")
	created := cw
	created.ID = newWithdrawalID
	return created, nil
}

func (r Repository) GetByID(ctx context.Context, id int) (models.Withdrawal, error) {
	var row withdrawalRow
	result := r.db.ExecContext(ctx).QueryRow(
		ctx,
		"SELECT "+withdrawalColumns+" FROM withdrawals w JOIN users u ON u.id = w.user_id WHERE w.id = $1",
		id,
	)
	if err := scanWithdrawal(result, &row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug().Int("ID", id).Msg("Withdrawal request not found in database")
			return models.Withdrawal{}, withdrawals.ErrWithdrawalNotFound
		}
		log.Error().Err(err).Int("ID", id).Msg("Failed to retrieve withdrawal request by ID")
		return models.Withdrawal{}, err
	}
	return row.toModel(), nil
}

func (r Repository) GetListForUser(ctx context.Context, userID int) ([]models.Withdrawal, error) {
	return r.queryList(
		ctx,
		"SELECT "+withdrawalColumns+" FROM withdrawals w JOIN users u ON u.id = w.user_id "+
			"WHERE w.user_id = $1 ORDER BY w.submitted_at ASC",
		userID,
	)
}

// List returns the withdrawal requests matching the given filter:
// a free-text term checked against the owner's name and email,
// and an optional status
func (r Repository) List(ctx context.Context, filter withdrawals.Filter) ([]models.Withdrawal, error) {
	return r.queryList(
		ctx,
		"SELECT "+withdrawalColumns+" FROM withdrawals w JOIN users u ON u.id = w.user_id "+
			"WHERE ($1 = '' OR u.name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%') "+
			"AND ($2 = '' OR w.status = $2) "+
			"ORDER BY w.submitted_at ASC",
		filter.Term, string(filter.Status),
	)
}

func (r Repository) queryList(
	ctx context.Context, query string, args ...interface{},
) ([]models.Withdrawal, error) {
	rows, err := r.db.ExecContext(ctx).Query(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query withdrawal requests")
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Withdrawal, 0)
	for rows.Next() {
		var row withdrawalRow
		if err = scanWithdrawal(rows, &row); err != nil {
			log.Error().Err(err).Msg("Failed to read withdrawal requests")
			return nil, err
		}
		items = append(items, row.toModel())
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Msg("Failed to fetch withdrawal requests")
		return nil, err
	}

	return items, nil
}

// SetDecision transitions a pending request to the given terminal status,
// stamping the processing time and, for rejections, the reason.
// The transition itself is made by the model; the update stays conditional
// on the request still being pending, so a concurrent decision
// cannot silently reapply
func (r Repository) SetDecision(
	ctx context.Context, id int, status models.WithdrawalStatus, reason string,
) (models.Withdrawal, error) {
	withdrawal, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Withdrawal{}, err
	}
	switch status {
	case models.WithdrawalStatusApproved:
		err = withdrawal.Approve(time.Now())
	case models.WithdrawalStatusRejected:
		err = withdrawal.Reject(time.Now(), reason)
	default:
		err = withdrawals.ErrWithdrawalInvalidDecision
	}
	if err != nil {
		return models.Withdrawal{}, err
	}
	result, err := r.db.ExecContext(ctx).Exec(
		ctx,
		"UPDATE withdrawals SET status = $1, processed_at = $2, rejection_reason = nullif($3, '') "+
			"WHERE id = $4 AND status = $5",
		withdrawal.Status, withdrawal.ProcessedAt, withdrawal.RejectionReason,
		id, models.WithdrawalStatusPending,
	)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Str("status", string(status)).
			Msg("Failed to decide withdrawal request")
		return models.Withdrawal{}, err
	}
	if result.RowsAffected() == 0 {
		// lost the race to a concurrent decision
		return models.Withdrawal{}, models.ErrWithdrawalAlreadyProcessed
	}
	return withdrawal, nil
}

func (r Repository) GetSummary(ctx context.Context) (withdrawals.Summary, error) {
	var summary withdrawals.Summary
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"SELECT "+
				"count(*) FILTER (WHERE status = 'pending'), "+
				"coalesce(sum(amount) FILTER (WHERE status = 'pending'), 0), "+
				"count(*) FILTER (WHERE status = 'approved'), "+
				"coalesce(sum(amount) FILTER (WHERE status = 'approved'), 0), "+
				"count(*) FILTER (WHERE status = 'rejected'), "+
				"coalesce(sum(amount) FILTER (WHERE status = 'rejected'), 0) "+
				"FROM withdrawals",
		).
		Scan(
			&summary.Pending.Count, &summary.Pending.Amount,
			&summary.Approved.Count, &summary.Approved.Amount,
			&summary.Rejected.Count, &summary.Rejected.Amount,
		)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute withdrawal summary")
		return withdrawals.Summary{}, err
	}
	return summary, nil
}

type withdrawalScanner interface {
	Scan(dest ...interface{}) error
}

func scanWithdrawal(result withdrawalScanner, row *withdrawalRow) error {
	return result.Scan(
		&row.ID, &row.UserID, &row.UserName, &row.UserEmail,
		&row.Amount, &row.Method, &row.PaymentDetail,
		&row.Status, &row.SubmittedAt, &row.ProcessedAt, &row.RejectionReason,
	)
}

func (row withdrawalRow) toModel() models.Withdrawal {
	return models.Withdrawal{
		ID:              row.ID,
		User:            models.User{ID: row.UserID, Name: row.UserName, Email: row.UserEmail},
		Amount:          row.Amount,
		Method:          row.Method,
		PaymentDetail:   row.PaymentDetail,
		Status:          row.Status,
		SubmittedAt:     row.SubmittedAt,
		ProcessedAt:     row.ProcessedAt,
		RejectionReason: row.RejectionReason,
	}
}
