package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/users"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
)

const userColumns = "id, name, email, password, role, status, referral_code, joined_at, " +
	"balance_current, balance_held, balance_withdrawn"

type Repository struct {
	db *db.Database
}

func New(db *db.Database) Repository {
	return Repository{db}
}

// Create attempts to insert a new user into the users table.
// User emails are unique and case-insensitive.
// Attempts to create a user with a duplicate email end with
// a users.ErrUserEmailIsOccupied error which must be handled by the calling code
func (r Repository) Create(ctx context.Context, u models.User) (models.User, error) {
	conn := r.db.ExecContext(ctx)
	email := strings.ToLower(u.Email)

	var exists bool
	err := conn.
		QueryRow(ctx, "SELECT EXISTS(SELECT id FROM users WHERE lower(email)=$1)", email).
		Scan(&exists)
	if err != nil {
		return models.User{}, err
	} else if exists {
		log.Debug().Str("email", u.Email).Msg("User with same email already exists")
		return models.User{}, users.ErrUserEmailIsOccupied
	}

	var newUserID int
	err = conn.
		QueryRow(
			ctx,
			"INSERT INTO users (name, email, password, role, status, referral_code, joined_at) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id",
			u.Name, email, u.Password, u.Role, u.Status, u.ReferralCode, u.JoinedAt,
		).
		Scan(&newUserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create new user")
		return models.User{}, err
	}

	log.Debug().Str("email", u.Email).Int("ID", newUserID).Msg("Created new user")
	created := u
	created.ID = newUserID
	created.Email = email
	return created, nil
}

func (r Repository) GetByID(ctx context.Context, id int) (models.User, error) {
	return r.getBy(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r Repository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getBy(ctx, "SELECT "+userColumns+" FROM users WHERE lower(email) = $1", strings.ToLower(email))
}

func (r Repository) GetByReferralCode(ctx context.Context, code string) (models.User, error) {
	return r.getBy(ctx, "SELECT "+userColumns+" FROM users WHERE referral_code = $1", code)
}

func (r Repository) getBy(ctx context.Context, query string, arg interface{}) (models.User, error) {
	var user models.User

	row := r.db.ExecContext(ctx).QueryRow(ctx, query, arg)
	if err := scanUser(row, &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, users.ErrUserNotFound
		}
		log.Error().Err(err).Msg("Failed to query user")
		return models.User{}, err
	}

	return user, nil
}

// Search returns users whose name or email matches the given term,
// or all users when the term is empty.
// The resulting list is ordered by the time the users joined
func (r Repository) Search(ctx context.Context, term string) ([]models.User, error) {
	rows, err := r.db.ExecContext(ctx).Query(
		ctx,
		"SELECT "+userColumns+" FROM users "+
			"WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%') "+
			"ORDER BY joined_at ASC",
		term,
	)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("Failed to search users")
		return nil, err
	}
	defer rows.Close()

	items := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err = scanUser(rows, &user); err != nil {
			log.Error().Err(err).Str("term", term).Msg("Failed to read searched users")
			return nil, err
		}
		items = append(items, user)
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Str("term", term).Msg("Failed to fetch searched users")
		return nil, err
	}

	return items, nil
}

func (r Repository) SetStatus(ctx context.Context, id int, status models.UserStatus) error {
	result, err := r.db.ExecContext(ctx).Exec(ctx, "UPDATE users SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Str("status", string(status)).Msg("Failed to update user status")
		return err
	}
	if result.RowsAffected() == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx).Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Msg("Failed to delete user")
		return err
	}
	if result.RowsAffected() == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// AccrueEarnings adds the specified amount to the user's available balance
func (r Repository) AccrueEarnings(ctx context.Context, userID int, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return users.ErrUserCantMoveNegativeSum
	}
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var oldCurrent, newCurrent decimal.Decimal
		tx := r.db.ExecContext(txCtx)
		if err := tx.QueryRow(
			txCtx, "SELECT balance_current FROM users WHERE id = $1 FOR UPDATE", userID,
		).Scan(&oldCurrent); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return users.ErrUserNotFound
			}
			log.Error().Err(err).Int("userID", userID).Msg("Unable to acquire row lock for user")
			return err
		}
		if err := tx.QueryRow(
			txCtx,
			"UPDATE users SET balance_current = balance_current + $1 WHERE id = $2 RETURNING balance_current",
			amount, userID,
		).Scan(&newCurrent); err != nil {
			return err
		}
		log.Info().
			Int("userID", userID).
			Stringer("amount", amount).
			Stringer("before", oldCurrent).
			Stringer("after", newCurrent).
			Msg("Earnings accrued for user")
		return nil
	})
}

// HoldFunds reserves the specified amount for a pending withdrawal request,
// deducting it from the available balance and adding it to the held funds.
// Since you cannot withdraw more than you have, an error is returned if such an attempt is made
func (r Repository) HoldFunds(ctx context.Context, userID int, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return users.ErrUserCantMoveNegativeSum
	}
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var current decimal.Decimal
		tx := r.db.ExecContext(txCtx)
		if err := tx.QueryRow(
			txCtx, "SELECT balance_current FROM users WHERE id = $1 FOR UPDATE", userID,
		).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return users.ErrUserNotFound
			}
			log.Error().Err(err).Int("userID", userID).Msg("Unable to acquire row lock for user")
			return err
		}
		if current.LessThan(amount) {
			return users.ErrUserHasInsufficientBalance
		}
		var newCurrent, newHeld decimal.Decimal
		if err := tx.QueryRow(
			txCtx,
			"UPDATE users SET "+
				"balance_current = balance_current - $1, balance_held = balance_held + $1 "+
				"WHERE id = $2 RETURNING balance_current, balance_held",
			amount, userID,
		).Scan(&newCurrent, &newHeld); err != nil {
			return err
		}
		log.Info().
			Int("userID", userID).
			Stringer("amount", amount).
			Stringer("current", newCurrent).
			Stringer("held", newHeld).
			Msg("Funds held for user")
		return nil
	})
}

// ReleaseFunds returns a held amount back to the available balance,
// used when a withdrawal request is rejected
func (r Repository) ReleaseFunds(ctx context.Context, userID int, amount decimal.Decimal) error {
	return r.moveHeldFunds(
		ctx, userID, amount,
		"UPDATE users SET "+
			"balance_held = balance_held - $1, balance_current = balance_current + $1 "+
			"WHERE id = $2",
		"Held funds released for user",
	)
}

// SettleFunds moves a held amount into the lifetime withdrawn total,
// used when a withdrawal request is approved
func (r Repository) SettleFunds(ctx context.Context, userID int, amount decimal.Decimal) error {
	return r.moveHeldFunds(
		ctx, userID, amount,
		"UPDATE users SET "+
			"balance_held = balance_held - $1, balance_withdrawn = balance_withdrawn + $1 "+
			"WHERE id = $2",
		"Held funds settled for user",
	)
}

func (r Repository) moveHeldFunds(
	ctx context.Context, userID int, amount decimal.Decimal, query, logMsg string,
) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return users.ErrUserCantMoveNegativeSum
	}
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var held decimal.Decimal
		tx := r.db.ExecContext(txCtx)
		if err := tx.QueryRow(
			txCtx, "SELECT balance_held FROM users WHERE id = $1 FOR UPDATE", userID,
		).Scan(&held); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return users.ErrUserNotFound
			}
			log.Error().Err(err).Int("userID", userID).Msg("Unable to acquire row lock for user")
			return err
		}
		if held.LessThan(amount) {
			return users.ErrUserHasInsufficientHeldFunds
		}
		if _, err := tx.Exec(txCtx, query, amount, userID); err != nil {
			return err
		}
		log.Info().
			Int("userID", userID).
			Stringer("amount", amount).
			Msg(logMsg)
		return nil
	})
}

type userScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row userScanner, user *models.User) error {
	return row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
		&user.Role, &user.Status, &user.ReferralCode, &user.JoinedAt,
		&user.Balance.Current, &user.Balance.Held, &user.Balance.Withdrawn,
	)
}
