package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/managers"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
)

const managerColumns = "id, name, email, status, department, permissions, " +
	"managed_users, approved_reviews, joined_at"

type Repository struct {
	db *db.Database
}

func New(db *db.Database) Repository {
	return Repository{db}
}

func (r Repository) Create(ctx context.Context, m models.Manager) (models.Manager, error) {
	conn := r.db.ExecContext(ctx)
	email := strings.ToLower(m.Email)

	var exists bool
	err := conn.
		QueryRow(ctx, "SELECT EXISTS(SELECT id FROM managers WHERE lower(email)=$1)", email).
		Scan(&exists)
	if err != nil {
		return models.Manager{}, err
	} else if exists {
		log.Debug().Str("email", m.Email).Msg("Manager with same email already exists")
		return models.Manager{}, managers.ErrManagerEmailIsOccupied
	}

	var newManagerID int
	err = conn.
		QueryRow(
			ctx,
			"INSERT INTO managers (name, email, status, department, permissions, joined_at) "+
				"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
			m.Name, email, m.Status, m.Department, m.Permissions, m.JoinedAt,
		).
		Scan(&newManagerID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create new manager")
		return models.Manager{}, err
	}

	log.Debug().Str("email", m.Email).Int("ID", newManagerID).Msg("Created new manager")
	created := m
	created.ID = newManagerID
	created.Email = email
	return created, nil
}

func (r Repository) GetByID(ctx context.Context, id int) (models.Manager, error) {
	var m models.Manager
	row := r.db.ExecContext(ctx).QueryRow(ctx, "SELECT "+managerColumns+" FROM managers WHERE id = $1", id)
	if err := scanManager(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Manager{}, managers.ErrManagerNotFound
		}
		log.Error().Err(err).Int("ID", id).Msg("Failed to query manager by ID")
		return models.Manager{}, err
	}
	return m, nil
}

func (r Repository) GetByEmail(ctx context.Context, email string) (models.Manager, error) {
	var m models.Manager
	row := r.db.ExecContext(ctx).
		QueryRow(ctx, "SELECT "+managerColumns+" FROM managers WHERE lower(email) = $1", strings.ToLower(email))
	if err := scanManager(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Manager{}, managers.ErrManagerNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to query manager by email")
		return models.Manager{}, err
	}
	return m, nil
}

// Search returns managers whose name, email or department matches the given term,
// or all managers when the term is empty
func (r Repository) Search(ctx context.Context, term string) ([]models.Manager, error) {
	rows, err := r.db.ExecContext(ctx).Query(
		ctx,
		"SELECT "+managerColumns+" FROM managers "+
			"WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' "+
			"OR email ILIKE '%' || $1 || '%' OR department ILIKE '%' || $1 || '%') "+
			"ORDER BY joined_at ASC",
		term,
	)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("Failed to search managers")
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Manager, 0)
	for rows.Next() {
		var m models.Manager
		if err = scanManager(rows, &m); err != nil {
			log.Error().Err(err).Str("term", term).Msg("Failed to read searched managers")
			return nil, err
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Str("term", term).Msg("Failed to fetch searched managers")
		return nil, err
	}

	return items, nil
}

func (r Repository) SetStatus(ctx context.Context, id int, status models.ManagerStatus) error {
	result, err := r.db.ExecContext(ctx).Exec(ctx, "UPDATE managers SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Str("status", string(status)).Msg("Failed to update manager status")
		return err
	}
	if result.RowsAffected() == 0 {
		return managers.ErrManagerNotFound
	}
	return nil
}

func (r Repository) CountApprovedReview(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx).Exec(
		ctx, "UPDATE managers SET approved_reviews = approved_reviews + 1 WHERE id = $1", id,
	)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Msg("Failed to bump manager approved reviews")
		return err
	}
	if result.RowsAffected() == 0 {
		return managers.ErrManagerNotFound
	}
	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx).Exec(ctx, "DELETE FROM managers WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Msg("Failed to delete manager")
		return err
	}
	if result.RowsAffected() == 0 {
		return managers.ErrManagerNotFound
	}
	return nil
}

type managerScanner interface {
	Scan(dest ...interface{}) error
}

func scanManager(row managerScanner, m *models.Manager) error {
	return row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Status, &m.Department, &m.Permissions,
		&m.ManagedUsers, &m.ApprovedReviews, &m.JoinedAt,
	)
}
