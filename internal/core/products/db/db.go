package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/products"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
)

const productColumns = "id, name, category, description, price, reward, " +
	"rating, review_count, stock, available, created_at"

type Repository struct {
	db *db.Database
}

func New(db *db.Database) Repository {
	return Repository{db}
}

func (r Repository) Add(ctx context.Context, p models.Product) (models.Product, error) {
	var newProductID int
	err := r.db.ExecContext(ctx).
		QueryRow(
			ctx,
			"INSERT INTO products "+
				"(name, category, description, price, reward, stock, available, created_at) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id",
			p.Name, p.Category, p.Description, p.Price, p.Reward, p.Stock, p.Available, p.CreatedAt,
		).
		Scan(&newProductID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add product")
		return models.Product{}, err
	}
	log.Debug().Str("name", p.Name).Int("ID", newProductID).Msg("Added new product")
	created := p
	created.ID = newProductID
	return created, nil
}

func (r Repository) GetByID(ctx context.Context, id int) (models.Product, error) {
	var p models.Product
	row := r.db.ExecContext(ctx).QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug().Int("ID", id).Msg("Product not found in database")
			return models.Product{}, products.ErrProductNotFound
		}
		log.Error().Err(err).Int("ID", id).Msg("Failed to query product by ID")
		return models.Product{}, err
	}
	return p, nil
}

func (r Repository) List(ctx context.Context, filter products.Filter) ([]models.Product, error) {
	rows, err := r.db.ExecContext(ctx).Query(
		ctx,
		"SELECT "+productColumns+" FROM products "+
			"WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%') "+
			"AND ($2 = '' OR category = $2) "+
			"AND (NOT $3 OR (available AND stock > 0)) "+
			"ORDER BY created_at ASC",
		filter.Term, filter.Category, filter.OnlyAvailable,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query products")
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err = scanProduct(rows, &p); err != nil {
			log.Error().Err(err).Msg("Failed to read products")
			return nil, err
		}
		items = append(items, p)
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Msg("Failed to fetch products")
		return nil, err
	}

	return items, nil
}

func (r Repository) Update(ctx context.Context, p models.Product) error {
	result, err := r.db.ExecContext(ctx).Exec(
		ctx,
		"UPDATE products SET "+
			"name = $1, category = $2, description = $3, price = $4, reward = $5, stock = $6, available = $7 "+
			"WHERE id = $8",
		p.Name, p.Category, p.Description, p.Price, p.Reward, p.Stock, p.Available, p.ID,
	)
	if err != nil {
		log.Error().Err(err).Int("ID", p.ID).Msg("Failed to update product")
		return err
	}
	if result.RowsAffected() == 0 {
		return products.ErrProductNotFound
	}
	return nil
}

func (r Repository) SetAvailability(ctx context.Context, id int, available bool) error {
	result, err := r.db.ExecContext(ctx).Exec(
		ctx, "UPDATE products SET available = $1 WHERE id = $2", available, id,
	)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Msg("Failed to update product availability")
		return err
	}
	if result.RowsAffected() == 0 {
		return products.ErrProductNotFound
	}
	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx).Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Msg("Failed to delete product")
		return err
	}
	if result.RowsAffected() == 0 {
		return products.ErrProductNotFound
	}
	return nil
}

// HoldInstance reserves one product instance for a claim.
// The row is locked for the duration of the check,
// so that two simultaneous claims cannot both take the last instance
func (r Repository) HoldInstance(ctx context.Context, id int) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		var stock int
		var available bool
		tx := r.db.ExecContext(txCtx)
		if err := tx.QueryRow(
			txCtx, "SELECT stock, available FROM products WHERE id = $1 FOR UPDATE", id,
		).Scan(&stock, &available); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return products.ErrProductNotFound
			}
			log.Error().Err(err).Int("ID", id).Msg("Unable to acquire row lock for product")
			return err
		}
		if !available || stock < 1 {
			return products.ErrProductOutOfStock
		}
		if _, err := tx.Exec(
			txCtx, "UPDATE products SET stock = stock - 1 WHERE id = $1", id,
		); err != nil {
			return err
		}
		log.Debug().Int("ID", id).Int("stock", stock-1).Msg("Product instance held")
		return nil
	})
}

func (r Repository) ReleaseInstance(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx).Exec(
		ctx, "UPDATE products SET stock = stock + 1 WHERE id = $1", id,
	)
	if err != nil {
		log.Error().Err(err).Int("ID", id).Msg("Failed to release product instance")
		return err
	}
	if result.RowsAffected() == 0 {
		return products.ErrProductNotFound
	}
	return nil
}

// ApplyReviewRating folds an approved review's rating
// into the product's running average rating and review count
func (r Repository) ApplyReviewRating(ctx context.Context, id int, rating int) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		tx := r.db.ExecContext(txCtx)
		var exists bool
		if err := tx.QueryRow(
			txCtx, "SELECT EXISTS(SELECT id FROM products WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return err
		} else if !exists {
			return products.ErrProductNotFound
		}
		if _, err := tx.Exec(
			txCtx,
			"UPDATE products SET "+
				"rating = round((rating * review_count + $1) / (review_count + 1), 2), "+
				"review_count = review_count + 1 "+
				"WHERE id = $2",
			rating, id,
		); err != nil {
			log.Error().Err(err).Int("ID", id).Msg("Failed to apply review rating to product")
			return err
		}
		return nil
	})
}

func (r Repository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.ExecContext(ctx).Query(
		ctx, "SELECT DISTINCT category FROM products ORDER BY category ASC",
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query product categories")
		return nil, err
	}
	defer rows.Close()

	items := make([]string, 0)
	for rows.Next() {
		var category string
		if err = rows.Scan(&category); err != nil {
			return nil, err
		}
		items = append(items, category)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type productScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row productScanner, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Description, &p.Price, &p.Reward,
		&p.Rating, &p.ReviewCount, &p.Stock, &p.Available, &p.CreatedAt,
	)
}
