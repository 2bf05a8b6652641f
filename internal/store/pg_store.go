package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/catalog/internal/domain"
	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE of unique_violation.
const pgUniqueViolation = "23505"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	q *db.Queries
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{q: db.New(dbp)}
}

// Save inserts or updates a product depending on whether it already has an ID.
func (p *PgStore) Save(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == 0 {
		row, err := p.q.CreateProduct(ctx, db.CreateProductParams{
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Amount:      product.Amount,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create product: %w", translatePgError(err))
		}
		return toDomain(row), nil
	}

	row, err := p.q.UpdateProduct(ctx, db.UpdateProductParams{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Amount:      product.Amount,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", translatePgError(err))
	}
	return toDomain(row), nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row, err := p.q.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return toDomain(row), nil
}

// FindAll retrieves all products ordered by ID.
func (p *PgStore) FindAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.q.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, *toDomain(row))
	}
	return products, nil
}

// ExistsByID reports whether a product with the given ID exists.
func (p *PgStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := p.q.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if nothing was deleted.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	count, err := p.q.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// translatePgError replaces a unique_violation with ErrUniqueViolation, keeping the constraint name.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", perrors.ErrUniqueViolation, pgErr.ConstraintName)
	}
	return err
}

func toDomain(row db.Product) *domain.Product {
	return &domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Amount:      row.Amount,
	}
}
