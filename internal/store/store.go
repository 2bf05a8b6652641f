// Package store provides the persistence gateway for products.
package store

import (
	"context"

	"github.com/abgdnv/catalog/internal/domain"
)

// ProductStore is an interface for product storage operations.
// Implementations return perrors.ErrProductNotFound for missing rows and wrap
// perrors.ErrUniqueViolation when a name is already taken.
type ProductStore interface {
	// Save inserts p when p.ID is zero and replaces the stored product with p.ID otherwise.
	// The returned product carries the assigned ID.
	Save(ctx context.Context, p domain.Product) (*domain.Product, error)

	// FindByID retrieves a single product by its identifier.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// FindAll returns every stored product ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]domain.Product, error)

	// ExistsByID reports whether a product with the given ID is stored.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// DeleteByID removes a product by its ID.
	DeleteByID(ctx context.Context, id int64) error
}
