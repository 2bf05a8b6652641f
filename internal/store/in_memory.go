package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/abgdnv/catalog/internal/domain"
	perrors "github.com/abgdnv/catalog/internal/errors"
)

// InMemoryStore implements ProductStore using in-memory maps.
// It enforces name uniqueness the same way the database constraint does.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	byName   map[string]int64
	order    []int64
	nextID   int64
}

// NewInMemoryStore creates a new, empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[int64]domain.Product),
		byName:   make(map[string]int64),
		nextID:   1,
	}
}

// Save inserts p when p.ID is zero and replaces the stored product otherwise.
func (s *InMemoryStore) Save(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, taken := s.byName[p.Name]; taken && owner != p.ID {
		return nil, fmt.Errorf("%w: products_name_key", perrors.ErrUniqueViolation)
	}

	if p.ID == 0 {
		p.ID = s.nextID
		s.nextID++
		s.order = append(s.order, p.ID)
	} else {
		current, ok := s.products[p.ID]
		if !ok {
			return nil, perrors.ErrProductNotFound
		}
		delete(s.byName, current.Name)
	}
	s.products[p.ID] = p
	s.byName[p.Name] = p.ID

	return &p, nil
}

// FindByID retrieves a product by its ID.
func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

// FindAll retrieves all products in insertion order.
func (s *InMemoryStore) FindAll(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id])
	}
	return list, nil
}

// ExistsByID reports whether a product with the given ID is stored.
func (s *InMemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.products[id]
	return ok, nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[id]
	if !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	delete(s.byName, p.Name)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}
