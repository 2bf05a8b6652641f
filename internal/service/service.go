// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/catalog/internal/domain"
	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create adds a new product to the catalog.
	// Returns ErrProductExists if the name is already taken.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindAll returns all products in store order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Update merges the supplied fields into an existing product.
	// Returns ErrProductNotFound or ErrProductExists.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// ProductCreateDto is the payload for creating a product. Every field is required.
type ProductCreateDto struct {
	Name        string   `json:"name"        validate:"notblank,max=100"`
	Description string   `json:"description" validate:"notblank"`
	Price       *float64 `json:"price"       validate:"required,gt=0"`
	Amount      *int64   `json:"amount"      validate:"required,gt=0"`
}

// ProductUpdateDto is the payload for a partial update. Absent fields keep their current value.
type ProductUpdateDto struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"  validate:"omitempty,gt=0"`
	Amount      *int64   `json:"amount" validate:"omitempty,gt=0"`
}

// ProductDto is the outward representation of a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Amount      int64   `json:"amount"`
}

// Service implements ProductService on top of a ProductStore.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	logger     *slog.Logger
	mutations  metric.Int64Counter
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher makes the service publish a product event after every successful mutation.
func WithPublisher(p messaging.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithLogger sets the logger used for event publishing failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, opts ...Option) *Service {
	s := &Service{
		repository: repo,
		publisher:  messaging.NoopPublisher{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	// the global meter is a no-op until a provider is installed
	s.mutations, _ = otel.Meter("github.com/abgdnv/catalog/internal/service").Int64Counter(
		"catalog.product.mutations",
		metric.WithDescription("Successful product create, update and delete operations"),
	)
	return s
}

// Create persists a new product and returns it with its assigned ID.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	p := domain.Product{
		Name:        product.Name,
		Description: product.Description,
		Price:       deref(product.Price),
		Amount:      deref(product.Amount),
	}
	created, err := s.repository.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", conflictOr(err))
	}

	s.afterMutation(ctx, events.ProductCreated, created)
	return toDto(created), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs, nil
}

// Update loads the product, applies the partial update and saves it.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	current.ApplyUpdate(domain.ProductPatch{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Amount:      product.Amount,
	})

	updated, err := s.repository.Save(ctx, *current)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, conflictOr(err))
	}

	s.afterMutation(ctx, events.ProductUpdated, updated)
	return toDto(updated), nil
}

// DeleteByID checks that the product exists and deletes it.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	exists, err := s.repository.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check product with ID %d: %w", id, err)
	}
	if !exists {
		return perrors.ErrProductNotFound
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}

	s.afterMutation(ctx, events.ProductDeleted, &domain.Product{ID: id})
	return nil
}

// afterMutation records the mutation and publishes its event.
// A failed publish is logged and does not fail the operation.
func (s *Service) afterMutation(ctx context.Context, eventType events.ProductEventType, p *domain.Product) {
	if s.mutations != nil {
		s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", string(eventType))))
	}
	event := events.ProductEvent{
		Type:       eventType,
		ProductID:  p.ID,
		Name:       p.Name,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product event",
			"event", string(eventType), "product_id", p.ID, "error", err)
	}
}

// conflictOr turns a store uniqueness violation into ErrProductExists.
func conflictOr(err error) error {
	if errors.Is(err, perrors.ErrUniqueViolation) {
		return perrors.ErrProductExists
	}
	return err
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// toDto converts a domain.Product to a ProductDto.
func toDto(product *domain.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Amount:      product.Amount,
	}
}
