package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abgdnv/catalog/internal/domain"
	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	products []domain.Product
	product  domain.Product
	exists   bool
	error    error
	saveErr  error
	saved    []domain.Product
	deleted  []int64
}

func (m *mockProductStore) Save(_ context.Context, p domain.Product) (*domain.Product, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saved = append(m.saved, p)
	if p.ID == 0 {
		p.ID = 1
	}
	return &p, nil
}

func (m *mockProductStore) FindByID(_ context.Context, _ int64) (*domain.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	p := m.product
	return &p, nil
}

func (m *mockProductStore) FindAll(_ context.Context) ([]domain.Product, error) {
	return m.products, m.error
}

func (m *mockProductStore) ExistsByID(_ context.Context, _ int64) (bool, error) {
	return m.exists, m.error
}

func (m *mockProductStore) DeleteByID(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []messaging.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e messaging.Event) error {
	p.events = append(p.events, e)
	return p.err
}

var _ store.ProductStore = (*mockProductStore)(nil)

func ptr[T any](v T) *T {
	return &v
}

func Test_ProductService_Create(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		input       ProductCreateDto
		expected    *ProductDto
		expectError error
	}{
		{
			name:      "Success - product created",
			mockStore: &mockProductStore{},
			input:     ProductCreateDto{Name: "Notebook", Description: "Dell", Price: ptr(3500.0), Amount: ptr(int64(10))},
			expected:  &ProductDto{ID: 1, Name: "Notebook", Description: "Dell", Price: 3500, Amount: 10},
		},
		{
			name:        "Error - duplicate name",
			mockStore:   &mockProductStore{saveErr: fmt.Errorf("%w: products_name_key", perrors.ErrUniqueViolation)},
			input:       ProductCreateDto{Name: "Notebook", Description: "Dell", Price: ptr(3500.0), Amount: ptr(int64(10))},
			expectError: perrors.ErrProductExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			publisher := &recordingPublisher{}
			service := NewService(tc.mockStore, WithPublisher(publisher))
			// when
			created, err := service.Create(context.Background(), tc.input)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				assert.Empty(t, publisher.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, created)
			require.Len(t, publisher.events, 1)
			event := publisher.events[0].(events.ProductEvent)
			assert.Equal(t, events.ProductCreated, event.Type)
			assert.Equal(t, int64(1), event.ProductID)
		})
	}
}

func Test_ProductService_FindByID(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: domain.Product{ID: 1, Name: "Toy", Description: "d", Price: 2, Amount: 3},
			},
			productID: 1,
			expected:  &ProductDto{ID: 1, Name: "Toy", Description: "d", Price: 2, Amount: 3},
		},
		{
			name:        "Error - product not found",
			mockStore:   &mockProductStore{error: perrors.ErrProductNotFound},
			productID:   2,
			expectError: perrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Equal(t, perrors.KindNotFound, perrors.KindOf(err))
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindAll(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expected    []ProductDto
		expectError bool
	}{
		{
			name: "Success - products found",
			mockStore: &mockProductStore{products: []domain.Product{
				{ID: 1, Name: "Toy", Description: "d", Price: 1, Amount: 1},
				{ID: 2, Name: "Ball", Description: "d", Price: 2, Amount: 2},
			}},
			expected: []ProductDto{
				{ID: 1, Name: "Toy", Description: "d", Price: 1, Amount: 1},
				{ID: 2, Name: "Ball", Description: "d", Price: 2, Amount: 2},
			},
		},
		{
			name:      "Success - empty store",
			mockStore: &mockProductStore{},
			expected:  []ProductDto{},
		},
		{
			name:        "Error - store failure",
			mockStore:   &mockProductStore{error: errors.New("connection refused")},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindAll(context.Background())
			// then
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_Update(t *testing.T) {
	current := domain.Product{ID: 7, Name: "Notebook", Description: "Dell", Price: 3500, Amount: 10}
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		input       ProductUpdateDto
		expected    *ProductDto
		expectError error
	}{
		{
			name:      "Success - partial update keeps absent fields",
			mockStore: &mockProductStore{product: current},
			input:     ProductUpdateDto{Price: ptr(3000.0)},
			expected:  &ProductDto{ID: 7, Name: "Notebook", Description: "Dell", Price: 3000, Amount: 10},
		},
		{
			name:      "Success - blank strings are ignored",
			mockStore: &mockProductStore{product: current},
			input:     ProductUpdateDto{Name: ptr("  "), Description: ptr(""), Amount: ptr(int64(4))},
			expected:  &ProductDto{ID: 7, Name: "Notebook", Description: "Dell", Price: 3500, Amount: 4},
		},
		{
			name:        "Error - product not found",
			mockStore:   &mockProductStore{error: perrors.ErrProductNotFound},
			input:       ProductUpdateDto{Name: ptr("Laptop")},
			expectError: perrors.ErrProductNotFound,
		},
		{
			name: "Error - new name taken",
			mockStore: &mockProductStore{
				product: current,
				saveErr: fmt.Errorf("%w: products_name_key", perrors.ErrUniqueViolation),
			},
			input:       ProductUpdateDto{Name: ptr("Phone")},
			expectError: perrors.ErrProductExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			updated, err := service.Update(context.Background(), 7, tc.input)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated)
			require.Len(t, tc.mockStore.saved, 1)
			assert.Equal(t, int64(7), tc.mockStore.saved[0].ID)
		})
	}
}

func Test_ProductService_DeleteByID(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expectError error
		deleted     []int64
	}{
		{
			name:      "Success - product deleted",
			mockStore: &mockProductStore{exists: true},
			deleted:   []int64{5},
		},
		{
			name:        "Error - product not found",
			mockStore:   &mockProductStore{exists: false},
			expectError: perrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			err := service.DeleteByID(context.Background(), 5)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Empty(t, tc.mockStore.deleted)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.deleted, tc.mockStore.deleted)
		})
	}
}

func Test_ProductService_PublishFailureDoesNotFailMutation(t *testing.T) {
	// given
	publisher := &recordingPublisher{err: errors.New("broker down")}
	service := NewService(&mockProductStore{exists: true}, WithPublisher(publisher))
	service.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	// when
	err := service.DeleteByID(context.Background(), 9)
	// then
	require.NoError(t, err)
	require.Len(t, publisher.events, 1)
	event := publisher.events[0].(events.ProductEvent)
	assert.Equal(t, events.ProductDeleted, event.Type)
	assert.Equal(t, int64(9), event.ProductID)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), event.OccurredAt)
}
