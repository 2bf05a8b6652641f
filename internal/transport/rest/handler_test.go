package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockProductService is a testify mock of service.ProductService
type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) Create(ctx context.Context, product service.ProductCreateDto) (*service.ProductDto, error) {
	args := m.Called(ctx, product)
	dto, _ := args.Get(0).(*service.ProductDto)
	return dto, args.Error(1)
}

func (m *mockProductService) FindByID(ctx context.Context, id int64) (*service.ProductDto, error) {
	args := m.Called(ctx, id)
	dto, _ := args.Get(0).(*service.ProductDto)
	return dto, args.Error(1)
}

func (m *mockProductService) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]service.ProductDto)
	return list, args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, id int64, product service.ProductUpdateDto) (*service.ProductDto, error) {
	args := m.Called(ctx, id, product)
	dto, _ := args.Get(0).(*service.ProductDto)
	return dto, args.Error(1)
}

func (m *mockProductService) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestRouter(svc service.ProductService) *chi.Mux {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := NewHandler(svc, validation.New(), logger)
	h.now = func() time.Time { return fixedNow }
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v any) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	require.NoError(t, err)
	return string(bytes)
}

func errorBody(t *testing.T, status int, message, path string) string {
	t.Helper()
	return toJSON(t, map[string]any{
		"timestamp": fixedNow,
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
		"path":      path,
	})
}

func ptr[T any](v T) *T {
	return &v
}

func Test_Handler_Create(t *testing.T) {
	notebook := service.ProductCreateDto{Name: "Notebook", Description: "Dell", Price: ptr(3500.0), Amount: ptr(int64(10))}
	testCases := []struct {
		name             string
		body             string
		setup            func(m *mockProductService)
		expectedCode     int
		expectedBody     string
		expectedLocation string
	}{
		{
			name: "Success - product created",
			body: `{"name":"Notebook","description":"Dell","price":3500,"amount":10}`,
			setup: func(m *mockProductService) {
				m.On("Create", mock.Anything, notebook).
					Return(&service.ProductDto{ID: 1, Name: "Notebook", Description: "Dell", Price: 3500, Amount: 10}, nil)
			},
			expectedCode:     http.StatusCreated,
			expectedBody:     `{"id":1,"name":"Notebook","description":"Dell","price":3500,"amount":10}`,
			expectedLocation: "/products/1",
		},
		{
			name:         "Error - validation failed",
			body:         `{"name":" ","description":"Dell","amount":0}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `[{"field":"name","message":"must not be blank"},{"field":"price","message":"must not be null"},{"field":"amount","message":"must be greater than 0"}]`,
		},
		{
			name:         "Error - malformed body",
			body:         `{"name":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: errorBody(t, http.StatusBadRequest, "Invalid request body", "/products"),
		},
		{
			name: "Error - name taken",
			body: `{"name":"Notebook","description":"Dell","price":3500,"amount":10}`,
			setup: func(m *mockProductService) {
				m.On("Create", mock.Anything, notebook).Return(nil, perrors.ErrProductExists)
			},
			expectedCode: http.StatusConflict,
			expectedBody: errorBody(t, http.StatusConflict, "There is already a product with that name", "/products"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := &mockProductService{}
			if tc.setup != nil {
				tc.setup(svc)
			}
			router := newTestRouter(svc)
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			// when
			router.ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			assert.Equal(t, tc.expectedLocation, rr.Header().Get("Location"))
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		productID    string
		setup        func(m *mockProductService)
		expectedCode int
		expectedBody string
	}{
		{
			name:      "Success - product found",
			productID: "1",
			setup: func(m *mockProductService) {
				m.On("FindByID", mock.Anything, int64(1)).
					Return(&service.ProductDto{ID: 1, Name: "Notebook", Description: "Dell", Price: 3500, Amount: 10}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"Notebook","description":"Dell","price":3500,"amount":10}`,
		},
		{
			name:      "Error - product not found",
			productID: "2",
			setup: func(m *mockProductService) {
				m.On("FindByID", mock.Anything, int64(2)).Return(nil, perrors.ErrProductNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: errorBody(t, http.StatusNotFound, "Product Not Found", "/products/2"),
		},
		{
			name:         "Error - invalid ID",
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: errorBody(t, http.StatusBadRequest, "Invalid ID: abc", "/products/abc"),
		},
		{
			name:      "Error - store failure",
			productID: "3",
			setup: func(m *mockProductService) {
				m.On("FindByID", mock.Anything, int64(3)).Return(nil, errors.New("connection refused"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: errorBody(t, http.StatusInternalServerError, "connection refused", "/products/3"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := &mockProductService{}
			if tc.setup != nil {
				tc.setup(svc)
			}
			router := newTestRouter(svc)
			req := httptest.NewRequest(http.MethodGet, "/products/"+tc.productID, nil)
			rr := httptest.NewRecorder()
			// when
			router.ServeHTTP(rr, req)
			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_FindAll(t *testing.T) {
	testCases := []struct {
		name         string
		list         []service.ProductDto
		expectedBody string
	}{
		{
			name: "Success - products found",
			list: []service.ProductDto{
				{ID: 1, Name: "Notebook", Description: "Dell", Price: 3500, Amount: 10},
				{ID: 2, Name: "Phone", Description: "Pixel", Price: 900, Amount: 3},
			},
			expectedBody: `[{"id":1,"name":"Notebook","description":"Dell","price":3500,"amount":10},{"id":2,"name":"Phone","description":"Pixel","price":900,"amount":3}]`,
		},
		{
			name:         "Success - empty list",
			list:         []service.ProductDto{},
			expectedBody: `[]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := &mockProductService{}
			svc.On("FindAll", mock.Anything).Return(tc.list, nil)
			router := newTestRouter(svc)
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			rr := httptest.NewRecorder()
			// when
			router.ServeHTTP(rr, req)
			// then
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_Update(t *testing.T) {
	testCases := []struct {
		name         string
		productID    string
		body         string
		setup        func(m *mockProductService)
		expectedCode int
		expectedBody string
	}{
		{
			name:      "Success - price updated",
			productID: "1",
			body:      `{"price":3000}`,
			setup: func(m *mockProductService) {
				m.On("Update", mock.Anything, int64(1), service.ProductUpdateDto{Price: ptr(3000.0)}).
					Return(&service.ProductDto{ID: 1, Name: "Notebook", Description: "Dell", Price: 3000, Amount: 10}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"Notebook","description":"Dell","price":3000,"amount":10}`,
		},
		{
			name:         "Error - non-positive amount",
			productID:    "1",
			body:         `{"amount":-1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `[{"field":"amount","message":"must be greater than 0"}]`,
		},
		{
			name:      "Error - product not found",
			productID: "9",
			body:      `{"name":"Laptop"}`,
			setup: func(m *mockProductService) {
				m.On("Update", mock.Anything, int64(9), service.ProductUpdateDto{Name: ptr("Laptop")}).
					Return(nil, perrors.ErrProductNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: errorBody(t, http.StatusNotFound, "Product Not Found", "/products/9"),
		},
		{
			name:      "Error - name taken",
			productID: "1",
			body:      `{"name":"Phone"}`,
			setup: func(m *mockProductService) {
				m.On("Update", mock.Anything, int64(1), service.ProductUpdateDto{Name: ptr("Phone")}).
					Return(nil, perrors.ErrProductExists)
			},
			expectedCode: http.StatusConflict,
			expectedBody: errorBody(t, http.StatusConflict, "There is already a product with that name", "/products/1"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := &mockProductService{}
			if tc.setup != nil {
				tc.setup(svc)
			}
			router := newTestRouter(svc)
			req := httptest.NewRequest(http.MethodPut, "/products/"+tc.productID, strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			// when
			router.ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		productID    string
		setup        func(m *mockProductService)
		expectedCode int
		expectedBody string
	}{
		{
			name:      "Success - product deleted",
			productID: "1",
			setup: func(m *mockProductService) {
				m.On("DeleteByID", mock.Anything, int64(1)).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name:      "Error - product not found",
			productID: "4",
			setup: func(m *mockProductService) {
				m.On("DeleteByID", mock.Anything, int64(4)).Return(perrors.ErrProductNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: errorBody(t, http.StatusNotFound, "Product Not Found", "/products/4"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := &mockProductService{}
			tc.setup(svc)
			router := newTestRouter(svc)
			req := httptest.NewRequest(http.MethodDelete, "/products/"+tc.productID, nil)
			rr := httptest.NewRecorder()
			// when
			router.ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody == "" {
				assert.Empty(t, rr.Body.String())
			} else {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_HealthCheck(t *testing.T) {
	router := newTestRouter(&mockProductService{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
