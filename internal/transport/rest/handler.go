// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  service.ProductService
	validate *validation.Validator
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, validate *validation.Validator, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validate,
		logger:   logger.With("component", "rest"),
		now:      time.Now,
	}
}

// RegisterRoutes registers the HTTP routes for the catalog.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var productCreateDto service.ProductCreateDto
	if !h.decode(w, r, &productCreateDto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)
	if err := h.validate.Struct(productCreateDto); err != nil {
		h.respondError(w, r, err)
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	w.Header().Set("Location", fmt.Sprintf("/products/%d", newProduct.ID))
	web.RespondJSON(w, h.logger, http.StatusCreated, newProduct)
}

// Update merges the request body into an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var productUpdateDto service.ProductUpdateDto
	if !h.decode(w, r, &productUpdateDto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	if err := h.validate.Struct(productUpdateDto); err != nil {
		h.respondError(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondError writes the mapped error response and logs it at a level matching its status.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := MapError(err, r.URL.Path, h.now())
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed", "status", status, "error", err)
	} else {
		h.logger.WarnContext(r.Context(), "Request rejected", "status", status, "error", err)
	}
	web.RespondJSON(w, h.logger, status, body)
}

// BadRequest writes a 400 ErrorResponse for input that could not be read at all.
func (h *Handler) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	h.logger.WarnContext(r.Context(), "Bad request", "message", message)
	web.RespondJSON(w, h.logger, http.StatusBadRequest,
		web.NewErrorResponse(h.now(), http.StatusBadRequest, message, r.URL.Path))
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := web.ParseID(r)
	if err != nil {
		h.BadRequest(w, r, err.Error())
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.DebugContext(r.Context(), "Error decoding request body", "error", err)
		h.BadRequest(w, r, "Invalid request body")
		return false
	}
	return true
}
