package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cantina/internal/common/httpx"
	"cantina/internal/common/logger"
	"cantina/internal/microservices/catalog/domain/dao"
	"cantina/internal/microservices/catalog/domain/dto"
	"cantina/internal/microservices/catalog/service"
)

const maxBody = 64 << 10

var categorySchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["name"],
  "properties": {"name": {"type": "string", "minLength": 1, "maxLength": 120}}
}`)

var productSchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["name", "price"],
  "properties": {
    "name":         {"type": "string", "minLength": 1},
    "description":  {"type": "string"},
    "price":        {"type": ["number", "string"]},
    "old_price":    {"type": ["number", "string", "null"]},
    "category_id":  {"type": ["string", "null"], "format": "uuid"},
    "available":    {"type": "boolean"},
    "is_featured":  {"type": "boolean"},
    "is_promotion": {"type": "boolean"},
    "image_url":    {"type": "string"}
  }
}`)

type CatalogHandler struct {
	service service.CatalogServiceInterface
	lg      *logger.Logger
}

func NewCatalogHandler(s service.CatalogServiceInterface, lg *logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: s, lg: lg}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{id}/products", h.ListByCategory)
	r.Get("/products", h.ListProducts)
	r.Get("/products/featured", h.ListFeatured)
	r.Get("/products/promotions", h.ListPromotions)
	r.Get("/products/{id}", h.GetProduct)
}

func (h *CatalogHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/categories", h.CreateCategory)
	r.Put("/categories/{id}", h.RenameCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)
	r.Post("/products", h.CreateProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.service.ListCategories(r.Context())
	if err != nil {
		httpx.WriteError(w, h.lg, "list_categories_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cs)
}

func (h *CatalogHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ps, err := h.service.ListByCategory(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.lg, "list_products_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var f dao.ProductFilter
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "category_id must be a uuid")
			return
		}
		f.CategoryID = &id
	}
	h.listProducts(w, r, f)
}

func (h *CatalogHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	h.listProducts(w, r, dao.ProductFilter{Featured: true})
}

func (h *CatalogHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	h.listProducts(w, r, dao.ProductFilter{Promotion: true})
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request, f dao.ProductFilter) {
	ps, err := h.service.ListProducts(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, h.lg, "list_products_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.lg, "get_product_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !httpx.DecodeJSON(w, r, maxBody, categorySchema, &req) {
		return
	}
	c, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, h.lg, "create_category_failed", err)
		return
	}
	h.lg.Info("category_created", map[string]any{"id": c.ID, "name": c.Name, "by": httpx.AdminFromContext(r.Context())})
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !httpx.DecodeJSON(w, r, maxBody, categorySchema, &req) {
		return
	}
	c, err := h.service.RenameCategory(r.Context(), id, req)
	if err != nil {
		httpx.WriteError(w, h.lg, "update_category_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httpx.WriteError(w, h.lg, "delete_category_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !httpx.DecodeJSON(w, r, maxBody, productSchema, &req) {
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, h.lg, "create_product_failed", err)
		return
	}
	h.lg.Info("product_created", map[string]any{"id": p.ID, "name": p.Name, "by": httpx.AdminFromContext(r.Context())})
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !httpx.DecodeJSON(w, r, maxBody, productSchema, &req) {
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		httpx.WriteError(w, h.lg, "update_product_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.WriteError(w, h.lg, "delete_product_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route parameter and answers 400 itself when it is not a uuid.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
