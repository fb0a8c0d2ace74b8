package menu

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// itemSortable maps ordering query fields to item columns
var itemSortable = map[string]string{
	"title":    "m.title",
	"price":    "m.price",
	"category": "m.category_id",
}

// Handler handles HTTP requests for the menu catalog
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts the catalog routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/menu-items", h.ListItems)
	r.Post("/menu-items", h.CreateItem)
	r.Get("/menu-items/{id}", h.GetItem)
	r.Put("/menu-items/{id}", h.UpdateItem)
	r.Patch("/menu-items/{id}", h.UpdateItem)
	r.Delete("/menu-items/{id}", h.DeleteItem)

	r.Get("/category", h.ListCategories)
	r.Post("/category", h.CreateCategory)
	r.Get("/category/{id}", h.GetCategory)
	r.Delete("/category/{id}", h.DeleteCategory)
}

// ListItems handles GET /menu-items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	params, err := httpx.ParseListParams(r.URL.Query(), itemSortable)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	filter := models.MenuItemFilter{
		Title:         r.URL.Query().Get("title"),
		CategoryTitle: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("price"); raw != "" {
		ceiling, err := decimal.NewFromString(raw)
		if err != nil {
			httpx.WriteDomainError(w, models.ValidationError{Field: "price", Message: "price must be a decimal"}, requestID)
			return
		}
		filter.PriceCeiling = &ceiling
	}

	items, err := h.service.ListItems(r.Context(), p, filter, params)
	if err != nil {
		h.logger.Error("menu_list_failed", "Failed to list menu items", requestID, err, nil)
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

// GetItem handles GET /menu-items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	item, err := h.service.GetItem(r.Context(), p, id)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /menu-items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	var req models.CreateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "invalid JSON format", requestID)
		return
	}

	item, err := h.service.CreateItem(r.Context(), p, &req)
	if err != nil {
		h.logger.Debug("menu_item_rejected", "Menu item creation rejected", requestID, map[string]interface{}{
			"title": req.Title,
		})
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("menu_item_created", "Menu item created", requestID, map[string]interface{}{
		"item_id": item.ID,
		"title":   item.Title,
	})
	httpx.WriteJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT/PATCH /menu-items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	var req models.UpdateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "invalid JSON format", requestID)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), p, id, &req)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /menu-items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	if err := h.service.DeleteItem(r.Context(), p, id); err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("menu_item_deleted", "Menu item deleted", requestID, map[string]interface{}{
		"item_id": id,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// ListCategories handles GET /category
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	categories, err := h.service.ListCategories(r.Context(), p)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	httpx.WriteJSON(w, http.StatusOK, categories)
}

// GetCategory handles GET /category/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	category, err := h.service.GetCategory(r.Context(), p, id)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, category)
}

// CreateCategory handles POST /category
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "invalid JSON format", requestID)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), p, &req)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("category_created", "Category created", requestID, map[string]interface{}{
		"category_id": category.ID,
	})
	httpx.WriteJSON(w, http.StatusCreated, category)
}

// DeleteCategory handles DELETE /category/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), p, id); err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// pathID parses the {id} route parameter
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, models.ValidationError{Field: "id", Message: "id must be a positive integer"}
	}
	return id, nil
}
