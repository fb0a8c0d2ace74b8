package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Handler handles HTTP requests for the cart ledger
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new cart handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts the cart routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/cart/menu-items", h.ListMine)
	r.Post("/cart/menu-items", h.AddLine)
	r.Delete("/cart/menu-items", h.ClearMine)
}

// ListMine handles GET /cart/menu-items
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	lines, err := h.service.ListMine(r.Context(), p)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	httpx.WriteJSON(w, http.StatusOK, lines)
}

// AddLine handles POST /cart/menu-items
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	var req models.AddCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "invalid JSON format", requestID)
		return
	}

	line, err := h.service.AddLine(r.Context(), p, &req)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Debug("cart_line_added", "Cart line added", requestID, map[string]interface{}{
		"menu_item": req.MenuItemID,
		"quantity":  req.Quantity,
	})
	httpx.WriteJSON(w, http.StatusCreated, line)
}

// ClearMine handles DELETE /cart/menu-items
func (h *Handler) ClearMine(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	if err := h.service.ClearMine(r.Context(), p); err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
