package orders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// orderSortable maps ordering query fields to order columns
var orderSortable = map[string]string{
	"total": "total",
	"date":  "date",
}

// Handler handles HTTP requests for the order engine
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// requestLimit caps concurrent order requests; requests beyond it are
// answered with 429 instead of queuing up on the placement transaction
var requestLimit = 100

// RegisterRoutes mounts the order routes behind the throttle
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Throttle(requestLimit))
		gr.Get("/orders", h.List)
		gr.Post("/orders", h.Place)
		gr.Get("/orders/{id}", h.Detail)
		gr.Put("/orders/{id}", h.Update)
		gr.Patch("/orders/{id}", h.Update)
		gr.Delete("/orders/{id}", h.Delete)
	})
}

// List handles GET /orders
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	params, err := httpx.ParseListParams(r.URL.Query(), orderSortable)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	orders, err := h.service.List(r.Context(), p, filter, params)
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list orders", requestID, err, nil)
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

// Place handles POST /orders
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	order, err := h.service.Place(r.Context(), p)
	if err != nil {
		h.logger.Debug("order_placement_rejected", "Order placement rejected", requestID, map[string]interface{}{
			"user_id": principalID(p),
		})
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("order_placed", "Order placed", requestID, map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total.String(),
	})
	httpx.WriteJSON(w, http.StatusCreated, order)
}

// Detail handles GET /orders/{id}
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	order, err := h.service.Detail(r.Context(), p, id)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

// Update handles PUT/PATCH /orders/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	var req models.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "invalid JSON format", requestID)
		return
	}

	order, err := h.service.Update(r.Context(), p, id, &req)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("order_updated", "Order updated", requestID, map[string]interface{}{
		"order_id": order.ID,
		"status":   string(order.Status),
	})
	httpx.WriteJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /orders/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	p := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	if err := h.service.Delete(r.Context(), p, id); err != nil {
		httpx.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("order_deleted", "Order deleted", requestID, map[string]interface{}{
		"order_id": id,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

// parseOrderFilter reads the order listing filters from the query string
func parseOrderFilter(r *http.Request) (models.OrderFilter, error) {
	var filter models.OrderFilter
	q := r.URL.Query()

	if raw := q.Get("delivery_crew"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, models.ValidationError{Field: "delivery_crew", Message: "delivery_crew must be an integer"}
		}
		filter.DeliveryCrewID = &id
	}
	if raw := q.Get("status"); raw != "" {
		status, ok := models.ParseOrderStatus(raw)
		if !ok {
			return filter, models.ValidationError{Field: "status", Message: "status must be pending or delivered"}
		}
		filter.Status = &status
	}
	if raw := q.Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, models.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
		}
		filter.Date = &date
	}
	if raw := q.Get("total"); raw != "" {
		ceiling, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, models.ValidationError{Field: "total", Message: "total must be a decimal"}
		}
		filter.TotalCeiling = &ceiling
	}

	return filter, nil
}

// pathID parses the {id} route parameter
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, models.ValidationError{Field: "id", Message: "id must be a positive integer"}
	}
	return id, nil
}

func principalID(p *auth.Principal) int64 {
	if p == nil {
		return 0
	}
	return p.ID
}
