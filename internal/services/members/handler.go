package members

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Handler handles HTTP requests for the membership directory
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new membership handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts one group per elevated role
func (h *Handler) RegisterRoutes(r chi.Router) {
	h.registerGroup(r, "/groups/manager/users", models.RoleManager)
	h.registerGroup(r, "/groups/delivery-crew/users", models.RoleDeliveryCrew)
}

func (h *Handler) registerGroup(r chi.Router, prefix string, role models.Role) {
	r.Get(prefix, h.list(role))
	r.Post(prefix, h.add(role))
	r.Get(prefix+"/{id}", h.get(role))
	r.Delete(prefix+"/{id}", h.remove(role))
}

func (h *Handler) list(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := httpx.RequestID(r.Context())
		p := auth.FromContext(r.Context())

		members, err := h.service.ListMembers(r.Context(), p, role)
		if err != nil {
			httpx.WriteDomainError(w, err, requestID)
			return
		}
		if members == nil {
			members = []models.MemberResponse{}
		}
		httpx.WriteJSON(w, http.StatusOK, members)
	}
}

func (h *Handler) get(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := httpx.RequestID(r.Context())
		p := auth.FromContext(r.Context())

		id, err := memberID(r)
		if err != nil {
			httpx.WriteDomainError(w, err, requestID)
			return
		}

		member, err := h.service.GetMember(r.Context(), p, role, id)
		if err != nil {
			httpx.WriteDomainError(w, err, requestID)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, member)
	}
}

func (h *Handler) add(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := httpx.RequestID(r.Context())
		p := auth.FromContext(r.Context())

		var req models.AddMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "invalid JSON format", requestID)
			return
		}

		member, err := h.service.AddMember(r.Context(), p, role, &req)
		if err != nil {
			httpx.WriteDomainError(w, err, requestID)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, member)
	}
}

func (h *Handler) remove(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := httpx.RequestID(r.Context())
		p := auth.FromContext(r.Context())

		id, err := memberID(r)
		if err != nil {
			httpx.WriteDomainError(w, err, requestID)
			return
		}

		if err := h.service.RemoveMember(r.Context(), p, role, id); err != nil {
			httpx.WriteDomainError(w, err, requestID)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "membership removed"})
	}
}

func memberID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, models.ValidationError{Field: "id", Message: "id must be a positive integer"}
	}
	return id, nil
}
