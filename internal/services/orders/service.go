package orders

import (
	"context"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/authz"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Service implements order creation and the order lifecycle
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new order service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Place converts the caller's cart into an order. An empty cart is not
// found; there is nothing to order.
func (s *Service) Place(ctx context.Context, p *auth.Principal) (*models.Order, error) {
	if err := authz.Authorize(p, authz.ActionCreate, authz.ResourceOrder, nil); err != nil {
		return nil, err
	}
	return s.repo.PlaceOrder(ctx, p.ID)
}

// List returns orders visible to the caller. Delivery crew see orders
// assigned to them even when they also manage, managers see everything,
// everyone else sees their own. The scope is part of the query, never an
// after-the-fact filter.
func (s *Service) List(ctx context.Context, p *auth.Principal, filter models.OrderFilter, params httpx.ListParams) ([]models.Order, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}

	// Crew scoping wins over the manager one when a principal holds both roles
	switch {
	case p.IsDeliveryCrew():
		filter.DeliveryCrewID = &p.ID
	case p.IsManager():
		// unscoped
	default:
		filter.OwnerID = &p.ID
	}

	return s.repo.List(ctx, filter, params)
}

// Detail returns an order together with its line items. This view belongs to
// the order's owner alone; managers and delivery crew work with orders
// through the list and lifecycle operations instead.
func (s *Service) Detail(ctx context.Context, p *auth.Principal, orderID int64) (*models.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ref := &authz.OrderRef{OwnerID: order.UserID, DeliveryCrewID: order.DeliveryCrewID}
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceOrderLines, ref); err != nil {
		return nil, err
	}

	lines, err := s.repo.Lines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

// Update applies the role-gated lifecycle transitions. Managers assign a
// delivery crew (the target must currently hold the role); the assigned crew
// member toggles the status and may touch nothing else. The owner never
// writes an order after creation.
func (s *Service) Update(ctx context.Context, p *auth.Principal, orderID int64, req *models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ref := &authz.OrderRef{OwnerID: order.UserID, DeliveryCrewID: order.DeliveryCrewID}
	if err := authz.Authorize(p, authz.ActionUpdate, authz.ResourceOrder, ref); err != nil {
		return nil, err
	}

	switch {
	case p.IsManager():
		if err := s.applyAdminUpdate(ctx, orderID, req); err != nil {
			return nil, err
		}
	case p.IsDeliveryCrew():
		if err := s.applyStatusUpdate(ctx, orderID, req); err != nil {
			return nil, err
		}
	default:
		return nil, models.ErrForbidden
	}

	return s.repo.Get(ctx, orderID)
}

// applyAdminUpdate is the manager path: assign a delivery crew and/or set
// the status.
func (s *Service) applyAdminUpdate(ctx context.Context, orderID int64, req *models.UpdateOrderRequest) error {
	if req.DeliveryCrewID == nil && req.Status == nil {
		return models.ValidationError{Field: "body", Message: "at least one field is required"}
	}

	if req.DeliveryCrewID != nil {
		isCrew, err := s.repo.UserHasRole(ctx, *req.DeliveryCrewID, models.RoleDeliveryCrew)
		if err != nil {
			return err
		}
		if !isCrew {
			return models.ValidationError{
				Field:   "delivery_crew",
				Message: "assignee does not hold the delivery crew role",
			}
		}
		if err := s.repo.AssignCrew(ctx, orderID, *req.DeliveryCrewID); err != nil {
			return err
		}
	}

	if req.Status != nil {
		status, ok := models.ParseOrderStatus(*req.Status)
		if !ok {
			return models.ValidationError{Field: "status", Message: "status must be pending or delivered"}
		}
		if err := s.repo.SetStatus(ctx, orderID, status); err != nil {
			return err
		}
	}
	return nil
}

// applyStatusUpdate is the crew path: the status field alone may change
func (s *Service) applyStatusUpdate(ctx context.Context, orderID int64, req *models.UpdateOrderRequest) error {
	if req.DeliveryCrewID != nil {
		return models.ValidationError{Field: "delivery_crew", Message: "only the status field may be updated"}
	}
	if req.Status == nil {
		return models.ValidationError{Field: "status", Message: "status is required"}
	}

	status, ok := models.ParseOrderStatus(*req.Status)
	if !ok {
		return models.ValidationError{Field: "status", Message: "status must be pending or delivered"}
	}
	return s.repo.SetStatus(ctx, orderID, status)
}

// Delete removes an order and its lines; managers only
func (s *Service) Delete(ctx context.Context, p *auth.Principal, orderID int64) error {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	ref := &authz.OrderRef{OwnerID: order.UserID, DeliveryCrewID: order.DeliveryCrewID}
	if err := authz.Authorize(p, authz.ActionDelete, authz.ResourceOrder, ref); err != nil {
		return err
	}

	return s.repo.Delete(ctx, orderID)
}
