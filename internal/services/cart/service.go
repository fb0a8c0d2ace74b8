package cart

import (
	"context"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/authz"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Service implements the cart ledger operations. Every operation is scoped
// to the calling principal's own cart; there is no way to address another
// user's lines.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new cart service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// ListMine returns the caller's cart lines
func (s *Service) ListMine(ctx context.Context, p *auth.Principal) ([]models.CartLine, error) {
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceCart, nil); err != nil {
		return nil, err
	}
	return s.repo.ListLines(ctx, p.ID)
}

// AddLine adds a menu item to the caller's cart, snapshotting its current
// price. A second add for the same item is rejected; the caller must delete
// and re-add instead of merging quantities.
func (s *Service) AddLine(ctx context.Context, p *auth.Principal, req *models.AddCartLineRequest) (*models.CartLine, error) {
	if err := authz.Authorize(p, authz.ActionCreate, authz.ResourceCart, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.AddLine(ctx, p.ID, req.MenuItemID, req.Quantity)
}

// ClearMine deletes all of the caller's cart lines; succeeds even when the
// cart is already empty
func (s *Service) ClearMine(ctx context.Context, p *auth.Principal) error {
	if err := authz.Authorize(p, authz.ActionDelete, authz.ResourceCart, nil); err != nil {
		return err
	}
	return s.repo.Clear(ctx, p.ID)
}
