package menu

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/authz"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// sanitizer strips markup from free-text fields before persistence
var sanitizer = bluemonday.StrictPolicy()

// Service implements the menu catalog operations
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new catalog service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// ListCategories returns all categories
func (s *Service) ListCategories(ctx context.Context, p *auth.Principal) ([]models.Category, error) {
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceCategory, nil); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx)
}

// GetCategory returns one category by id
func (s *Service) GetCategory(ctx context.Context, p *auth.Principal, id int64) (*models.Category, error) {
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceCategory, nil); err != nil {
		return nil, err
	}
	return s.repo.GetCategory(ctx, id)
}

// CreateCategory creates a category; managers only
func (s *Service) CreateCategory(ctx context.Context, p *auth.Principal, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := authz.Authorize(p, authz.ActionCreate, authz.ResourceCategory, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateCategory(ctx, sanitizer.Sanitize(req.Title))
}

// DeleteCategory removes a category; managers only
func (s *Service) DeleteCategory(ctx context.Context, p *auth.Principal, id int64) error {
	if err := authz.Authorize(p, authz.ActionDelete, authz.ResourceCategory, nil); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, id)
}

// ListItems returns menu items matching the filter, paginated
func (s *Service) ListItems(ctx context.Context, p *auth.Principal, filter models.MenuItemFilter, params httpx.ListParams) ([]models.MenuItem, error) {
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceMenuItem, nil); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, filter, params)
}

// GetItem returns one menu item by id
func (s *Service) GetItem(ctx context.Context, p *auth.Principal, id int64) (*models.MenuItem, error) {
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceMenuItem, nil); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, id)
}

// CreateItem creates a menu item; managers only. The category reference must
// resolve to an existing category.
func (s *Service) CreateItem(ctx context.Context, p *auth.Principal, req *models.CreateMenuItemRequest) (*models.MenuItem, error) {
	if err := authz.Authorize(p, authz.ActionCreate, authz.ResourceMenuItem, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ValidationError{Field: "category", Message: "category does not exist"}
	}

	item := &models.MenuItem{
		Title:      sanitizer.Sanitize(req.Title),
		Price:      req.Price,
		Featured:   req.Featured,
		CategoryID: req.CategoryID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial-field patch to a menu item; managers only
func (s *Service) UpdateItem(ctx context.Context, p *auth.Principal, id int64, req *models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	if err := authz.Authorize(p, authz.ActionUpdate, authz.ResourceMenuItem, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		exists, err := s.repo.CategoryExists(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.ValidationError{Field: "category", Message: "category does not exist"}
		}
	}

	if req.Title != nil {
		clean := sanitizer.Sanitize(*req.Title)
		req.Title = &clean
	}

	return s.repo.UpdateItem(ctx, id, req)
}

// DeleteItem removes a menu item; managers only
func (s *Service) DeleteItem(ctx context.Context, p *auth.Principal, id int64) error {
	if err := authz.Authorize(p, authz.ActionDelete, authz.ResourceMenuItem, nil); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, id)
}
