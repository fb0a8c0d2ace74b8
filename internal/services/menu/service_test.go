package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

type fakeRepository struct {
	categories map[int64]models.Category
	items      map[int64]models.MenuItem
	nextID     int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		categories: make(map[int64]models.Category),
		items:      make(map[int64]models.MenuItem),
		nextID:     1,
	}
}

func (f *fakeRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (f *fakeRepository) CreateCategory(ctx context.Context, title string) (*models.Category, error) {
	c := models.Category{ID: f.nextID, Title: title}
	f.nextID++
	f.categories[c.ID] = c
	return &c, nil
}

func (f *fakeRepository) DeleteCategory(ctx context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.categories[id]
	return ok, nil
}

func (f *fakeRepository) ListItems(ctx context.Context, filter models.MenuItemFilter, params httpx.ListParams) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range f.items {
		if filter.Title != "" && item.Title != filter.Title {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepository) GetItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &item, nil
}

func (f *fakeRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	item.ID = f.nextID
	f.nextID++
	f.items[item.ID] = *item
	return nil
}

func (f *fakeRepository) UpdateItem(ctx context.Context, id int64, req *models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Featured != nil {
		item.Featured = *req.Featured
	}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	f.items[id] = item
	return &item, nil
}

func (f *fakeRepository) DeleteItem(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func testPrincipal(id int64, roles ...models.Role) *auth.Principal {
	p := &auth.Principal{ID: id, Roles: make(map[models.Role]bool)}
	for _, r := range roles {
		p.Roles[r] = true
	}
	return p
}

func newTestService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return NewService(repo, logger.New("menu-test")), repo
}

func TestCreateItem_ManagerOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.categories[1] = models.Category{ID: 1, Title: "Mains"}

	req := &models.CreateMenuItemRequest{
		Title:      "Pasta",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: 1,
	}

	if _, err := svc.CreateItem(ctx, testPrincipal(2), req); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("customer CreateItem = %v, want forbidden", err)
	}

	item, err := svc.CreateItem(ctx, testPrincipal(1, models.RoleManager), req)
	if err != nil {
		t.Fatalf("manager CreateItem failed: %v", err)
	}
	if item.ID == 0 {
		t.Errorf("expected item to be assigned an id")
	}
}

func TestCreateItem_NegativePrice(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.categories[1] = models.Category{ID: 1, Title: "Mains"}

	req := &models.CreateMenuItemRequest{
		Title:      "Pasta",
		Price:      decimal.RequireFromString("-1.00"),
		CategoryID: 1,
	}

	_, err := svc.CreateItem(ctx, testPrincipal(1, models.RoleManager), req)
	if !models.IsValidation(err) {
		t.Fatalf("CreateItem with negative price = %v, want validation error", err)
	}
}

func TestCreateItem_MissingCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := &models.CreateMenuItemRequest{
		Title:      "Pasta",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: 99,
	}

	_, err := svc.CreateItem(ctx, testPrincipal(1, models.RoleManager), req)
	if !models.IsValidation(err) {
		t.Fatalf("CreateItem with missing category = %v, want validation error", err)
	}
}

func TestCreateItem_SanitizesTitle(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.categories[1] = models.Category{ID: 1, Title: "Mains"}

	req := &models.CreateMenuItemRequest{
		Title:      `Pasta<script>alert("x")</script>`,
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: 1,
	}

	item, err := svc.CreateItem(ctx, testPrincipal(1, models.RoleManager), req)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.Title != "Pasta" {
		t.Errorf("Title = %q, want markup stripped", item.Title)
	}
}

func TestUpdateItem_PartialPatch(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.categories[1] = models.Category{ID: 1, Title: "Mains"}
	repo.items[5] = models.MenuItem{
		ID: 5, Title: "Pasta", Price: decimal.RequireFromString("12.50"), CategoryID: 1,
	}

	newPrice := decimal.RequireFromString("13.00")
	item, err := svc.UpdateItem(ctx, testPrincipal(1, models.RoleManager), 5,
		&models.UpdateMenuItemRequest{Price: &newPrice})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if !item.Price.Equal(newPrice) {
		t.Errorf("Price = %s, want %s", item.Price, newPrice)
	}
	if item.Title != "Pasta" {
		t.Errorf("Title = %q, want untouched", item.Title)
	}
}

func TestDeleteItem_CustomerForbidden(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.items[5] = models.MenuItem{ID: 5, Title: "Pasta"}

	if err := svc.DeleteItem(ctx, testPrincipal(2), 5); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("customer DeleteItem = %v, want forbidden", err)
	}
	if err := svc.DeleteItem(ctx, testPrincipal(1, models.RoleManager), 5); err != nil {
		t.Fatalf("manager DeleteItem failed: %v", err)
	}
}

func TestListItems_AnyAuthenticated(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.items[5] = models.MenuItem{ID: 5, Title: "Pasta"}

	items, err := svc.ListItems(ctx, testPrincipal(2), models.MenuItemFilter{}, httpx.ListParams{Page: 1, PerPage: 3})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}

	if _, err := svc.ListItems(ctx, nil, models.MenuItemFilter{}, httpx.ListParams{}); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("unauthenticated ListItems = %v, want unauthenticated", err)
	}
}
