package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

type fakeRepository struct {
	carts  map[int64][]models.CartLine
	orders map[int64]*models.Order
	lines  map[int64][]models.OrderLine
	roles  map[int64]map[models.Role]bool
	nextID int64

	// optional hooks for holding a List call in flight
	listEntered chan struct{}
	listGate    chan struct{}
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		carts:  make(map[int64][]models.CartLine),
		orders: make(map[int64]*models.Order),
		lines:  make(map[int64][]models.OrderLine),
		roles:  make(map[int64]map[models.Role]bool),
		nextID: 1,
	}
}

func (f *fakeRepository) PlaceOrder(ctx context.Context, userID int64) (*models.Order, error) {
	cartLines := f.carts[userID]
	if len(cartLines) == 0 {
		return nil, models.ErrNotFound
	}

	order := &models.Order{
		ID:     f.nextID,
		UserID: userID,
		Status: models.StatusPending,
		Total:  decimal.Zero,
		Date:   time.Now().UTC().Truncate(24 * time.Hour),
	}
	f.nextID++

	for _, cl := range cartLines {
		line := models.OrderLine{
			ID:         f.nextID,
			OrderID:    order.ID,
			MenuItemID: cl.MenuItemID,
			Quantity:   cl.Quantity,
			UnitPrice:  cl.UnitPrice,
			LineTotal:  cl.LineTotal,
		}
		f.nextID++
		order.Total = order.Total.Add(cl.LineTotal)
		f.lines[order.ID] = append(f.lines[order.ID], line)
	}

	delete(f.carts, userID)
	f.orders[order.ID] = order

	snapshot := *order
	snapshot.Lines = f.lines[order.ID]
	return &snapshot, nil
}

func (f *fakeRepository) List(ctx context.Context, filter models.OrderFilter, params httpx.ListParams) ([]models.Order, error) {
	if f.listEntered != nil {
		f.listEntered <- struct{}{}
	}
	if f.listGate != nil {
		<-f.listGate
	}

	var out []models.Order
	for _, o := range f.orders {
		if filter.OwnerID != nil && o.UserID != *filter.OwnerID {
			continue
		}
		if filter.DeliveryCrewID != nil {
			if o.DeliveryCrewID == nil || *o.DeliveryCrewID != *filter.DeliveryCrewID {
				continue
			}
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.TotalCeiling != nil && o.Total.GreaterThan(*filter.TotalCeiling) {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeRepository) Get(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	snapshot := *o
	return &snapshot, nil
}

func (f *fakeRepository) Lines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	return f.lines[orderID], nil
}

func (f *fakeRepository) AssignCrew(ctx context.Context, orderID, crewID int64) error {
	o, ok := f.orders[orderID]
	if !ok {
		return models.ErrNotFound
	}
	o.DeliveryCrewID = &crewID
	return nil
}

func (f *fakeRepository) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	o, ok := f.orders[orderID]
	if !ok {
		return models.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, orderID int64) error {
	if _, ok := f.orders[orderID]; !ok {
		return models.ErrNotFound
	}
	delete(f.orders, orderID)
	delete(f.lines, orderID)
	return nil
}

func (f *fakeRepository) UserHasRole(ctx context.Context, userID int64, role models.Role) (bool, error) {
	return f.roles[userID][role], nil
}

func (f *fakeRepository) grantRole(userID int64, role models.Role) {
	if f.roles[userID] == nil {
		f.roles[userID] = make(map[models.Role]bool)
	}
	f.roles[userID][role] = true
}

func (f *fakeRepository) addCartLine(userID, itemID int64, quantity int, price string) {
	unit := decimal.RequireFromString(price)
	f.carts[userID] = append(f.carts[userID], models.CartLine{
		UserID:     userID,
		MenuItemID: itemID,
		Quantity:   quantity,
		UnitPrice:  unit,
		LineTotal:  unit.Mul(decimal.NewFromInt(int64(quantity))),
	})
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
	return NewService(repo, logger.New("orders-test")), repo
}

func TestPlace_EmptyCart(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, testPrincipal(1))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Place with empty cart = %v, want not found", err)
	}
	if len(repo.orders) != 0 {
		t.Errorf("orders created = %d, want 0", len(repo.orders))
	}
}

func TestPlace_SnapshotsCart(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 2, "10.00")
	repo.addCartLine(1, 11, 1, "5.00")

	order, err := svc.Place(ctx, testPrincipal(1))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	if !order.Total.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("Total = %s, want 25.00", order.Total)
	}
	if order.Status != models.StatusPending {
		t.Errorf("Status = %s, want pending", order.Status)
	}
	if order.DeliveryCrewID != nil {
		t.Errorf("DeliveryCrewID = %v, want unassigned", order.DeliveryCrewID)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(order.Lines))
	}
	if !order.Lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("first line unit price = %s, want 10.00", order.Lines[0].UnitPrice)
	}

	// The cart is consumed by the conversion
	if len(repo.carts[1]) != 0 {
		t.Errorf("cart lines remaining = %d, want 0", len(repo.carts[1]))
	}

	// A second attempt against the now-empty cart fails without a new order
	if _, err := svc.Place(ctx, testPrincipal(1)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second Place = %v, want not found", err)
	}
	if len(repo.orders) != 1 {
		t.Errorf("orders after double place = %d, want 1", len(repo.orders))
	}
}

func TestUpdate_AssignNonCrewRejected(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 1, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))

	target := int64(5)
	_, err := svc.Update(ctx, testPrincipal(2, models.RoleManager), order.ID,
		&models.UpdateOrderRequest{DeliveryCrewID: &target})
	if !models.IsValidation(err) {
		t.Fatalf("assign non-crew = %v, want validation error", err)
	}

	// Order unmodified
	stored, _ := repo.Get(ctx, order.ID)
	if stored.DeliveryCrewID != nil {
		t.Errorf("DeliveryCrewID = %v, want unassigned", stored.DeliveryCrewID)
	}
}

func TestUpdate_ManagerAssignsCrew(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 1, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))
	repo.grantRole(5, models.RoleDeliveryCrew)

	target := int64(5)
	updated, err := svc.Update(ctx, testPrincipal(2, models.RoleManager), order.ID,
		&models.UpdateOrderRequest{DeliveryCrewID: &target})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.DeliveryCrewID == nil || *updated.DeliveryCrewID != 5 {
		t.Errorf("DeliveryCrewID = %v, want 5", updated.DeliveryCrewID)
	}
	if updated.Status != models.StatusPending {
		t.Errorf("Status = %s, assignment must not alter status", updated.Status)
	}
}

func TestUpdate_CrewTogglesOwnAssignment(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 2, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))
	repo.grantRole(5, models.RoleDeliveryCrew)
	if err := repo.AssignCrew(ctx, order.ID, 5); err != nil {
		t.Fatalf("AssignCrew failed: %v", err)
	}

	delivered := string(models.StatusDelivered)
	updated, err := svc.Update(ctx, testPrincipal(5, models.RoleDeliveryCrew), order.ID,
		&models.UpdateOrderRequest{Status: &delivered})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.StatusDelivered {
		t.Errorf("Status = %s, want delivered", updated.Status)
	}

	// The toggle must not disturb total, owner or assignment
	if !updated.Total.Equal(order.Total) {
		t.Errorf("Total changed: %s -> %s", order.Total, updated.Total)
	}
	if updated.UserID != order.UserID {
		t.Errorf("UserID changed: %d -> %d", order.UserID, updated.UserID)
	}
	if updated.DeliveryCrewID == nil || *updated.DeliveryCrewID != 5 {
		t.Errorf("DeliveryCrewID = %v, want 5", updated.DeliveryCrewID)
	}
}

func TestUpdate_CrewForeignOrderForbidden(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 1, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))
	repo.grantRole(5, models.RoleDeliveryCrew)
	repo.grantRole(6, models.RoleDeliveryCrew)
	if err := repo.AssignCrew(ctx, order.ID, 5); err != nil {
		t.Fatalf("AssignCrew failed: %v", err)
	}

	delivered := string(models.StatusDelivered)
	_, err := svc.Update(ctx, testPrincipal(6, models.RoleDeliveryCrew), order.ID,
		&models.UpdateOrderRequest{Status: &delivered})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("foreign crew update = %v, want forbidden", err)
	}
}

func TestUpdate_CrewCannotTouchOtherFields(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 1, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))
	repo.grantRole(5, models.RoleDeliveryCrew)
	if err := repo.AssignCrew(ctx, order.ID, 5); err != nil {
		t.Fatalf("AssignCrew failed: %v", err)
	}

	delivered := string(models.StatusDelivered)
	other := int64(6)
	_, err := svc.Update(ctx, testPrincipal(5, models.RoleDeliveryCrew), order.ID,
		&models.UpdateOrderRequest{Status: &delivered, DeliveryCrewID: &other})
	if !models.IsValidation(err) {
		t.Fatalf("crew updating delivery_crew = %v, want validation error", err)
	}
}

func TestUpdate_OwnerForbidden(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 1, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))

	delivered := string(models.StatusDelivered)
	_, err := svc.Update(ctx, testPrincipal(1), order.ID,
		&models.UpdateOrderRequest{Status: &delivered})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("owner update = %v, want forbidden", err)
	}
}

func TestDetail_OwnerOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 2, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))

	detail, err := svc.Detail(ctx, testPrincipal(1), order.ID)
	if err != nil {
		t.Fatalf("owner Detail failed: %v", err)
	}
	if len(detail.Lines) != 1 {
		t.Errorf("len(Lines) = %d, want 1", len(detail.Lines))
	}

	if _, err := svc.Detail(ctx, testPrincipal(9), order.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger Detail = %v, want forbidden", err)
	}
	if _, err := svc.Detail(ctx, testPrincipal(2, models.RoleManager), order.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("manager Detail = %v, want forbidden", err)
	}
	if _, err := svc.Detail(ctx, testPrincipal(5, models.RoleDeliveryCrew), order.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("crew Detail = %v, want forbidden", err)
	}
}

func TestDetail_MissingOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Detail(ctx, testPrincipal(1), 42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Detail of missing order = %v, want not found", err)
	}
}

func TestList_Scoping(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.addCartLine(1, 10, 1, "10.00")
	first, _ := svc.Place(ctx, testPrincipal(1))
	repo.addCartLine(2, 10, 1, "10.00")
	if _, err := svc.Place(ctx, testPrincipal(2)); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	repo.grantRole(5, models.RoleDeliveryCrew)
	if err := repo.AssignCrew(ctx, first.ID, 5); err != nil {
		t.Fatalf("AssignCrew failed: %v", err)
	}

	params := httpx.ListParams{Page: 1, PerPage: 10}

	all, err := svc.List(ctx, testPrincipal(3, models.RoleManager), models.OrderFilter{}, params)
	if err != nil {
		t.Fatalf("manager List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("manager sees %d orders, want 2", len(all))
	}

	assigned, err := svc.List(ctx, testPrincipal(5, models.RoleDeliveryCrew), models.OrderFilter{}, params)
	if err != nil {
		t.Fatalf("crew List failed: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ID != first.ID {
		t.Errorf("crew sees %+v, want only the assigned order", assigned)
	}

	own, err := svc.List(ctx, testPrincipal(2), models.OrderFilter{}, params)
	if err != nil {
		t.Fatalf("customer List failed: %v", err)
	}
	if len(own) != 1 || own[0].UserID != 2 {
		t.Errorf("customer sees %+v, want only their own order", own)
	}
}

func TestList_DualRoleScopedToAssignments(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.addCartLine(1, 10, 1, "10.00")
	first, _ := svc.Place(ctx, testPrincipal(1))
	repo.addCartLine(2, 10, 1, "10.00")
	if _, err := svc.Place(ctx, testPrincipal(2)); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	repo.grantRole(7, models.RoleDeliveryCrew)
	if err := repo.AssignCrew(ctx, first.ID, 7); err != nil {
		t.Fatalf("AssignCrew failed: %v", err)
	}

	both := testPrincipal(7, models.RoleManager, models.RoleDeliveryCrew)
	got, err := svc.List(ctx, both, models.OrderFilter{}, httpx.ListParams{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Errorf("dual-role principal sees %+v, want only the assigned order", got)
	}
}

func TestDelete_ManagerOnlyAndCascades(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.addCartLine(1, 10, 1, "10.00")
	order, _ := svc.Place(ctx, testPrincipal(1))

	if err := svc.Delete(ctx, testPrincipal(1), order.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("owner Delete = %v, want forbidden", err)
	}

	if err := svc.Delete(ctx, testPrincipal(2, models.RoleManager), order.ID); err != nil {
		t.Fatalf("manager Delete failed: %v", err)
	}

	if _, err := repo.Get(ctx, order.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get after delete = %v, want not found", err)
	}
	if len(repo.lines[order.ID]) != 0 {
		t.Errorf("order lines remaining = %d, want 0", len(repo.lines[order.ID]))
	}
}
