package authz

import (
	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/models"
)

// Action is a kind of operation on a resource
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is a kind of entity actions apply to
type Resource string

const (
	ResourceCategory   Resource = "category"
	ResourceMenuItem   Resource = "menu_item"
	ResourceCart       Resource = "cart"
	ResourceOrder      Resource = "order"
	ResourceOrderLines Resource = "order_lines"
	ResourceMembership Resource = "membership"
)

// OrderRef carries the instance fields instance-level rules inspect
type OrderRef struct {
	OwnerID        int64
	DeliveryCrewID *int64
}

// rule is one entry of the policy table. The first rule whose applies
// predicate matches decides the request.
type rule struct {
	name    string
	applies func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool
	allow   bool
}

// policy is evaluated top to bottom; first match wins, the table closes with
// an unconditional deny.
var policy = []rule{
	{
		name: "manager_catalog_and_membership",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			if !p.IsManager() {
				return false
			}
			switch res {
			case ResourceCategory, ResourceMenuItem, ResourceMembership:
				return true
			}
			return false
		},
		allow: true,
	},
	{
		name: "manager_order_admin",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			if !p.IsManager() || res != ResourceOrder {
				return false
			}
			return act == ActionRead || act == ActionUpdate || act == ActionDelete
		},
		allow: true,
	},
	{
		name: "crew_assigned_order",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			if !p.IsDeliveryCrew() || res != ResourceOrder {
				return false
			}
			if act != ActionRead && act != ActionUpdate {
				return false
			}
			return ref != nil && ref.DeliveryCrewID != nil && *ref.DeliveryCrewID == p.ID
		},
		allow: true,
	},
	{
		name: "own_cart",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			return res == ResourceCart
		},
		allow: true,
	},
	{
		name: "place_order",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			return res == ResourceOrder && act == ActionCreate
		},
		allow: true,
	},
	{
		name: "owner_reads_own_order",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			if res != ResourceOrder || act != ActionRead {
				return false
			}
			return ref != nil && ref.OwnerID == p.ID
		},
		allow: true,
	},
	{
		name: "owner_reads_own_order_lines",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			if res != ResourceOrderLines || act != ActionRead {
				return false
			}
			// The line-item view belongs to plain customers; managers and
			// crew see orders through the order resource instead.
			if p.IsManager() || p.IsDeliveryCrew() {
				return false
			}
			return ref != nil && ref.OwnerID == p.ID
		},
		allow: true,
	},
	{
		name: "catalog_reads",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			return act == ActionRead && (res == ResourceCategory || res == ResourceMenuItem)
		},
		allow: true,
	},
	{
		name: "default_deny",
		applies: func(p *auth.Principal, act Action, res Resource, ref *OrderRef) bool {
			return true
		},
		allow: false,
	},
}

// Authorize decides whether the principal may perform the action on the
// resource. ref carries instance fields for order-scoped checks and may be
// nil for kind-level checks. The decision is a pure function of role
// membership and the ref; denial is reported as ErrForbidden, a missing
// principal as ErrUnauthenticated.
//
// The crew update grant covers the status field only; the order service owns
// that field restriction.
func Authorize(p *auth.Principal, act Action, res Resource, ref *OrderRef) error {
	if p == nil {
		return models.ErrUnauthenticated
	}

	for _, r := range policy {
		if r.applies(p, act, res, ref) {
			if r.allow {
				return nil
			}
			return models.ErrForbidden
		}
	}
	return models.ErrForbidden
}
