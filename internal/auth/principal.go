package auth

import (
	"context"

	"restaurant-orders/internal/models"
)

// Principal is the authenticated actor behind a request. Roles are resolved
// from the store on every request and never cached across requests.
type Principal struct {
	ID       int64
	Username string
	Roles    map[models.Role]bool
}

// HasRole reports whether the principal holds the given role
func (p *Principal) HasRole(role models.Role) bool {
	if p == nil {
		return false
	}
	return p.Roles[role]
}

// IsManager reports whether the principal holds the Manager role
func (p *Principal) IsManager() bool {
	return p.HasRole(models.RoleManager)
}

// IsDeliveryCrew reports whether the principal holds the DeliveryCrew role
func (p *Principal) IsDeliveryCrew() bool {
	return p.HasRole(models.RoleDeliveryCrew)
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the principal
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext extracts the principal set by the middleware
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
