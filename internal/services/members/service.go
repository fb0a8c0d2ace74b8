package members

import (
	"context"
	"strings"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/authz"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Service manages role membership. Every operation, reads included, is
// reserved to managers.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new membership service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// ListMembers returns the users currently holding the role
func (s *Service) ListMembers(ctx context.Context, p *auth.Principal, role models.Role) ([]models.MemberResponse, error) {
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceMembership, nil); err != nil {
		return nil, err
	}

	users, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	members := make([]models.MemberResponse, 0, len(users))
	for _, u := range users {
		members = append(members, models.MemberResponse{ID: u.ID, Username: u.Username, Role: string(role)})
	}
	return members, nil
}

// GetMember returns the user if they currently hold the role
func (s *Service) GetMember(ctx context.Context, p *auth.Principal, role models.Role, userID int64) (*models.MemberResponse, error) {
	if err := authz.Authorize(p, authz.ActionRead, authz.ResourceMembership, nil); err != nil {
		return nil, err
	}

	u, err := s.repo.GetInRole(ctx, role, userID)
	if err != nil {
		return nil, err
	}
	return &models.MemberResponse{ID: u.ID, Username: u.Username, Role: string(role)}, nil
}

// AddMember grants the role to the user named in the request. Granting a role
// the user already holds is a no-op.
func (s *Service) AddMember(ctx context.Context, p *auth.Principal, role models.Role, req *models.AddMemberRequest) (*models.MemberResponse, error) {
	if err := authz.Authorize(p, authz.ActionCreate, authz.ResourceMembership, nil); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, models.ValidationError{Field: "username", Message: "username is required"}
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	has, err := s.repo.HasRole(ctx, u.ID, role)
	if err != nil {
		return nil, err
	}
	if has {
		return &models.MemberResponse{ID: u.ID, Username: u.Username, Role: string(role)}, nil
	}

	if err := s.repo.AddRole(ctx, u.ID, role); err != nil {
		return nil, err
	}

	s.logger.Info("role_granted", "Role granted", "", map[string]interface{}{
		"user_id": u.ID,
		"role":    string(role),
	})
	return &models.MemberResponse{ID: u.ID, Username: u.Username, Role: string(role)}, nil
}

// RemoveMember revokes the role from the user. Removing a user who does not
// hold the role is not found.
func (s *Service) RemoveMember(ctx context.Context, p *auth.Principal, role models.Role, userID int64) error {
	if err := authz.Authorize(p, authz.ActionDelete, authz.ResourceMembership, nil); err != nil {
		return err
	}

	if err := s.repo.RemoveRole(ctx, userID, role); err != nil {
		return err
	}

	s.logger.Info("role_revoked", "Role revoked", "", map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
	})
	return nil
}
