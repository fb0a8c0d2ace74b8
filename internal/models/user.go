package models

// Role grants differentiated permissions. Customer is the implicit default
// and is never stored; only the elevated roles are persisted.
type Role string

const (
	RoleManager      Role = "manager"
	RoleDeliveryCrew Role = "delivery_crew"
)

// ParseRole maps a role name to a Role, reporting whether it is known
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleManager, RoleDeliveryCrew:
		return Role(s), true
	default:
		return "", false
	}
}

// User is a known principal in the directory
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// MemberResponse is the membership directory view of a user
type MemberResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AddMemberRequest adds a user to a role by username
type AddMemberRequest struct {
	Username string `json:"username"`
}
