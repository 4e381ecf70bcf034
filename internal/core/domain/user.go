package domain

const (
	RoleSupervisor = "SUPERVISOR"
	RoleOperator   = "OPERATOR"
)

// SessionUser is the identity the upstream POS backend reports for a
// session. It is everything the gateway needs for role gating; the full
// account record stays upstream.
type SessionUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// Operator is a back-office operator account as listed on the admin page.
type Operator struct {
	Username string `json:"username"`
	Active   bool   `json:"active"`
}

// ValidRole reports whether role is one of the two known roles.
func ValidRole(role string) bool {
	return role == RoleSupervisor || role == RoleOperator
}
