package models

// Role is the closed set of staff privilege tiers. Authorization decisions
// match against these constants exclusively; a role outside the set is never
// granted anything.
type Role string

const (
	// RoleAdmin may only operate on its own user and wallet resources.
	RoleAdmin Role = "ADMIN"
	// RoleSuperAdmin may operate on any user's resources.
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether the role belongs to the known set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// RoleRecord is a role row as stored, exposed by the role listing endpoint.
type RoleRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
