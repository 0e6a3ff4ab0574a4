package auth

import "time"

// Role is the access level carried by a user and embedded in issued tokens.
type Role string

const (
	// RolePublic is the default role: read access plus recovery creation.
	RolePublic Role = "public"
	// RoleAdmin may additionally update and delete ledger entries.
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RolePublic || r == RoleAdmin
}

// User is a credential record. The password hash never leaves this package
// and is excluded from JSON output.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified caller extracted from a bearer token. The role is
// authoritative as of issuance time: if the user's role changes afterwards,
// outstanding tokens keep the old role until they expire.
type Identity struct {
	UserID string
	Role   Role
}
