package domain

import "fmt"

// Role is an authorization tier used for coarse route gating
type Role string

// Known roles, stored with the values the storefront has always persisted
const (
	RoleAdmin    Role = "administrador" // Full access
	RoleManager  Role = "gerente"       // Manages products but not users
	RoleSeller   Role = "vendedor"      // Views products and handles sales
	RoleCustomer Role = "cliente"       // Buys and views own profile
)

var validRoles = []Role{RoleAdmin, RoleManager, RoleSeller, RoleCustomer}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// Identity is the authenticated user's profile, never carrying credentials
type Identity struct {
	ID    int64  `json:"id"`     // User ID
	Name  string `json:"nombre"` // Display name
	Email string `json:"email"`  // Login email
	Role  Role   `json:"rol"`    // Authorization tier
}

// Credential pairs a plaintext password with the identity it unlocks
type Credential struct {
	Email    string   // Exact-match login email
	Password string   // Plaintext password (demo only)
	Identity Identity // Identity granted on match
}

// User Model, the database-backed credential directory entry
type User struct {
	ID       int64  `gorm:"primaryKey"`        // Primary key
	Name     string `gorm:"not null"`          // Display name
	Email    string `gorm:"unique;not null"`   // Unique email
	Password string `gorm:"not null"`          // Hashed password
	Role     Role   `gorm:"default:'cliente'"` // Role, see Role constants
}

// Identity strips the credential fields from the user
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
