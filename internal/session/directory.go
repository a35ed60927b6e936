package session

import (
	"context" // Request-scoped queries
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"storefront/internal/domain" // Identities and users

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // ORM library
)

// Directory resolves credentials to an identity
type Directory interface {
	// Lookup returns the identity for an exact (email, password) match
	Lookup(ctx context.Context, email, password string) (domain.Identity, bool, error)
	// Identities lists every known identity without credentials
	Identities(ctx context.Context) ([]domain.Identity, error)
}

// SeedCredentials is the demo credential directory
var SeedCredentials = []domain.Credential{
	{Email: "admin@tienda.com", Password: "admin123", Identity: domain.Identity{ID: 1, Name: "Administrador Principal", Email: "admin@tienda.com", Role: domain.RoleAdmin}},
	{Email: "gerente@tienda.com", Password: "gerente123", Identity: domain.Identity{ID: 2, Name: "Gerente de Ventas", Email: "gerente@tienda.com", Role: domain.RoleManager}},
	{Email: "vendedor@tienda.com", Password: "vendedor123", Identity: domain.Identity{ID: 3, Name: "Vendedor Ejemplo", Email: "vendedor@tienda.com", Role: domain.RoleSeller}},
	{Email: "cliente@tienda.com", Password: "cliente123", Identity: domain.Identity{ID: 4, Name: "Cliente Premium", Email: "cliente@tienda.com", Role: domain.RoleCustomer}},
}

// StaticDirectory compares plaintext passwords against a fixed list.
// It is a demo directory and must not guard anything real.
type StaticDirectory struct {
	credentials []domain.Credential // Plaintext demo credentials
}

// NewStaticDirectory copies creds into a read-only directory
func NewStaticDirectory(creds []domain.Credential) *StaticDirectory {
	return &StaticDirectory{credentials: append([]domain.Credential(nil), creds...)}
}

func (d *StaticDirectory) Lookup(_ context.Context, email, password string) (domain.Identity, bool, error) {
	for _, c := range d.credentials {
		if c.Email == email && c.Password == password {
			return c.Identity, true, nil // Exact, case-sensitive match
		}
	}
	return domain.Identity{}, false, nil
}

func (d *StaticDirectory) Identities(context.Context) ([]domain.Identity, error) {
	out := make([]domain.Identity, len(d.credentials))
	for i, c := range d.credentials {
		out[i] = c.Identity
	}
	return out, nil
}

// GormDirectory looks credentials up in the users table and verifies bcrypt hashes
type GormDirectory struct {
	db *gorm.DB // Database handle
}

// NewGormDirectory creates a directory over db
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) Lookup(ctx context.Context, email, password string) (domain.Identity, bool, error) {
	var user domain.User // Find user by email
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Identity{}, false, nil // Unknown email is a plain mismatch
	}
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("lookup user: %w", err)
	}
	// SQL collations may fold case; email matching stays exact
	if user.Email != email {
		return domain.Identity{}, false, nil
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.Identity{}, false, nil
	}
	return user.Identity(), true, nil
}

func (d *GormDirectory) Identities(ctx context.Context) ([]domain.Identity, error) {
	var users []domain.User // Stable order for listings
	if err := d.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.Identity, len(users))
	for i, u := range users {
		out[i] = u.Identity()
	}
	return out, nil
}
