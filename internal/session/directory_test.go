package session

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	require.NoError(t, conn.AutoMigrate(&domain.User{}))
	return conn
}

func seedUser(t *testing.T, db *gorm.DB, c domain.Credential) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{ID: c.Identity.ID, Name: c.Identity.Name, Email: c.Email, Password: string(hash), Role: c.Identity.Role}
	require.NoError(t, db.Create(&user).Error)
}

func TestStaticDirectory_Lookup(t *testing.T) {
	dir := NewStaticDirectory(SeedCredentials)
	ctx := context.Background()

	for _, c := range SeedCredentials {
		identity, ok, err := dir.Lookup(ctx, c.Email, c.Password)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, c.Identity, identity)
	}

	_, ok, err := dir.Lookup(ctx, "admin@tienda.com", "gerente123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaticDirectory_Identities(t *testing.T) {
	ids, err := NewStaticDirectory(SeedCredentials).Identities(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 4)
	assert.Equal(t, domain.RoleAdmin, ids[0].Role)
	assert.Equal(t, domain.RoleCustomer, ids[3].Role)
}

func TestGormDirectory_Lookup(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, SeedCredentials[0])
	seedUser(t, db, SeedCredentials[3])
	dir := NewGormDirectory(db)
	ctx := context.Background()

	identity, ok, err := dir.Lookup(ctx, "admin@tienda.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SeedCredentials[0].Identity, identity)

	_, ok, err = dir.Lookup(ctx, "admin@tienda.com", "admin124")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = dir.Lookup(ctx, "nobody@tienda.com", "admin123")
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := dir.Identities(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestGormDirectory_BacksSessionStore(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, SeedCredentials[1])

	s := newTestStoreWithDirectory(t, NewGormDirectory(db))
	ok, err := s.Login(context.Background(), "gerente@tienda.com", "gerente123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.HasRole(domain.RoleManager))
}
