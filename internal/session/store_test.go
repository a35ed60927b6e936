package session

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore wraps a MemoryStore and fails writes on demand
type failingStore struct {
	*storage.MemoryStore
	failSet    bool
	failDelete bool
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *failingStore) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errors.New("disk full")
	}
	return f.MemoryStore.Delete(ctx, key)
}

func newTestStore(t *testing.T, kv storage.Store) *Store {
	t.Helper()
	s, err := New(context.Background(), kv, NewStaticDirectory(SeedCredentials), nil)
	require.NoError(t, err)
	return s
}

func TestLogin_Success(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := newTestStore(t, kv)

	ok, err := s.Login(context.Background(), "admin@tienda.com", "admin123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.HasRole(domain.RoleAdmin))

	current, found := s.Current()
	require.True(t, found)
	assert.Equal(t, int64(1), current.ID)
	assert.Equal(t, "Administrador Principal", current.Name)

	raw, stored, err := kv.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	require.True(t, stored)
	assert.JSONEq(t, `{"id":1,"nombre":"Administrador Principal","email":"admin@tienda.com","rol":"administrador"}`, raw)
	assert.NotContains(t, raw, "admin123")
}

func TestLogin_WrongPassword(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := newTestStore(t, kv)

	ok, err := s.Login(context.Background(), "admin@tienda.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 0, kv.Len())
}

func TestLogin_NoCaseFolding(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())

	ok, err := s.Login(context.Background(), "ADMIN@tienda.com", "admin123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_FailureKeepsPreviousIdentity(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	_, err := s.Login(ctx, "cliente@tienda.com", "cliente123")
	require.NoError(t, err)

	ok, err := s.Login(ctx, "admin@tienda.com", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.HasRole(domain.RoleCustomer))
}

func TestLogin_PersistFailureLeavesStateUnchanged(t *testing.T) {
	kv := &failingStore{MemoryStore: storage.NewMemoryStore(), failSet: true}
	s := newTestStore(t, kv)

	ok, err := s.Login(context.Background(), "admin@tienda.com", "admin123")
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())
}

func TestHasRole_NoHierarchy(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())

	_, err := s.Login(context.Background(), "admin@tienda.com", "admin123")
	require.NoError(t, err)
	assert.False(t, s.HasRole(domain.RoleManager))
	assert.False(t, s.HasRole(domain.RoleCustomer))
}

func TestLogout(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := newTestStore(t, kv)
	ctx := context.Background()

	_, err := s.Login(ctx, "admin@tienda.com", "admin123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.HasRole(domain.RoleAdmin))
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 0, kv.Len())

	// Idempotent
	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
}

func TestNew_RestoresPersistedIdentity(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()

	first := newTestStore(t, kv)
	_, err := first.Login(ctx, "gerente@tienda.com", "gerente123")
	require.NoError(t, err)

	second := newTestStore(t, kv)
	assert.True(t, second.HasRole(domain.RoleManager))
	current, _ := second.Current()
	assert.Equal(t, "gerente@tienda.com", current.Email)
}

func TestNew_TrustsWellFormedRecord(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), StorageKey, `{"id":99,"nombre":"X","email":"x@y","rol":"administrador"}`))

	s := newTestStore(t, kv)
	assert.True(t, s.HasRole(domain.RoleAdmin))
}

func TestNew_CorruptRecordFailsSafe(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"id":`,
		"unknown role": `{"id":1,"nombre":"X","email":"x@y","rol":"root"}`,
		"missing id":   `{"nombre":"X","email":"x@y","rol":"cliente"}`,
		"wrong shape":  `[1,2,3]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			kv := storage.NewMemoryStore()
			require.NoError(t, kv.Set(context.Background(), StorageKey, raw))

			logger, hook := test.NewNullLogger()
			s, err := New(context.Background(), kv, NewStaticDirectory(SeedCredentials), logger)
			require.NoError(t, err)
			assert.False(t, s.IsAuthenticated())
			assert.Equal(t, 0, kv.Len())
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	var events []Event
	cancel := s.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err := s.Login(ctx, "admin@tienda.com", "bad")
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = s.Login(ctx, "vendedor@tienda.com", "vendedor123")
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))

	require.Len(t, events, 2)
	assert.Equal(t, EventLogin, events[0].Kind)
	assert.Equal(t, domain.RoleSeller, events[0].Identity.Role)
	assert.Equal(t, EventLogout, events[1].Kind)
	assert.Nil(t, events[1].Identity)

	cancel()
	_, err = s.Login(ctx, "vendedor@tienda.com", "vendedor123")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func newTestStoreWithDirectory(t *testing.T, dir Directory) *Store {
	t.Helper()
	s, err := New(context.Background(), storage.NewMemoryStore(), dir, nil)
	require.NoError(t, err)
	return s
}
