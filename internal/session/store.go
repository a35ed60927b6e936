// Package session holds the current authenticated identity of one client.
//
// A Store is built once per page load from the client's key/value namespace,
// answers role queries, and writes the identity back on every change. Observers
// registered with Subscribe run synchronously after each completed mutation.
package session

import (
	"context"       // Request-scoped storage calls
	"encoding/json" // Identity record encoding
	"fmt"           // Error wrapping
	"sync"          // Guards the current identity

	"storefront/internal/domain"  // Identities and roles
	"storefront/internal/observe" // Subscriber registry
	"storefront/internal/storage" // Client key/value namespace

	"github.com/sirupsen/logrus" // Logging library
)

// StorageKey is the key the identity is persisted under
const StorageKey = "usuario"

// EventKind names the mutation that produced an Event
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event is delivered to subscribers after a mutation completes
type Event struct {
	Kind     EventKind
	Identity *domain.Identity // nil after logout
}

// Store is the session store of one client
type Store struct {
	mu        sync.RWMutex            // Guards current
	current   *domain.Identity        // Nil when logged out
	kv        storage.Store           // Namespace the identity is written to
	dir       Directory               // Credential lookup
	observers observe.Registry[Event] // Notified after each mutation
}

// New restores the persisted identity from kv. Missing or malformed records
// leave the session logged out; malformed ones are removed.
func New(ctx context.Context, kv storage.Store, dir Directory, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Store{kv: kv, dir: dir} // Logged out until a record is found

	raw, ok, err := kv.Get(ctx, StorageKey) // Read the persisted identity
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return s, nil // Nothing stored yet
	}
	identity, err := decodeIdentity(raw) // Parse and check the record
	if err != nil {
		log.WithFields(logrus.Fields{
			"key":   StorageKey,
			"error": err.Error(),
		}).Warn("Discarding corrupt session record")
		if delErr := kv.Delete(ctx, StorageKey); delErr != nil {
			log.WithField("error", delErr.Error()).Warn("Failed to delete corrupt session record")
		}
		return s, nil // Stay logged out
	}
	s.current = &identity // Restored identity becomes current
	return s, nil
}

func decodeIdentity(raw string) (domain.Identity, error) {
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return domain.Identity{}, err
	}
	// Only records a login could have written are accepted
	if identity.ID <= 0 {
		return domain.Identity{}, fmt.Errorf("invalid id %d", identity.ID)
	}
	if !identity.Role.IsValid() {
		return domain.Identity{}, fmt.Errorf("invalid role %q", identity.Role)
	}
	return identity, nil
}

// Login sets the current identity on an exact credential match.
// It reports false, leaving the session untouched, when nothing matches.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	identity, ok, err := s.dir.Lookup(ctx, email, password) // Exact match only
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil // Session left as it was
	}

	b, err := json.Marshal(identity) // Identity carries no password
	if err != nil {
		return false, fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("persist session: %w", err) // Current identity untouched
	}
	s.current = &identity // Commit after the write succeeded
	s.mu.Unlock()

	snapshot := identity                                             // Subscribers get their own copy
	s.observers.Notify(Event{Kind: EventLogin, Identity: &snapshot}) // Outside the lock
	return true, nil
}

// Logout clears the current identity and its persisted record
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	// Deleting a missing key is not an error, so logout is idempotent
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete session: %w", err)
	}
	s.current = nil // Commit the logout
	s.mu.Unlock()

	s.observers.Notify(Event{Kind: EventLogout})
	return nil
}

// HasRole reports whether the current identity holds exactly role
func (s *Store) HasRole(role domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role == role // No role hierarchy
}

// IsAuthenticated reports whether an identity is current
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Current returns a copy of the current identity
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// Subscribe registers fn for every future event and returns its cancel func
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.observers.Subscribe(fn)
}
