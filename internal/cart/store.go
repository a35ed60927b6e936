// Package cart holds the shopping cart of one client.
//
// The cart is an ordered list of line items keyed by product id. Every
// mutation writes the whole list to the client's key/value namespace before
// the new state becomes visible; if that write fails the cart is left as it
// was and the error is returned.
package cart

import (
	"context" // Request-scoped storage calls
	"fmt"     // Error wrapping
	"sync"    // Guards the item list

	"storefront/internal/domain"  // Products and line items
	"storefront/internal/observe" // Subscriber registry
	"storefront/internal/storage" // Client key/value namespace

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// StorageKey is the key the cart is persisted under
const StorageKey = "cart"

// Op names the mutation that produced an Event
type Op string

const (
	OpAdd         Op = "add"
	OpRemove      Op = "remove"
	OpSetQuantity Op = "set_quantity"
	OpClear       Op = "clear"
)

// Event is delivered to subscribers after a mutation completes
type Event struct {
	Op        Op
	ProductID int64             // zero for OpClear
	Items     []domain.LineItem // snapshot after the mutation
}

// Store is the cart store of one client
type Store struct {
	mu        sync.RWMutex            // Guards items
	items     []domain.LineItem       // Lines in insertion order
	kv        storage.Store           // Namespace the cart is written to
	observers observe.Registry[Event] // Notified after each mutation
}

// New restores the persisted cart from kv. An unreadable record yields an empty cart.
func New(ctx context.Context, kv storage.Store, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Store{kv: kv} // Empty until a record is found

	raw, ok, err := kv.Get(ctx, StorageKey) // Read the persisted cart
	if err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	if !ok {
		return s, nil // Nothing stored yet
	}
	items, dropped, err := decodeItems(raw) // Parse and drop invalid entries
	if err != nil {
		log.WithFields(logrus.Fields{
			"key":   StorageKey,
			"error": err.Error(),
		}).Warn("Discarding corrupt cart record")
		return s, nil // Start over with an empty cart
	}
	if dropped > 0 {
		log.WithFields(logrus.Fields{
			"key":     StorageKey,
			"dropped": dropped,
		}).Warn("Dropped invalid cart entries")
	}
	s.items = items // Restored lines become current
	return s, nil
}

// AddItem increments the quantity of p's line item, or appends a new one with
// quantity 1. An existing item keeps the display fields it was added with.
func (s *Store) AddItem(ctx context.Context, p domain.Product) error {
	return s.mutate(ctx, OpAdd, p.ID, func(items []domain.LineItem) []domain.LineItem {
		if i := indexOf(items, p.ID); i >= 0 {
			items[i].Quantity++ // Display fields stay as first added
			return items
		}
		return append(items, domain.NewLineItem(p)) // New line with quantity 1
	})
}

// RemoveItem drops the line item for productID if present
func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, OpRemove, productID, func(items []domain.LineItem) []domain.LineItem {
		return without(items, productID)
	})
}

// SetQuantity replaces the quantity of an existing line item. A quantity of
// zero or less removes the item; an unknown product id is left alone.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		// Same as RemoveItem
		return s.mutate(ctx, OpRemove, productID, func(items []domain.LineItem) []domain.LineItem {
			return without(items, productID)
		})
	}
	return s.mutate(ctx, OpSetQuantity, productID, func(items []domain.LineItem) []domain.LineItem {
		if i := indexOf(items, productID); i >= 0 {
			items[i].Quantity = quantity // Replace, not add
		}
		return items // Unknown id leaves the lines alone
	})
}

// Clear empties the cart and removes its persisted record
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	// Delete first so a failed delete keeps the cart
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete cart: %w", err)
	}
	s.items = nil // Commit the empty cart
	s.mu.Unlock()

	s.observers.Notify(Event{Op: OpClear, Items: []domain.LineItem{}})
	return nil
}

// Total is the sum of unit price times quantity over all items
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero // Running sum
	for _, item := range s.items {
		total = total.Add(item.Subtotal()) // Unit price times quantity
	}
	return total
}

// ItemCount is the number of units in the cart
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0 // Units, not lines
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// FindItem returns the line item for productID
func (s *Store) FindItem(productID int64) (domain.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.items, productID); i >= 0 {
		return s.items[i], true
	}
	return domain.LineItem{}, false
}

// Items returns a copy of the line items in insertion order
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Len returns the number of distinct line items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subscribe registers fn for every future event and returns its cancel func
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.observers.Subscribe(fn)
}

// mutate applies fn to a copy of the items, persists the result and only then commits it
func (s *Store) mutate(ctx context.Context, op Op, productID int64, fn func([]domain.LineItem) []domain.LineItem) error {
	s.mu.Lock()
	next := fn(clone(s.items))    // Work on a copy
	raw, err := encodeItems(next) // Serialize the whole cart
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist cart: %w", err) // Current items untouched
	}
	s.items = next          // Commit after the write succeeded
	snapshot := clone(next) // Subscribers get their own copy
	s.mu.Unlock()

	s.observers.Notify(Event{Op: op, ProductID: productID, Items: snapshot}) // Outside the lock
	return nil
}

func indexOf(items []domain.LineItem, productID int64) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func without(items []domain.LineItem, productID int64) []domain.LineItem {
	out := items[:0] // Filter in place, items is already a copy
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

func clone(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
