package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/storage"
)

const keySuffix = "-cart"

// StorageKey returns the key a session's cart is persisted under.
func StorageKey(namespace string) string {
	return namespace + keySuffix
}

// Store holds the ordered line items of one session's cart. State is
// rehydrated from storage at construction and re-persisted synchronously
// after every mutation, so a Store can be rebuilt per request.
//
// A missing or unparseable persisted value is treated as an empty cart.
type Store struct {
	mu        sync.Mutex
	storage   storage.Store
	namespace string
	logger    *slog.Logger
	items     []domain.LineItem
}

func NewStore(ctx context.Context, st storage.Store, namespace string, logger *slog.Logger) *Store {
	s := &Store{
		storage:   st,
		namespace: namespace,
		logger:    logger,
	}
	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.LineItem {
	raw, err := s.storage.Get(ctx, StorageKey(s.namespace))
	if err != nil {
		return nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("discarding unparseable persisted cart",
			"namespace", s.namespace, "error", err)
		return nil
	}
	return items
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("failed to marshal cart", "namespace", s.namespace, "error", err)
		return
	}
	if err := s.storage.Set(ctx, StorageKey(s.namespace), string(data)); err != nil {
		s.logger.Error("failed to persist cart", "namespace", s.namespace, "error", err)
	}
}

// Add puts an item into the cart. The ID and Quantity of the argument are
// ignored: an item matching an existing (name, type) pair increments that
// row's quantity, otherwise a fresh row is appended with quantity 1 and a
// newly assigned id. Add never fails; the resulting row is returned.
func (s *Store) Add(ctx context.Context, item domain.LineItem) domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Name == item.Name && s.items[i].Type == item.Type {
			s.items[i].Quantity++
			s.persist(ctx)
			return s.items[i].Clone()
		}
	}

	row := item.Clone()
	row.ID = fmt.Sprintf("%s-%s-%d", item.Type, slug(item.Name), time.Now().UnixMilli())
	row.Quantity = 1
	s.items = append(s.items, row)
	s.persist(ctx)
	return row.Clone()
}

// slug makes a plan name safe for use inside an item id, which travels in
// URL paths.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// Remove deletes the line item with the given id. Removing an absent id is
// a no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, id)
}

func (s *Store) removeLocked(ctx context.Context, id string) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets an item's quantity to an absolute value. A quantity
// of zero or less removes the item.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, id)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist(ctx)
}

// Items returns the line items in insertion order. The returned slice is a
// deep copy; mutating it does not affect the cart.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneItems(s.items)
}

// Total returns the sum of price * quantity over all items, 0 when empty.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// Count returns the sum of quantities over all items, 0 when empty.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}
