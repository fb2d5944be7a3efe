package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/storage"
)

const fallbackKeySuffix = "_fallback_orders"

// FallbackKey returns the key the local order collection is persisted under.
func FallbackKey(namespace string) string {
	return namespace + fallbackKeySuffix
}

// LocalRepository persists orders in the key-value store under a dedicated
// fallback collection key. It serves two roles: the sole order store when no
// remote backend is configured, and the degraded-mode target when the remote
// backend fails. Orders written here are never reconciled upstream.
type LocalRepository struct {
	mu        sync.Mutex
	storage   storage.Store
	namespace string
	logger    *slog.Logger
}

func NewLocalRepository(st storage.Store, namespace string, logger *slog.Logger) *LocalRepository {
	return &LocalRepository{
		storage:   st,
		namespace: namespace,
		logger:    logger,
	}
}

func (r *LocalRepository) load(ctx context.Context) []*domain.Order {
	raw, err := r.storage.Get(ctx, FallbackKey(r.namespace))
	if err != nil {
		return nil
	}

	var orders []*domain.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		r.logger.Warn("discarding unparseable fallback order collection",
			"namespace", r.namespace, "error", err)
		return nil
	}
	return orders
}

func (r *LocalRepository) save(ctx context.Context, orders []*domain.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to marshal fallback orders: %w", err)
	}
	if err := r.storage.Set(ctx, FallbackKey(r.namespace), string(data)); err != nil {
		return fmt.Errorf("failed to persist fallback orders: %w", err)
	}
	return nil
}

func (r *LocalRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	orders = append(orders, order)
	return r.save(ctx, orders)
}

func (r *LocalRepository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx), nil
}

func (r *LocalRepository) UpdateOrder(ctx context.Context, id string, patch OrderPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	for _, order := range orders {
		if order.ID != id {
			continue
		}
		if patch.Status != nil {
			order.Status = *patch.Status
		}
		if patch.PaymentStatus != nil {
			order.PaymentStatus = *patch.PaymentStatus
		}
		order.UpdatedAt = patch.UpdatedAt
		return r.save(ctx, orders)
	}
	return ErrOrderNotFound
}
