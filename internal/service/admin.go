package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/repository"
)

// RefreshResult is the outcome of one order-list refresh. NewCount is the
// growth since the previous fetch, never negative; Message is only set for
// manual refreshes and carries the user-visible notification text.
type RefreshResult struct {
	Orders   []*domain.Order
	NewCount int
	Message  string
}

// Admin surfaces the full order list and applies status transitions. The
// viewer only ever writes the completed status and payment status values;
// pending and processing are set at creation or remote-side.
type Admin struct {
	repo   repository.OrderRepository
	logger *slog.Logger
	sfg    singleflight.Group

	mu        sync.Mutex
	prevTotal int
}

func NewAdmin(repo repository.OrderRepository, logger *slog.Logger) *Admin {
	return &Admin{
		repo:   repo,
		logger: logger,
	}
}

// ListOrders fetches the full order list, sorted by created_at descending
// for display. Concurrent callers share a single fetch.
func (a *Admin) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	v, err, _ := a.sfg.Do("orders", func() (interface{}, error) {
		orders, errList := a.repo.ListOrders(ctx)
		if errList != nil {
			return nil, errList
		}
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		})
		return orders, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Order), nil
}

// Refresh re-fetches the order list as a full replace. Each fetch updates
// the baseline the next one is compared against. A shrinking list (orders
// deleted server-side) reads as no new orders rather than a negative count.
func (a *Admin) Refresh(ctx context.Context, manual bool) (*RefreshResult, error) {
	orders, err := a.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh orders: %w", err)
	}

	a.mu.Lock()
	newCount := len(orders) - a.prevTotal
	if newCount < 0 {
		newCount = 0
	}
	a.prevTotal = len(orders)
	a.mu.Unlock()

	result := &RefreshResult{
		Orders:   orders,
		NewCount: newCount,
	}
	if manual {
		result.Message = refreshMessage(newCount)
	}
	return result, nil
}

func refreshMessage(newCount int) string {
	switch {
	case newCount == 1:
		return "1 new order"
	case newCount > 1:
		return fmt.Sprintf("%d new orders", newCount)
	default:
		return "No new orders"
	}
}

// UpdatePaymentStatus sets payment_status on the target order.
func (a *Admin) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}

	patch := repository.OrderPatch{
		PaymentStatus: &status,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := a.repo.UpdateOrder(ctx, orderID, patch); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	a.logger.Info("payment status updated", "order_id", orderID, "payment_status", status)
	return nil
}

// CompleteOrder marks the order completed and stamps updated_at.
func (a *Admin) CompleteOrder(ctx context.Context, orderID string) error {
	status := domain.OrderStatusCompleted
	patch := repository.OrderPatch{
		Status:    &status,
		UpdatedAt: time.Now().UTC(),
	}
	if err := a.repo.UpdateOrder(ctx, orderID, patch); err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}

	a.logger.Info("order completed", "order_id", orderID)
	return nil
}
