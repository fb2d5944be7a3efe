package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/dishagb/storefront/internal/service"
)

const DefaultInterval = 30 * time.Second

// Refresher is the slice of the admin service the poller needs.
type Refresher interface {
	Refresh(ctx context.Context, manual bool) (*service.RefreshResult, error)
}

// Poller re-fetches the order list on a fixed interval so the admin view
// stays warm between manual refreshes. Each poll is an idempotent full-list
// replace; overlapping polls are not guarded against.
type Poller struct {
	admin    Refresher
	interval time.Duration
	logger   *slog.Logger
}

func New(admin Refresher, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		admin:    admin,
		interval: interval,
		logger:   logger,
	}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	result, err := p.admin.Refresh(ctx, false)
	if err != nil {
		p.logger.Warn("order poll failed", "error", err)
		return
	}
	if result.NewCount > 0 {
		p.logger.Info("new orders observed",
			"new_count", result.NewCount, "total", len(result.Orders))
	}
}
