package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dishagb/storefront/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderPatch is a partial update applied to an existing order. Nil fields
// are left untouched.
type OrderPatch struct {
	Status        *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
	UpdatedAt     time.Time
}

// OrderRepository defines the order persistence operations the checkout and
// admin flows depend on. The interface is defined here, by its consumers,
// not by any particular backend.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, id string, patch OrderPatch) error
}

// Credentials holds postgres connection settings for the remote order backend.
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}
