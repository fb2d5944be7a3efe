package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/repository"
)

const minPhoneLength = 10

// Checkout turns a billing form plus a cart snapshot into a persisted order.
type Checkout struct {
	repo   repository.OrderRepository
	logger *slog.Logger
}

func NewCheckout(repo repository.OrderRepository, logger *slog.Logger) *Checkout {
	return &Checkout{
		repo:   repo,
		logger: logger,
	}
}

// SubmitOrder validates the billing form, snapshots the given items and
// persists the resulting order. The snapshot is a deep copy: mutating the
// cart after SubmitOrder returns never alters the created order. The total
// is computed once, here, and never again.
//
// Persistence goes through the order repository; when that is the failover
// repository, a remote outage degrades to the local collection and the
// submission still succeeds. There is no automatic retry on any path.
func (s *Checkout) SubmitOrder(ctx context.Context, billing domain.BillingDetails, items []domain.LineItem) (*domain.Order, error) {
	if err := validateBilling(billing); err != nil {
		return nil, err
	}

	snapshot := domain.CloneItems(items)
	now := time.Now().UTC()

	order := &domain.Order{
		ID:              uuid.NewString(),
		CustomerName:    billing.FullName,
		CustomerEmail:   billing.Email,
		CustomerPhone:   billing.Phone,
		CustomerAddress: billing.Address,
		Items:           snapshot,
		TotalAmount:     itemsTotal(snapshot),
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.Info("order placed",
		"order_id", order.ID,
		"total_amount", order.TotalAmount,
		"item_count", len(order.Items))
	return order, nil
}

func itemsTotal(items []domain.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func validateBilling(billing domain.BillingDetails) error {
	var fields []string

	if strings.TrimSpace(billing.FullName) == "" {
		fields = append(fields, "full_name")
	}
	if !validEmailShape(billing.Email) {
		fields = append(fields, "email")
	}
	if len(strings.TrimSpace(billing.Phone)) < minPhoneLength {
		fields = append(fields, "phone")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validEmailShape checks shape only: something before an @, and a dotted
// domain segment after it. Deliverability is not our problem.
func validEmailShape(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	dom := email[at+1:]
	dot := strings.Index(dom, ".")
	return dot > 0 && dot < len(dom)-1
}
