package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishagb/storefront/internal/domain"
)

func orderAt(id string, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:            id,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func nOrders(n int) []*domain.Order {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	orders := make([]*domain.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, orderAt(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute)))
	}
	return orders
}

func TestListOrders_SortedByCreatedAtDescending(t *testing.T) {
	repo := &mockOrderRepo{orders: nOrders(3)}
	sut := NewAdmin(repo, testLogger())

	orders, err := sut.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "c", orders[0].ID)
	assert.Equal(t, "b", orders[1].ID)
	assert.Equal(t, "a", orders[2].ID)
}

func TestRefresh_ReportsNewOrders(t *testing.T) {
	repo := &mockOrderRepo{orders: nOrders(3)}
	sut := NewAdmin(repo, testLogger())
	ctx := context.Background()

	// Baseline fetch (the poller's automatic refresh).
	_, err := sut.Refresh(ctx, false)
	require.NoError(t, err)

	repo.orders = nOrders(5)
	result, err := sut.Refresh(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewCount)
	assert.Equal(t, "2 new orders", result.Message)
	assert.Len(t, result.Orders, 5)
}

func TestRefresh_SingleNewOrderMessage(t *testing.T) {
	repo := &mockOrderRepo{orders: nOrders(1)}
	sut := NewAdmin(repo, testLogger())
	ctx := context.Background()

	_, err := sut.Refresh(ctx, false)
	require.NoError(t, err)

	repo.orders = nOrders(2)
	result, err := sut.Refresh(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "1 new order", result.Message)
}

func TestRefresh_UnchangedCountReportsNoNewOrders(t *testing.T) {
	repo := &mockOrderRepo{orders: nOrders(3)}
	sut := NewAdmin(repo, testLogger())
	ctx := context.Background()

	_, err := sut.Refresh(ctx, false)
	require.NoError(t, err)

	result, err := sut.Refresh(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewCount)
	assert.Equal(t, "No new orders", result.Message)
}

func TestRefresh_ShrinkingCountNeverGoesNegative(t *testing.T) {
	repo := &mockOrderRepo{orders: nOrders(5)}
	sut := NewAdmin(repo, testLogger())
	ctx := context.Background()

	_, err := sut.Refresh(ctx, false)
	require.NoError(t, err)

	// Orders deleted server-side read as "no new orders".
	repo.orders = nOrders(3)
	result, err := sut.Refresh(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewCount)
	assert.Equal(t, "No new orders", result.Message)
}

func TestRefresh_AutomaticRefreshCarriesNoMessage(t *testing.T) {
	repo := &mockOrderRepo{orders: nOrders(2)}
	sut := NewAdmin(repo, testLogger())

	result, err := sut.Refresh(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewCount)
	assert.Empty(t, result.Message)
}

func TestRefresh_FetchErrorSurfaces(t *testing.T) {
	repo := &mockOrderRepo{listErr: errors.New("backend down")}
	sut := NewAdmin(repo, testLogger())

	_, err := sut.Refresh(context.Background(), true)
	assert.ErrorContains(t, err, "backend down")
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := &mockOrderRepo{}
	sut := NewAdmin(repo, testLogger())

	err := sut.UpdatePaymentStatus(context.Background(), "order-1", domain.PaymentStatusPaid)
	require.NoError(t, err)

	assert.Equal(t, "order-1", repo.updatedID)
	require.NotNil(t, repo.patch.PaymentStatus)
	assert.Equal(t, domain.PaymentStatusPaid, *repo.patch.PaymentStatus)
	assert.Nil(t, repo.patch.Status)
	assert.False(t, repo.patch.UpdatedAt.IsZero())
}

func TestUpdatePaymentStatus_RejectsUnknownValue(t *testing.T) {
	repo := &mockOrderRepo{}
	sut := NewAdmin(repo, testLogger())

	err := sut.UpdatePaymentStatus(context.Background(), "order-1", domain.PaymentStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
	assert.Empty(t, repo.updatedID)
}

func TestCompleteOrder(t *testing.T) {
	repo := &mockOrderRepo{}
	sut := NewAdmin(repo, testLogger())

	err := sut.CompleteOrder(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, "order-1", repo.updatedID)
	require.NotNil(t, repo.patch.Status)
	assert.Equal(t, domain.OrderStatusCompleted, *repo.patch.Status)
	assert.Nil(t, repo.patch.PaymentStatus)
	assert.False(t, repo.patch.UpdatedAt.IsZero())
}
