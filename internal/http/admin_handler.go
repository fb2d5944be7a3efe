package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/service"
)

type AdminHandler struct {
	admin   *service.Admin
	logger  *slog.Logger
	timeout time.Duration
}

func NewAdminHandler(admin *service.Admin, logger *slog.Logger, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		admin:   admin,
		logger:  logger,
		timeout: timeout,
	}
}

type UpdatePaymentStatusRequestDTO struct {
	PaymentStatus string `json:"payment_status"`
}

type OrderListResponseDTO struct {
	Orders []*domain.Order `json:"orders"`
}

type RefreshResponseDTO struct {
	Orders   []*domain.Order `json:"orders"`
	NewCount int             `json:"new_count"`
	Message  string          `json:"message"`
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.admin.ListOrders(ctx)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		respondError(w, http.StatusBadGateway, "backend_unavailable", "failed to fetch orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, OrderListResponseDTO{Orders: orders})
}

func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.admin.Refresh(ctx, true)
	if err != nil {
		h.logger.Error("manual refresh failed", "error", err)
		respondError(w, http.StatusBadGateway, "backend_unavailable", "failed to refresh orders")
		return
	}

	orders := result.Orders
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, RefreshResponseDTO{
		Orders:   orders,
		NewCount: result.NewCount,
		Message:  result.Message,
	})
}

func (h *AdminHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id is required")
		return
	}

	var req UpdatePaymentStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.admin.UpdatePaymentStatus(ctx, orderID, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		if errors.Is(err, service.ErrInvalidPaymentStatus) {
			respondError(w, http.StatusBadRequest, "invalid_payment_status", "payment_status must be one of pending, paid, failed")
			return
		}
		h.logger.Error("payment status update failed", "order_id", orderID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update payment status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id is required")
		return
	}

	if err := h.admin.CompleteOrder(ctx, orderID); err != nil {
		h.logger.Error("order completion failed", "order_id", orderID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to complete order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
