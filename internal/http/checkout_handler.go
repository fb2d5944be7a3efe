package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dishagb/storefront/internal/cart"
	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/service"
	"github.com/dishagb/storefront/internal/storage"
)

type CheckoutHandler struct {
	checkout *service.Checkout
	storage  storage.Store
	logger   *slog.Logger
	timeout  time.Duration
}

func NewCheckoutHandler(checkout *service.Checkout, st storage.Store, logger *slog.Logger, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		storage:  st,
		logger:   logger,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// SubmitOrder places an order from the session's cart. The cart is left
// untouched on success; the client clears it once the customer has
// acknowledged the confirmation screen. Whether the order landed remotely
// or in the local fallback is invisible here.
func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(ctx)
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := cart.NewStore(ctx, h.storage, sessionID, h.logger)
	billing := domain.BillingDetails{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	order, err := h.checkout.SubmitOrder(ctx, billing, store.Items())
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "billing details failed validation",
				Code:    "validation_failed",
				Details: strings.Join(validationErr.Fields, ", "),
			})
			return
		}
		h.logger.Error("order submission failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to place order")
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
