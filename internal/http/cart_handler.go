package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dishagb/storefront/internal/cart"
	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/storage"
)

type CartHandler struct {
	storage storage.Store
	logger  *slog.Logger
	timeout time.Duration
}

func NewCartHandler(st storage.Store, logger *slog.Logger, timeout time.Duration) *CartHandler {
	return &CartHandler{
		storage: st,
		logger:  logger,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	Name    string            `json:"name"`
	Price   float64           `json:"price"`
	Type    string            `json:"type"`
	Details map[string]string `json:"details,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items []domain.LineItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

// sessionStore rebuilds the caller's cart store from persisted state.
func (h *CartHandler) sessionStore(ctx context.Context) (*cart.Store, bool) {
	sessionID := getSessionID(ctx)
	if sessionID == "" {
		return nil, false
	}
	return cart.NewStore(ctx, h.storage, sessionID, h.logger), true
}

func cartResponse(store *cart.Store) CartResponseDTO {
	items := store.Items()
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponseDTO{
		Items: items,
		Total: store.Total(),
		Count: store.Count(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name must not be empty")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}
	itemType := domain.ItemType(req.Type)
	if !itemType.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_type", "type must be one of minecraft, vps, bot, domain")
		return
	}

	store.Add(ctx, domain.LineItem{
		Name:    req.Name,
		Price:   req.Price,
		Type:    itemType,
		Details: req.Details,
	})

	respondJSON(w, http.StatusCreated, cartResponse(store))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Quantity <= 0 removes the row; this is an absolute set, not an
	// increment.
	store.UpdateQuantity(ctx, itemID, req.Quantity)

	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item id is required")
		return
	}

	store.Remove(ctx, itemID)

	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.sessionStore(ctx)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	store.Clear(ctx)

	respondJSON(w, http.StatusOK, cartResponse(store))
}
