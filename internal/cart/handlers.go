package cart

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/money"
	"github.com/noah-isme/backend-kasir/internal/pricing"
)

// Handler wires the cart service to HTTP. Request validation lives here so the
// service and the pricing engine only ever see well-formed input.
type Handler struct {
	Svc *Service
}

type lineItemPayload struct {
	ID        int64       `json:"id" validate:"required,gt=0"`
	Name      string      `json:"name" validate:"required"`
	Category  string      `json:"category" validate:"required,oneof=Electronics Books Clothing"`
	UnitPrice money.Money `json:"unitPrice"`
	Quantity  int         `json:"quantity" validate:"required,gt=0"`
}

func (p lineItemPayload) toLineItem() (pricing.LineItem, error) {
	// money.Money has no validator integration, so positivity is checked here
	if !p.UnitPrice.IsPositive() {
		return pricing.LineItem{}, common.NewAppError("BAD_REQUEST", "unitPrice must be greater than 0", http.StatusBadRequest, nil)
	}
	category, err := pricing.ParseCategory(p.Category)
	if err != nil {
		return pricing.LineItem{}, common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
	}
	return pricing.LineItem{
		ID:        p.ID,
		Name:      p.Name,
		Category:  category,
		UnitPrice: p.UnitPrice,
		Quantity:  p.Quantity,
	}, nil
}

type customerPayload struct {
	LoyaltyLevel string `json:"loyaltyLevel" validate:"omitempty,oneof=None Bronze Silver Gold"`
}

func (p customerPayload) toCustomer() (pricing.Customer, error) {
	level, err := pricing.ParseLoyaltyLevel(p.LoyaltyLevel)
	if err != nil {
		return pricing.Customer{}, common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
	}
	return pricing.Customer{LoyaltyLevel: level}, nil
}

type createCartRequest struct {
	Items    []lineItemPayload `json:"items" validate:"dive"`
	Customer customerPayload   `json:"customer"`
}

type addItemRequest struct {
	Item lineItemPayload `json:"item" validate:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type cartResponse struct {
	CartID    string              `json:"cartId"`
	Summary   pricing.CartSummary `json:"summary"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func toCartResponse(c Cart) cartResponse {
	return cartResponse{
		CartID:    c.ID,
		Summary:   c.Summary,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create prices the submitted items and stores a new cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload createCartRequest
	if err := common.DecodeJSON(r, &payload); err != nil {
		h.writeError(w, err)
		return
	}
	items := make([]pricing.LineItem, 0, len(payload.Items))
	for _, entry := range payload.Items {
		item, err := entry.toLineItem()
		if err != nil {
			h.writeError(w, err)
			return
		}
		items = append(items, item)
	}
	customer, err := payload.Customer.toCustomer()
	if err != nil {
		h.writeError(w, err)
		return
	}

	cart, err := h.Svc.CreateCart(r.Context(), items, customer)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toCartResponse(cart)})
}

// Get returns a cart with its full pricing summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cart, err := h.Svc.GetCart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toCartResponse(cart)})
}

// List returns the identifiers of all live carts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	ids, err := h.Svc.ListCarts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"cartIds": ids}})
}

// AddItem adds an item to the cart, merging quantity for an existing id.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload addItemRequest
	if err := common.DecodeJSON(r, &payload); err != nil {
		h.writeError(w, err)
		return
	}
	item, err := payload.Item.toLineItem()
	if err != nil {
		h.writeError(w, err)
		return
	}
	cart, err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toCartResponse(cart)})
}

// UpdateQuantity replaces an item's quantity.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	itemID, err := itemIDParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var payload updateQuantityRequest
	if err := common.DecodeJSON(r, &payload); err != nil {
		h.writeError(w, err)
		return
	}
	cart, err := h.Svc.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), itemID, payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toCartResponse(cart)})
}

// RemoveItem deletes an item from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	itemID, err := itemIDParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	cart, err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toCartResponse(cart)})
}

// Clear removes every item while keeping the cart itself.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cart, err := h.Svc.ClearCart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toCartResponse(cart)})
}

// Delete removes the cart entirely.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if err := h.Svc.DeleteCart(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func itemIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "itemId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewAppError("BAD_REQUEST", "invalid item id", http.StatusBadRequest, err)
	}
	return id, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
	}
}
