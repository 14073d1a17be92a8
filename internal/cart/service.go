package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-kasir/internal/obs"
	"github.com/noah-isme/backend-kasir/internal/pricing"
)

// Service encapsulates cart domain operations. Every mutation recomputes the
// summary from scratch via pricing.Summarize; there is no incremental-update
// mode. Per-cart serialization of mutations is delegated to the Store.
type Service struct {
	Store Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ready() error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	return nil
}

// validateItem enforces the engine's input contract before any computation:
// the engine itself assumes validated input and never re-checks.
func validateItem(item pricing.LineItem) error {
	if item.ID <= 0 {
		return fmt.Errorf("item id must be positive: %w", ErrInvalidInput)
	}
	if item.Name == "" {
		return fmt.Errorf("item name is required: %w", ErrInvalidInput)
	}
	if !item.Category.Valid() {
		return fmt.Errorf("unknown category %q: %w", item.Category, ErrInvalidInput)
	}
	if !item.UnitPrice.IsPositive() {
		return fmt.Errorf("unit price must be positive: %w", ErrInvalidInput)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
	}
	return nil
}

// normalizeItem quantizes the unit price to 2 dp on intake, mirroring the
// price normalization the API contract promises.
func normalizeItem(item pricing.LineItem) pricing.LineItem {
	item.UnitPrice = item.UnitPrice.Quantize()
	return item
}

// CreateCart prices the provided items and stores a new cart. Zero items is
// valid and produces an all-zero summary.
func (s *Service) CreateCart(ctx context.Context, items []pricing.LineItem, customer pricing.Customer) (Cart, error) {
	if err := s.ready(); err != nil {
		return Cart{}, err
	}
	if !customer.LoyaltyLevel.Valid() {
		if customer.LoyaltyLevel == "" {
			customer.LoyaltyLevel = pricing.LoyaltyNone
		} else {
			return Cart{}, fmt.Errorf("unknown loyalty level %q: %w", customer.LoyaltyLevel, ErrInvalidInput)
		}
	}
	normalized := make([]pricing.LineItem, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if err := validateItem(item); err != nil {
			return Cart{}, err
		}
		if _, dup := seen[item.ID]; dup {
			return Cart{}, fmt.Errorf("duplicate item id %d: %w", item.ID, ErrInvalidInput)
		}
		seen[item.ID] = struct{}{}
		normalized = append(normalized, normalizeItem(item))
	}

	now := s.now()
	cart := Cart{
		ID:        uuid.NewString(),
		Items:     normalized,
		Customer:  customer,
		Summary:   pricing.Summarize(normalized, customer),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Create(ctx, cart); err != nil {
		obs.ObserveCartOp("create", "error")
		return Cart{}, err
	}
	obs.ObserveCartOp("create", "ok")
	obs.ObserveSummaryItems(len(normalized))
	return cart, nil
}

// GetCart loads a cart by id.
func (s *Service) GetCart(ctx context.Context, id string) (Cart, error) {
	if err := s.ready(); err != nil {
		return Cart{}, err
	}
	return s.Store.Get(ctx, id)
}

// ListCarts returns the identifiers of all live carts.
func (s *Service) ListCarts(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Store.List(ctx)
}

// AddItem adds an item to the cart. When an item with the same id already
// exists its quantity is incremented instead.
func (s *Service) AddItem(ctx context.Context, cartID string, item pricing.LineItem) (Cart, error) {
	if err := s.ready(); err != nil {
		return Cart{}, err
	}
	if err := validateItem(item); err != nil {
		return Cart{}, err
	}
	item = normalizeItem(item)

	return s.mutate(ctx, cartID, "add_item", func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ID == item.ID {
				c.Items[i].Quantity += item.Quantity
				return nil
			}
		}
		c.Items = append(c.Items, item)
		return nil
	})
}

// UpdateQuantity replaces the quantity of an existing item.
func (s *Service) UpdateQuantity(ctx context.Context, cartID string, itemID int64, quantity int) (Cart, error) {
	if err := s.ready(); err != nil {
		return Cart{}, err
	}
	if quantity <= 0 {
		return Cart{}, fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
	}
	return s.mutate(ctx, cartID, "update_quantity", func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items[i].Quantity = quantity
				return nil
			}
		}
		return fmt.Errorf("item %d not in cart: %w", itemID, ErrNotFound)
	})
}

// RemoveItem deletes an item from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID string, itemID int64) (Cart, error) {
	if err := s.ready(); err != nil {
		return Cart{}, err
	}
	return s.mutate(ctx, cartID, "remove_item", func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("item %d not in cart: %w", itemID, ErrNotFound)
	})
}

// ClearCart removes all items, keeping the cart and its customer.
func (s *Service) ClearCart(ctx context.Context, cartID string) (Cart, error) {
	if err := s.ready(); err != nil {
		return Cart{}, err
	}
	return s.mutate(ctx, cartID, "clear", func(c *Cart) error {
		c.Items = nil
		return nil
	})
}

// DeleteCart removes the cart entirely.
func (s *Service) DeleteCart(ctx context.Context, cartID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, cartID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			obs.ObserveCartOp("delete", "error")
		}
		return err
	}
	obs.ObserveCartOp("delete", "ok")
	return nil
}

// mutate runs fn under the store's per-cart exclusion and re-prices the cart.
func (s *Service) mutate(ctx context.Context, cartID string, op string, fn func(*Cart) error) (Cart, error) {
	cart, err := s.Store.Update(ctx, cartID, func(c *Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		c.Summary = pricing.Summarize(c.Items, c.Customer)
		c.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInvalidInput) {
			obs.ObserveCartOp(op, "error")
		}
		return Cart{}, err
	}
	obs.ObserveCartOp(op, "ok")
	obs.ObserveSummaryItems(len(cart.Items))
	return cart, nil
}
