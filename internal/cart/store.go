package cart

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/backend-kasir/internal/pricing"
)

// ErrNotFound indicates the requested cart (or cart item) could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Cart is the mutable per-cart state held by a Store. The summary is always
// the output of pricing.Summarize over the current items; it is replaced
// wholesale on every mutation, never patched.
type Cart struct {
	ID        string              `json:"id"`
	Items     []pricing.LineItem  `json:"items"`
	Customer  pricing.Customer    `json:"customer"`
	Summary   pricing.CartSummary `json:"summary"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Clone returns a deep copy so callers can never alias store-held state.
func (c Cart) Clone() Cart {
	out := c
	out.Items = append([]pricing.LineItem(nil), c.Items...)
	out.Summary.Items = append([]pricing.ItemBreakdown(nil), c.Summary.Items...)
	return out
}

// Store persists carts keyed by identifier. Every mutating operation on a
// cart is a read-modify-write, so implementations must serialize Update calls
// per cart id: two concurrent updates of the same cart must never interleave.
// The pricing engine itself performs no locking and relies on this contract.
type Store interface {
	// Create stores a new cart. A duplicate id is an error.
	Create(ctx context.Context, cart Cart) error
	// Get returns a copy of the cart or ErrNotFound.
	Get(ctx context.Context, id string) (Cart, error)
	// Update applies fn to the cart under per-cart mutual exclusion and
	// persists the result. When fn returns an error nothing is written.
	Update(ctx context.Context, id string, fn func(*Cart) error) (Cart, error)
	// Delete removes the cart or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// List returns the identifiers of all live carts.
	List(ctx context.Context) ([]string, error)
}
