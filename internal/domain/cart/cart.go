// Package cart holds the cart slice: items, the slice state, and its pure
// reducers.
//
// The aggregates ItemCount and TotalPrice are always recomputed as folds
// over a freshly fetched item list, never patched incrementally. Price and
// stock are server truth; a concurrent admin edit would make any locally
// patched total drift.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/minzzz995/shopmall-client/internal/domain/product"
)

// Validation errors detected before any network call.
var (
	// ErrDuplicateItem is returned when the cart already holds an item for
	// the same product and size.
	ErrDuplicateItem = errors.New("item already in cart")
	// ErrSizeRequired is returned when no size was selected.
	ErrSizeRequired = errors.New("size is required")
)

// Item is a single cart line. At most one active item may exist per
// (product, size) pair; the duplicate check in AddToCart enforces this on
// the client before the server ever sees the request.
type Item struct {
	ID      string          `json:"id"`
	Product product.Product `json:"product"`
	Size    string          `json:"size"`
	Qty     int             `json:"qty"`
}

// State is the cart slice.
type State struct {
	Loading    bool
	Error      string
	Items      []Item
	ItemCount  int
	TotalPrice decimal.Decimal
}

// Initial returns the empty cart slice.
func Initial() State {
	return State{TotalPrice: decimal.Zero}
}

// Pending marks a request in flight and clears any stale error.
func (s State) Pending() State {
	s.Loading = true
	s.Error = ""
	return s
}

// Rejected commits a failed operation.
func (s State) Rejected(msg string) State {
	s.Loading = false
	s.Error = msg
	return s
}

// ListFulfilled replaces the items wholesale and recomputes both
// aggregates from the new list, not from the previous state.
func (s State) ListFulfilled(items []Item) State {
	s.Loading = false
	s.Error = ""
	s.Items = items
	s.ItemCount = len(items)
	s.TotalPrice = TotalPrice(items)
	return s
}

// MutationFulfilled commits a successful add/delete/update without touching
// the items or aggregates; the follow-up list refresh resynchronizes them.
func (s State) MutationFulfilled() State {
	s.Loading = false
	s.Error = ""
	return s
}

// Contains reports whether items already holds an entry for the given
// product and size.
func Contains(items []Item, productID, size string) bool {
	for _, it := range items {
		if it.Product.ID == productID && it.Size == size {
			return true
		}
	}
	return false
}

// TotalPrice folds price x quantity over the items. The empty list yields
// zero.
func TotalPrice(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}
