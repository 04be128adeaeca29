// Package product holds the product slice: catalog items, the slice state,
// and its pure reducers.
package product

import "github.com/shopspring/decimal"

// Product is a catalog item. Price is server truth and is never recomputed
// or patched locally. Stock maps a size label to the remaining quantity for
// that size.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Stock       map[string]int  `json:"stock"`
	Status      string          `json:"status"`
}

// Form is the payload for creating or editing a product. Only admins may
// submit it; the server enforces the role.
type Form struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Stock       map[string]int  `json:"stock"`
	Status      string          `json:"status"`
}

// State is the product slice.
type State struct {
	Loading         bool
	Error           string
	Success         bool
	List            []Product
	SelectedProduct *Product
	TotalPageNum    int
}

// Initial returns the empty product slice.
func Initial() State {
	return State{TotalPageNum: 1}
}

// Pending marks a request in flight and clears any stale error.
func (s State) Pending() State {
	s.Loading = true
	s.Error = ""
	return s
}

// Rejected commits a failed fetch.
func (s State) Rejected(msg string) State {
	s.Loading = false
	s.Error = msg
	return s
}

// ListFulfilled replaces the list and page count wholesale.
func (s State) ListFulfilled(list []Product, totalPageNum int) State {
	s.Loading = false
	s.Error = ""
	s.List = list
	s.TotalPageNum = totalPageNum
	return s
}

// DetailFulfilled commits a fetched product detail.
func (s State) DetailFulfilled(p Product) State {
	s.Loading = false
	s.Error = ""
	s.SelectedProduct = &p
	return s
}

// MutationFulfilled commits a successful create, edit, or delete.
func (s State) MutationFulfilled() State {
	s.Loading = false
	s.Error = ""
	s.Success = true
	return s
}

// MutationRejected commits a failed create, edit, or delete.
func (s State) MutationRejected(msg string) State {
	s.Loading = false
	s.Error = msg
	s.Success = false
	return s
}

// WithSelected points the slice at a product already in hand.
func (s State) WithSelected(p *Product) State {
	s.SelectedProduct = p
	return s
}

// ClearedError resets the error and success flags.
func (s State) ClearedError() State {
	s.Error = ""
	s.Success = false
	return s
}
