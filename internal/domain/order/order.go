// Package order holds the order slice: orders, checkout payloads, the slice
// state, and its pure reducers.
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is an order's fulfilment stage. Transitions are
// server-authoritative: the client only requests a transition and stores
// whatever status the server returns, verbatim.
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusShipping  Status = "shipping"
	StatusDelivered Status = "delivered"
	StatusRefund    Status = "refund"
)

// Item is a line item snapshot taken at checkout time.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// ShipTo is the delivery address.
type ShipTo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

// Contact is the recipient's contact information.
type Contact struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Order is a placed order as returned by the server.
type Order struct {
	ID         string          `json:"id"`
	OrderNum   string          `json:"orderNum"`
	Items      []Item          `json:"items"`
	ShipTo     ShipTo          `json:"shipTo"`
	Contact    Contact         `json:"contact"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     Status          `json:"status"`
	UserID     string          `json:"userId"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Request is the checkout payload posted to the server.
type Request struct {
	Items      []Item          `json:"orderList"`
	ShipTo     ShipTo          `json:"shipTo"`
	Contact    Contact         `json:"contact"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// State is the order slice.
type State struct {
	Loading       bool
	Error         string
	OrderList     []Order
	OrderNum      string
	SelectedOrder *Order
	TotalPageNum  int
}

// Initial returns the empty order slice.
func Initial() State {
	return State{TotalPageNum: 1}
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

// CreateFulfilled records the order number returned by checkout.
func (s State) CreateFulfilled(orderNum string) State {
	s.Loading = false
	s.Error = ""
	s.OrderNum = orderNum
	return s
}

// ListFulfilled replaces the caller's own order list. Customer order lists
// are unpaginated, so the page count is untouched.
func (s State) ListFulfilled(list []Order) State {
	s.Loading = false
	s.Error = ""
	s.OrderList = list
	return s
}

// PagedListFulfilled replaces the admin order list and its page count.
func (s State) PagedListFulfilled(list []Order, totalPageNum int) State {
	s.Loading = false
	s.Error = ""
	s.OrderList = list
	s.TotalPageNum = totalPageNum
	return s
}

// StatusUpdated replaces the list entry matching the updated order's ID,
// keeping list order, and points SelectedOrder at the new value. An order
// absent from the list (e.g. it scrolled off the current page) still
// becomes the selected order.
func (s State) StatusUpdated(updated Order) State {
	list := make([]Order, len(s.OrderList))
	copy(list, s.OrderList)
	for i := range list {
		if list[i].ID == updated.ID {
			list[i] = updated
			break
		}
	}
	s.OrderList = list
	s.SelectedOrder = &updated
	return s
}

// StatusUpdateRejected records the failure without touching the list.
func (s State) StatusUpdateRejected(msg string) State {
	s.Error = msg
	return s
}

// WithSelected points the slice at an order already in hand.
func (s State) WithSelected(o *Order) State {
	s.SelectedOrder = o
	return s
}
