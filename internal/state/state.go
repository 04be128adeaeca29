// Package state composes the slice states into the single application state
// tree and binds it to the observable store.
//
// The tree is owned exclusively by the store: command handlers mutate it
// only through committed reducers and read the current snapshot at
// invocation time, never a copy retained across invocations.
package state

import (
	"github.com/minzzz995/shopmall-client/internal/domain/cart"
	"github.com/minzzz995/shopmall-client/internal/domain/order"
	"github.com/minzzz995/shopmall-client/internal/domain/product"
	"github.com/minzzz995/shopmall-client/internal/domain/user"
	"github.com/minzzz995/shopmall-client/pkg/store"
)

// State is the whole application state tree. Each slice is mutated only by
// its own reducers.
type State struct {
	User    user.State
	Cart    cart.State
	Product product.State
	Order   order.State
}

// Initial returns the tree with every slice in its initial state.
func Initial() State {
	return State{
		User:    user.Initial(),
		Cart:    cart.Initial(),
		Product: product.Initial(),
		Order:   order.Initial(),
	}
}

// Store is the observable application store.
type Store = store.Store[State]

// Reducer transforms one state tree into the next.
type Reducer = store.Reducer[State]

// NewStore creates a store seeded with the initial tree.
func NewStore() *Store {
	return store.New(Initial())
}
