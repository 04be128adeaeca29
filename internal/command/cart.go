package command

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/minzzz995/shopmall-client/internal/domain/cart"
	"github.com/minzzz995/shopmall-client/internal/state"
	"github.com/minzzz995/shopmall-client/pkg/notify"
)

// CartCommands are the cart slice's operations.
//
// All mutations are pull-based: after a successful add/delete/update the
// handler re-pulls the whole cart instead of patching the cached list, so
// prices and stock always reflect server truth.
type CartCommands struct {
	store  *state.Store
	gw     Gateway
	notify *notify.Queue
}

// NewCartCommands wires the cart command handlers.
func NewCartCommands(st *state.Store, gw Gateway, queue *notify.Queue) *CartCommands {
	return &CartCommands{store: st, gw: gw, notify: queue}
}

type addCartRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

type updateQtyRequest struct {
	Qty int `json:"qty"`
}

// AddToCart adds one unit of a product in the given size.
//
// The duplicate check reads the current snapshot at invocation time: if an
// item for the same (product, size) pair exists, no network call is issued,
// the slice stays untouched, and the caller gets cart.ErrDuplicateItem.
func (c *CartCommands) AddToCart(ctx context.Context, productID, size string) error {
	if size == "" {
		return cart.ErrSizeRequired
	}

	if cart.Contains(c.store.State().Cart.Items, productID, size) {
		c.notify.Enqueue(ctx, "The item is already in your cart", notify.SeverityError)
		return cart.ErrDuplicateItem
	}

	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.Pending()
		return s
	})

	if _, err := c.gw.Post(ctx, "/cart", addCartRequest{ProductID: productID, Size: size, Qty: 1}); err != nil {
		msg := remoteMessage(err, "Failed to add the item to your cart")
		c.store.Commit(func(s state.State) state.State {
			s.Cart = s.Cart.Rejected(msg)
			return s
		})
		c.notify.Enqueue(ctx, "Failed to add the item to your cart", notify.SeverityError)
		return errors.Wrap(err, "add to cart")
	}

	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.MutationFulfilled()
		return s
	})
	c.notify.Enqueue(ctx, "Item added to your cart", notify.SeveritySuccess)

	// Aggregates stay briefly stale until this refresh lands; that window
	// is accepted in exchange for never drifting from server truth.
	if err := c.GetCartList(ctx); err != nil {
		zctx.From(ctx).Warn("cart refresh after add failed", zap.Error(err))
	}
	return nil
}

// GetCartList replaces the cart wholesale and recomputes both aggregates
// from the returned list.
func (c *CartCommands) GetCartList(ctx context.Context) error {
	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.Pending()
		return s
	})

	body, err := c.gw.Get(ctx, "/cart", nil)
	if err != nil {
		msg := remoteMessage(err, "Failed to load your cart")
		c.store.Commit(func(s state.State) state.State {
			s.Cart = s.Cart.Rejected(msg)
			return s
		})
		return errors.Wrap(err, "get cart list")
	}

	env, err := decodeEnvelope[[]cart.Item](body)
	if err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.Cart = s.Cart.Rejected("Failed to load your cart")
			return s
		})
		return err
	}

	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.ListFulfilled(env.Data)
		return s
	})
	return nil
}

// DeleteCartItem removes an item remotely, then re-pulls the cart; the
// count and total are never decremented locally.
func (c *CartCommands) DeleteCartItem(ctx context.Context, itemID string) error {
	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.Pending()
		return s
	})

	if _, err := c.gw.Delete(ctx, "/cart/"+itemID); err != nil {
		msg := remoteMessage(err, "Failed to remove the item from your cart")
		c.store.Commit(func(s state.State) state.State {
			s.Cart = s.Cart.Rejected(msg)
			return s
		})
		c.notify.Enqueue(ctx, "Failed to remove the item from your cart", notify.SeverityError)
		return errors.Wrap(err, "delete cart item")
	}

	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.MutationFulfilled()
		return s
	})
	c.notify.Enqueue(ctx, "Item removed from your cart", notify.SeveritySuccess)

	if err := c.GetCartList(ctx); err != nil {
		zctx.From(ctx).Warn("cart refresh after delete failed", zap.Error(err))
	}
	return nil
}

// UpdateQty changes an item's quantity. Positivity is server-validated; a
// rejection surfaces like any other remote error.
func (c *CartCommands) UpdateQty(ctx context.Context, itemID string, qty int) error {
	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.Pending()
		return s
	})

	if _, err := c.gw.Patch(ctx, "/cart/"+itemID+"/qty", updateQtyRequest{Qty: qty}); err != nil {
		msg := remoteMessage(err, "Failed to update the quantity")
		c.store.Commit(func(s state.State) state.State {
			s.Cart = s.Cart.Rejected(msg)
			return s
		})
		c.notify.Enqueue(ctx, "Failed to update the quantity", notify.SeverityError)
		return errors.Wrap(err, "update quantity")
	}

	c.store.Commit(func(s state.State) state.State {
		s.Cart = s.Cart.MutationFulfilled()
		return s
	})
	c.notify.Enqueue(ctx, "Quantity updated", notify.SeveritySuccess)

	if err := c.GetCartList(ctx); err != nil {
		zctx.From(ctx).Warn("cart refresh after quantity update failed", zap.Error(err))
	}
	return nil
}

// InitialCart synchronously resets the slice to empty. Invoked on logout
// and after checkout; never touches the network.
func (c *CartCommands) InitialCart() {
	c.store.Commit(func(s state.State) state.State {
		s.Cart = cart.Initial()
		return s
	})
}
