package command

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/minzzz995/shopmall-client/internal/domain/order"
	"github.com/minzzz995/shopmall-client/internal/querysync"
	"github.com/minzzz995/shopmall-client/internal/state"
	"github.com/minzzz995/shopmall-client/pkg/notify"
)

// OrderCommands are the order slice's operations. Checkout composes into
// the cart slice: a successful order clears the cart, explicitly and in
// sequence, never via a hidden subscription.
type OrderCommands struct {
	store  *state.Store
	gw     Gateway
	notify *notify.Queue
	cart   *CartCommands
}

// NewOrderCommands wires the order command handlers.
func NewOrderCommands(st *state.Store, gw Gateway, queue *notify.Queue, cart *CartCommands) *OrderCommands {
	return &OrderCommands{store: st, gw: gw, notify: queue, cart: cart}
}

type updateStatusRequest struct {
	ID     string       `json:"id"`
	Status order.Status `json:"status"`
}

// CreateOrder places the order and returns the server-assigned order
// number. On success the cart slice is reset; on failure the
// server-supplied message is enqueued verbatim.
func (c *OrderCommands) CreateOrder(ctx context.Context, req order.Request) (string, error) {
	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.Pending()
		return s
	})

	body, err := c.gw.Post(ctx, "/order", req)
	if err != nil {
		msg := remoteMessage(err, "Failed to place your order")
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.Rejected(msg)
			return s
		})
		c.notify.Enqueue(ctx, msg, notify.SeverityError)
		return "", errors.Wrap(err, "create order")
	}

	var resp struct {
		OrderNum string `json:"orderNum"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.Rejected("Failed to place your order")
			return s
		})
		return "", errors.Wrap(err, "decode order response")
	}

	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.CreateFulfilled(resp.OrderNum)
		return s
	})
	c.cart.InitialCart()
	return resp.OrderNum, nil
}

// GetOrder fetches the caller's own orders. No pagination parameters are
// sent; customers see their full history.
func (c *OrderCommands) GetOrder(ctx context.Context) error {
	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.Pending()
		return s
	})

	body, err := c.gw.Get(ctx, "/order", nil)
	if err != nil {
		msg := remoteMessage(err, "Failed to load your orders")
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.Rejected(msg)
			return s
		})
		return errors.Wrap(err, "get orders")
	}

	env, err := decodeEnvelope[[]order.Order](body)
	if err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.Rejected("Failed to load your orders")
			return s
		})
		return err
	}

	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.ListFulfilled(env.Data)
		return s
	})
	return nil
}

// GetOrderList fetches the full order list with pagination and order-number
// filtering. Role gating happens in the composing layer: callers are
// expected to have already established the admin role.
func (c *OrderCommands) GetOrderList(ctx context.Context, q querysync.Query) error {
	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.Pending()
		return s
	})

	body, err := c.gw.Get(ctx, "/order/all", q.Values())
	if err != nil {
		msg := remoteMessage(err, "Failed to load orders")
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.Rejected(msg)
			return s
		})
		return errors.Wrap(err, "get order list")
	}

	env, err := decodeEnvelope[[]order.Order](body)
	if err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.Rejected("Failed to load orders")
			return s
		})
		return err
	}

	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.PagedListFulfilled(env.Data, env.TotalPageNum)
		return s
	})
	return nil
}

// UpdateOrderStatus requests a status transition. The server decides; on
// success the returned order replaces its list entry by identity match and
// becomes the selected order. A failure leaves the list untouched.
func (c *OrderCommands) UpdateOrderStatus(ctx context.Context, id string, status order.Status) error {
	body, err := c.gw.Put(ctx, "/order/update-status", updateStatusRequest{ID: id, Status: status})
	if err != nil {
		msg := remoteMessage(err, "Failed to update the order status")
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.StatusUpdateRejected(msg)
			return s
		})
		c.notify.Enqueue(ctx, "Failed to update the order status", notify.SeverityError)
		return errors.Wrap(err, "update order status")
	}

	env, err := decodeEnvelope[order.Order](body)
	if err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.Order = s.Order.StatusUpdateRejected("Failed to update the order status")
			return s
		})
		return err
	}

	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.StatusUpdated(env.Data)
		return s
	})
	c.notify.Enqueue(ctx, "Order status updated", notify.SeveritySuccess)
	return nil
}

// SetSelectedOrder synchronously points the slice at an order already in
// hand (e.g. the row the admin clicked).
func (c *OrderCommands) SetSelectedOrder(o *order.Order) {
	c.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.WithSelected(o)
		return s
	})
}
