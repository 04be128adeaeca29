package command

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minzzz995/shopmall-client/internal/domain/order"
	"github.com/minzzz995/shopmall-client/internal/gateway"
	"github.com/minzzz995/shopmall-client/internal/querysync"
	"github.com/minzzz995/shopmall-client/internal/state"
	"github.com/minzzz995/shopmall-client/pkg/notify"
)

func newOrderHarness() (*harness, *OrderCommands, *CartCommands) {
	h := newHarness()
	cartCmds := NewCartCommands(h.store, h.gw, h.queue)
	return h, NewOrderCommands(h.store, h.gw, h.queue, cartCmds), cartCmds
}

func seedOrders(h *harness, orders ...order.Order) {
	h.store.Commit(func(s state.State) state.State {
		s.Order = s.Order.PagedListFulfilled(orders, 1)
		return s
	})
}

func TestCreateOrderClearsCart(t *testing.T) {
	h, cmds, _ := newOrderHarness()
	seedCart(h, cartItem("c1", "p1", "m", "10.00", 2))
	h.gw.respond("POST", "/order", `{"status":"success","orderNum":"ORD-42"}`)

	num, err := cmds.CreateOrder(context.Background(), order.Request{
		Items:      []order.Item{{ProductID: "p1", Size: "m", Qty: 2, Price: decimal.RequireFromString("10.00")}},
		TotalPrice: decimal.RequireFromString("20.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, "ORD-42", num)
	assert.Equal(t, "ORD-42", h.store.State().Order.OrderNum)

	got := h.store.State().Cart
	assert.Equal(t, 0, got.ItemCount, "checkout resets the cart")
	assert.True(t, decimal.Zero.Equal(got.TotalPrice))
}

func TestCreateOrderFailureNotifiesVerbatim(t *testing.T) {
	h, cmds, _ := newOrderHarness()
	seedCart(h, cartItem("c1", "p1", "m", "10.00", 2))
	h.gw.fail("POST", "/order", &gateway.Error{
		StatusCode: http.StatusBadRequest,
		Err:        "Not enough stock for size m",
	})

	_, err := cmds.CreateOrder(context.Background(), order.Request{})

	require.Error(t, err)
	assert.Equal(t, []string{"Not enough stock for size m"}, h.messages(),
		"server message forwarded verbatim")
	assert.Equal(t, "Not enough stock for size m", h.store.State().Order.Error)
	assert.Equal(t, 1, h.store.State().Cart.ItemCount, "cart untouched on failure")
}

func TestGetOrderOwnList(t *testing.T) {
	h, cmds, _ := newOrderHarness()
	h.gw.respond("GET", "/order", `{
		"status": "success",
		"data": [{"id":"o1","orderNum":"ORD-1","status":"preparing"}]
	}`)

	require.NoError(t, cmds.GetOrder(context.Background()))

	got := h.store.State().Order
	require.Len(t, got.OrderList, 1)
	assert.Equal(t, "ORD-1", got.OrderList[0].OrderNum)
	assert.Equal(t, 1, got.TotalPageNum, "own orders are unpaginated")

	calls := h.gw.callsTo("GET", "/order")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Query, "no pagination parameters sent")
}

func TestGetOrderListPaginated(t *testing.T) {
	h, cmds, _ := newOrderHarness()
	h.gw.respond("GET", "/order/all", `{
		"status": "success",
		"data": [{"id":"o1"},{"id":"o2"},{"id":"o3"}],
		"totalPageNum": 4
	}`)

	err := cmds.GetOrderList(context.Background(), querysync.Query{
		Page:    2,
		Limit:   3,
		Filters: map[string]string{"ordernum": "ORD"},
	})
	require.NoError(t, err)

	got := h.store.State().Order
	assert.Len(t, got.OrderList, 3)
	assert.Equal(t, 4, got.TotalPageNum)

	calls := h.gw.callsTo("GET", "/order/all")
	require.Len(t, calls, 1)
	assert.Equal(t, "2", calls[0].Query.Get("page"))
	assert.Equal(t, "3", calls[0].Query.Get("limit"))
	assert.Equal(t, "ORD", calls[0].Query.Get("ordernum"))
}

func TestUpdateOrderStatusReplacesByID(t *testing.T) {
	h, cmds, _ := newOrderHarness()
	seedOrders(h,
		order.Order{ID: "a", Status: order.Status("placed")},
		order.Order{ID: "b", Status: order.Status("placed")},
	)
	h.gw.respond("PUT", "/order/update-status", `{
		"status": "success",
		"data": {"id":"b","status":"shipped"}
	}`)

	err := cmds.UpdateOrderStatus(context.Background(), "b", order.Status("shipped"))
	require.NoError(t, err)

	got := h.store.State().Order
	require.Len(t, got.OrderList, 2)
	assert.Equal(t, "a", got.OrderList[0].ID)
	assert.Equal(t, order.Status("placed"), got.OrderList[0].Status)
	assert.Equal(t, order.Status("shipped"), got.OrderList[1].Status)
	require.NotNil(t, got.SelectedOrder)
	assert.Equal(t, "b", got.SelectedOrder.ID)
	assert.Equal(t, order.Status("shipped"), got.SelectedOrder.Status)
	assert.Contains(t, h.messages(), "Order status updated")
}

func TestUpdateOrderStatusFailureKeepsList(t *testing.T) {
	h, cmds, _ := newOrderHarness()
	seedOrders(h, order.Order{ID: "a", Status: order.StatusPreparing})
	h.gw.fail("PUT", "/order/update-status", &gateway.Error{
		StatusCode: http.StatusForbidden,
		Err:        "admin only",
	})

	err := cmds.UpdateOrderStatus(context.Background(), "a", order.StatusShipping)

	require.Error(t, err)
	got := h.store.State().Order
	assert.Equal(t, order.StatusPreparing, got.OrderList[0].Status, "list untouched on failure")
	assert.Nil(t, got.SelectedOrder)
	assert.Equal(t, "admin only", got.Error)
	assert.Equal(t, []notify.Severity{notify.SeverityError}, h.severities())
}

func TestSetSelectedOrder(t *testing.T) {
	h, cmds, _ := newOrderHarness()
	o := order.Order{ID: "o1", OrderNum: "ORD-1"}

	cmds.SetSelectedOrder(&o)

	require.NotNil(t, h.store.State().Order.SelectedOrder)
	assert.Equal(t, "o1", h.store.State().Order.SelectedOrder.ID)
}
