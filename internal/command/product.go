package command

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/minzzz995/shopmall-client/internal/domain/product"
	"github.com/minzzz995/shopmall-client/internal/querysync"
	"github.com/minzzz995/shopmall-client/internal/state"
	"github.com/minzzz995/shopmall-client/pkg/notify"
)

// ProductCommands are the product slice's operations.
//
// Create, edit, and delete change the total count and page boundaries, so
// each of them resynchronizes the list to page 1 instead of patching it
// in place.
type ProductCommands struct {
	store  *state.Store
	gw     Gateway
	notify *notify.Queue
}

// NewProductCommands wires the product command handlers.
func NewProductCommands(st *state.Store, gw Gateway, queue *notify.Queue) *ProductCommands {
	return &ProductCommands{store: st, gw: gw, notify: queue}
}

// GetProductList fetches a page of products filtered by free-text name and
// replaces the list and page count wholesale.
func (c *ProductCommands) GetProductList(ctx context.Context, q querysync.Query) error {
	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.Pending()
		return s
	})

	body, err := c.gw.Get(ctx, "/product", q.Values())
	if err != nil {
		msg := remoteMessage(err, "Failed to load products")
		c.store.Commit(func(s state.State) state.State {
			s.Product = s.Product.Rejected(msg)
			return s
		})
		return errors.Wrap(err, "get product list")
	}

	env, err := decodeEnvelope[[]product.Product](body)
	if err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.Product = s.Product.Rejected("Failed to load products")
			return s
		})
		return err
	}

	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.ListFulfilled(env.Data, env.TotalPageNum)
		return s
	})
	return nil
}

// GetProductDetail fetches one product into SelectedProduct.
func (c *ProductCommands) GetProductDetail(ctx context.Context, id string) error {
	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.Pending()
		return s
	})

	body, err := c.gw.Get(ctx, "/product/"+id, nil)
	if err != nil {
		msg := remoteMessage(err, "Failed to load product details")
		c.store.Commit(func(s state.State) state.State {
			s.Product = s.Product.Rejected(msg)
			return s
		})
		return errors.Wrap(err, "get product detail")
	}

	env, err := decodeEnvelope[product.Product](body)
	if err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.Product = s.Product.Rejected("Failed to load product details")
			return s
		})
		return err
	}

	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.DetailFulfilled(env.Data)
		return s
	})
	return nil
}

// CreateProduct creates a product, then resynchronizes the admin list to
// page 1.
func (c *ProductCommands) CreateProduct(ctx context.Context, form product.Form) error {
	return c.mutate(ctx, "Product created", "Failed to create the product", func() error {
		_, err := c.gw.Post(ctx, "/product", form)
		return err
	})
}

// EditProduct updates a product, then resynchronizes the admin list to
// page 1.
func (c *ProductCommands) EditProduct(ctx context.Context, id string, form product.Form) error {
	return c.mutate(ctx, "Product updated", "Failed to update the product", func() error {
		_, err := c.gw.Put(ctx, "/product/"+id, form)
		return err
	})
}

// DeleteProduct deletes a product, then resynchronizes the admin list to
// page 1.
func (c *ProductCommands) DeleteProduct(ctx context.Context, id string) error {
	return c.mutate(ctx, "Product deleted", "Failed to delete the product", func() error {
		_, err := c.gw.Delete(ctx, "/product/"+id)
		return err
	})
}

// mutate runs one product mutation with the shared commit/notify/refresh
// sequence.
func (c *ProductCommands) mutate(ctx context.Context, successMsg, failureMsg string, call func() error) error {
	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.Pending()
		return s
	})

	if err := call(); err != nil {
		msg := remoteMessage(err, failureMsg)
		c.store.Commit(func(s state.State) state.State {
			s.Product = s.Product.MutationRejected(msg)
			return s
		})
		c.notify.Enqueue(ctx, failureMsg, notify.SeverityError)
		return errors.Wrap(err, "product mutation")
	}

	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.MutationFulfilled()
		return s
	})
	c.notify.Enqueue(ctx, successMsg, notify.SeveritySuccess)

	// Known page, fresh boundaries: always back to page 1.
	if err := c.GetProductList(ctx, querysync.Query{Page: 1}); err != nil {
		zctx.From(ctx).Warn("product list refresh after mutation failed", zap.Error(err))
	}
	return nil
}

// SetSelectedProduct synchronously points the slice at a product already in
// hand.
func (c *ProductCommands) SetSelectedProduct(p *product.Product) {
	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.WithSelected(p)
		return s
	})
}

// ClearError synchronously drops the slice's error and success flags.
func (c *ProductCommands) ClearError() {
	c.store.Commit(func(s state.State) state.State {
		s.Product = s.Product.ClearedError()
		return s
	})
}
