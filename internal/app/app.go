// Package app wires the store, the API gateway, the session store, and the
// command handlers into one runnable client.
package app

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minzzz995/shopmall-client/internal/command"
	"github.com/minzzz995/shopmall-client/internal/gateway"
	"github.com/minzzz995/shopmall-client/internal/querysync"
	"github.com/minzzz995/shopmall-client/internal/session"
	"github.com/minzzz995/shopmall-client/internal/state"
	"github.com/minzzz995/shopmall-client/pkg/notify"
)

// App is the assembled client: one state store, the command handlers that
// mutate it, and the list synchronizers the views drive.
type App struct {
	Store         *state.Store
	Notifications *notify.Queue

	Cart     *command.CartCommands
	Users    *command.UserCommands
	Products *command.ProductCommands
	Orders   *command.OrderCommands

	ProductSync *querysync.Synchronizer
	OrderSync   *querysync.Synchronizer

	sessions *session.Store
	nav      command.Navigator
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	notifyOpts []notify.Option
	nav        command.Navigator
	addr       querysync.AddressState
}

// WithNotifyOptions passes options through to the notification queue, e.g.
// notify.WithMeter.
func WithNotifyOptions(opts ...notify.Option) Option {
	return func(o *options) { o.notifyOpts = append(o.notifyOpts, opts...) }
}

// WithNavigator installs the view router collaborator. Without it route
// changes are logged only.
func WithNavigator(nav command.Navigator) Option {
	return func(o *options) { o.nav = nav }
}

// WithAddressState installs the shareable address-bar collaborator for the
// list synchronizers. Without it query serialization is logged only.
func WithAddressState(addr querysync.AddressState) Option {
	return func(o *options) { o.addr = addr }
}

// New assembles the client against cfg. The caller owns Close.
func New(cfg *Config, lg *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.nav == nil {
		o.nav = logNavigator{lg: lg}
	}
	if o.addr == nil {
		o.addr = logAddress{lg: lg}
	}

	sessions, err := session.Open(cfg.SessionPath)
	if err != nil {
		return nil, errors.Wrap(err, "open session store")
	}

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	}, sessions)
	if err != nil {
		_ = sessions.Close()
		return nil, errors.Wrap(err, "create gateway")
	}

	st := state.NewStore()
	queue := notify.New(o.notifyOpts...)

	cart := command.NewCartCommands(st, gw, queue)
	users := command.NewUserCommands(st, gw, queue, sessions, o.nav)
	products := command.NewProductCommands(st, gw, queue)
	orders := command.NewOrderCommands(st, gw, queue, cart)

	a := &App{
		Store:         st,
		Notifications: queue,
		Cart:          cart,
		Users:         users,
		Products:      products,
		Orders:        orders,
		sessions:      sessions,
		nav:           o.nav,
	}

	a.ProductSync = querysync.New(
		querysync.Query{Page: 1, Limit: cfg.PageLimit},
		products.GetProductList,
		o.addr,
	)
	// Admins page through every order; customers always see their own flat
	// list, so their fetch ignores the query.
	a.OrderSync = querysync.New(
		querysync.Query{Page: 1, Limit: cfg.OrderPageLimit},
		func(ctx context.Context, q querysync.Query) error {
			if st.State().User.User.IsAdmin() {
				return orders.GetOrderList(ctx, q)
			}
			return orders.GetOrder(ctx)
		},
		o.addr,
	)
	return a, nil
}

// Close releases the session store.
func (a *App) Close() error {
	return a.sessions.Close()
}

// Logout clears the session and the user, resets the cart, and routes to
// the login view.
func (a *App) Logout() {
	a.Users.Logout()
	a.Cart.InitialCart()
	a.nav.GoTo("/login")
}

// Bootstrap rehydrates the session and warms the product list. A stored
// token that the server rejects demotes to anonymous and routes to login;
// that is not an error. Both startup fetches run concurrently.
func (a *App) Bootstrap(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		token, err := a.sessions.Token()
		if err != nil {
			return errors.Wrap(err, "load session token")
		}
		if token == "" {
			a.nav.GoTo("/login")
			return nil
		}
		if _, err := a.Users.LoginWithToken(ctx); err != nil {
			zctx.From(ctx).Info("stored session rejected", zap.Error(err))
			a.nav.GoTo("/login")
			return nil
		}
		return a.Cart.GetCartList(ctx)
	})

	g.Go(func() error {
		return a.ProductSync.Refresh(ctx)
	})

	return g.Wait()
}

// Run assembles the client, bootstraps it, and drains notifications until
// the context is cancelled. It is the single wiring point for the headless
// runtime.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("api", cfg.APIBaseURL))

	a, err := New(cfg, lg,
		WithNotifyOptions(notify.WithMeter(m.MeterProvider().Meter("shopmall-client"))),
	)
	if err != nil {
		return errors.Wrap(err, "assemble client")
	}
	defer func() {
		if err := a.Close(); err != nil {
			lg.Error("Close session store", zap.Error(err))
		}
	}()

	if err := a.Bootstrap(ctx); err != nil {
		// A cold start with the API down still yields a usable client.
		lg.Warn("Bootstrap incomplete", zap.Error(err))
	}

	lg.Info("Client ready")
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-a.Notifications.C():
			lg.Info("Notification",
				zap.String("severity", string(n.Severity)),
				zap.String("message", n.Message),
			)
			a.Notifications.Dismiss(n.ID)
		}
	}
}

// logNavigator stands in for a real router in the headless runtime.
type logNavigator struct {
	lg *zap.Logger
}

func (n logNavigator) GoTo(path string) {
	n.lg.Info("Navigate", zap.String("path", path))
}

// logAddress stands in for a real shareable address bar.
type logAddress struct {
	lg *zap.Logger
}

func (a logAddress) SetQuery(v url.Values) {
	a.lg.Debug("Address query", zap.String("query", v.Encode()))
}
