package command

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/minzzz995/shopmall-client/internal/domain/user"
	"github.com/minzzz995/shopmall-client/internal/state"
	"github.com/minzzz995/shopmall-client/pkg/notify"
)

// UserCommands are the user/session slice's operations.
type UserCommands struct {
	store    *state.Store
	gw       Gateway
	notify   *notify.Queue
	sessions Sessions
	nav      Navigator
}

// NewUserCommands wires the user command handlers.
func NewUserCommands(st *state.Store, gw Gateway, queue *notify.Queue, sessions Sessions, nav Navigator) *UserCommands {
	return &UserCommands{store: st, gw: gw, notify: queue, sessions: sessions, nav: nav}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type authResponse struct {
	Status string    `json:"status"`
	User   user.User `json:"user"`
	Token  string    `json:"token"`
}

// LoginWithEmail authenticates with credentials. On success the returned
// token is persisted and the user committed; on failure only LoginError is
// touched, never the stored token.
func (c *UserCommands) LoginWithEmail(ctx context.Context, email, password string) (*user.User, error) {
	return c.login(ctx, "/auth/login", loginRequest{Email: email, Password: password})
}

// LoginWithGoogle authenticates with a Google ID token.
func (c *UserCommands) LoginWithGoogle(ctx context.Context, idToken string) (*user.User, error) {
	return c.login(ctx, "/auth/google", googleLoginRequest{Token: idToken})
}

func (c *UserCommands) login(ctx context.Context, path string, req any) (*user.User, error) {
	c.store.Commit(func(s state.State) state.State {
		s.User = s.User.LoginPending()
		return s
	})

	body, err := c.gw.Post(ctx, path, req)
	if err != nil {
		msg := remoteMessage(err, "Login failed")
		c.store.Commit(func(s state.State) state.State {
			s.User = s.User.LoginRejected(msg)
			return s
		})
		return nil, errors.Wrap(err, "login")
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.User = s.User.LoginRejected("Login failed")
			return s
		})
		return nil, errors.Wrap(err, "decode login response")
	}

	if err := c.sessions.SetToken(resp.Token); err != nil {
		// The session just won't survive a restart; this login still stands.
		zctx.From(ctx).Warn("persist session token failed", zap.Error(err))
	}

	c.store.Commit(func(s state.State) state.State {
		s.User = s.User.LoginFulfilled(resp.User)
		return s
	})
	return &resp.User, nil
}

// LoginWithToken rehydrates the session from a previously stored token,
// attempted once at application start. Rejection demotes silently: user
// cleared, token removed, no notification, no retry.
func (c *UserCommands) LoginWithToken(ctx context.Context) (*user.User, error) {
	body, err := c.gw.Get(ctx, "/user/me", nil)
	if err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.User = s.User.TokenLoginRejected()
			return s
		})
		if rmErr := c.sessions.RemoveToken(); rmErr != nil {
			zctx.From(ctx).Warn("remove stale session token failed", zap.Error(rmErr))
		}
		return nil, errors.Wrap(err, "login with token")
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.store.Commit(func(s state.State) state.State {
			s.User = s.User.TokenLoginRejected()
			return s
		})
		return nil, errors.Wrap(err, "decode session response")
	}

	c.store.Commit(func(s state.State) state.State {
		s.User = s.User.TokenLoginFulfilled(resp.User)
		return s
	})
	return &resp.User, nil
}

// RegisterUser creates an account, notifies, and on success routes to the
// login view.
func (c *UserCommands) RegisterUser(ctx context.Context, email, name, password string) error {
	c.store.Commit(func(s state.State) state.State {
		s.User = s.User.RegisterPending()
		return s
	})

	if _, err := c.gw.Post(ctx, "/user", registerRequest{Email: email, Name: name, Password: password}); err != nil {
		msg := remoteMessage(err, "Registration failed")
		c.store.Commit(func(s state.State) state.State {
			s.User = s.User.RegisterRejected(msg)
			return s
		})
		c.notify.Enqueue(ctx, "Registration failed", notify.SeverityError)
		return errors.Wrap(err, "register user")
	}

	c.store.Commit(func(s state.State) state.State {
		s.User = s.User.RegisterFulfilled()
		return s
	})
	c.notify.Enqueue(ctx, "Registration successful", notify.SeveritySuccess)
	c.nav.GoTo("/login")
	return nil
}

// Logout synchronously clears the stored token, the auth errors, and the
// user. The composing layer cascades this into a cart reset and a login
// navigation.
func (c *UserCommands) Logout() {
	// Best effort: a failed delete only means the next start re-validates
	// a token the server will reject anyway.
	_ = c.sessions.RemoveToken()

	c.store.Commit(func(s state.State) state.State {
		s.User = s.User.ClearedErrors().LoggedOut()
		return s
	})
}

// ClearErrors synchronously drops both auth error fields.
func (c *UserCommands) ClearErrors() {
	c.store.Commit(func(s state.State) state.State {
		s.User = s.User.ClearedErrors()
		return s
	})
}
