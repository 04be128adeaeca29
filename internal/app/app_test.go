package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minzzz995/shopmall-client/internal/domain/cart"
	"github.com/minzzz995/shopmall-client/internal/domain/product"
	"github.com/minzzz995/shopmall-client/internal/domain/user"
	"github.com/minzzz995/shopmall-client/internal/state"
)

type recordingNav struct {
	paths []string
}

func (n *recordingNav) GoTo(path string) { n.paths = append(n.paths, path) }

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		APIBaseURL:     "http://localhost:5000/api",
		SessionPath:    filepath.Join(t.TempDir(), "session.db"),
		PageLimit:      5,
		OrderPageLimit: 3,
	}
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.APIBaseURL = "/api"

	_, err := New(cfg, zap.NewNop())

	require.Error(t, err)
}

func TestLogoutCascade(t *testing.T) {
	nav := &recordingNav{}
	a, err := New(testConfig(t), zap.NewNop(), WithNavigator(nav))
	require.NoError(t, err)
	defer a.Close()

	a.Store.Commit(func(s state.State) state.State {
		s.User = s.User.LoginFulfilled(user.User{ID: "u1", Name: "Ada"})
		s.Cart = s.Cart.ListFulfilled([]cart.Item{
			{ID: "c1", Product: product.Product{ID: "p1"}, Size: "m", Qty: 1},
		})
		return s
	})

	a.Logout()

	got := a.Store.State()
	assert.Nil(t, got.User.User)
	assert.Equal(t, 0, got.Cart.ItemCount, "logout resets the cart")
	assert.Empty(t, got.Cart.Items)
	assert.Equal(t, []string{"/login"}, nav.paths)
}
