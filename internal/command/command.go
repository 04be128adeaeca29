// Package command implements the per-slice asynchronous operations: each
// handler calls the gateway, classifies the result, commits it into the
// state tree, and issues any follow-up operations as explicit sequential
// continuations.
//
// Error policy: no gateway error escapes unclassified. Validation errors
// never reach the network. Remote errors are committed into the slice
// (server message verbatim, generic fallback otherwise) and surfaced via
// the notification queue when user-actionable. Auth rehydration failures
// demote silently.
package command

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/minzzz995/shopmall-client/internal/gateway"
)

// Gateway is the API client collaborator. Implementations must return the
// raw response body on 2xx and a normalized error otherwise; transport
// policy is theirs.
type Gateway interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
	Put(ctx context.Context, path string, body any) ([]byte, error)
	Patch(ctx context.Context, path string, body any) ([]byte, error)
	Delete(ctx context.Context, path string) ([]byte, error)
}

// Navigator is the routing collaborator, invoked after registration
// success and after auth-rehydration failure.
type Navigator interface {
	GoTo(path string)
}

// Sessions is the slice of the session store the user commands need.
type Sessions interface {
	SetToken(token string) error
	RemoveToken() error
}

// envelope mirrors the gateway's {status, data} response contract.
// TotalPageNum is present only on paginated list responses.
type envelope[T any] struct {
	Status       string `json:"status"`
	Data         T      `json:"data"`
	TotalPageNum int    `json:"totalPageNum"`
}

func decodeEnvelope[T any](body []byte) (envelope[T], error) {
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return env, errors.Wrap(err, "decode response")
	}
	return env, nil
}

// remoteMessage extracts the server-supplied error text, falling back to a
// generic user-facing message for transport failures and unreadable bodies.
func remoteMessage(err error, fallback string) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		if msg := gwErr.ErrorMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
