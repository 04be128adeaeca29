// Package gateway implements the HTTP client for the storefront API.
//
// The contract is a JSON envelope: 2xx responses return the raw body for
// the caller to decode, anything else is normalized into *Error with the
// server's `error`/`message` fields when the body carries them. Transport
// policy (retries, pooling, timeouts beyond the per-request deadline) is
// deliberately left to net/http; this layer only shapes requests and
// normalizes failures.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Responses larger than this are truncated; the API serves small JSON
// payloads only.
const maxResponseBytes = 4 << 20

// TokenSource supplies the current bearer token. An empty token means
// anonymous.
type TokenSource interface {
	Token() (string, error)
}

// Error is a normalized non-2xx response or malformed reply.
type Error struct {
	StatusCode int
	// Err is the server's `error` field, Message its `message` field.
	// Either may be empty.
	Err     string
	Message string
}

func (e *Error) Error() string {
	return "gateway: " + http.StatusText(e.StatusCode) + ": " + e.ErrorMessage()
}

// ErrorMessage picks the most specific user-facing text the server
// supplied: `error`, then `message`, then the HTTP status text.
func (e *Error) ErrorMessage() string {
	switch {
	case e.Err != "":
		return e.Err
	case e.Message != "":
		return e.Message
	default:
		return http.StatusText(e.StatusCode)
	}
}

// Config holds client settings.
type Config struct {
	// BaseURL is the API root, e.g. "https://shop.example.com/api".
	BaseURL string
	// Timeout is the per-request deadline. Zero means 15s.
	Timeout time.Duration
}

// Client performs JSON requests against the storefront API.
type Client struct {
	http   *http.Client
	base   *url.URL
	tokens TokenSource
}

// New creates a Client. tokens may be nil for a client that never
// authenticates.
func New(cfg Config, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		base:   base,
		tokens: tokens,
	}, nil
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, errors.Wrap(err, "load session token")
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, probeError(resp.StatusCode, data)
	}
	return data, nil
}

// probeError extracts the `error`/`message` string fields from an arbitrary
// JSON error body without committing to a schema. Non-JSON bodies yield an
// Error carrying only the status code.
func probeError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return e
	}
	_ = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "error":
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			e.Err = s
			return nil
		case "message":
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			e.Message = s
			return nil
		default:
			return d.Skip()
		}
	})
	return e
}
