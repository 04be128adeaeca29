package command

import (
	"context"
	"net/url"
	"sync"

	"github.com/minzzz995/shopmall-client/internal/state"
	"github.com/minzzz995/shopmall-client/pkg/notify"
)

// gwCall records one request the fake gateway received.
type gwCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// fakeGateway is an in-memory Gateway: canned responses and errors keyed by
// "METHOD /path", every request recorded.
type fakeGateway struct {
	mu        sync.Mutex
	calls     []gwCall
	responses map[string][]byte
	errs      map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		responses: make(map[string][]byte),
		errs:      make(map[string]error),
	}
}

func (g *fakeGateway) respond(method, path, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses[method+" "+path] = []byte(body)
}

func (g *fakeGateway) fail(method, path string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[method+" "+path] = err
}

func (g *fakeGateway) callsTo(method, path string) []gwCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gwCall
	for _, c := range g.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGateway) allCalls() []gwCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]gwCall, len(g.calls))
	copy(out, g.calls)
	return out
}

func (g *fakeGateway) roundTrip(method, path string, query url.Values, body any) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gwCall{Method: method, Path: path, Query: query, Body: body})

	key := method + " " + path
	if err := g.errs[key]; err != nil {
		return nil, err
	}
	if resp, ok := g.responses[key]; ok {
		return resp, nil
	}
	return []byte(`{"status":"success","data":[]}`), nil
}

func (g *fakeGateway) Get(_ context.Context, path string, query url.Values) ([]byte, error) {
	return g.roundTrip("GET", path, query, nil)
}

func (g *fakeGateway) Post(_ context.Context, path string, body any) ([]byte, error) {
	return g.roundTrip("POST", path, nil, body)
}

func (g *fakeGateway) Put(_ context.Context, path string, body any) ([]byte, error) {
	return g.roundTrip("PUT", path, nil, body)
}

func (g *fakeGateway) Patch(_ context.Context, path string, body any) ([]byte, error) {
	return g.roundTrip("PATCH", path, nil, body)
}

func (g *fakeGateway) Delete(_ context.Context, path string) ([]byte, error) {
	return g.roundTrip("DELETE", path, nil, nil)
}

type fakeSessions struct {
	mu       sync.Mutex
	token    string
	setCalls int
	removed  bool
}

func (s *fakeSessions) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.setCalls++
	return nil
}

func (s *fakeSessions) RemoveToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.removed = true
	return nil
}

type fakeNavigator struct {
	paths []string
}

func (n *fakeNavigator) GoTo(path string) {
	n.paths = append(n.paths, path)
}

// harness bundles the collaborators every command test needs.
type harness struct {
	store *state.Store
	gw    *fakeGateway
	queue *notify.Queue
}

func newHarness() *harness {
	return &harness{
		store: state.NewStore(),
		gw:    newFakeGateway(),
		queue: notify.New(),
	}
}

func (h *harness) messages() []string {
	var out []string
	for _, n := range h.queue.Pending() {
		out = append(out, n.Message)
	}
	return out
}

func (h *harness) severities() []notify.Severity {
	var out []notify.Severity
	for _, n := range h.queue.Pending() {
		out = append(out, n.Severity)
	}
	return out
}
