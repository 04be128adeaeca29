// Package querysync keeps a list view's page/filter query consistent with
// the shareable address state and re-issues the list fetch when the query
// changes.
//
// Re-fetch decisions are keyed on field-value equality, never on object
// identity: the serialization path hands back fresh Query values that are
// equivalent to the current one, and treating those as changes would loop
// forever.
package querysync

import (
	"context"
	"maps"
	"net/url"
	"strconv"
	"sync"
)

// Query is the page/filter state of one list view. Filters maps a filter
// field name (e.g. "name", "ordernum") to its value; empty values are
// omitted from serialization.
type Query struct {
	Page    int
	Limit   int
	Filters map[string]string
}

// Equal reports field-value equality. Nil and empty filter maps compare
// equal.
func (q Query) Equal(o Query) bool {
	return q.Page == o.Page && q.Limit == o.Limit && maps.Equal(q.Filters, o.Filters)
}

// Values serializes the query, omitting zero page/limit and empty filter
// fields.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	for key, val := range q.Filters {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

func (q Query) clone() Query {
	q.Filters = maps.Clone(q.Filters)
	return q
}

// FetchFunc re-issues the list fetch for a query.
type FetchFunc func(ctx context.Context, q Query) error

// AddressState is the shareable address-bar collaborator.
type AddressState interface {
	SetQuery(url.Values)
}

// Synchronizer couples one list view's query to its fetch and address
// effects.
type Synchronizer struct {
	fetch FetchFunc
	addr  AddressState

	mu      sync.Mutex
	current Query
}

// New creates a synchronizer holding the initial query. No fetch is issued
// until Set or Refresh is called. addr may be nil when the view has no
// shareable address.
func New(initial Query, fetch FetchFunc, addr AddressState) *Synchronizer {
	return &Synchronizer{
		fetch:   fetch,
		addr:    addr,
		current: initial.clone(),
	}
}

// Current returns the query as last set.
func (s *Synchronizer) Current() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// Set installs a new query. The address state is always reserialized; the
// fetch runs only when q differs from the current query by value.
func (s *Synchronizer) Set(ctx context.Context, q Query) error {
	s.mu.Lock()
	changed := !s.current.Equal(q)
	s.current = q.clone()
	snapshot := s.current
	s.mu.Unlock()

	if s.addr != nil {
		s.addr.SetQuery(snapshot.Values())
	}
	if !changed {
		return nil
	}
	return s.fetch(ctx, snapshot)
}

// SetPage moves to a page, keeping filters.
func (s *Synchronizer) SetPage(ctx context.Context, page int) error {
	q := s.Current()
	q.Page = page
	return s.Set(ctx, q)
}

// SetFilter installs a filter value. A changed filter restarts from the
// first page.
func (s *Synchronizer) SetFilter(ctx context.Context, field, value string) error {
	q := s.Current()
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}
	q.Filters[field] = value
	q.Page = 1
	return s.Set(ctx, q)
}

// Refresh re-issues the fetch for the current query unconditionally.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.fetch(ctx, s.Current())
}
