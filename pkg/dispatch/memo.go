package dispatch

import (
	"context"
	"net/http"
)

// Request cache keys. At most these two are in use per request.
const (
	// KeyPageData holds the page handler's result for the current request.
	KeyPageData = "data"

	// KeyAPIData holds the API handler's result for the current request.
	KeyAPIData = "apiData"
)

// Memo is the per-request cache. It guarantees a route handler executes at
// most once per incoming request even if the wrapper is re-entered; renderer
// collaborators read the stored result afterward.
//
// A Memo is private to one request and vanishes with it, so no locking is
// needed.
type Memo struct {
	values map[string]any
}

// NewMemo creates an empty per-request cache.
func NewMemo() *Memo {
	return &Memo{values: make(map[string]any, 2)}
}

// Get returns the value stored under key.
func (m *Memo) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores a value under key.
func (m *Memo) Set(key string, v any) {
	m.values[key] = v
}

// Has reports whether key is set.
func (m *Memo) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

type memoCtxKey struct{}

// WithMemo installs a fresh Memo on each request's context. Mount it once on
// the router, ahead of the dispatcher's handlers.
func WithMemo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(withMemo(r.Context(), NewMemo())))
	})
}

func withMemo(ctx context.Context, m *Memo) context.Context {
	return context.WithValue(ctx, memoCtxKey{}, m)
}

// FromContext returns the request's Memo, or nil outside a memoized request.
func FromContext(ctx context.Context) *Memo {
	m, _ := ctx.Value(memoCtxKey{}).(*Memo)
	return m
}
