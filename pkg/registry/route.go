package registry

import (
	"net/http"
	"sync/atomic"
)

// HandlerFunc produces the data for a route. The dispatcher stores the result
// in the per-request cache; a renderer collaborator turns it into a response.
type HandlerFunc func(r *http.Request) (any, error)

// Loader defers loading a route's handler until first use. The scanner
// attaches one per route; routes built from a manifest carry none and are
// resolved through the handler table by location instead.
type Loader func() (HandlerFunc, error)

// Kind distinguishes page routes from API routes.
type Kind int

const (
	// KindPage is a user-facing route, mounted at /{namespace}/{path}.
	KindPage Kind = iota

	// KindAPI is a machine-facing route, mounted at /api/{namespace}/{path}.
	KindAPI
)

// String returns "page" or "api".
func (k Kind) String() string {
	if k == KindAPI {
		return "api"
	}
	return "page"
}

// Route is one entry in a namespace's route map.
//
// The handler cell starts empty and is filled by lazy resolution at first
// use. Two requests racing to resolve the same route may both perform the
// resolution; this is tolerated because resolution is idempotent and the
// store is last-writer-wins. Resolution is at-least-once, not exactly-once.
type Route struct {
	// Path is the route path in marker notation (e.g. "/:id/json").
	Path string

	// Kind is the route kind (page or API).
	Kind Kind

	// Location is the unit path relative to the namespace directory.
	// It is the key used to re-resolve the handler lazily.
	Location string

	// Loader is the deferred loader attached by the scanner, nil otherwise.
	Loader Loader

	handler atomic.Pointer[HandlerFunc]
}

// Handler returns the resolved handler, or false if the route has not been
// resolved yet.
func (r *Route) Handler() (HandlerFunc, bool) {
	p := r.handler.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// SetHandler stores the resolved handler on the route. Subsequent calls
// overwrite the previous value (last-writer-wins).
func (r *Route) SetHandler(h HandlerFunc) {
	if h == nil {
		return
	}
	r.handler.Store(&h)
}

// Resolved reports whether the handler cell is filled.
func (r *Route) Resolved() bool {
	return r.handler.Load() != nil
}
