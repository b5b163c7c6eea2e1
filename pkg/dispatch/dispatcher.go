package dispatch

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/routehub-io/routehub/pkg/registry"
)

// Renderer turns memoized handler results into an HTTP response. It is an
// external collaborator: the dispatcher's wrappers only populate the
// per-request cache, then hand off to the renderer.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(w http.ResponseWriter, r *http.Request)

// Render implements Renderer.
func (f RendererFunc) Render(w http.ResponseWriter, r *http.Request) {
	f(w, r)
}

// Dispatcher binds every namespace's routes into a chi router.
type Dispatcher struct {
	// Registry is the fully built route table. It must be complete before
	// Mount runs; the dispatcher never mutates its structure.
	Registry *registry.Registry

	// Resolver performs lazy handler loading at first invocation.
	Resolver *Resolver

	// Pages renders page results (cache key "data"). Defaults to a JSON
	// renderer when nil.
	Pages Renderer

	// API renders API results (cache key "apiData"). Defaults to a JSON
	// renderer when nil.
	API Renderer

	// OnError responds to resolution or handler failures. The error is
	// scoped to the single request. Defaults to a plain status response.
	OnError func(w http.ResponseWriter, r *http.Request, err error)

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Mount binds all registered routes onto r.
//
// Page routes are sorted by specificity and bound at /{namespace}/{path};
// API routes keep their registration order and bind at
// /api/{namespace}/{path}. Namespaces without routes are skipped.
func (d *Dispatcher) Mount(r chi.Router) {
	logger := d.logger()

	for _, ns := range d.Registry.Namespaces() {
		pages := ns.PageRoutes()
		apis := ns.APIRoutes()
		if len(pages) == 0 && len(apis) == 0 {
			continue
		}

		SortPages(pages)
		for _, rt := range pages {
			pattern := mountPattern("/"+ns.Name, rt.Path)
			r.Get(pattern, d.pageHandler(ns.Name, rt))
			logger.Debug("bound page route", "namespace", ns.Name, "pattern", pattern)
		}

		// API routes bind in insertion order, unsorted. The asymmetry with
		// page routes is part of the dispatch contract.
		for _, rt := range apis {
			pattern := mountPattern("/api/"+ns.Name, rt.Path)
			r.Get(pattern, d.apiHandler(ns.Name, rt))
			logger.Debug("bound api route", "namespace", ns.Name, "pattern", pattern)
		}
	}
}

// pageHandler wraps a page route: run the handler once per request, store
// the result under the "data" key, then delegate to the page renderer.
func (d *Dispatcher) pageHandler(namespace string, rt *registry.Route) http.HandlerFunc {
	renderer := d.Pages
	if renderer == nil {
		renderer = JSONRenderer(KeyPageData)
	}
	return d.wrap(namespace, rt, KeyPageData, renderer)
}

// apiHandler wraps an API route under the "apiData" key.
func (d *Dispatcher) apiHandler(namespace string, rt *registry.Route) http.HandlerFunc {
	renderer := d.API
	if renderer == nil {
		renderer = JSONRenderer(KeyAPIData)
	}
	return d.wrap(namespace, rt, KeyAPIData, renderer)
}

func (d *Dispatcher) wrap(namespace string, rt *registry.Route, key string, renderer Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := FromContext(r.Context())
		if m == nil {
			// Dispatcher mounted without the memo middleware.
			m = NewMemo()
			r = r.WithContext(withMemo(r.Context(), m))
		}

		if !m.Has(key) {
			h, err := d.Resolver.Resolve(namespace, rt)
			if err != nil {
				d.fail(w, r, err)
				return
			}
			out, err := h(r)
			if err != nil {
				d.fail(w, r, err)
				return
			}
			m.Set(key, out)
		}

		renderer.Render(w, r)
	}
}

func (d *Dispatcher) fail(w http.ResponseWriter, r *http.Request, err error) {
	d.logger().Error("route dispatch failed", "path", r.URL.Path, "error", err)
	if d.OnError != nil {
		d.OnError(w, r, err)
		return
	}

	status := http.StatusInternalServerError
	if sc, ok := err.(interface{ StatusCode() int }); ok {
		status = sc.StatusCode()
	}
	http.Error(w, http.StatusText(status), status)
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// JSONRenderer returns a renderer that writes the memoized value under key
// as a JSON response. It is the default collaborator; applications serving
// HTML replace it with their own renderer.
func JSONRenderer(key string) Renderer {
	return RendererFunc(func(w http.ResponseWriter, r *http.Request) {
		m := FromContext(r.Context())
		if m == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		v, ok := m.Get(key)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	})
}

// mountPattern joins a mount base with a route path and converts marker
// parameters (":id") to chi's pattern syntax ("{id}").
func mountPattern(base, route string) string {
	route = strings.Trim(route, "/")
	if route == "" {
		return base
	}

	segs := strings.Split(route, "/")
	for i, seg := range segs {
		if isParamSegment(seg) {
			segs[i] = "{" + seg[1:] + "}"
		}
	}
	return base + "/" + strings.Join(segs, "/")
}
