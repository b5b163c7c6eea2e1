package dispatch

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/routehub-io/routehub/pkg/registry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMux(d *Dispatcher) http.Handler {
	r := chi.NewRouter()
	r.Use(WithMemo)
	d.Mount(r)
	return r
}

// Registering the page and API route kinds in either order, a request to
// /feed/123 reaches the page handler and /api/feed/123/json the API handler.
func TestDispatchEndToEnd(t *testing.T) {
	orders := [][]registry.Decl{
		{registry.RouteDecl{Paths: registry.PathSet{"/:id"}}, registry.APIRouteDecl{Paths: registry.PathSet{"/:id/json"}}},
		{registry.APIRouteDecl{Paths: registry.PathSet{"/:id/json"}}, registry.RouteDecl{Paths: registry.PathSet{"/:id"}}},
	}

	for _, decls := range orders {
		reg := registry.New(nil)
		for _, d := range decls {
			reg.Merge("feed", "item.json", d, nil)
		}
		reg.Table().RegisterPage("feed", "item.json", func(r *http.Request) (any, error) {
			return map[string]string{"page": chi.URLParam(r, "id")}, nil
		})
		reg.Table().RegisterAPI("feed", "item.json", func(r *http.Request) (any, error) {
			return map[string]string{"api": chi.URLParam(r, "id")}, nil
		})

		mux := newTestMux(&Dispatcher{
			Registry: reg,
			Resolver: &Resolver{Table: reg.Table()},
			Logger:   quietLogger(),
		})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/123", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("page status = %d", rec.Code)
		}
		var page map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("page body: %v", err)
		}
		if page["page"] != "123" {
			t.Errorf("page param = %q, want 123", page["page"])
		}

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/feed/123/json", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("api status = %d", rec.Code)
		}
		var api map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &api); err != nil {
			t.Fatalf("api body: %v", err)
		}
		if api["api"] != "123" {
			t.Errorf("api param = %q, want 123", api["api"])
		}
	}
}

// Within one request, re-entering the page wrapper runs the handler once;
// the "data" slot short-circuits the second pass.
func TestPageWrapperMemoizesWithinRequest(t *testing.T) {
	reg := registry.New(nil)
	reg.Merge("feed", "item.json", registry.RouteDecl{Paths: registry.PathSet{"/:id"}}, nil)

	calls := 0
	reg.Table().RegisterPage("feed", "item.json", func(r *http.Request) (any, error) {
		calls++
		return "once", nil
	})

	d := &Dispatcher{
		Registry: reg,
		Resolver: &Resolver{Table: reg.Table()},
		Logger:   quietLogger(),
	}
	ns, _ := reg.Lookup("feed")
	rt, _ := ns.PageRoute("/:id")
	wrapper := d.pageHandler("feed", rt)

	req := httptest.NewRequest(http.MethodGet, "/feed/1", nil)
	m := NewMemo()
	req = req.WithContext(withMemo(req.Context(), m))

	wrapper(httptest.NewRecorder(), req)
	if !m.Has(KeyPageData) {
		t.Fatal("data flag must be set after first call")
	}
	wrapper(httptest.NewRecorder(), req)

	if calls != 1 {
		t.Errorf("handler ran %d times within one request, want 1", calls)
	}
}

func TestSeparateRequestsDoNotShareMemo(t *testing.T) {
	reg := registry.New(nil)
	reg.Merge("feed", "item.json", registry.RouteDecl{Paths: registry.PathSet{"/:id"}}, nil)

	calls := 0
	reg.Table().RegisterPage("feed", "item.json", func(r *http.Request) (any, error) {
		calls++
		return calls, nil
	})

	mux := newTestMux(&Dispatcher{
		Registry: reg,
		Resolver: &Resolver{Table: reg.Table()},
		Logger:   quietLogger(),
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/feed/1", nil))
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/feed/2", nil))

	if calls != 2 {
		t.Errorf("handler ran %d times across two requests, want 2", calls)
	}
}

func TestLiteralRouteWinsOverParam(t *testing.T) {
	reg := registry.New(nil)
	// Registered param-first; sorting must still bind /about ahead of /:id.
	reg.Merge("docs", "show.json", registry.RouteDecl{Paths: registry.PathSet{"/:id"}}, nil)
	reg.Merge("docs", "about.json", registry.RouteDecl{Paths: registry.PathSet{"/about"}}, nil)

	reg.Table().RegisterPage("docs", "show.json", func(r *http.Request) (any, error) {
		return "param", nil
	})
	reg.Table().RegisterPage("docs", "about.json", func(r *http.Request) (any, error) {
		return "literal", nil
	})

	mux := newTestMux(&Dispatcher{
		Registry: reg,
		Resolver: &Resolver{Table: reg.Table()},
		Logger:   quietLogger(),
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/about", nil))
	if got := strings.TrimSpace(rec.Body.String()); got != `"literal"` {
		t.Errorf("body = %s, want \"literal\"", got)
	}
}

// API routes bind in insertion order, never specificity-sorted. This pins
// the page/API asymmetry as documented behavior, not a defect to fix.
func TestBindAPIRoutesKeepInsertionOrder(t *testing.T) {
	reg := registry.New(nil)
	reg.Merge("feed", "a.json", registry.APIRouteDecl{Paths: registry.PathSet{"/:id"}}, nil)
	reg.Merge("feed", "b.json", registry.APIRouteDecl{Paths: registry.PathSet{"/latest"}}, nil)

	ns, _ := reg.Lookup("feed")
	apis := ns.APIRoutes()
	if apis[0].Path != "/:id" || apis[1].Path != "/latest" {
		t.Errorf("api order = [%s %s], want [/:id /latest]", apis[0].Path, apis[1].Path)
	}
}

func TestMountSkipsEmptyNamespace(t *testing.T) {
	reg := registry.New(nil)
	reg.Merge("ghost", "meta.json", registry.NamespaceDecl{Title: "Ghost"}, nil)

	mux := newTestMux(&Dispatcher{
		Registry: reg,
		Resolver: &Resolver{Table: reg.Table()},
		Logger:   quietLogger(),
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestResolutionErrorScopedToRequest(t *testing.T) {
	reg := registry.New(nil)
	reg.Merge("feed", "item.json", registry.RouteDecl{Paths: registry.PathSet{"/:id"}}, nil)
	// No handler registered: resolution fails at first use.

	mux := newTestMux(&Dispatcher{
		Registry: reg,
		Resolver: &Resolver{Table: reg.Table()},
		Logger:   quietLogger(),
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/1", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	// The registry is intact; registering the handler fixes later requests.
	reg.Table().RegisterPage("feed", "item.json", func(r *http.Request) (any, error) {
		return "recovered", nil
	})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status after registration = %d, want 200", rec.Code)
	}
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return http.StatusText(e.code) }
func (e statusErr) StatusCode() int { return e.code }

func TestHandlerErrorStatusCode(t *testing.T) {
	reg := registry.New(nil)
	reg.Merge("feed", "item.json", registry.RouteDecl{Paths: registry.PathSet{"/:id"}}, nil)
	reg.Table().RegisterPage("feed", "item.json", func(r *http.Request) (any, error) {
		return nil, statusErr{http.StatusNotFound}
	})

	mux := newTestMux(&Dispatcher{
		Registry: reg,
		Resolver: &Resolver{Table: reg.Table()},
		Logger:   quietLogger(),
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
