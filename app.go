package routehub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/routehub-io/routehub/internal/dev"
	"github.com/routehub-io/routehub/pkg/dispatch"
	"github.com/routehub-io/routehub/pkg/manifest"
	"github.com/routehub-io/routehub/pkg/middleware"
	"github.com/routehub-io/routehub/pkg/registry"
)

// App aggregates the route table at startup and serves it.
//
// Create an App with New(), register handlers for the scanned unit
// locations, then serve:
//
//	app, err := routehub.New(routehub.Config{RoutesDir: "routes"})
//	app.RegisterPage("feed", "item.json", feed.ItemPage)
//	app.RegisterAPI("feed", "item.json", feed.ItemJSON)
//	app.Run(":8080")
type App struct {
	config   Config
	logger   *slog.Logger
	registry *registry.Registry
	mux      *chi.Mux
	reload   *dev.ReloadServer
	staticFS http.FileSystem
}

// New builds the route registry and binds every route. The registry is
// complete before New returns; no request sees a partially built table.
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()

	table := registry.NewHandlerTable()
	builder := &manifest.Builder{
		Verified:  cfg.Mode.Verified(),
		Path:      cfg.Manifest,
		S3:        cfg.ManifestS3,
		RoutesDir: cfg.RoutesDir,
		Table:     table,
		Logger:    cfg.Logger,
	}
	reg, err := builder.Build(context.Background())
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   cfg,
		logger:   cfg.Logger,
		registry: reg,
		mux:      chi.NewRouter(),
		staticFS: http.Dir(cfg.Static.Dir),
	}

	a.mux.Use(dispatch.WithMemo)
	if cfg.Debug {
		a.mux.Use(middleware.Metrics())
		a.mux.Use(middleware.Tracing())
	}

	d := &dispatch.Dispatcher{
		Registry: reg,
		Resolver: &dispatch.Resolver{
			Root:     cfg.RoutesDir,
			Table:    table,
			TestMode: cfg.Mode == ModeTest,
		},
		Pages:  cfg.Pages,
		API:    cfg.API,
		Logger: cfg.Logger,
	}
	d.Mount(a.mux)

	a.mountFixed()

	return a, nil
}

// mountFixed binds the fixed top-level endpoints and the static catch-all.
// These go straight to their collaborators, not through the memoizer.
func (a *App) mountFixed() {
	home := a.config.Home
	if home == nil {
		home = http.HandlerFunc(a.namespaceIndex)
	}
	a.mux.Get("/", home.ServeHTTP)

	a.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	a.mux.Get("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(a.config.Robots))
	})

	if a.config.Debug {
		a.mux.Handle("/metrics", promhttp.Handler())
	}

	if a.config.Dev.Reload && a.config.Mode == ModeDevelopment {
		a.reload = dev.NewReloadServer()
		a.mux.Get("/_dev/reload", a.reload.HandleWebSocket)
	}

	// Everything unmatched falls through to static files.
	a.mux.NotFound(a.serveStatic)
}

// namespaceIndex is the default home handler: a JSON listing of the
// aggregated namespaces.
func (a *App) namespaceIndex(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name  string `json:"name"`
		Title string `json:"title,omitempty"`
	}
	var out []entry
	for _, ns := range a.registry.Namespaces() {
		out = append(out, entry{Name: ns.Name, Title: ns.Title})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// RegisterPage binds a page handler to a unit location within a namespace.
// Registration may happen any time before the route's first invocation.
func (a *App) RegisterPage(namespace, location string, h registry.HandlerFunc) {
	a.registry.Table().RegisterPage(namespace, location, h)
}

// RegisterAPI binds an API handler to a unit location within a namespace.
func (a *App) RegisterAPI(namespace, location string, h registry.HandlerFunc) {
	a.registry.Table().RegisterAPI(namespace, location, h)
}

// Registry exposes the assembled route table for collaborators that need it
// without the dispatcher (sitemap generators, documentation builders).
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Run serves on addr until SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Run(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.reload != nil {
		go a.watchRoutes(ctx)
	}

	srv := &http.Server{Addr: addr, Handler: a.mux}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", addr, "mode", string(a.config.Mode))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if a.reload != nil {
		a.reload.Close()
	}
	return nil
}

// watchRoutes polls the routes tree and notifies reload clients on change.
func (a *App) watchRoutes(ctx context.Context) {
	w := dev.NewWatcher(dev.WatcherConfig{
		Dir:      a.config.RoutesDir,
		Interval: a.config.Dev.ReloadInterval,
	})
	w.OnChange(func(c dev.Change) {
		a.logger.Info("route unit changed", "path", c.Path)
		a.reload.NotifyReload(c.Path)
	})
	w.Start(ctx)
}
