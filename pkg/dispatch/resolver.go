package dispatch

import (
	"fmt"
	"path/filepath"

	"github.com/routehub-io/routehub/pkg/registry"
	"github.com/routehub-io/routehub/pkg/scanner"
)

// HandlerResolutionError reports a failed lazy handler load. It propagates
// to the individual request only; the registry stays intact and other
// requests are unaffected.
type HandlerResolutionError struct {
	Namespace string
	Location  string
	Kind      registry.Kind
	Err       error
}

// Error implements error.
func (e *HandlerResolutionError) Error() string {
	return fmt.Sprintf("resolving %s handler %s/%s: %v", e.Kind, e.Namespace, e.Location, e.Err)
}

// Unwrap returns the underlying cause.
func (e *HandlerResolutionError) Unwrap() error {
	return e.Err
}

// Resolver loads route handlers on first invocation and caches them on the
// route record for the process lifetime.
//
// Resolution is at-least-once, not exactly-once: concurrent first requests
// against the same unresolved route may each run the resolution. That race
// is tolerated because resolution is idempotent and the cached store is
// last-writer-wins.
type Resolver struct {
	// Root is the routes tree, used to re-read units in test mode.
	Root string

	// Table is the handler table consulted for routes without a loader
	// (manifest-built registries) and for test-mode re-reads.
	Table *registry.HandlerTable

	// TestMode re-reads the unit file on every first resolution instead of
	// using the loader captured at scan time.
	TestMode bool
}

// Resolve returns the route's handler, loading it if this is the first use.
func (rs *Resolver) Resolve(namespace string, rt *registry.Route) (registry.HandlerFunc, error) {
	if h, ok := rt.Handler(); ok {
		return h, nil
	}

	h, err := rs.load(namespace, rt)
	if err != nil {
		return nil, &HandlerResolutionError{
			Namespace: namespace,
			Location:  rt.Location,
			Kind:      rt.Kind,
			Err:       err,
		}
	}

	rt.SetHandler(h)
	return h, nil
}

func (rs *Resolver) load(namespace string, rt *registry.Route) (registry.HandlerFunc, error) {
	switch {
	case rs.TestMode && rt.Location != "":
		return rs.reload(namespace, rt)
	case rt.Loader != nil:
		return rt.Loader()
	default:
		return rs.lookup(rt.Kind, namespace, rt.Location)
	}
}

// reload re-reads the unit at {root}/{namespace}/{location}, verifies it
// still declares a route of the right kind, then binds its handler from the
// table. This mirrors the dynamic re-import test environments rely on.
func (rs *Resolver) reload(namespace string, rt *registry.Route) (registry.HandlerFunc, error) {
	unitPath := filepath.Join(rs.Root, namespace, filepath.FromSlash(rt.Location))
	d, err := scanner.ReadUnit(unitPath)
	if err != nil {
		return nil, err
	}

	switch d.(type) {
	case registry.RouteDecl:
		if rt.Kind != registry.KindPage {
			return nil, fmt.Errorf("unit %s declares a page route, want %s", rt.Location, rt.Kind)
		}
	case registry.APIRouteDecl:
		if rt.Kind != registry.KindAPI {
			return nil, fmt.Errorf("unit %s declares an api route, want %s", rt.Location, rt.Kind)
		}
	default:
		return nil, fmt.Errorf("unit %s no longer declares a route", rt.Location)
	}

	return rs.lookup(rt.Kind, namespace, rt.Location)
}

func (rs *Resolver) lookup(kind registry.Kind, namespace, location string) (registry.HandlerFunc, error) {
	if rs.Table == nil {
		return nil, fmt.Errorf("no handler table configured")
	}
	h, ok := rs.Table.Lookup(kind, namespace, location)
	if !ok {
		return nil, fmt.Errorf("no %s handler registered for %s/%s", kind, namespace, location)
	}
	return h, nil
}
