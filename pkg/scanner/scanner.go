// Package scanner aggregates route definition units from a directory tree
// into a registry.
//
// The tree holds one subdirectory per namespace:
//
//	routes/
//	  feed/
//	    namespace.json    {"namespace": {"title": "Feed"}}
//	    item.json         {"route": {"path": "/:id"}}
//	    item_api.json     {"apiRoute": {"path": "/:id/json"}}
//
// Each unit declares exactly one of namespace, route or apiRoute. Units that
// cannot be attributed to a namespace, or that declare more than one shape,
// are configuration errors: they are logged and skipped without aborting the
// rest of the aggregation.
package scanner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/routehub-io/routehub/pkg/registry"
)

// ConfigurationError reports a unit that could not be registered.
type ConfigurationError struct {
	// Unit is the unit path relative to the scan root.
	Unit string

	// Reason describes what was wrong with the unit.
	Reason string
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("route unit %s: %s", e.Unit, e.Reason)
}

// Scanner walks a routes directory and merges its units into a registry.
type Scanner struct {
	root   string
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for skipped units.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a scanner rooted at dir.
func New(dir string, opts ...Option) *Scanner {
	s := &Scanner{
		root:   dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the scan root directory.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the routes tree and merges every unit into reg.
//
// Per-unit configuration errors are logged and skipped; only walk-level
// failures (unreadable root, I/O errors) abort the scan.
func (s *Scanner) Scan(reg *registry.Registry) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".json") {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if err := s.scanUnit(reg, path, rel); err != nil {
			var cfgErr *ConfigurationError
			if errors.As(err, &cfgErr) {
				s.logger.Error("skipping route unit", "unit", cfgErr.Unit, "reason", cfgErr.Reason)
				return nil
			}
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		return nil
	})
}

// scanUnit registers a single unit. The namespace is the first path segment
// beneath the root; the unit's location is the remainder.
func (s *Scanner) scanUnit(reg *registry.Registry, path, rel string) error {
	namespace, location, ok := strings.Cut(rel, "/")
	if !ok {
		return &ConfigurationError{Unit: rel, Reason: "unit sits at the routes root, namespace cannot be determined"}
	}

	d, err := ReadUnit(path)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return &ConfigurationError{Unit: rel, Reason: cfgErr.Reason}
		}
		return err
	}

	var loader registry.Loader
	kind, isRoute := declKind(d)
	if isRoute {
		// Defer handler lookup until first invocation. The closure captures
		// the table so handlers registered after the scan still resolve.
		table := reg.Table()
		loader = func() (registry.HandlerFunc, error) {
			h, ok := table.Lookup(kind, namespace, location)
			if !ok {
				return nil, fmt.Errorf("no %s handler registered for %s/%s", kind, namespace, location)
			}
			return h, nil
		}
	}

	reg.Merge(namespace, location, d, loader)
	return nil
}

func declKind(d registry.Decl) (registry.Kind, bool) {
	switch d.(type) {
	case registry.RouteDecl:
		return registry.KindPage, true
	case registry.APIRouteDecl:
		return registry.KindAPI, true
	}
	return 0, false
}

// unitEnvelope is the on-disk shape of a unit file. Exactly one field may be
// set; the envelope is a tag-exclusive variant.
type unitEnvelope struct {
	Namespace *registry.NamespaceDecl `json:"namespace,omitempty"`
	Route     *registry.RouteDecl     `json:"route,omitempty"`
	APIRoute  *registry.APIRouteDecl  `json:"apiRoute,omitempty"`
}

// ReadUnit parses a unit file into its declaration. Units declaring zero or
// more than one shape return a ConfigurationError.
func ReadUnit(path string) (registry.Decl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var env unitEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ConfigurationError{Unit: path, Reason: fmt.Sprintf("invalid unit file: %v", err)}
	}

	var (
		d     registry.Decl
		count int
	)
	if env.Namespace != nil {
		d = *env.Namespace
		count++
	}
	if env.Route != nil {
		d = *env.Route
		count++
	}
	if env.APIRoute != nil {
		d = *env.APIRoute
		count++
	}

	switch count {
	case 0:
		return nil, &ConfigurationError{Unit: path, Reason: "unit declares none of namespace, route or apiRoute"}
	case 1:
		return d, nil
	default:
		return nil, &ConfigurationError{Unit: path, Reason: "unit declares more than one of namespace, route and apiRoute"}
	}
}
