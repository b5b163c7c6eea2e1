package manifest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/routehub-io/routehub/pkg/registry"
	"github.com/routehub-io/routehub/pkg/scanner"
)

// Builder produces the route registry at startup, choosing between the
// prebuilt manifest and a full directory scan.
type Builder struct {
	// Verified selects the manifest-first path (production environments).
	// When false the manifest is ignored and the routes tree is scanned.
	Verified bool

	// Path is the manifest location: a local file path or s3://bucket/key.
	// Defaults to DefaultPath.
	Path string

	// S3 is the client used for s3:// manifest paths. Required only when
	// Path points at object storage.
	S3 S3API

	// RoutesDir is the routes tree scanned when the manifest is not used.
	RoutesDir string

	// Table is the handler table backing lazy resolution.
	Table *registry.HandlerTable

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Build assembles the registry.
//
// In verified mode it loads the manifest; if the manifest is missing or
// unparseable for any reason it logs a warning and falls back to scanning.
// Manifest failures are swallowed here and never reach the caller. Outside
// verified mode it always scans.
func (b *Builder) Build(ctx context.Context) (*registry.Registry, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := b.Path
	if path == "" {
		path = DefaultPath
	}

	if b.Verified {
		snap, err := b.loadSnapshot(ctx, path)
		if err == nil {
			logger.Debug("routes loaded from manifest", "path", path, "namespaces", len(snap))
			return registry.FromSnapshot(snap, b.Table), nil
		}
		logger.Warn("routes manifest unavailable, falling back to scan", "path", path, "error", err)
	}

	reg := registry.New(b.Table)
	s := scanner.New(b.RoutesDir, scanner.WithLogger(logger))
	if err := s.Scan(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (b *Builder) loadSnapshot(ctx context.Context, path string) (registry.Snapshot, error) {
	if IsS3Path(path) {
		if b.S3 == nil {
			return nil, fmt.Errorf("manifest path %q requires an S3 client", path)
		}
		return LoadS3(ctx, b.S3, path)
	}
	return Load(path)
}
