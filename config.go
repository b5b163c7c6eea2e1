package routehub

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/routehub-io/routehub/pkg/dispatch"
	"github.com/routehub-io/routehub/pkg/manifest"
)

// EnvMode is the environment variable selecting the process mode.
const EnvMode = "ROUTEHUB_ENV"

// Mode selects how the route table is built and resolved.
type Mode string

const (
	// ModeDevelopment always scans the routes tree. Default.
	ModeDevelopment Mode = "development"

	// ModeProduction loads the prebuilt manifest, falling back to a scan.
	ModeProduction Mode = "production"

	// ModeTest scans, and re-reads unit files on lazy resolution so edits
	// made by a test are picked up.
	ModeTest Mode = "test"
)

// ModeFromEnv reads the process mode from ROUTEHUB_ENV.
// Unknown values map to development.
func ModeFromEnv() Mode {
	switch os.Getenv(EnvMode) {
	case string(ModeProduction):
		return ModeProduction
	case string(ModeTest):
		return ModeTest
	default:
		return ModeDevelopment
	}
}

// Verified reports whether the mode trusts the prebuilt manifest.
func (m Mode) Verified() bool {
	return m == ModeProduction
}

// CacheControl selects the static file caching strategy.
type CacheControl int

const (
	// CacheControlNone disables caching. Useful in development.
	CacheControlNone CacheControl = iota

	// CacheControlProduction caches fingerprinted assets for a year and
	// everything else briefly with revalidation.
	CacheControlProduction
)

// StaticConfig configures the catch-all static file handler.
type StaticConfig struct {
	// Dir is the directory containing static files (default: "public").
	Dir string

	// CacheControl selects the caching strategy.
	CacheControl CacheControl

	// Headers are extra headers set on every static response.
	Headers map[string]string
}

// DevConfig configures development-mode behavior.
type DevConfig struct {
	// Reload serves a websocket at /_dev/reload and notifies connected
	// browsers when a route unit changes. Development mode only.
	Reload bool

	// ReloadInterval is the routes tree polling interval.
	ReloadInterval time.Duration
}

// Config configures a routehub App.
type Config struct {
	// Mode selects manifest-vs-scan registry building and test-mode
	// resolution. Defaults to ModeFromEnv().
	Mode Mode

	// RoutesDir is the route unit tree (default: "routes").
	RoutesDir string

	// Manifest is the prebuilt route table location: a file path or an
	// s3://bucket/key URL (default: assets/build/routes.json). Only read
	// in production mode.
	Manifest string

	// ManifestS3 is the client for s3:// manifest locations.
	ManifestS3 manifest.S3API

	// Static configures the catch-all static handler.
	Static StaticConfig

	// Debug enables the /metrics endpoint and request tracing.
	Debug bool

	// Dev configures development-mode reload.
	Dev DevConfig

	// Home handles GET /. Defaults to a JSON namespace index.
	Home http.Handler

	// Robots is the body served at /robots.txt.
	Robots string

	// Pages renders memoized page results. Defaults to JSON output.
	Pages dispatch.Renderer

	// API renders memoized API results. Defaults to JSON output.
	API dispatch.Renderer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeFromEnv()
	}
	if c.RoutesDir == "" {
		c.RoutesDir = "routes"
	}
	if c.Manifest == "" {
		c.Manifest = manifest.DefaultPath
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "public"
	}
	if c.Robots == "" {
		c.Robots = "User-agent: *\nAllow: /\n"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
