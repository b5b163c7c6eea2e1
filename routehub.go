// Package routehub assembles scattered, independently authored route
// declarations into a single queryable routing table and dispatches requests
// to the right handler with lazy loading and per-request memoization.
//
// Route units live in a directory tree with one subdirectory per namespace.
// At startup the tree is scanned (or, in production, a prebuilt manifest is
// loaded) into a registry; page routes bind at /{namespace}/{path} sorted so
// literal segments beat parameters, API routes bind at /api/{namespace}/{path}
// in registration order. Handler code loads on first use and is cached for
// the process lifetime; within one request a handler runs at most once.
//
// Typical usage:
//
//	app, err := routehub.New(routehub.Config{
//	    Mode:      routehub.ModeFromEnv(),
//	    RoutesDir: "routes",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.RegisterPage("feed", "item.json", feed.ItemPage)
//	app.RegisterAPI("feed", "item.json", feed.ItemJSON)
//	app.Run(":8080")
package routehub

import (
	"github.com/routehub-io/routehub/pkg/dispatch"
	"github.com/routehub-io/routehub/pkg/registry"
)

// HandlerFunc produces the data for a route. See registry.HandlerFunc.
type HandlerFunc = registry.HandlerFunc

// Registry is the assembled route table. See registry.Registry.
type Registry = registry.Registry

// Snapshot is the serializable registry form. See registry.Snapshot.
type Snapshot = registry.Snapshot

// Renderer turns memoized handler results into responses.
type Renderer = dispatch.Renderer

// RendererFunc adapts a function to Renderer.
type RendererFunc = dispatch.RendererFunc

// JSONRenderer renders the memoized value under key as JSON.
var JSONRenderer = dispatch.JSONRenderer

// Request cache keys used by the dispatcher's wrappers.
const (
	KeyPageData = dispatch.KeyPageData
	KeyAPIData  = dispatch.KeyAPIData
)
