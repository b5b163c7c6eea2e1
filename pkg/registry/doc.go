// Package registry holds the merged route table for a routehub application.
//
// Route declarations are authored as independent units, grouped into
// namespaces. The registry merges those scattered declarations into a single
// queryable table:
//
//	namespace name → { page routes, API routes }
//
// The registry is built once during startup (by the scanner or the manifest
// loader), before any request is dispatched. After construction its structure
// is read-only: only the handler cell of an individual route is written, by
// lazy resolution at first use.
package registry
