// Package dispatch binds an aggregated route registry to an HTTP router.
//
// Page routes mount at /{namespace}/{path} and API routes at
// /api/{namespace}/{path}. Path matching itself is delegated to chi; this
// package owns route ordering, lazy handler resolution and per-request
// memoization of handler results.
package dispatch
