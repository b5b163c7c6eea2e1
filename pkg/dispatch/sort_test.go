package dispatch

import (
	"reflect"
	"testing"

	"github.com/routehub-io/routehub/pkg/registry"
)

func pageRoutes(paths ...string) []*registry.Route {
	out := make([]*registry.Route, len(paths))
	for i, p := range paths {
		out[i] = &registry.Route{Path: p, Kind: registry.KindPage}
	}
	return out
}

func sortedPaths(routes []*registry.Route) []string {
	out := make([]string, len(routes))
	for i, rt := range routes {
		out[i] = rt.Path
	}
	return out
}

func TestSortPagesLiteralBeforeParam(t *testing.T) {
	routes := pageRoutes("/:id", "/about", "/:id/:sub", "/about/:x")
	SortPages(routes)

	got := sortedPaths(routes)
	want := []string{"/about", "/about/:x", "/:id", "/:id/:sub"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted = %v, want %v", got, want)
	}
}

func TestSortPagesStableOnTies(t *testing.T) {
	// No literal/param divergence in the shared prefix: input order holds.
	routes := pageRoutes("/:a/x", "/:b/y", "/:c")
	SortPages(routes)

	got := sortedPaths(routes)
	want := []string{"/:a/x", "/:b/y", "/:c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted = %v, want %v", got, want)
	}
}

func TestPathLessComparesOnlySharedPrefix(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"/about", "/:id", true},
		{"/:id", "/about", false},
		// Equal within the shared prefix, regardless of length.
		{"/about", "/about/:x", false},
		{"/about/:x", "/about", false},
		// Divergence past the first index is still found.
		{"/a/b", "/a/:p", true},
		// Both parameters at the same index: no divergence.
		{"/:a", "/:b", false},
	}
	for _, tt := range tests {
		if got := pathLess(tt.a, tt.b); got != tt.want {
			t.Errorf("pathLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMountPattern(t *testing.T) {
	tests := []struct {
		base, route, want string
	}{
		{"/feed", "/", "/feed"},
		{"/feed", "/:id", "/feed/{id}"},
		{"/api/feed", "/:id/json", "/api/feed/{id}/json"},
		{"/docs", "/guides/install", "/docs/guides/install"},
	}
	for _, tt := range tests {
		if got := mountPattern(tt.base, tt.route); got != tt.want {
			t.Errorf("mountPattern(%q, %q) = %q, want %q", tt.base, tt.route, got, tt.want)
		}
	}
}
