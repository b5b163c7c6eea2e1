package dispatch

import (
	"sort"
	"strings"

	"github.com/routehub-io/routehub/pkg/registry"
)

// ParamMarker prefixes a parameter path segment (e.g. "/:id").
const ParamMarker = ':'

// SortPages orders a namespace's page routes so literal segments take
// precedence over parameter segments at matching time. API routes are never
// sorted; they bind in registration order.
//
// The comparator walks both paths segment by segment up to the shorter
// path's length. At the first index where exactly one side is a parameter
// segment, the literal side sorts first. Paths with no such divergence in
// their shared prefix compare equal and keep their registration order. This
// deliberately ignores path length, trailing wildcards and any divergence
// past the first; the partial ranking is part of the dispatch contract.
func SortPages(routes []*registry.Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		return pathLess(routes[i].Path, routes[j].Path)
	})
}

// pathLess reports whether a should bind before b.
func pathLess(a, b string) bool {
	segsA := splitPath(a)
	segsB := splitPath(b)

	n := len(segsA)
	if len(segsB) < n {
		n = len(segsB)
	}

	for i := 0; i < n; i++ {
		paramA := isParamSegment(segsA[i])
		paramB := isParamSegment(segsB[i])
		if paramA != paramB {
			return !paramA
		}
	}
	return false
}

func isParamSegment(seg string) bool {
	return len(seg) > 0 && seg[0] == ParamMarker
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}
