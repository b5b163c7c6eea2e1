package registry

import (
	"encoding/json"
	"fmt"
)

// Decl is a single route declaration as authored in a unit file.
//
// It is a closed sum: exactly one of NamespaceDecl, RouteDecl or APIRouteDecl.
// A unit declaring more than one shape is a configuration error and is
// rejected by the scanner.
type Decl interface {
	decl()
}

// NamespaceDecl declares namespace metadata. It may appear before or after
// the namespace's route declarations; merging is order-independent.
type NamespaceDecl struct {
	// Title is a human-readable namespace title.
	Title string `json:"title,omitempty"`

	// Description is a human-readable namespace description.
	Description string `json:"description,omitempty"`
}

// RouteDecl declares one page route, possibly under several path aliases.
type RouteDecl struct {
	// Paths holds the route path or its ordered aliases.
	Paths PathSet `json:"path"`
}

// APIRouteDecl declares one API route, possibly under several path aliases.
type APIRouteDecl struct {
	Paths PathSet `json:"path"`
}

func (NamespaceDecl) decl() {}
func (RouteDecl) decl()     {}
func (APIRouteDecl) decl()  {}

// PathSet is a route path or an ordered set of path aliases.
// It unmarshals from either a JSON string or a JSON array of strings.
type PathSet []string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PathSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = PathSet{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("path must be a string or an array of strings")
	}
	*p = PathSet(many)
	return nil
}

// MarshalJSON implements json.Marshaler. A single path marshals back to a
// plain string so unit files round-trip cleanly.
func (p PathSet) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(p[0])
	}
	return json.Marshal([]string(p))
}
