package registry

// Namespace is the merged aggregate for one namespace name.
//
// Route maps preserve insertion order so that specificity sorting stays
// stable and API routes bind in the order they were registered.
type Namespace struct {
	// Name is the namespace name, unique within the registry.
	Name string

	// Title and Description are metadata from a namespace declaration.
	// First-declared metadata wins; missing fields are backfilled.
	Title       string
	Description string

	routes    map[string]*Route
	routeKeys []string

	apiRoutes map[string]*Route
	apiKeys   []string
}

func newNamespace(name string) *Namespace {
	return &Namespace{
		Name:      name,
		routes:    make(map[string]*Route),
		apiRoutes: make(map[string]*Route),
	}
}

// setRoute registers a route under one path alias. Re-registering the same
// alias overwrites the previous entry but keeps its original order slot.
func (n *Namespace) setRoute(kind Kind, path, location string, loader Loader) *Route {
	rt := &Route{
		Path:     path,
		Kind:     kind,
		Location: location,
		Loader:   loader,
	}

	switch kind {
	case KindAPI:
		if _, exists := n.apiRoutes[path]; !exists {
			n.apiKeys = append(n.apiKeys, path)
		}
		n.apiRoutes[path] = rt
	default:
		if _, exists := n.routes[path]; !exists {
			n.routeKeys = append(n.routeKeys, path)
		}
		n.routes[path] = rt
	}
	return rt
}

// mergeMeta fills metadata fields that have not been set yet.
func (n *Namespace) mergeMeta(d NamespaceDecl) {
	if n.Title == "" {
		n.Title = d.Title
	}
	if n.Description == "" {
		n.Description = d.Description
	}
}

// PageRoute returns the page route registered under path.
func (n *Namespace) PageRoute(path string) (*Route, bool) {
	rt, ok := n.routes[path]
	return rt, ok
}

// APIRoute returns the API route registered under path.
func (n *Namespace) APIRoute(path string) (*Route, bool) {
	rt, ok := n.apiRoutes[path]
	return rt, ok
}

// PageRoutes returns the namespace's page routes in insertion order.
// The returned slice is a copy; the underlying routes are shared.
func (n *Namespace) PageRoutes() []*Route {
	out := make([]*Route, 0, len(n.routeKeys))
	for _, k := range n.routeKeys {
		out = append(out, n.routes[k])
	}
	return out
}

// APIRoutes returns the namespace's API routes in insertion order.
func (n *Namespace) APIRoutes() []*Route {
	out := make([]*Route, 0, len(n.apiKeys))
	for _, k := range n.apiKeys {
		out = append(out, n.apiRoutes[k])
	}
	return out
}
