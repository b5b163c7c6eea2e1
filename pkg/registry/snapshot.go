package registry

// Snapshot is the serializable form of the registry, matching the schema of
// the prebuilt routes manifest:
//
//	{ "feed": { "name": "feed",
//	            "routes":    { "/:id": { "location": "item.json" } },
//	            "apiRoutes": { "/:id/json": { "location": "item.json" } } } }
//
// Handler fields do not serialize; routes restored from a snapshot are always
// lazily resolved via their location.
type Snapshot map[string]NamespaceSnapshot

// NamespaceSnapshot is the serializable form of one namespace.
type NamespaceSnapshot struct {
	Name        string                   `json:"name"`
	Title       string                   `json:"title,omitempty"`
	Description string                   `json:"description,omitempty"`
	Routes      map[string]RouteSnapshot `json:"routes"`
	APIRoutes   map[string]RouteSnapshot `json:"apiRoutes"`
}

// RouteSnapshot is the serializable form of one route entry.
type RouteSnapshot struct {
	Location string `json:"location"`
}

// Snapshot exports the registry for consumers that need the full route table
// without running the dispatcher (sitemap generators, documentation
// builders) and for writing the prebuilt manifest.
func (g *Registry) Snapshot() Snapshot {
	snap := make(Snapshot, len(g.namespaces))
	for _, ns := range g.Namespaces() {
		entry := NamespaceSnapshot{
			Name:        ns.Name,
			Title:       ns.Title,
			Description: ns.Description,
			Routes:      make(map[string]RouteSnapshot, len(ns.routes)),
			APIRoutes:   make(map[string]RouteSnapshot, len(ns.apiRoutes)),
		}
		for p, rt := range ns.routes {
			entry.Routes[p] = RouteSnapshot{Location: rt.Location}
		}
		for p, rt := range ns.apiRoutes {
			entry.APIRoutes[p] = RouteSnapshot{Location: rt.Location}
		}
		snap[ns.Name] = entry
	}
	return snap
}

// FromSnapshot rebuilds a registry from a snapshot. Restored routes carry no
// loader; their handlers resolve through the handler table by location.
func FromSnapshot(snap Snapshot, table *HandlerTable) *Registry {
	g := New(table)
	for name, entry := range snap {
		if entry.Name != "" {
			name = entry.Name
		}
		ns := g.Namespace(name)
		ns.mergeMeta(NamespaceDecl{Title: entry.Title, Description: entry.Description})
		for p, rt := range entry.Routes {
			ns.setRoute(KindPage, p, rt.Location, nil)
		}
		for p, rt := range entry.APIRoutes {
			ns.setRoute(KindAPI, p, rt.Location, nil)
		}
	}
	return g
}
