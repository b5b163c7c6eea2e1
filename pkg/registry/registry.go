package registry

// Registry is the process-wide route table.
//
// It is built by a single writer (scanner or manifest loader) during an
// explicit initialization phase and must be complete before the dispatcher
// binds any route. Merging is commutative: declarations for the same
// namespace may arrive in any order and produce the same final entry.
type Registry struct {
	namespaces map[string]*Namespace
	names      []string
	table      *HandlerTable
}

// New creates an empty registry backed by the given handler table.
// A nil table gets a fresh empty one.
func New(table *HandlerTable) *Registry {
	if table == nil {
		table = NewHandlerTable()
	}
	return &Registry{
		namespaces: make(map[string]*Namespace),
		table:      table,
	}
}

// Table returns the handler table backing lazy resolution.
func (g *Registry) Table() *HandlerTable {
	return g.table
}

// Namespace returns the entry for name, creating an empty one if the
// namespace has not been declared yet. Route maps default to empty so a
// bare metadata declaration and a route declaration can merge in any order.
func (g *Registry) Namespace(name string) *Namespace {
	if ns, ok := g.namespaces[name]; ok {
		return ns
	}
	ns := newNamespace(name)
	g.namespaces[name] = ns
	g.names = append(g.names, name)
	return ns
}

// Lookup returns the namespace entry for name without creating it.
func (g *Registry) Lookup(name string) (*Namespace, bool) {
	ns, ok := g.namespaces[name]
	return ns, ok
}

// Namespaces returns all namespaces in first-declaration order.
func (g *Registry) Namespaces() []*Namespace {
	out := make([]*Namespace, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.namespaces[name])
	}
	return out
}

// Len returns the number of namespaces.
func (g *Registry) Len() int {
	return len(g.namespaces)
}

// Merge applies one declaration to the namespace entry for name.
//
// A namespace declaration merges metadata, preserving any routes already
// registered. A route or API route declaration registers one entry per path
// alias, all sharing the same location and loader. Later writes for the same
// alias overwrite earlier ones.
func (g *Registry) Merge(name, location string, d Decl, loader Loader) {
	ns := g.Namespace(name)

	switch decl := d.(type) {
	case NamespaceDecl:
		ns.mergeMeta(decl)
	case RouteDecl:
		for _, p := range decl.Paths {
			ns.setRoute(KindPage, p, location, loader)
		}
	case APIRouteDecl:
		for _, p := range decl.Paths {
			ns.setRoute(KindAPI, p, location, loader)
		}
	}
}
