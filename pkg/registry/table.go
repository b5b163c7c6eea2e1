package registry

import "sync"

// HandlerTable is the static registration table binding route locations to
// handler code.
//
// In a dynamically loaded system the scanner would import handler code from
// the unit file itself; in a compiled binary the application registers its
// handlers here at startup, keyed by namespace, unit location and kind. Lazy
// resolution looks the handler up on a route's first invocation.
//
// The table is safe for concurrent use: registration usually happens during
// startup, lookups happen on request paths.
type HandlerTable struct {
	mu      sync.RWMutex
	entries map[tableKey]HandlerFunc
}

type tableKey struct {
	kind      Kind
	namespace string
	location  string
}

// NewHandlerTable creates an empty handler table.
func NewHandlerTable() *HandlerTable {
	return &HandlerTable{
		entries: make(map[tableKey]HandlerFunc),
	}
}

// RegisterPage binds a page handler to a unit location within a namespace.
func (t *HandlerTable) RegisterPage(namespace, location string, h HandlerFunc) {
	t.register(KindPage, namespace, location, h)
}

// RegisterAPI binds an API handler to a unit location within a namespace.
func (t *HandlerTable) RegisterAPI(namespace, location string, h HandlerFunc) {
	t.register(KindAPI, namespace, location, h)
}

func (t *HandlerTable) register(kind Kind, namespace, location string, h HandlerFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[tableKey{kind, namespace, location}] = h
}

// Lookup returns the handler registered for the given kind, namespace and
// unit location.
func (t *HandlerTable) Lookup(kind Kind, namespace, location string) (HandlerFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.entries[tableKey{kind, namespace, location}]
	return h, ok
}

// Len returns the number of registered handlers.
func (t *HandlerTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
