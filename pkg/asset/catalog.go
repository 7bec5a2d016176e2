// Package asset implements the asset catalog external collaborator: a
// name -> component registry dependents resolve through a handle rather
// than an owning pointer, so replacing an asset by name is observed by
// every dependent on its next access instead of requiring them to be
// walked and patched.
package asset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lightmetrica/lightmetrica-go/pkg/rerrors"
)

// Component is an opaque catalog entry: a material, light, camera, medium,
// texture, mesh, or anything else a scene wires together by name. The
// catalog itself never interprets its contents.
type Component interface{}

// Factory builds a Component from a type identifier and property bag, the
// shape LoadAsset's callers hand in (e.g. from a parsed scene description).
type Factory func(typeID string, props map[string]any) (Component, error)

// Root is the well-known catalog root locator. Names are resolved
// relative to it: "$" alone names the root, "$.foo.bar" and "foo.bar" both
// resolve to the same entry, dot-separated, mirroring a path-like locator
// rather than a single global namespace.
const Root = "$"

// Catalog is a name -> Component registry. Assets are looked up by
// normalized path; replacing an entry is visible to every holder of an
// Ref on its next Resolve call, since a ref stores a name and the
// catalog it points into, never a direct pointer.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Component
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Component)}
}

func normalize(name string) string {
	name = strings.TrimPrefix(name, Root)
	name = strings.TrimPrefix(name, ".")
	return name
}

// Get resolves name to its current Component, or false if nothing is
// registered under that name.
func (c *Catalog) Get(name string) (Component, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[normalize(name)]
	return v, ok
}

// LoadAsset builds a Component via factory(typeID, props) and registers it
// under name, replacing any prior entry. This is also how an asset is
// "replaced between renders": calling LoadAsset again with the same name
// swaps the entry in place; every Ref built against that name observes
// the new value on its next Resolve, without needing to be found and
// updated.
func (c *Catalog) LoadAsset(name, typeID string, props map[string]any, factory Factory) error {
	comp, err := factory(typeID, props)
	if err != nil {
		return rerrors.Wrap(rerrors.IOError, fmt.Sprintf("loading asset %q (type %q)", name, typeID), err)
	}
	c.mu.Lock()
	c.entries[normalize(name)] = comp
	c.mu.Unlock()
	return nil
}

// Replace installs comp directly under name, bypassing a Factory. Used by
// tests and by callers that already constructed the Component (e.g. a
// driver hot-reloading a single material).
func (c *Catalog) Replace(name string, comp Component) {
	c.mu.Lock()
	c.entries[normalize(name)] = comp
	c.mu.Unlock()
}

// Ref is an opaque handle to a named catalog entry: a reference that
// re-resolves through the catalog on every dereference instead of caching
// a pointer, so dependents observe asset replacement on their next access.
type Ref struct {
	catalog *Catalog
	name    string
}

// NewRef builds a handle to name within catalog. The name need not exist
// yet: Resolve re-checks the catalog every call.
func NewRef(catalog *Catalog, name string) Ref {
	return Ref{catalog: catalog, name: name}
}

// Resolve looks up the ref's current target.
func (r Ref) Resolve() (Component, bool) {
	if r.catalog == nil {
		return nil, false
	}
	return r.catalog.Get(r.name)
}

// Name returns the locator this ref resolves through.
func (r Ref) Name() string { return r.name }
