package typemeta

import (
	"strings"
	"sync"
)

// Cache is the shared cross-unit metadata cache, keyed by lower-cased
// qualified name. Multiple analysis goroutines populate it concurrently;
// the discipline is insert-if-absent with idempotent recomputation, so two
// goroutines racing on the same class at worst resolve it twice.
type Cache struct {
	m sync.Map // string -> *TypeMetadata
}

func NewCache() *Cache { return &Cache{} }

func (c *Cache) Get(qualifiedName string) (*TypeMetadata, bool) {
	v, ok := c.m.Load(strings.ToLower(qualifiedName))
	if !ok {
		return nil, false
	}
	return v.(*TypeMetadata), true
}

// Set stores metadata under the qualified name. The first writer wins so
// readers never observe a value flapping between equivalent recomputations.
func (c *Cache) Set(qualifiedName string, meta *TypeMetadata) {
	if meta == nil {
		return
	}
	c.m.LoadOrStore(strings.ToLower(qualifiedName), meta)
}
