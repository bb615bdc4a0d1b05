// Package catalog provides the category catalog used by the aggregation
// engine to intern category CURIEs as stable small integer indices, plus
// the infores catalog tracking how raw source names were normalized.
package catalog

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when resolving an index that was never assigned.
var ErrOutOfRange = errors.New("catalog: index out of range")

// Catalog interns category identifiers as small integer indices. Indices
// are assigned in first-seen order starting at zero and are never reused
// or reassigned for the life of the catalog, so index↔identifier is a
// bijection. Both lookup directions are O(1).
//
// A Catalog is not safe for concurrent use; each aggregation pass owns
// its own instance.
type Catalog struct {
	identifiers []string
	indices     map[string]int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		indices: make(map[string]int),
	}
}

// Register returns the index assigned to identifier, assigning the next
// free index on first sight. Register never fails.
func (c *Catalog) Register(identifier string) int {
	if index, ok := c.indices[identifier]; ok {
		return index
	}
	index := len(c.identifiers)
	c.identifiers = append(c.identifiers, identifier)
	c.indices[identifier] = index
	return index
}

// Identifier resolves an index back to its identifier. It returns
// ErrOutOfRange when the index was never assigned.
func (c *Catalog) Identifier(index int) (string, error) {
	if index < 0 || index >= len(c.identifiers) {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	return c.identifiers[index], nil
}

// Contains reports whether identifier has been registered.
func (c *Catalog) Contains(identifier string) bool {
	_, ok := c.indices[identifier]
	return ok
}

// Len returns the number of registered identifiers.
func (c *Catalog) Len() int {
	return len(c.identifiers)
}
