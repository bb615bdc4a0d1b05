package catalog

import "sort"

// InforesCatalog records which raw source names collapsed into each
// canonical infores identifier during provenance normalization. Many raw
// strings may map to the same canonical identifier.
type InforesCatalog struct {
	entries map[string]map[string]struct{}
}

// NewInforesCatalog returns an empty infores catalog.
func NewInforesCatalog() *InforesCatalog {
	return &InforesCatalog{
		entries: make(map[string]map[string]struct{}),
	}
}

// Add records that raw was normalized into the canonical infores
// identifier. Duplicate additions are suppressed.
func (c *InforesCatalog) Add(infores, raw string) {
	sources, ok := c.entries[infores]
	if !ok {
		sources = make(map[string]struct{})
		c.entries[infores] = sources
	}
	sources[raw] = struct{}{}
}

// Sources returns the sorted raw source names recorded for the given
// infores identifier.
func (c *InforesCatalog) Sources(infores string) []string {
	sources, ok := c.entries[infores]
	if !ok {
		return nil
	}
	result := make([]string, 0, len(sources))
	for s := range sources {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Entries returns the full canonical→raw mapping with sorted raw names.
func (c *InforesCatalog) Entries() map[string][]string {
	result := make(map[string][]string, len(c.entries))
	for infores := range c.entries {
		result[infores] = c.Sources(infores)
	}
	return result
}

// Len returns the number of distinct canonical identifiers recorded.
func (c *InforesCatalog) Len() int {
	return len(c.entries)
}
