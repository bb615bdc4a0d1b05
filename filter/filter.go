// Package filter implements record admission filtering for restricted
// views of a graph stream.
//
// A record passes only if, for every configured filter key, the record
// has that key and the record's value intersects (set filters) or equals
// (scalar filters) the filter value. Category filters are cross-propagated
// between the node and edge filter sets so that a category-restricted node
// view and its induced edge view stay mutually consistent.
package filter

import (
	"fmt"

	"github.com/biostreams/kgmeta/record"
)

// Well-known filter keys participating in category cross-propagation.
const (
	FieldCategory        = "category"
	FieldSubjectCategory = "subject_category"
	FieldObjectCategory  = "object_category"
)

// Set is an unordered collection of admissible string values.
type Set map[string]struct{}

// NewSet builds a Set from the given values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// union merges other into s.
func (s Set) union(other Set) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// Value is a filter value: either a scalar (exact match) or a set
// (non-empty intersection). A non-nil Set takes precedence.
type Value struct {
	Scalar string
	Set    Set
}

// SetValue returns a set-shaped filter value.
func SetValue(values ...string) Value { return Value{Set: NewSet(values...)} }

// ScalarValue returns a scalar-shaped filter value.
func ScalarValue(v string) Value { return Value{Scalar: v} }

// TypeError reports a filter value of the wrong shape at configuration
// time, before any record streams through.
type TypeError struct {
	Key    string
	Reason string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("filter: %q filter %s", e.Key, e.Reason)
}

// Filters holds the node and edge filter sets for one restricted view.
// An empty Filters admits every record.
type Filters struct {
	node map[string]Value
	edge map[string]Value
}

// New returns an empty filter set.
func New() *Filters {
	return &Filters{
		node: make(map[string]Value),
		edge: make(map[string]Value),
	}
}

// SetNodeFilter installs a node filter. A "category" filter must be
// set-shaped; installing it also widens the subject_category and
// object_category edge filters to the same value set, keeping the induced
// edge view consistent with the node view.
func (f *Filters) SetNodeFilter(key string, value Value) error {
	if key == FieldCategory {
		if value.Set == nil {
			return &TypeError{Key: key, Reason: "requires a set value"}
		}
		f.widen(f.edge, FieldSubjectCategory, value.Set)
		f.widen(f.edge, FieldObjectCategory, value.Set)
	}
	f.merge(f.node, key, value)
	return nil
}

// SetEdgeFilter installs an edge filter. The subject_category and
// object_category filters must be set-shaped; installing either also
// widens the node category filter to the same value set.
func (f *Filters) SetEdgeFilter(key string, value Value) error {
	if key == FieldSubjectCategory || key == FieldObjectCategory {
		if value.Set == nil {
			return &TypeError{Key: key, Reason: "requires a set value"}
		}
		f.widen(f.node, FieldCategory, value.Set)
	}
	f.merge(f.edge, key, value)
	return nil
}

// widen unions values into an existing set filter, or installs it.
func (f *Filters) widen(filters map[string]Value, key string, values Set) {
	if existing, ok := filters[key]; ok && existing.Set != nil {
		existing.Set.union(values)
		return
	}
	merged := NewSet()
	merged.union(values)
	filters[key] = Value{Set: merged}
}

// merge unions set filters for the same key; scalar filters replace.
func (f *Filters) merge(filters map[string]Value, key string, value Value) {
	existing, ok := filters[key]
	if ok && existing.Set != nil && value.Set != nil {
		existing.Set.union(value.Set)
		return
	}
	filters[key] = value
}

// NodeFilter returns the installed node filter for key, if any.
func (f *Filters) NodeFilter(key string) (Value, bool) {
	v, ok := f.node[key]
	return v, ok
}

// EdgeFilter returns the installed edge filter for key, if any.
func (f *Filters) EdgeFilter(key string) (Value, bool) {
	v, ok := f.edge[key]
	return v, ok
}

// Empty reports whether no filters are installed.
func (f *Filters) Empty() bool {
	return len(f.node) == 0 && len(f.edge) == 0
}

// AdmitsNode reports whether the node passes every installed node filter.
func (f *Filters) AdmitsNode(n *record.Node) bool {
	for key, value := range f.node {
		fieldValue, ok := n.Field(key)
		if !ok {
			return false
		}
		if !matches(fieldValue, value) {
			return false
		}
	}
	return true
}

// AdmitsEdge reports whether the edge passes every installed edge filter.
// The subject_category and object_category filters are automatically
// satisfied here: they exist to influence node admission, not to gate
// edges at filter-check time.
func (f *Filters) AdmitsEdge(e *record.Edge) bool {
	for key, value := range f.edge {
		if key == FieldSubjectCategory || key == FieldObjectCategory {
			continue
		}
		fieldValue, ok := e.Field(key)
		if !ok {
			return false
		}
		if !matches(fieldValue, value) {
			return false
		}
	}
	return true
}

// matches evaluates one record field against one filter value. List
// fields match a set filter on non-empty intersection and a scalar filter
// on membership; scalar fields match a set filter on membership and a
// scalar filter on equality.
func matches(fieldValue any, filter Value) bool {
	switch v := fieldValue.(type) {
	case []string:
		if filter.Set != nil {
			for _, item := range v {
				if _, ok := filter.Set[item]; ok {
					return true
				}
			}
			return false
		}
		for _, item := range v {
			if item == filter.Scalar {
				return true
			}
		}
		return false
	case string:
		if filter.Set != nil {
			_, ok := filter.Set[v]
			return ok
		}
		return v == filter.Scalar
	default:
		return false
	}
}
