// Package validate checks the shape of graph records against locally
// configured expectations: required properties, CURIE well-formedness and
// a known-prefix allowlist. Validation against an externally hosted
// schema service is out of scope; the prefix set is supplied by the
// caller.
package validate

import (
	"fmt"
	"sort"

	"github.com/biostreams/kgmeta/curie"
	"github.com/biostreams/kgmeta/record"
)

// ErrorType classifies a validation finding.
type ErrorType int

const (
	MissingNodeProperty ErrorType = iota + 1
	MissingEdgeProperty
	NoCategory
	InvalidCategory
	NoPredicate
	InvalidIdentifier
	UnknownPrefix
)

// String returns the constant-style name of the error type.
func (t ErrorType) String() string {
	switch t {
	case MissingNodeProperty:
		return "MISSING_NODE_PROPERTY"
	case MissingEdgeProperty:
		return "MISSING_EDGE_PROPERTY"
	case NoCategory:
		return "NO_CATEGORY"
	case InvalidCategory:
		return "INVALID_CATEGORY"
	case NoPredicate:
		return "NO_PREDICATE"
	case InvalidIdentifier:
		return "INVALID_IDENTIFIER"
	case UnknownPrefix:
		return "UNKNOWN_PREFIX"
	default:
		return fmt.Sprintf("ERROR_TYPE(%d)", int(t))
	}
}

// Level grades the severity of a finding.
type Level int

const (
	// LevelWarning conveys "should".
	LevelWarning Level = iota + 1
	// LevelError conveys "must".
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	if l == LevelError {
		return "ERROR"
	}
	return "WARNING"
}

// Error is one validation finding against one entity.
type Error struct {
	Entity  string
	Type    ErrorType
	Message string
	Level   Level
}

// String renders the finding in report form.
func (e Error) String() string {
	return fmt.Sprintf("[%s][%s] %s - %s", e.Level, e.Type, e.Entity, e.Message)
}

// Validator accumulates validation findings over a record stream. It
// implements the transform.Inspector contract, so it can ride the same
// pass as the aggregation engine.
type Validator struct {
	prefixes map[string]struct{}
	errors   []Error
}

// Option configures a Validator.
type Option func(*Validator)

// WithPrefixes installs the known-prefix allowlist; identifiers with
// prefixes outside it are reported. An empty allowlist disables the check.
func WithPrefixes(prefixes ...string) Option {
	return func(v *Validator) {
		v.prefixes = make(map[string]struct{}, len(prefixes))
		for _, p := range prefixes {
			v.prefixes[p] = struct{}{}
		}
	}
}

// New returns a validator with the given options applied.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Inspect validates one record.
func (v *Validator) Inspect(rec record.Record) error {
	switch r := rec.(type) {
	case *record.Node:
		v.ValidateNode(r)
	case *record.Edge:
		v.ValidateEdge(r)
	}
	return nil
}

// ValidateNode records findings for one node.
func (v *Validator) ValidateNode(n *record.Node) {
	if n.ID == "" {
		v.report(n.ID, MissingNodeProperty, LevelError, "node is missing its id")
		return
	}
	v.checkIdentifier(n.ID)
	if len(n.Categories) == 0 {
		v.report(n.ID, NoCategory, LevelWarning, "node has no category")
		return
	}
	for _, category := range n.Categories {
		if !curie.IsCURIE(category) {
			v.report(n.ID, InvalidCategory, LevelWarning,
				fmt.Sprintf("category %q is not a CURIE", category))
		}
	}
}

// ValidateEdge records findings for one edge.
func (v *Validator) ValidateEdge(e *record.Edge) {
	entity := e.Key
	if entity == "" {
		entity = e.Subject + "-" + e.Object
	}
	if e.Subject == "" {
		v.report(entity, MissingEdgeProperty, LevelError, "edge is missing its subject")
	} else {
		v.checkIdentifier(e.Subject)
	}
	if e.Object == "" {
		v.report(entity, MissingEdgeProperty, LevelError, "edge is missing its object")
	} else {
		v.checkIdentifier(e.Object)
	}
	if e.Predicate == "" {
		v.report(entity, NoPredicate, LevelWarning, "edge has no predicate")
	} else if !curie.IsCURIE(e.Predicate) {
		v.report(entity, InvalidIdentifier, LevelWarning,
			fmt.Sprintf("predicate %q is not a CURIE", e.Predicate))
	}
}

func (v *Validator) checkIdentifier(id string) {
	prefix := curie.Prefix(id)
	if prefix == "" {
		v.report(id, InvalidIdentifier, LevelWarning, "identifier has no CURIE prefix")
		return
	}
	if len(v.prefixes) == 0 {
		return
	}
	if _, ok := v.prefixes[prefix]; !ok {
		v.report(id, UnknownPrefix, LevelWarning,
			fmt.Sprintf("prefix %q is not in the configured prefix set", prefix))
	}
}

func (v *Validator) report(entity string, t ErrorType, level Level, message string) {
	v.errors = append(v.errors, Error{Entity: entity, Type: t, Message: message, Level: level})
}

// Errors returns all findings in the order recorded.
func (v *Validator) Errors() []Error { return v.errors }

// ErrorCount returns the number of findings at the given level.
func (v *Validator) ErrorCount(level Level) int {
	count := 0
	for _, e := range v.errors {
		if e.Level == level {
			count++
		}
	}
	return count
}

// Report renders all findings, sorted by entity, one per line.
func (v *Validator) Report() []string {
	lines := make([]string, 0, len(v.errors))
	for _, e := range v.errors {
		lines = append(lines, e.String())
	}
	sort.Strings(lines)
	return lines
}
