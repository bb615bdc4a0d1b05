// Package record defines the typed node and edge records exchanged
// between sources, sinks and the aggregation engine.
//
// Records are validated at the ingestion boundary: a record missing its
// identifying fields is rejected with a MissingFieldError before it
// reaches any downstream consumer.
package record

import "fmt"

// Kind discriminates the two record variants of a graph stream.
type Kind int

const (
	// KindNode tags a node record.
	KindNode Kind = iota
	// KindEdge tags an edge record.
	KindEdge
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Record is the discriminated union over node and edge records.
type Record interface {
	Kind() Kind
	Validate() error
}

// MissingFieldError reports a record missing a required field.
type MissingFieldError struct {
	Kind  Kind
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record: %s is missing required field %q", e.Kind, e.Field)
}
