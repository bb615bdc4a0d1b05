// Package curie provides helpers for working with CURIE (compact URI)
// identifiers of the form "prefix:reference".
package curie

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefix returns the namespace prefix of a CURIE, or "" when the
// identifier has no extractable prefix.
func Prefix(identifier string) string {
	i := strings.Index(identifier, ":")
	if i <= 0 {
		return ""
	}
	return identifier[:i]
}

// Reference returns the local part of a CURIE, or the identifier itself
// when it carries no prefix.
func Reference(identifier string) string {
	i := strings.Index(identifier, ":")
	if i < 0 {
		return identifier
	}
	return identifier[i+1:]
}

// IsCURIE reports whether identifier has the prefix:reference shape with a
// non-empty prefix and reference. Full IRIs (with "://") do not qualify.
func IsCURIE(identifier string) bool {
	if strings.Contains(identifier, "://") {
		return false
	}
	i := strings.Index(identifier, ":")
	return i > 0 && i < len(identifier)-1
}

// Shrink compacts a full IRI into a CURIE using the given prefix→namespace
// map, preferring the longest matching namespace. Unmatched IRIs are
// returned unchanged.
func Shrink(iri string, prefixes map[string]string) string {
	bestPrefix := ""
	bestLen := 0
	for prefix, namespace := range prefixes {
		if namespace != "" && strings.HasPrefix(iri, namespace) && len(namespace) > bestLen {
			bestPrefix = prefix
			bestLen = len(namespace)
		}
	}
	if bestLen == 0 {
		return iri
	}
	return bestPrefix + ":" + iri[bestLen:]
}

// EdgeKey returns a stable key for an edge record. Edges without a usable
// subject, predicate and object fall back to a random UUID so that
// distinct keyless edges never collide.
func EdgeKey(subject, predicate, object string) string {
	if subject == "" || predicate == "" || object == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s-%s-%s", subject, predicate, object)
}
