// Package infores normalizes free-text knowledge source names into
// canonical infores ("information resource") identifiers.
//
// Normalization collapses arbitrary source strings ("Monarch Initiative")
// into compact lower-case dash-separated identifiers
// ("monarch-initiative"), optionally rewritten first by a configurable
// regular-expression rule.
package infores

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	nonWordRE    = regexp.MustCompile(`\W`)
)

// Rule configures an optional rewrite applied to raw source names before
// they are coerced into an infores identifier.
type Rule struct {
	// Pattern matches the part of the raw source name to rewrite.
	// A nil pattern leaves the name untouched.
	Pattern *regexp.Regexp

	// Substitution replaces Pattern matches. An empty substitution
	// deletes the matched text.
	Substitution string

	// Prefix, when non-empty, is prepended (space separated) to the
	// rewritten name before coercion.
	Prefix string
}

// ParseRule compiles a rule from its configuration form
// [pattern, substitution, prefix]. Trailing elements may be omitted; an
// empty slice yields a rule that only applies the standard coercion.
func ParseRule(parts []string) (*Rule, error) {
	rule := &Rule{}
	if len(parts) > 0 && parts[0] != "" {
		pattern, err := regexp.Compile(parts[0])
		if err != nil {
			return nil, fmt.Errorf("infores: invalid rewrite pattern %q: %w", parts[0], err)
		}
		rule.Pattern = pattern
	}
	if len(parts) > 1 {
		rule.Substitution = parts[1]
	}
	if len(parts) > 2 {
		rule.Prefix = parts[2]
	}
	return rule, nil
}

// Normalize coerces a raw source name into a canonical infores identifier.
// With a nil rule the result is the lower-cased, whitespace-and-symbol
// normalized form of the input with no deletions. Normalize is
// deterministic and total over any input string.
func Normalize(raw string, rule *Rule) string {
	s := raw
	if rule != nil {
		if rule.Pattern != nil {
			s = rule.Pattern.ReplaceAllString(s, rule.Substitution)
		}
		s = rule.Prefix + " " + s
	}
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRE.ReplaceAllString(s, "_")
	s = nonWordRE.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}
