package curie

import "testing"

func TestPrefix(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"HGNC:11603", "HGNC"},
		{"biolink:Gene", "biolink"},
		{"no-prefix", ""},
		{":orphan", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Prefix(tt.identifier); got != tt.want {
			t.Errorf("Prefix(%q) = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

func TestReference(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"HGNC:11603", "11603"},
		{"no-prefix", "no-prefix"},
		{"a:b:c", "b:c"},
	}
	for _, tt := range tests {
		if got := Reference(tt.identifier); got != tt.want {
			t.Errorf("Reference(%q) = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

func TestIsCURIE(t *testing.T) {
	tests := []struct {
		identifier string
		want       bool
	}{
		{"HGNC:11603", true},
		{"biolink:related_to", true},
		{"https://example.org/x", false},
		{"no-prefix", false},
		{":orphan", false},
		{"trailing:", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCURIE(tt.identifier); got != tt.want {
			t.Errorf("IsCURIE(%q) = %v, want %v", tt.identifier, got, tt.want)
		}
	}
}

func TestShrink(t *testing.T) {
	prefixes := map[string]string{
		"ex":     "http://example.org/",
		"exdeep": "http://example.org/deep/",
	}

	tests := []struct {
		iri  string
		want string
	}{
		{"http://example.org/thing", "ex:thing"},
		// Longest namespace wins.
		{"http://example.org/deep/thing", "exdeep:thing"},
		{"http://other.org/thing", "http://other.org/thing"},
	}
	for _, tt := range tests {
		if got := Shrink(tt.iri, prefixes); got != tt.want {
			t.Errorf("Shrink(%q) = %q, want %q", tt.iri, got, tt.want)
		}
	}
}

func TestEdgeKey(t *testing.T) {
	if got := EdgeKey("A:1", "biolink:related_to", "B:2"); got != "A:1-biolink:related_to-B:2" {
		t.Errorf("EdgeKey = %q", got)
	}

	// Keyless edges must not collide.
	first := EdgeKey("A:1", "", "B:2")
	second := EdgeKey("A:1", "", "B:2")
	if first == "" || second == "" {
		t.Fatal("fallback edge key is empty")
	}
	if first == second {
		t.Errorf("fallback edge keys collide: %q", first)
	}
}
