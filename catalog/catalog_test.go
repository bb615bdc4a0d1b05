package catalog

import (
	"errors"
	"reflect"
	"testing"
)

func TestCatalogRegister(t *testing.T) {
	c := New()

	if got := c.Register("biolink:Gene"); got != 0 {
		t.Errorf("first Register = %d, want 0", got)
	}
	if got := c.Register("biolink:Disease"); got != 1 {
		t.Errorf("second Register = %d, want 1", got)
	}
	// Re-registering returns the original index.
	if got := c.Register("biolink:Gene"); got != 0 {
		t.Errorf("repeat Register = %d, want 0", got)
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}

func TestCatalogIdentifier(t *testing.T) {
	c := New()
	c.Register("biolink:Gene")

	id, err := c.Identifier(0)
	if err != nil {
		t.Fatalf("Identifier(0) error = %v", err)
	}
	if id != "biolink:Gene" {
		t.Errorf("Identifier(0) = %q, want biolink:Gene", id)
	}

	for _, index := range []int{-1, 1, 100} {
		if _, err := c.Identifier(index); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Identifier(%d) error = %v, want ErrOutOfRange", index, err)
		}
	}
}

func TestCatalogContains(t *testing.T) {
	c := New()
	c.Register("biolink:Gene")

	if !c.Contains("biolink:Gene") {
		t.Error("Contains(biolink:Gene) = false")
	}
	if c.Contains("biolink:Disease") {
		t.Error("Contains(biolink:Disease) = true")
	}
}

func TestInforesCatalog(t *testing.T) {
	c := NewInforesCatalog()
	c.Add("monarch-initiative", "Monarch Initiative")
	c.Add("monarch-initiative", "monarch initiative")
	c.Add("monarch-initiative", "Monarch Initiative") // duplicate
	c.Add("hgnc", "HGNC")

	if got := c.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}

	want := []string{"Monarch Initiative", "monarch initiative"}
	if got := c.Sources("monarch-initiative"); !reflect.DeepEqual(got, want) {
		t.Errorf("Sources = %v, want %v", got, want)
	}
	if got := c.Sources("absent"); got != nil {
		t.Errorf("Sources(absent) = %v, want nil", got)
	}

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries has %d keys, want 2", len(entries))
	}
	if !reflect.DeepEqual(entries["hgnc"], []string{"HGNC"}) {
		t.Errorf("Entries[hgnc] = %v", entries["hgnc"])
	}
}
