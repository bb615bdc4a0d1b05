package filter

import (
	"errors"
	"testing"

	"github.com/biostreams/kgmeta/record"
)

func TestCategoryFilterRequiresSet(t *testing.T) {
	f := New()

	var typeErr *TypeError
	if err := f.SetNodeFilter(FieldCategory, ScalarValue("biolink:Gene")); !errors.As(err, &typeErr) {
		t.Fatalf("SetNodeFilter error = %v, want TypeError", err)
	}
	if err := f.SetEdgeFilter(FieldSubjectCategory, ScalarValue("biolink:Gene")); !errors.As(err, &typeErr) {
		t.Fatalf("SetEdgeFilter error = %v, want TypeError", err)
	}

	// Non-category filters accept scalars.
	if err := f.SetEdgeFilter("predicate", ScalarValue("biolink:related_to")); err != nil {
		t.Fatalf("SetEdgeFilter(predicate) error = %v", err)
	}
}

func TestNodeCategoryWidensEdgeFilters(t *testing.T) {
	f := New()
	if err := f.SetNodeFilter(FieldCategory, SetValue("biolink:Gene")); err != nil {
		t.Fatalf("SetNodeFilter error = %v", err)
	}

	for _, key := range []string{FieldSubjectCategory, FieldObjectCategory} {
		value, ok := f.EdgeFilter(key)
		if !ok {
			t.Fatalf("edge filter %q not installed", key)
		}
		if _, ok := value.Set["biolink:Gene"]; !ok {
			t.Errorf("edge filter %q = %v, missing biolink:Gene", key, value.Set)
		}
	}
}

func TestEdgeCategoryWidensNodeFilter(t *testing.T) {
	f := New()
	if err := f.SetEdgeFilter(FieldSubjectCategory, SetValue("biolink:Gene")); err != nil {
		t.Fatalf("SetEdgeFilter error = %v", err)
	}
	if err := f.SetEdgeFilter(FieldObjectCategory, SetValue("biolink:Disease")); err != nil {
		t.Fatalf("SetEdgeFilter error = %v", err)
	}

	value, ok := f.NodeFilter(FieldCategory)
	if !ok {
		t.Fatal("node category filter not installed")
	}
	for _, category := range []string{"biolink:Gene", "biolink:Disease"} {
		if _, ok := value.Set[category]; !ok {
			t.Errorf("node category filter missing %q", category)
		}
	}
}

func TestRepeatedFiltersUnion(t *testing.T) {
	f := New()
	if err := f.SetNodeFilter(FieldCategory, SetValue("biolink:Gene")); err != nil {
		t.Fatal(err)
	}
	if err := f.SetNodeFilter(FieldCategory, SetValue("biolink:Disease")); err != nil {
		t.Fatal(err)
	}

	value, _ := f.NodeFilter(FieldCategory)
	if len(value.Set) != 2 {
		t.Errorf("category filter = %v, want union of both sets", value.Set)
	}
}

func TestAdmitsNode(t *testing.T) {
	f := New()
	if err := f.SetNodeFilter(FieldCategory, SetValue("biolink:Gene")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		node *record.Node
		want bool
	}{
		{
			name: "matching category",
			node: &record.Node{ID: "X:1", Categories: []string{"biolink:Gene"}},
			want: true,
		},
		{
			name: "one of several categories matches",
			node: &record.Node{ID: "X:1", Categories: []string{"biolink:NamedThing", "biolink:Gene"}},
			want: true,
		},
		{
			name: "no matching category",
			node: &record.Node{ID: "X:1", Categories: []string{"biolink:Disease"}},
			want: false,
		},
		{
			name: "missing filtered field",
			node: &record.Node{ID: "X:1"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.AdmitsNode(tt.node); got != tt.want {
				t.Errorf("AdmitsNode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdmitsEdge(t *testing.T) {
	f := New()
	if err := f.SetEdgeFilter("predicate", SetValue("biolink:related_to")); err != nil {
		t.Fatal(err)
	}
	// Category filters never gate edges directly.
	if err := f.SetEdgeFilter(FieldSubjectCategory, SetValue("biolink:Gene")); err != nil {
		t.Fatal(err)
	}

	admitted := &record.Edge{Subject: "A:1", Object: "B:2", Predicate: "biolink:related_to"}
	if !f.AdmitsEdge(admitted) {
		t.Error("matching edge rejected")
	}

	rejected := &record.Edge{Subject: "A:1", Object: "B:2", Predicate: "biolink:part_of"}
	if f.AdmitsEdge(rejected) {
		t.Error("non-matching edge admitted")
	}
}

func TestEmptyFiltersAdmitEverything(t *testing.T) {
	f := New()
	if !f.Empty() {
		t.Error("new filter set not empty")
	}
	if !f.AdmitsNode(&record.Node{ID: "X:1"}) {
		t.Error("empty filters rejected a node")
	}
	if !f.AdmitsEdge(&record.Edge{Subject: "A:1", Object: "B:2"}) {
		t.Error("empty filters rejected an edge")
	}
}

func TestScalarFilterOnListField(t *testing.T) {
	f := New()
	if err := f.SetNodeFilter("provided_by", ScalarValue("infores:hgnc")); err != nil {
		t.Fatal(err)
	}

	in := &record.Node{ID: "X:1", ProvidedBy: []string{"infores:monarch", "infores:hgnc"}}
	if !f.AdmitsNode(in) {
		t.Error("list containing scalar rejected")
	}
	out := &record.Node{ID: "X:1", ProvidedBy: []string{"infores:monarch"}}
	if f.AdmitsNode(out) {
		t.Error("list without scalar admitted")
	}
}
