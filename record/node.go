package record

import "encoding/json"

// Node is a graph node record. Categories may contain pipe-delimited
// multi-category values; splitting them is the aggregation engine's
// concern, not the record's.
type Node struct {
	ID          string   `json:"id"`
	Categories  []string `json:"category,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	ProvidedBy  []string `json:"provided_by,omitempty"`

	// Extra holds source fields with no dedicated slot, preserved for
	// sinks that round-trip full records.
	Extra map[string]any `json:"-"`
}

// Kind implements Record.
func (n *Node) Kind() Kind { return KindNode }

// Validate checks the node's required fields.
func (n *Node) Validate() error {
	if n.ID == "" {
		return &MissingFieldError{Kind: KindNode, Field: "id"}
	}
	return nil
}

// Field returns the named field value for filter evaluation. List-valued
// fields come back as []string, scalars as string.
func (n *Node) Field(name string) (any, bool) {
	switch name {
	case "id":
		return n.ID, n.ID != ""
	case "category":
		return n.Categories, len(n.Categories) > 0
	case "name":
		return n.Name, n.Name != ""
	case "description":
		return n.Description, n.Description != ""
	case PropertyProvidedBy:
		return n.ProvidedBy, len(n.ProvidedBy) > 0
	}
	v, ok := n.Extra[name]
	return v, ok
}

// nodeAlias breaks the UnmarshalJSON recursion.
type nodeAlias struct {
	ID          string     `json:"id"`
	Categories  stringList `json:"category"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ProvidedBy  stringList `json:"provided_by"`
}

// UnmarshalJSON accepts KGX JSON Lines node objects. The category and
// provided_by fields may be either a single string or a list; unknown
// fields land in Extra.
func (n *Node) UnmarshalJSON(data []byte) error {
	var alias nodeAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	n.ID = alias.ID
	n.Categories = alias.Categories
	n.Name = alias.Name
	n.Description = alias.Description
	n.ProvidedBy = alias.ProvidedBy
	n.Extra = extraFields(data, "id", "category", "name", "description", PropertyProvidedBy)
	return nil
}

// MarshalJSON round-trips known fields plus Extra.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+5)
	for k, v := range n.Extra {
		out[k] = v
	}
	out["id"] = n.ID
	if len(n.Categories) > 0 {
		out["category"] = n.Categories
	}
	if n.Name != "" {
		out["name"] = n.Name
	}
	if n.Description != "" {
		out["description"] = n.Description
	}
	if len(n.ProvidedBy) > 0 {
		out[PropertyProvidedBy] = n.ProvidedBy
	}
	return json.Marshal(out)
}
