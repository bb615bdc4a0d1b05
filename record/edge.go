package record

import "encoding/json"

// Edge is a graph edge record connecting two node identifiers under a
// predicate, with an optional finer-grained relation identifier and a
// relation-instance key distinguishing parallel edges.
type Edge struct {
	Subject   string `json:"subject"`
	Object    string `json:"object"`
	Key       string `json:"id,omitempty"`
	Predicate string `json:"predicate,omitempty"`
	Relation  string `json:"relation,omitempty"`

	// Categories holds the association categories of the edge itself,
	// not of its endpoints.
	Categories []string `json:"category,omitempty"`

	ProvidedBy                []string `json:"provided_by,omitempty"`
	KnowledgeSource           []string `json:"knowledge_source,omitempty"`
	PrimaryKnowledgeSource    []string `json:"primary_knowledge_source,omitempty"`
	AggregatorKnowledgeSource []string `json:"aggregator_knowledge_source,omitempty"`
	SupportingDataSource      []string `json:"supporting_data_source,omitempty"`

	// Extra holds source fields with no dedicated slot.
	Extra map[string]any `json:"-"`
}

// Kind implements Record.
func (e *Edge) Kind() Kind { return KindEdge }

// Validate checks the edge's required fields.
func (e *Edge) Validate() error {
	if e.Subject == "" {
		return &MissingFieldError{Kind: KindEdge, Field: "subject"}
	}
	if e.Object == "" {
		return &MissingFieldError{Kind: KindEdge, Field: "object"}
	}
	return nil
}

// Provenance returns the edge's effective provenance sources: the first
// non-empty provenance property in precedence order. Ordering of sources
// within the returned slice is not guaranteed to be significant.
func (e *Edge) Provenance() []string {
	for _, property := range ProvenanceProperties {
		if sources := e.SourcesFor(property); len(sources) > 0 {
			return sources
		}
	}
	return nil
}

// SourcesFor returns the value of the named provenance property.
func (e *Edge) SourcesFor(property string) []string {
	switch property {
	case PropertyPrimaryKnowledgeSource:
		return e.PrimaryKnowledgeSource
	case PropertyAggregatorKnowledgeSource:
		return e.AggregatorKnowledgeSource
	case PropertyKnowledgeSource:
		return e.KnowledgeSource
	case PropertySupportingDataSource:
		return e.SupportingDataSource
	case PropertyProvidedBy:
		return e.ProvidedBy
	default:
		return nil
	}
}

// SetSourcesFor replaces the value of the named provenance property.
// Unknown properties are ignored.
func (e *Edge) SetSourcesFor(property string, sources []string) {
	switch property {
	case PropertyPrimaryKnowledgeSource:
		e.PrimaryKnowledgeSource = sources
	case PropertyAggregatorKnowledgeSource:
		e.AggregatorKnowledgeSource = sources
	case PropertyKnowledgeSource:
		e.KnowledgeSource = sources
	case PropertySupportingDataSource:
		e.SupportingDataSource = sources
	case PropertyProvidedBy:
		e.ProvidedBy = sources
	}
}

// Field returns the named field value for filter evaluation.
func (e *Edge) Field(name string) (any, bool) {
	switch name {
	case "subject":
		return e.Subject, e.Subject != ""
	case "object":
		return e.Object, e.Object != ""
	case "id":
		return e.Key, e.Key != ""
	case "predicate":
		return e.Predicate, e.Predicate != ""
	case "relation":
		return e.Relation, e.Relation != ""
	case "category":
		return e.Categories, len(e.Categories) > 0
	case PropertyProvidedBy, PropertyKnowledgeSource, PropertyPrimaryKnowledgeSource,
		PropertyAggregatorKnowledgeSource, PropertySupportingDataSource:
		sources := e.SourcesFor(name)
		return sources, len(sources) > 0
	}
	v, ok := e.Extra[name]
	return v, ok
}

type edgeAlias struct {
	Subject    string     `json:"subject"`
	Object     string     `json:"object"`
	Key        string     `json:"id"`
	Predicate  string     `json:"predicate"`
	Relation   string     `json:"relation"`
	Categories stringList `json:"category"`

	ProvidedBy                stringList `json:"provided_by"`
	KnowledgeSource           stringList `json:"knowledge_source"`
	PrimaryKnowledgeSource    stringList `json:"primary_knowledge_source"`
	AggregatorKnowledgeSource stringList `json:"aggregator_knowledge_source"`
	SupportingDataSource      stringList `json:"supporting_data_source"`
}

// UnmarshalJSON accepts KGX JSON Lines edge objects; provenance properties
// may be a single string or a list, and unknown fields land in Extra.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var alias edgeAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	e.Subject = alias.Subject
	e.Object = alias.Object
	e.Key = alias.Key
	e.Predicate = alias.Predicate
	e.Relation = alias.Relation
	e.Categories = alias.Categories
	e.ProvidedBy = alias.ProvidedBy
	e.KnowledgeSource = alias.KnowledgeSource
	e.PrimaryKnowledgeSource = alias.PrimaryKnowledgeSource
	e.AggregatorKnowledgeSource = alias.AggregatorKnowledgeSource
	e.SupportingDataSource = alias.SupportingDataSource
	e.Extra = extraFields(data,
		"subject", "object", "id", "predicate", "relation", "category",
		PropertyProvidedBy, PropertyKnowledgeSource, PropertyPrimaryKnowledgeSource,
		PropertyAggregatorKnowledgeSource, PropertySupportingDataSource)
	return nil
}

// MarshalJSON round-trips known fields plus Extra.
func (e *Edge) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+10)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["subject"] = e.Subject
	out["object"] = e.Object
	if e.Key != "" {
		out["id"] = e.Key
	}
	if e.Predicate != "" {
		out["predicate"] = e.Predicate
	}
	if e.Relation != "" {
		out["relation"] = e.Relation
	}
	if len(e.Categories) > 0 {
		out["category"] = e.Categories
	}
	for _, property := range ProvenanceProperties {
		if sources := e.SourcesFor(property); len(sources) > 0 {
			out[property] = sources
		}
	}
	return json.Marshal(out)
}
