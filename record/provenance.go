package record

import "encoding/json"

// Knowledge provenance properties recognized on records, per the Biolink
// knowledge-source model.
const (
	PropertyProvidedBy                = "provided_by"
	PropertyKnowledgeSource           = "knowledge_source"
	PropertyPrimaryKnowledgeSource    = "primary_knowledge_source"
	PropertyAggregatorKnowledgeSource = "aggregator_knowledge_source"
	PropertySupportingDataSource      = "supporting_data_source"
)

// ProvenanceProperties lists the recognized provenance properties in
// precedence order, most specific first.
var ProvenanceProperties = []string{
	PropertyPrimaryKnowledgeSource,
	PropertyAggregatorKnowledgeSource,
	PropertyKnowledgeSource,
	PropertySupportingDataSource,
	PropertyProvidedBy,
}

// listValued marks properties that carry a list of sources rather than a
// single scalar value.
var listValued = map[string]bool{
	PropertyProvidedBy:                true,
	PropertyKnowledgeSource:           true,
	PropertyPrimaryKnowledgeSource:    true,
	PropertyAggregatorKnowledgeSource: true,
	PropertySupportingDataSource:      true,
}

// ListValued reports whether the given provenance property is list-valued.
// Unrecognized properties are treated as scalar.
func ListValued(property string) bool {
	return listValued[property]
}

// IsProvenanceProperty reports whether name is a recognized provenance
// property.
func IsProvenanceProperty(name string) bool {
	_, ok := listValued[name]
	return ok
}

// stringList unmarshals a JSON value that may be either a single string
// or a list of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// extraFields decodes data into a generic map and strips the known keys,
// leaving only fields with no dedicated record slot.
func extraFields(data []byte, known ...string) map[string]any {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}
