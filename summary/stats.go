package summary

import "fmt"

// Name returns the graph name assigned to this summarization pass.
func (g *MetaKnowledgeGraph) Name() string { return g.name }

// NodeCount returns the total number of distinct node identifiers
// observed, including those counted under the unknown category.
func (g *MetaKnowledgeGraph) NodeCount() int { return len(g.nodeCatalog) }

// EdgeCount returns the total number of valid edge records observed.
func (g *MetaKnowledgeGraph) EdgeCount() int { return g.edgeCount }

// CategoryCount returns the number of distinct categories encountered,
// excluding the synthetic unknown category.
func (g *MetaKnowledgeGraph) CategoryCount() int {
	count := len(g.nodeStats)
	if _, ok := g.nodeStats[UnknownIdentifier]; ok {
		count--
	}
	return count
}

// NodeCountByCategory returns the node count observed under the given
// category, or zero for an unseen category. An empty category argument
// is a programmer error.
func (g *MetaKnowledgeGraph) NodeCountByCategory(category string) (int, error) {
	if category == "" {
		return 0, fmt.Errorf("summary: empty category argument")
	}
	aggregate, ok := g.nodeStats[category]
	if !ok {
		return 0, nil
	}
	return aggregate.count, nil
}

// IDPrefixesByCategory returns the distinct node identifier prefixes seen
// under the given category.
func (g *MetaKnowledgeGraph) IDPrefixesByCategory(category string) []string {
	aggregate, ok := g.nodeStats[category]
	if !ok {
		return nil
	}
	return sortedKeys(aggregate.prefixes)
}

// TotalNodeCountAcrossCategories returns the aggregate of all per-category
// node counts. Nodes with multiple categories are replicated under each.
func (g *MetaKnowledgeGraph) TotalNodeCountAcrossCategories() int {
	count := 0
	for _, aggregate := range g.nodeStats {
		count += aggregate.count
	}
	return count
}

// PredicateCount returns the number of distinct predicates observed.
func (g *MetaKnowledgeGraph) PredicateCount() int { return len(g.predicates) }

// EdgeCountByPredicate returns the number of edges observed with the
// given predicate, or zero for an unseen predicate. An empty predicate
// argument is a programmer error.
func (g *MetaKnowledgeGraph) EdgeCountByPredicate(predicate string) (int, error) {
	if predicate == "" {
		return 0, fmt.Errorf("summary: empty predicate argument")
	}
	return g.predicates[predicate], nil
}

// AssociationCount returns the number of distinct
// (subject category, predicate, object category) triples observed.
func (g *MetaKnowledgeGraph) AssociationCount() int { return len(g.associations) }

// TotalEdgeCountAcrossAssociations returns the aggregate of all per-triple
// counts. Edges whose endpoints carry multiple categories are replicated
// under each of their triples.
func (g *MetaKnowledgeGraph) TotalEdgeCountAcrossAssociations() int {
	count := 0
	for _, aggregate := range g.associations {
		count += aggregate.count
	}
	return count
}

// WarningCount returns the number of warning diagnostics emitted so far.
func (g *MetaKnowledgeGraph) WarningCount() int { return g.warningCount }
