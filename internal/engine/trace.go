package engine

import (
	"github.com/Harshitk-cp/logoslab/internal/domain"
)

// Step is one node of a backward explanation walk: how a proposition got
// its value, and how deep in the chain it sits.
type Step struct {
	Name     string            `json:"name"`
	Value    domain.Tripartite `json:"value"`
	Rule     string            `json:"rule"`
	Premises []string          `json:"premises,omitempty"`
	Depth    int               `json:"depth"`
}

// Trace walks a proposition's provenance chain backward, depth-first and
// pre-order. A proposition without provenance is an axiom leaf. Premise
// names absent from the knowledge base (typically a rule's structural name)
// are skipped; provenance cycles are truncated via a visited set rather
// than erroring. An unknown root name yields an empty trace.
func (e *Engine) Trace(kb *domain.KnowledgeBase, name string) []Step {
	root, ok := kb.Get(name)
	if !ok {
		return nil
	}

	var steps []Step
	visited := make(map[string]bool)
	e.walk(kb, root, 0, visited, &steps)
	return steps
}

func (e *Engine) walk(kb *domain.KnowledgeBase, prop *domain.Proposition, depth int, visited map[string]bool, steps *[]Step) {
	if visited[prop.Name] {
		return
	}
	visited[prop.Name] = true

	if !prop.HasProvenance() {
		*steps = append(*steps, Step{
			Name:  prop.Name,
			Value: prop.Value,
			Rule:  RuleAxiom,
			Depth: depth,
		})
		return
	}

	prov := prop.Provenance
	*steps = append(*steps, Step{
		Name:     prop.Name,
		Value:    prop.Value,
		Rule:     prov.Rule,
		Premises: append([]string(nil), prov.Premises...),
		Depth:    depth,
	})

	for _, premise := range prov.Premises {
		next, ok := kb.Get(premise)
		if !ok {
			continue
		}
		e.walk(kb, next, depth+1, visited, steps)
	}
}
