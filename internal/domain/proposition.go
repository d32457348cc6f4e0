package domain

import (
	"time"
)

// Relation tags a proposition that also encodes a structural rule. An
// IMPLIES entry's antecedent/consequent names form an implication usable by
// Modus Ponens and Modus Tollens; an OR entry's names form a disjunction
// usable by Disjunctive Syllogism and Resolution.
type Relation string

const (
	RelationNone       Relation = "none"
	RelationAnd        Relation = "and"
	RelationOr         Relation = "or"
	RelationNot        Relation = "not"
	RelationImplies    Relation = "implies"
	RelationEquivalent Relation = "equivalent"
)

func ValidRelation(r string) bool {
	switch Relation(r) {
	case RelationNone, RelationAnd, RelationOr, RelationNot, RelationImplies, RelationEquivalent:
		return true
	}
	return false
}

// Quantifier controls how an expression's evaluated result may update the
// proposition it targets.
type Quantifier string

const (
	ScopeNone                  Quantifier = "none"
	ScopeUniversalAffirmative  Quantifier = "universal_affirmative"
	ScopeUniversalNegative     Quantifier = "universal_negative"
	ScopeParticularAffirmative Quantifier = "particular_affirmative"
	ScopeParticularNegative    Quantifier = "particular_negative"
)

func ValidQuantifier(q string) bool {
	switch Quantifier(q) {
	case ScopeNone, ScopeUniversalAffirmative, ScopeUniversalNegative,
		ScopeParticularAffirmative, ScopeParticularNegative:
		return true
	}
	return false
}

// Provenance records how a derived truth value was produced: which rule
// fired and which premise propositions fed it. Confidence is an opaque tag
// carried along for diagnostics; the engine itself never branches on it.
type Provenance struct {
	Rule       string    `json:"rule"`
	Premises   []string  `json:"premises"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
}

// NewProvenance builds a provenance record with full confidence.
func NewProvenance(rule string, premises ...string) Provenance {
	return Provenance{
		Rule:       rule,
		Premises:   premises,
		Timestamp:  time.Now(),
		Confidence: 1.0,
	}
}

// Conflict is logged when a known truth value is overwritten by a different
// value. It is diagnostic data, never an error: the knowledge base tolerates
// and records contradictions.
type Conflict struct {
	OldValue      Tripartite  `json:"old_value"`
	NewValue      Tripartite  `json:"new_value"`
	OldProvenance *Provenance `json:"old_provenance,omitempty"`
	NewProvenance Provenance  `json:"new_provenance"`
	Timestamp     time.Time   `json:"timestamp"`
}

// Proposition is a named fact, and optionally also a rule when Relation is
// set. Its identity is Name, the key under which the knowledge base stores
// it. A nil Provenance means the current value was asserted directly.
type Proposition struct {
	Name       string      `json:"name"`
	Relation   Relation    `json:"relation"`
	Antecedent string      `json:"antecedent,omitempty"`
	Subject    string      `json:"subject,omitempty"`
	Consequent string      `json:"consequent,omitempty"`
	Predicate  string      `json:"predicate,omitempty"`
	Value      Tripartite  `json:"value"`
	Scope      Quantifier  `json:"scope"`
	Provenance *Provenance `json:"provenance,omitempty"`
	Conflicts  []Conflict  `json:"conflicts,omitempty"`
}

// NewProposition creates an undetermined proposition with no relation.
func NewProposition(name string) *Proposition {
	return &Proposition{
		Name:     name,
		Relation: RelationNone,
		Value:    Unknown,
		Scope:    ScopeNone,
	}
}

// Assert sets the truth value directly, as an axiom. Any provenance from an
// earlier derivation is cleared.
func (p *Proposition) Assert(v Tripartite) {
	p.Value = v
	p.Provenance = nil
}

// Derive sets the truth value as the result of an inference. If the current
// value is definite and differs from the incoming one, a Conflict is
// recorded before overwriting. Replacing UNKNOWN or re-deriving the same
// value never logs a conflict.
func (p *Proposition) Derive(v Tripartite, prov Provenance) {
	if p.Value != Unknown && p.Value != v {
		p.Conflicts = append(p.Conflicts, Conflict{
			OldValue:      p.Value,
			NewValue:      v,
			OldProvenance: p.Provenance,
			NewProvenance: prov,
			Timestamp:     time.Now(),
		})
	}
	p.Value = v
	p.Provenance = &prov
}

// HasProvenance reports whether the current value was derived by inference
// rather than asserted directly.
func (p *Proposition) HasProvenance() bool {
	return p.Provenance != nil
}

func (p *Proposition) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

func (p *Proposition) ClearConflicts() {
	p.Conflicts = nil
}

// Clone returns a deep copy, safe to hand to callers outside the knowledge
// base's lock.
func (p *Proposition) Clone() *Proposition {
	out := *p
	if p.Provenance != nil {
		prov := *p.Provenance
		prov.Premises = append([]string(nil), p.Provenance.Premises...)
		out.Provenance = &prov
	}
	if len(p.Conflicts) > 0 {
		out.Conflicts = append([]Conflict(nil), p.Conflicts...)
	}
	return &out
}
