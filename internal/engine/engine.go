package engine

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/logoslab/internal/domain"
	"go.uber.org/zap"
)

// Inference rule names as they appear in provenance records.
const (
	RuleModusPonens           = "ModusPonens"
	RuleModusTollens          = "ModusTollens"
	RuleHypotheticalSyllogism = "HypotheticalSyllogism"
	RuleDisjunctiveSyllogism  = "DisjunctiveSyllogism"
	RuleResolution            = "Resolution"
	RuleAxiom                 = "Axiom"
)

// DefaultMaxPasses bounds a deduction run that fails to converge. A run at
// fixed point normally stops within a handful of passes; the cap only
// matters for pathological conflict-driven oscillation.
const DefaultMaxPasses = 10000

// Engine applies inference rules and expression updates to a caller-owned
// knowledge base until a fixed point is reached. It holds no mutable state
// between calls; all state lives in the knowledge base.
type Engine struct {
	log       *zap.Logger
	maxPasses int
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger, maxPasses: DefaultMaxPasses}
}

// SetMaxPasses overrides the defensive pass cap.
func (e *Engine) SetMaxPasses(n int) {
	if n > 0 {
		e.maxPasses = n
	}
}

// DeduceAll runs inference passes until a pass makes no change. Each pass
// applies, in order: Modus Ponens/Tollens over IMPLIES entries, Hypothetical
// Syllogism over implication pairs, Disjunctive Syllogism over OR entries,
// Resolution over disjunction pairs, and expression-driven scope updates.
// Missing proposition names read as UNKNOWN and are created on write; the
// only error surfaced is a malformed expression.
func (e *Engine) DeduceAll(kb *domain.KnowledgeBase) error {
	for pass := 1; ; pass++ {
		if pass > e.maxPasses {
			e.log.Warn("deduction stopped before fixed point",
				zap.Int("max_passes", e.maxPasses))
			return nil
		}

		changed, err := e.runPass(kb)
		if err != nil {
			return err
		}
		if !changed {
			e.log.Debug("fixed point reached",
				zap.Int("passes", pass),
				zap.Int("propositions", kb.Len()))
			return nil
		}
	}
}

func (e *Engine) runPass(kb *domain.KnowledgeBase) (bool, error) {
	changed := false

	implications := propsWithRelation(kb, domain.RelationImplies)
	disjunctions := propsWithRelation(kb, domain.RelationOr)

	// Modus Ponens / Modus Tollens.
	for _, imp := range implications {
		if e.applyModusPonens(kb, imp) {
			changed = true
		}
		if e.applyModusTollens(kb, imp) {
			changed = true
		}
	}

	// Hypothetical Syllogism over every ordered pair sharing a middle term.
	for i, first := range implications {
		for j, second := range implications {
			if i == j {
				continue
			}
			if e.applyHypotheticalSyllogism(kb, first, second) {
				changed = true
			}
		}
	}

	// Disjunctive Syllogism.
	for _, disj := range disjunctions {
		if e.applyDisjunctiveSyllogism(kb, disj) {
			changed = true
		}
	}

	// Resolution over every unordered pair of disjunctions.
	for i := 0; i < len(disjunctions); i++ {
		for j := i + 1; j < len(disjunctions); j++ {
			if e.applyResolution(kb, disjunctions[i], disjunctions[j]) {
				changed = true
			}
		}
	}

	// Expression-driven updates.
	exprChanged, err := e.applyExpressions(kb)
	if err != nil {
		return false, err
	}
	if exprChanged {
		changed = true
	}

	return changed, nil
}

// propsWithRelation snapshots matching entries so that rules creating new
// propositions mid-pass do not disturb iteration; new entries are picked up
// on the next pass.
func propsWithRelation(kb *domain.KnowledgeBase, rel domain.Relation) []*domain.Proposition {
	var out []*domain.Proposition
	for _, p := range kb.Propositions() {
		if p.Relation == rel {
			out = append(out, p)
		}
	}
	return out
}

// applyModusPonens: P -> Q, P is TRUE |- Q is TRUE.
func (e *Engine) applyModusPonens(kb *domain.KnowledgeBase, imp *domain.Proposition) bool {
	if kb.TruthValue(imp.Antecedent) != domain.True || kb.TruthValue(imp.Consequent) == domain.True {
		return false
	}
	prov := domain.NewProvenance(RuleModusPonens, imp.Antecedent, imp.Name)
	kb.Ensure(imp.Consequent).Derive(domain.True, prov)
	e.logDerivation(imp.Consequent, domain.True, prov)
	return true
}

// applyModusTollens: P -> Q, Q is FALSE |- P is FALSE.
func (e *Engine) applyModusTollens(kb *domain.KnowledgeBase, imp *domain.Proposition) bool {
	if kb.TruthValue(imp.Consequent) != domain.False || kb.TruthValue(imp.Antecedent) == domain.False {
		return false
	}
	prov := domain.NewProvenance(RuleModusTollens, imp.Consequent, imp.Name)
	kb.Ensure(imp.Antecedent).Derive(domain.False, prov)
	e.logDerivation(imp.Antecedent, domain.False, prov)
	return true
}

// applyHypotheticalSyllogism chains P -> Q, Q -> R: truth of P propagates
// forward to R, falsity of R propagates backward to P.
func (e *Engine) applyHypotheticalSyllogism(kb *domain.KnowledgeBase, first, second *domain.Proposition) bool {
	if first.Consequent != second.Antecedent {
		return false
	}

	p := first.Antecedent
	r := second.Consequent
	changed := false

	if kb.TruthValue(p) == domain.True && kb.TruthValue(r) != domain.True {
		prov := domain.NewProvenance(RuleHypotheticalSyllogism, p, first.Name, second.Name)
		kb.Ensure(r).Derive(domain.True, prov)
		e.logDerivation(r, domain.True, prov)
		changed = true
	}

	if kb.TruthValue(r) == domain.False && kb.TruthValue(p) != domain.False {
		prov := domain.NewProvenance(RuleHypotheticalSyllogism, r, second.Name, first.Name)
		kb.Ensure(p).Derive(domain.False, prov)
		e.logDerivation(p, domain.False, prov)
		changed = true
	}

	return changed
}

// applyDisjunctiveSyllogism: P or Q with one disjunct FALSE forces the
// other TRUE.
func (e *Engine) applyDisjunctiveSyllogism(kb *domain.KnowledgeBase, disj *domain.Proposition) bool {
	left := disj.Antecedent
	right := disj.Consequent
	changed := false

	if kb.TruthValue(left) == domain.False && kb.TruthValue(right) != domain.True {
		prov := domain.NewProvenance(RuleDisjunctiveSyllogism, left, disj.Name)
		kb.Ensure(right).Derive(domain.True, prov)
		e.logDerivation(right, domain.True, prov)
		changed = true
	}

	if kb.TruthValue(right) == domain.False && kb.TruthValue(left) != domain.True {
		prov := domain.NewProvenance(RuleDisjunctiveSyllogism, right, disj.Name)
		kb.Ensure(left).Derive(domain.True, prov)
		e.logDerivation(left, domain.True, prov)
		changed = true
	}

	return changed
}

// applyResolution tests all four literal pairings of two disjunctions for a
// complementary pair; complementarity is a naming convention (same base name
// under a leading ~ or !, opposite polarity), not derived from truth values.
func (e *Engine) applyResolution(kb *domain.KnowledgeBase, d1, d2 *domain.Proposition) bool {
	changed := false

	try := func(lit1, other1, lit2, other2 string) {
		if baseName(lit1) != baseName(lit2) || negatedName(lit1) == negatedName(lit2) {
			return
		}
		if kb.TruthValue(other1) == domain.False && kb.TruthValue(other2) != domain.True {
			prov := domain.NewProvenance(RuleResolution, d1.Name, d2.Name, other1)
			kb.Ensure(other2).Derive(domain.True, prov)
			e.logDerivation(other2, domain.True, prov)
			changed = true
		}
		if kb.TruthValue(other2) == domain.False && kb.TruthValue(other1) != domain.True {
			prov := domain.NewProvenance(RuleResolution, d1.Name, d2.Name, other2)
			kb.Ensure(other1).Derive(domain.True, prov)
			e.logDerivation(other1, domain.True, prov)
			changed = true
		}
	}

	try(d1.Antecedent, d1.Consequent, d2.Antecedent, d2.Consequent)
	try(d1.Antecedent, d1.Consequent, d2.Consequent, d2.Antecedent)
	try(d1.Consequent, d1.Antecedent, d2.Antecedent, d2.Consequent)
	try(d1.Consequent, d1.Antecedent, d2.Consequent, d2.Antecedent)

	return changed
}

// applyExpressions evaluates every retained expression and updates its
// target according to the target's quantifier scope. Updates are direct
// assertions; a pass counts as changed only when a stored value actually
// changes, which is what lets deduction terminate.
func (e *Engine) applyExpressions(kb *domain.KnowledgeBase) (bool, error) {
	changed := false

	for _, expr := range kb.Expressions() {
		result, err := Evaluate(expr)
		if err != nil {
			return false, fmt.Errorf("expression for %q: %w", expr.Target, err)
		}

		target, ok := kb.Get(expr.Target)
		if !ok {
			continue
		}

		old := target.Value
		switch target.Scope {
		case domain.ScopeUniversalAffirmative:
			if result == domain.True && old != result {
				target.Assert(domain.True)
			}
		case domain.ScopeUniversalNegative:
			if result == domain.False && old != result {
				target.Assert(domain.False)
			}
		case domain.ScopeParticularAffirmative:
			if result == domain.True {
				target.Assert(domain.True)
			}
		case domain.ScopeParticularNegative:
			if result == domain.False && old != domain.True {
				target.Assert(domain.False)
			}
		}

		if target.Value != old {
			e.log.Debug("expression update",
				zap.String("target", target.Name),
				zap.Stringer("value", target.Value),
				zap.String("scope", string(target.Scope)))
			changed = true
		}
	}

	return changed, nil
}

func (e *Engine) logDerivation(name string, v domain.Tripartite, prov domain.Provenance) {
	e.log.Debug("derived",
		zap.String("name", name),
		zap.Stringer("value", v),
		zap.String("rule", prov.Rule),
		zap.Strings("premises", prov.Premises))
}

// negatedName reports whether a literal name carries a negation prefix.
func negatedName(name string) bool {
	return strings.HasPrefix(name, "~") || strings.HasPrefix(name, "!")
}

// baseName strips a single leading negation prefix.
func baseName(name string) string {
	if negatedName(name) {
		return name[1:]
	}
	return name
}
