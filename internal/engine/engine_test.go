package engine

import (
	"testing"

	"github.com/Harshitk-cp/logoslab/internal/domain"
)

func implication(name, antecedent, consequent string) *domain.Proposition {
	p := domain.NewProposition(name)
	p.Relation = domain.RelationImplies
	p.Antecedent = antecedent
	p.Consequent = consequent
	return p
}

func disjunction(name, left, right string) *domain.Proposition {
	p := domain.NewProposition(name)
	p.Relation = domain.RelationOr
	p.Antecedent = left
	p.Consequent = right
	return p
}

func TestModusPonens(t *testing.T) {
	kb := domain.NewKnowledgeBase()
	kb.Put(implication("r1", "rain", "wet"))
	kb.SetTruthValue("rain", domain.True)

	if err := NewEngine(nil).DeduceAll(kb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wet, ok := kb.Get("wet")
	if !ok {
		t.Fatal("consequent should be auto-created")
	}
	if wet.Value != domain.True {
		t.Errorf("wet = %v, want true", wet.Value)
	}
	if !wet.HasProvenance() || wet.Provenance.Rule != RuleModusPonens {
		t.Errorf("provenance = %+v, want ModusPonens", wet.Provenance)
	}
	if len(wet.Provenance.Premises) != 2 || wet.Provenance.Premises[0] != "rain" || wet.Provenance.Premises[1] != "r1" {
		t.Errorf("premises = %v", wet.Provenance.Premises)
	}
}

func TestModusPonensNeedsTrueAntecedent(t *testing.T) {
	for _, v := range []domain.Tripartite{domain.False, domain.Unknown} {
		kb := domain.NewKnowledgeBase()
		kb.Put(implication("r1", "p", "q"))
		kb.SetTruthValue("p", v)

		if err := NewEngine(nil).DeduceAll(kb); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := kb.TruthValue("q"); got != domain.Unknown {
			t.Errorf("antecedent %v: q = %v, want unknown", v, got)
		}
	}
}

func TestModusTollens(t *testing.T) {
	kb := domain.NewKnowledgeBase()
	kb.Put(implication("r1", "fire", "smoke"))
	kb.SetTruthValue("smoke", domain.False)

	if err := NewEngine(nil).DeduceAll(kb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fire, ok := kb.Get("fire")
	if !ok {
		t.Fatal("antecedent should be auto-created")
	}
	if fire.Value != domain.False {
		t.Errorf("fire = %v, want false", fire.Value)
	}
	if fire.Provenance.Rule != RuleModusTollens {
		t.Errorf("rule = %q, want ModusTollens", fire.Provenance.Rule)
	}
}

func TestHypotheticalSyllogism(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		kb := domain.NewKnowledgeBase()
		kb.Put(implication("r1", "p", "q"))
		kb.Put(implication("r2", "q", "r"))
		kb.SetTruthValue("p", domain.True)

		if err := NewEngine(nil).DeduceAll(kb); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := kb.TruthValue("r"); got != domain.True {
			t.Errorf("r = %v, want true", got)
		}
		if got := kb.TruthValue("q"); got != domain.True {
			t.Errorf("q = %v, want true (modus ponens on the same chain)", got)
		}
	})

	t.Run("backward", func(t *testing.T) {
		kb := domain.NewKnowledgeBase()
		kb.Put(implication("r1", "p", "q"))
		kb.Put(implication("r2", "q", "r"))
		kb.SetTruthValue("r", domain.False)

		if err := NewEngine(nil).DeduceAll(kb); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := kb.TruthValue("p"); got != domain.False {
			t.Errorf("p = %v, want false", got)
		}
	})

	t.Run("no shared middle term", func(t *testing.T) {
		kb := domain.NewKnowledgeBase()
		kb.Put(implication("r1", "p", "q"))
		kb.Put(implication("r2", "x", "r"))
		kb.SetTruthValue("p", domain.True)

		if err := NewEngine(nil).DeduceAll(kb); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := kb.TruthValue("r"); got != domain.Unknown {
			t.Errorf("r = %v, want unknown", got)
		}
	})
}

func TestDisjunctiveSyllogism(t *testing.T) {
	tests := []struct {
		name       string
		falsify    string
		wantTarget string
	}{
		{"left disjunct false", "a", "b"},
		{"right disjunct false", "b", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := domain.NewKnowledgeBase()
			kb.Put(disjunction("d1", "a", "b"))
			kb.SetTruthValue(tt.falsify, domain.False)

			if err := NewEngine(nil).DeduceAll(kb); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			target, ok := kb.Get(tt.wantTarget)
			if !ok || target.Value != domain.True {
				t.Fatalf("%s should be derived true", tt.wantTarget)
			}
			if target.Provenance.Rule != RuleDisjunctiveSyllogism {
				t.Errorf("rule = %q, want DisjunctiveSyllogism", target.Provenance.Rule)
			}
		})
	}
}

func TestResolution(t *testing.T) {
	// From (a || c) and (~a || d), falsity of c forces d.
	kb := domain.NewKnowledgeBase()
	kb.Put(disjunction("d1", "a", "c"))
	kb.Put(disjunction("d2", "~a", "d"))
	kb.SetTruthValue("c", domain.False)

	if err := NewEngine(nil).DeduceAll(kb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, ok := kb.Get("d")
	if !ok || d.Value != domain.True {
		t.Fatal("d should be derived true by resolution")
	}
	if d.Provenance.Rule != RuleResolution {
		t.Errorf("rule = %q, want Resolution", d.Provenance.Rule)
	}
}

func TestResolutionRequiresComplementaryPair(t *testing.T) {
	t.Run("same polarity", func(t *testing.T) {
		kb := domain.NewKnowledgeBase()
		kb.Put(disjunction("d1", "a", "c"))
		kb.Put(disjunction("d2", "a", "d"))
		kb.SetTruthValue("c", domain.False)

		if err := NewEngine(nil).DeduceAll(kb); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := kb.TruthValue("d"); got != domain.Unknown {
			t.Errorf("d = %v, want unknown (no complementary literals)", got)
		}
	})

	t.Run("different base names", func(t *testing.T) {
		kb := domain.NewKnowledgeBase()
		kb.Put(disjunction("d1", "a", "c"))
		kb.Put(disjunction("d2", "~b", "d"))
		kb.SetTruthValue("c", domain.False)

		if err := NewEngine(nil).DeduceAll(kb); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := kb.TruthValue("d"); got != domain.Unknown {
			t.Errorf("d = %v, want unknown", got)
		}
	})
}

func TestNegationPrefixConvention(t *testing.T) {
	tests := []struct {
		name    string
		negated bool
		base    string
	}{
		{"~p", true, "p"},
		{"!p", true, "p"},
		{"p", false, "p"},
		{"~~p", true, "~p"},
	}

	for _, tt := range tests {
		if got := negatedName(tt.name); got != tt.negated {
			t.Errorf("negatedName(%q) = %v", tt.name, got)
		}
		if got := baseName(tt.name); got != tt.base {
			t.Errorf("baseName(%q) = %q, want %q", tt.name, got, tt.base)
		}
	}
}

func TestConflictOnContradictoryDerivation(t *testing.T) {
	kb := domain.NewKnowledgeBase()
	kb.Put(implication("r1", "p", "q"))
	kb.SetTruthValue("p", domain.True)
	kb.SetTruthValue("q", domain.False)

	if err := NewEngine(nil).DeduceAll(kb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, _ := kb.Get("q")
	if !q.HasConflicts() {
		t.Fatal("overwriting a definite value should log a conflict")
	}
	c := q.Conflicts[0]
	if c.OldValue != domain.False || c.NewValue != domain.True {
		t.Errorf("conflict = %v -> %v", c.OldValue, c.NewValue)
	}
}

func TestExpressionScopeUpdates(t *testing.T) {
	tests := []struct {
		name    string
		scope   domain.Quantifier
		operand domain.Tripartite
		initial domain.Tripartite
		want    domain.Tripartite
	}{
		{"universal affirmative applies true", domain.ScopeUniversalAffirmative, domain.True, domain.Unknown, domain.True},
		{"universal affirmative ignores false", domain.ScopeUniversalAffirmative, domain.False, domain.Unknown, domain.Unknown},
		{"universal negative applies false", domain.ScopeUniversalNegative, domain.False, domain.Unknown, domain.False},
		{"universal negative ignores true", domain.ScopeUniversalNegative, domain.True, domain.Unknown, domain.Unknown},
		{"particular affirmative applies true", domain.ScopeParticularAffirmative, domain.True, domain.Unknown, domain.True},
		{"particular negative applies false", domain.ScopeParticularNegative, domain.False, domain.Unknown, domain.False},
		{"particular negative keeps established true", domain.ScopeParticularNegative, domain.False, domain.True, domain.True},
		{"no scope ignores result", domain.ScopeNone, domain.True, domain.Unknown, domain.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := domain.NewKnowledgeBase()
			target := domain.NewProposition("t")
			target.Scope = tt.scope
			target.Assert(tt.initial)
			kb.Put(target)

			expr := domain.NewExpression("t")
			expr.AddOperand("src", tt.operand)
			kb.AddExpression(expr)

			if err := NewEngine(nil).DeduceAll(kb); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := kb.TruthValue("t"); got != tt.want {
				t.Errorf("t = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionMissingTargetSkipped(t *testing.T) {
	kb := domain.NewKnowledgeBase()
	expr := domain.NewExpression("ghost")
	expr.AddOperand("src", domain.True)
	kb.AddExpression(expr)

	if err := NewEngine(nil).DeduceAll(kb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := kb.Get("ghost"); ok {
		t.Error("expression updates should not create their target")
	}
}

func TestMalformedExpressionSurfacesError(t *testing.T) {
	kb := domain.NewKnowledgeBase()
	kb.Ensure("t")
	expr := domain.NewExpression("t")
	expr.AddOperator(domain.OpAnd)
	kb.AddExpression(expr)

	if err := NewEngine(nil).DeduceAll(kb); err == nil {
		t.Fatal("expected an evaluation error")
	}
}

func TestDeduceAllReachesFixedPoint(t *testing.T) {
	// A retained expression whose result matches the target's value must not
	// keep the run alive.
	kb := domain.NewKnowledgeBase()
	target := domain.NewProposition("t")
	target.Scope = domain.ScopeParticularAffirmative
	kb.Put(target)

	expr := domain.NewExpression("t")
	expr.AddOperand("src", domain.True)
	kb.AddExpression(expr)

	e := NewEngine(nil)
	e.SetMaxPasses(50)
	if err := e.DeduceAll(kb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := kb.TruthValue("t"); got != domain.True {
		t.Errorf("t = %v, want true", got)
	}
}

func TestDeduceAllStopsAtMaxPasses(t *testing.T) {
	// Modus Tollens pulls t false every pass (t -> f with f false) while a
	// particular-affirmative expression re-asserts it true. The run never
	// converges; only the pass cap ends it.
	kb := domain.NewKnowledgeBase()
	kb.Put(implication("r1", "t", "f"))
	kb.SetTruthValue("f", domain.False)

	target := kb.Ensure("t")
	target.Scope = domain.ScopeParticularAffirmative

	expr := domain.NewExpression("t")
	expr.AddOperand("src", domain.True)
	kb.AddExpression(expr)

	e := NewEngine(nil)
	e.SetMaxPasses(10)
	if err := e.DeduceAll(kb); err != nil {
		t.Fatalf("a capped run should not error: %v", err)
	}

	tp, _ := kb.Get("t")
	if !tp.HasConflicts() {
		t.Error("oscillating derivations should log conflicts")
	}
}

func TestSocratesChain(t *testing.T) {
	// All men are mortal; Socrates is a man; hence Socrates is mortal.
	kb := domain.NewKnowledgeBase()
	kb.Put(implication("r1", "socrates-is-man", "socrates-is-mortal"))
	kb.SetTruthValue("socrates-is-man", domain.True)

	if err := NewEngine(nil).DeduceAll(kb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := kb.TruthValue("socrates-is-mortal"); got != domain.True {
		t.Errorf("socrates-is-mortal = %v, want true", got)
	}
}
