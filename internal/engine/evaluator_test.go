package engine

import (
	"errors"
	"testing"

	"github.com/Harshitk-cp/logoslab/internal/domain"
)

func TestEvaluateEmpty(t *testing.T) {
	got, err := Evaluate(domain.NewExpression("t"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.Unknown {
		t.Errorf("empty expression = %v, want unknown", got)
	}

	got, err = Evaluate(nil)
	if err != nil || got != domain.Unknown {
		t.Errorf("nil expression = %v, %v", got, err)
	}
}

func TestEvaluateSingleOperand(t *testing.T) {
	e := domain.NewExpression("t")
	e.AddOperand("p", domain.True)
	got, err := Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.True {
		t.Errorf("got %v, want true", got)
	}
}

func TestEvaluateBinary(t *testing.T) {
	tests := []struct {
		name  string
		left  domain.Tripartite
		op    domain.Operator
		right domain.Tripartite
		want  domain.Tripartite
	}{
		{"true and unknown", domain.True, domain.OpAnd, domain.Unknown, domain.Unknown},
		{"false and unknown", domain.False, domain.OpAnd, domain.Unknown, domain.False},
		{"unknown or true", domain.Unknown, domain.OpOr, domain.True, domain.True},
		{"false implies unknown", domain.False, domain.OpImplies, domain.Unknown, domain.True},
		{"unknown iff unknown", domain.Unknown, domain.OpEquivalent, domain.Unknown, domain.False},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := domain.NewExpression("t")
			e.AddOperand("a", tt.left)
			e.AddOperator(tt.op)
			e.AddOperand("b", tt.right)

			got, err := Evaluate(e)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluatePrecedence(t *testing.T) {
	// a || b && c groups as a || (b && c).
	e := domain.NewExpression("t")
	e.AddOperand("a", domain.True)
	e.AddOperator(domain.OpOr)
	e.AddOperand("b", domain.False)
	e.AddOperator(domain.OpAnd)
	e.AddOperand("c", domain.False)

	got, err := Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.True {
		t.Errorf("a || b && c with a=true = %v, want true", got)
	}

	// a && b -> c groups as (a && b) -> c; with a=false the antecedent is
	// false and the implication holds.
	e = domain.NewExpression("t")
	e.AddOperand("a", domain.False)
	e.AddOperator(domain.OpAnd)
	e.AddOperand("b", domain.True)
	e.AddOperator(domain.OpImplies)
	e.AddOperand("c", domain.False)

	got, err = Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.True {
		t.Errorf("a && b -> c with a=false = %v, want true", got)
	}
}

func TestEvaluateLeftAssociativity(t *testing.T) {
	// a -> b == c at equal precedence groups left: (a -> b) == c. With
	// a=unknown, b=true, c=unknown that is (unknown -> true) == unknown =
	// true == unknown = false; right association would give unknown ->
	// (true == unknown) = unknown -> false = unknown.
	e := domain.NewExpression("t")
	e.AddOperand("a", domain.Unknown)
	e.AddOperator(domain.OpImplies)
	e.AddOperand("b", domain.True)
	e.AddOperator(domain.OpEquivalent)
	e.AddOperand("c", domain.Unknown)

	got, err := Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.False {
		t.Errorf("(a -> b) == c = %v, want false", got)
	}
}

func TestEvaluateParentheses(t *testing.T) {
	// (a || b) && c overrides the default grouping.
	e := domain.NewExpression("t")
	e.Open()
	e.AddOperand("a", domain.True)
	e.AddOperator(domain.OpOr)
	e.AddOperand("b", domain.False)
	e.Close()
	e.AddOperator(domain.OpAnd)
	e.AddOperand("c", domain.False)

	got, err := Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.False {
		t.Errorf("(a || b) && c = %v, want false", got)
	}
}

func TestEvaluateNot(t *testing.T) {
	t.Run("not binds tighter than and", func(t *testing.T) {
		// !a && b with a=false, b=true is (!a) && b = true.
		e := domain.NewExpression("t")
		e.AddOperator(domain.OpNot)
		e.AddOperand("a", domain.False)
		e.AddOperator(domain.OpAnd)
		e.AddOperand("b", domain.True)

		got, err := Evaluate(e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != domain.True {
			t.Errorf("!a && b = %v, want true", got)
		}
	})

	t.Run("double negation", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.AddOperator(domain.OpNot)
		e.AddOperator(domain.OpNot)
		e.AddOperand("a", domain.True)

		got, err := Evaluate(e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != domain.True {
			t.Errorf("!!a = %v, want true", got)
		}
	})

	t.Run("not over a group", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.AddOperator(domain.OpNot)
		e.Open()
		e.AddOperand("a", domain.True)
		e.AddOperator(domain.OpAnd)
		e.AddOperand("b", domain.True)
		e.Close()

		got, err := Evaluate(e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != domain.False {
			t.Errorf("!(a && b) = %v, want false", got)
		}
	})

	t.Run("not unknown stays unknown", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.AddOperator(domain.OpNot)
		e.AddOperand("a", domain.Unknown)

		got, err := Evaluate(e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != domain.Unknown {
			t.Errorf("!unknown = %v, want unknown", got)
		}
	})
}

func TestEvaluateMalformed(t *testing.T) {
	t.Run("operator without operands", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.AddOperator(domain.OpAnd)

		_, err := Evaluate(e)
		if !errors.Is(err, ErrInsufficientOperands) {
			t.Errorf("error = %v, want ErrInsufficientOperands", err)
		}
	})

	t.Run("binary operator with one operand", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.AddOperand("a", domain.True)
		e.AddOperator(domain.OpAnd)

		_, err := Evaluate(e)
		if !errors.Is(err, ErrInsufficientOperands) {
			t.Errorf("error = %v, want ErrInsufficientOperands", err)
		}
	})

	t.Run("two operands without operator", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.AddOperand("a", domain.True)
		e.AddOperand("b", domain.False)

		_, err := Evaluate(e)
		if !errors.Is(err, ErrUnbalancedExpression) {
			t.Errorf("error = %v, want ErrUnbalancedExpression", err)
		}
	})

	t.Run("unclosed paren", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.Open()
		e.AddOperand("a", domain.True)

		_, err := Evaluate(e)
		if !errors.Is(err, ErrUnbalancedExpression) {
			t.Errorf("error = %v, want ErrUnbalancedExpression", err)
		}
	})

	t.Run("stray close paren", func(t *testing.T) {
		e := domain.NewExpression("t")
		e.AddOperand("a", domain.True)
		e.Close()

		_, err := Evaluate(e)
		if !errors.Is(err, ErrUnbalancedExpression) {
			t.Errorf("error = %v, want ErrUnbalancedExpression", err)
		}
	})
}

func TestEvaluateSnapshotIsStale(t *testing.T) {
	p := domain.NewProposition("p")
	p.Assert(domain.True)

	e := domain.NewExpression("t")
	e.AddProposition(p)

	// Changing the proposition after the snapshot does not change the
	// expression's result.
	p.Assert(domain.False)

	got, err := Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.True {
		t.Errorf("got %v, want the snapshotted true", got)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	e := domain.NewExpression("t")
	e.AddOperator(domain.OpNot)
	e.AddOperand("a", domain.True)
	e.AddOperator(domain.OpOr)
	e.AddOperand("b", domain.Unknown)

	first, err := Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Evaluate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("repeated evaluation differs: %v then %v", first, second)
	}
}
