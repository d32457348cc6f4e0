package engine

import (
	"errors"
	"fmt"

	"github.com/Harshitk-cp/logoslab/internal/domain"
)

// Evaluation errors signal a malformed token stream. They indicate a
// construction bug in the expression builder and are surfaced to the caller
// rather than recovered.
var (
	ErrInsufficientOperands = errors.New("insufficient operands")
	ErrUnbalancedExpression = errors.New("unbalanced expression")
)

// opEntry is one slot on the evaluator's operator stack; paren entries act
// as barriers that precedence popping never crosses.
type opEntry struct {
	op    domain.Operator
	paren bool
}

// Evaluate reduces an expression's token stream to a single Tripartite
// value using a parenthesis- and unary-aware Shunting-Yard pass. It is pure
// over the expression's snapshotted operand values: repeated calls on the
// same unmutated expression return the same result.
//
// An empty stream evaluates to UNKNOWN. A malformed stream returns an error
// wrapping ErrInsufficientOperands or ErrUnbalancedExpression.
func Evaluate(expr *domain.Expression) (domain.Tripartite, error) {
	if expr == nil || expr.Empty() {
		return domain.Unknown, nil
	}

	var vals []domain.Tripartite
	var ops []opEntry

	applyTop := func() error {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.op.Unary() {
			if len(vals) < 1 {
				return fmt.Errorf("evaluate %q: %w", expr.Target, ErrInsufficientOperands)
			}
			vals[len(vals)-1] = vals[len(vals)-1].Not()
			return nil
		}
		if len(vals) < 2 {
			return fmt.Errorf("evaluate %q: %w", expr.Target, ErrInsufficientOperands)
		}
		right := vals[len(vals)-1]
		left := vals[len(vals)-2]
		vals = vals[:len(vals)-2]
		result, err := applyBinary(left, right, top.op)
		if err != nil {
			return fmt.Errorf("evaluate %q: %w", expr.Target, err)
		}
		vals = append(vals, result)
		return nil
	}

	// collapseUnary applies NOT operators waiting on the stack to the value
	// just completed. NOT NOT A negates twice before any binary operator
	// sees the result.
	collapseUnary := func() error {
		for len(ops) > 0 && !ops[len(ops)-1].paren && ops[len(ops)-1].op.Unary() {
			if err := applyTop(); err != nil {
				return err
			}
		}
		return nil
	}

	for _, tok := range expr.Tokens {
		switch t := tok.(type) {
		case domain.Operand:
			vals = append(vals, t.Value)
			if err := collapseUnary(); err != nil {
				return domain.Unknown, err
			}

		case domain.OpenParen:
			ops = append(ops, opEntry{paren: true})

		case domain.CloseParen:
			for len(ops) > 0 && !ops[len(ops)-1].paren {
				if err := applyTop(); err != nil {
					return domain.Unknown, err
				}
			}
			if len(ops) == 0 {
				return domain.Unknown, fmt.Errorf("evaluate %q: %w", expr.Target, ErrUnbalancedExpression)
			}
			ops = ops[:len(ops)-1] // discard the barrier
			// The group is now a single completed operand; apply any NOTs
			// that preceded it.
			if err := collapseUnary(); err != nil {
				return domain.Unknown, err
			}

		case domain.OperatorToken:
			if t.Op.Unary() {
				ops = append(ops, opEntry{op: t.Op})
				continue
			}
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.paren || top.op.Unary() || top.op.Precedence() < t.Op.Precedence() {
					break
				}
				if err := applyTop(); err != nil {
					return domain.Unknown, err
				}
			}
			ops = append(ops, opEntry{op: t.Op})
		}
	}

	for len(ops) > 0 {
		if ops[len(ops)-1].paren {
			return domain.Unknown, fmt.Errorf("evaluate %q: %w", expr.Target, ErrUnbalancedExpression)
		}
		if err := applyTop(); err != nil {
			return domain.Unknown, err
		}
	}

	if len(vals) != 1 {
		return domain.Unknown, fmt.Errorf("evaluate %q: %w", expr.Target, ErrUnbalancedExpression)
	}
	return vals[0], nil
}

func applyBinary(left, right domain.Tripartite, op domain.Operator) (domain.Tripartite, error) {
	switch op {
	case domain.OpAnd:
		return left.And(right), nil
	case domain.OpOr:
		return left.Or(right), nil
	case domain.OpImplies:
		return left.Implies(right), nil
	case domain.OpEquivalent:
		return left.Equivalent(right), nil
	default:
		return domain.Unknown, fmt.Errorf("operator %q: %w", op, ErrUnbalancedExpression)
	}
}
