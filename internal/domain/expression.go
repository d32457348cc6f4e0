package domain

// Operator is a logical connective appearing in an expression token stream.
type Operator string

const (
	OpAnd        Operator = "and"
	OpOr         Operator = "or"
	OpNot        Operator = "not"
	OpImplies    Operator = "implies"
	OpEquivalent Operator = "equivalent"
)

// Unary reports whether the operator takes a single operand. NOT is the
// only unary connective; it binds tighter than any binary operator and is
// right-associative.
func (o Operator) Unary() bool {
	return o == OpNot
}

// Precedence orders binary operators for evaluation. Higher binds tighter.
func (o Operator) Precedence() int {
	switch o {
	case OpNot:
		return 3
	case OpAnd:
		return 2
	case OpOr:
		return 1
	default: // implies, equivalent
		return 0
	}
}

func ValidOperator(o string) bool {
	switch Operator(o) {
	case OpAnd, OpOr, OpNot, OpImplies, OpEquivalent:
		return true
	}
	return false
}

// Token is one element of an expression stream: an operand carrying a
// snapshotted truth value, an operator, or a parenthesis. The set is closed;
// evaluation matches exhaustively on the concrete types.
type Token interface {
	token()
}

// Operand holds a proposition's truth value as copied at token-build time.
// It is deliberately not re-read later: an expression is a value as of its
// construction, and re-evaluating after the source proposition changes
// yields the original snapshot.
type Operand struct {
	Name  string
	Value Tripartite
}

// OperatorToken applies a logical connective.
type OperatorToken struct {
	Op Operator
}

// OpenParen begins a grouped sub-expression.
type OpenParen struct{}

// CloseParen ends a grouped sub-expression.
type CloseParen struct{}

func (Operand) token()       {}
func (OperatorToken) token() {}
func (OpenParen) token()     {}
func (CloseParen) token()    {}

// Expression is an ordered token stream plus the name of the proposition
// that should receive the evaluated result.
type Expression struct {
	Target string
	Tokens []Token
}

func NewExpression(target string) *Expression {
	return &Expression{Target: target}
}

// NewBinaryExpression builds the common left-op-right shape, snapshotting
// both operands.
func NewBinaryExpression(target string, left, right *Proposition, op Operator) *Expression {
	e := NewExpression(target)
	e.AddProposition(left)
	e.AddOperator(op)
	e.AddProposition(right)
	return e
}

// AddOperand appends an operand token with an explicit value snapshot.
func (e *Expression) AddOperand(name string, v Tripartite) {
	e.Tokens = append(e.Tokens, Operand{Name: name, Value: v})
}

// AddProposition appends an operand token snapshotting the proposition's
// current truth value.
func (e *Expression) AddProposition(p *Proposition) {
	e.AddOperand(p.Name, p.Value)
}

func (e *Expression) AddOperator(op Operator) {
	e.Tokens = append(e.Tokens, OperatorToken{Op: op})
}

func (e *Expression) Open() {
	e.Tokens = append(e.Tokens, OpenParen{})
}

func (e *Expression) Close() {
	e.Tokens = append(e.Tokens, CloseParen{})
}

// Empty reports whether the expression has no tokens. An empty expression
// evaluates to UNKNOWN rather than erroring.
func (e *Expression) Empty() bool {
	return len(e.Tokens) == 0
}
