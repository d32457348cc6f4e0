package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Harshitk-cp/logoslab/internal/domain"
	"github.com/Harshitk-cp/logoslab/internal/engine"
	"go.uber.org/zap"
)

// RelationHandler processes one parsed assumptions line. For
// "n, implies(big-bang, occurred, microwave-radiation, present)" the prefix
// is "n" and args holds the four argument strings. A handler returns an
// error when the argument shape does not fit; the line is then skipped.
type RelationHandler func(prefix string, args []string, kb *domain.KnowledgeBase) error

// assumptions lines look like: prefix, relation(arg1, arg2, ...)
var assumptionPattern = regexp.MustCompile(`^\s*([\w-]+)\s*,\s*(\w+)\s*\(([^)]*)\)\s*$`)

// Parser turns ruleset text into knowledge base entries and expressions.
// Relation types for the assumptions format are extensible through a
// handler registry; built-ins cover implies, some, not, discovered and or.
//
// Parsing is lenient: unparseable lines are logged and skipped, never
// fatal, so one bad line does not sink a whole ruleset file.
type Parser struct {
	handlers map[string]RelationHandler
	log      *zap.Logger
}

func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Parser{
		handlers: make(map[string]RelationHandler),
		log:      logger,
	}
	p.RegisterRelation("implies", handleImplies)
	p.RegisterRelation("some", handleSome)
	p.RegisterRelation("not", handleNot)
	p.RegisterRelation("discovered", handleDiscovered)
	p.RegisterRelation("or", handleOr)
	return p
}

func (p *Parser) RegisterRelation(name string, handler RelationHandler) {
	p.handlers[name] = handler
}

func (p *Parser) UnregisterRelation(name string) bool {
	if _, ok := p.handlers[name]; !ok {
		return false
	}
	delete(p.handlers, name)
	return true
}

func (p *Parser) HasRelation(name string) bool {
	_, ok := p.handlers[name]
	return ok
}

func (p *Parser) Relations() []string {
	out := make([]string, 0, len(p.handlers))
	for name := range p.handlers {
		out = append(out, name)
	}
	return out
}

// ParseAssumptions reads proposition definitions, one per line, in the form
// "prefix, relation(args...)". Lines that fail to parse or name an
// unregistered relation are logged and skipped.
func (p *Parser) ParseAssumptions(r io.Reader, kb *domain.KnowledgeBase) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		m := assumptionPattern.FindStringSubmatch(line)
		if m == nil {
			p.log.Warn("skipping malformed assumptions line",
				zap.Int("line", lineNo), zap.String("text", trimmed))
			continue
		}

		prefix, relation := m[1], m[2]
		args := splitArgs(m[3])

		handler, ok := p.handlers[relation]
		if !ok {
			p.log.Warn("unknown relation type",
				zap.Int("line", lineNo), zap.String("relation", relation))
			continue
		}
		if err := handler(prefix, args, kb); err != nil {
			p.log.Warn("relation handler rejected line",
				zap.Int("line", lineNo), zap.String("relation", relation), zap.Error(err))
		}
	}
	return scanner.Err()
}

// ParseFacts reads truth assertions and expressions, one statement per
// line: "p" asserts TRUE, "!q" asserts FALSE, "t = p && q" builds an
// expression targeting t (evaluated once immediately, then retained for
// re-evaluation during deduction), and a bare compound line asserts each
// literal by polarity while retaining the expression.
func (p *Parser) ParseFacts(r io.Reader, kb *domain.KnowledgeBase) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.parseFactsLine(scanner.Text(), kb); err != nil {
			p.log.Warn("skipping malformed facts line",
				zap.Int("line", lineNo), zap.Error(err))
		}
	}
	return scanner.Err()
}

func (p *Parser) parseFactsLine(line string, kb *domain.KnowledgeBase) error {
	tokens, err := Tokenize(line)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	// Assignment: target = expression.
	assignIdx := -1
	for i, tok := range tokens {
		if tok.Kind == TokenAssign {
			assignIdx = i
			break
		}
	}
	if assignIdx > 0 {
		target := tokens[0].Value
		rhs := tokens[assignIdx+1:]
		if len(rhs) == 0 {
			return nil
		}
		expr := buildExpression(target, rhs, kb)
		result, err := engine.Evaluate(expr)
		if err != nil {
			return err
		}
		kb.SetTruthValue(target, result)
		kb.AddExpression(expr)
		return nil
	}

	// Simple negation: !identifier.
	if len(tokens) == 2 && tokens[0].Kind == TokenNot && tokens[1].Kind == TokenIdentifier {
		kb.SetTruthValue(tokens[1].Value, domain.False)
		return nil
	}

	// Simple assertion: identifier.
	if len(tokens) == 1 && tokens[0].Kind == TokenIdentifier {
		kb.SetTruthValue(tokens[0].Value, domain.True)
		return nil
	}

	// Compound line without assignment: assert each literal by polarity,
	// and retain an expression when operators are present.
	hasOperators := false
	for i, tok := range tokens {
		switch tok.Kind {
		case TokenAnd, TokenOr, TokenImplies:
			hasOperators = true
		case TokenIdentifier:
			negated := i > 0 && tokens[i-1].Kind == TokenNot
			if negated {
				kb.SetTruthValue(tok.Value, domain.False)
			} else {
				kb.SetTruthValue(tok.Value, domain.True)
			}
		}
	}
	if hasOperators {
		kb.AddExpression(buildExpression("", tokens, kb))
	}
	return nil
}

// ParseExpression builds an expression from a source string, snapshotting
// operand values from the knowledge base. Missing names snapshot UNKNOWN.
func (p *Parser) ParseExpression(target, src string, kb *domain.KnowledgeBase) (*domain.Expression, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return buildExpression(target, tokens, kb), nil
}

func buildExpression(target string, tokens []LexToken, kb *domain.KnowledgeBase) *domain.Expression {
	expr := domain.NewExpression(target)
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenIdentifier:
			expr.AddOperand(tok.Value, kb.TruthValue(tok.Value))
		case TokenAnd:
			expr.AddOperator(domain.OpAnd)
		case TokenOr:
			expr.AddOperator(domain.OpOr)
		case TokenNot:
			expr.AddOperator(domain.OpNot)
		case TokenImplies:
			expr.AddOperator(domain.OpImplies)
		case TokenEquivalent:
			expr.AddOperator(domain.OpEquivalent)
		case TokenLParen:
			expr.Open()
		case TokenRParen:
			expr.Close()
		}
		// Comma and assign tokens are structural to other formats and are
		// skipped here.
	}
	return expr
}

func splitArgs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// handleImplies: implies(antecedent, subject, consequent, predicate). The
// entry doubles as the consequent's fact record, so it is keyed by the
// consequent name.
func handleImplies(prefix string, args []string, kb *domain.KnowledgeBase) error {
	if len(args) != 4 {
		return fmt.Errorf("implies expects 4 arguments, got %d", len(args))
	}
	prop := domain.NewProposition(args[2])
	prop.Relation = domain.RelationImplies
	prop.Antecedent = args[0]
	prop.Subject = args[1]
	prop.Consequent = args[2]
	prop.Predicate = args[3]
	prop.Scope = domain.ScopeUniversalAffirmative
	kb.Put(prop)
	return nil
}

// handleSome: some(subject, predicate) asserts an existential fact TRUE.
func handleSome(prefix string, args []string, kb *domain.KnowledgeBase) error {
	if len(args) != 2 {
		return fmt.Errorf("some expects 2 arguments, got %d", len(args))
	}
	prop := domain.NewProposition(args[0])
	prop.Subject = args[0]
	prop.Predicate = args[1]
	prop.Scope = domain.ScopeParticularAffirmative
	prop.Assert(domain.True)
	kb.Put(prop)
	return nil
}

// handleNot: not(subject) asserts a universal negative FALSE.
func handleNot(prefix string, args []string, kb *domain.KnowledgeBase) error {
	if len(args) != 1 {
		return fmt.Errorf("not expects 1 argument, got %d", len(args))
	}
	prop := domain.NewProposition(args[0])
	prop.Relation = domain.RelationNot
	prop.Subject = args[0]
	prop.Scope = domain.ScopeUniversalNegative
	prop.Assert(domain.False)
	kb.Put(prop)
	return nil
}

// handleDiscovered: discovered(subject, predicate) records a named entity
// with no committed truth value.
func handleDiscovered(prefix string, args []string, kb *domain.KnowledgeBase) error {
	if len(args) != 2 {
		return fmt.Errorf("discovered expects 2 arguments, got %d", len(args))
	}
	prop := domain.NewProposition(args[0])
	prop.Subject = args[0]
	prop.Predicate = args[1]
	kb.Put(prop)
	return nil
}

// handleOr: or(left, right) defines a disjunction keyed by its prefix, the
// shape Disjunctive Syllogism and Resolution consume.
func handleOr(prefix string, args []string, kb *domain.KnowledgeBase) error {
	if len(args) != 2 {
		return fmt.Errorf("or expects 2 arguments, got %d", len(args))
	}
	prop := domain.NewProposition(prefix)
	prop.Relation = domain.RelationOr
	prop.Antecedent = args[0]
	prop.Consequent = args[1]
	kb.Put(prop)
	return nil
}
