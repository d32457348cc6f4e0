package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/Harshitk-cp/logoslab/internal/domain"
	"github.com/Harshitk-cp/logoslab/internal/engine"
	"github.com/Harshitk-cp/logoslab/internal/parser"
	"go.uber.org/zap"
)

var (
	ErrPropositionNameMissing = errors.New("name is required")
	ErrPropositionNotFound    = errors.New("proposition not found")
	ErrInvalidTruthValue      = errors.New("invalid truth value")
	ErrInvalidRelation        = errors.New("invalid relation")
	ErrInvalidScope           = errors.New("invalid scope")
	ErrRelationArgsMissing    = errors.New("relation requires antecedent and consequent")
	ErrExpressionTargetEmpty  = errors.New("expression target is required")
	ErrExpressionEmpty        = errors.New("expression is required")
)

// PropositionInput carries the caller-facing fields for creating or
// replacing a proposition. String fields are validated against the domain
// enums; empty relation/scope/value default to none/none/unknown.
type PropositionInput struct {
	Name       string
	Value      string
	Relation   string
	Antecedent string
	Subject    string
	Consequent string
	Predicate  string
	Scope      string
}

// DeduceResult summarizes one deduction run.
type DeduceResult struct {
	Changed      int `json:"changed"`
	Conflicts    int `json:"conflicts"`
	Propositions int `json:"propositions"`
	Expressions  int `json:"expressions"`
}

// Stats reports the knowledge base's current shape.
type Stats struct {
	Propositions int `json:"propositions"`
	Known        int `json:"known"`
	Conflicted   int `json:"conflicted"`
	Expressions  int `json:"expressions"`
}

// ReasonService owns the knowledge base and serializes all access to it.
// The engine and evaluator themselves are single-threaded with no internal
// locking, so every operation here runs under the service mutex.
type ReasonService struct {
	mu     sync.Mutex
	kb     *domain.KnowledgeBase
	engine *engine.Engine
	parser *parser.Parser
	logger *zap.Logger
}

func NewReasonService(logger *zap.Logger) *ReasonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReasonService{
		kb:     domain.NewKnowledgeBase(),
		engine: engine.NewEngine(logger),
		parser: parser.NewParser(logger),
		logger: logger,
	}
}

// SetMaxPasses forwards the defensive pass cap to the engine.
func (s *ReasonService) SetMaxPasses(n int) {
	s.engine.SetMaxPasses(n)
}

// Upsert validates the input and stores a proposition under its name,
// replacing any existing entry. A value set here is a direct assertion.
func (s *ReasonService) Upsert(in PropositionInput) (*domain.Proposition, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrPropositionNameMissing
	}
	value, err := domain.ParseTripartite(in.Value)
	if err != nil {
		return nil, ErrInvalidTruthValue
	}
	if in.Relation != "" && !domain.ValidRelation(in.Relation) {
		return nil, ErrInvalidRelation
	}
	if in.Scope != "" && !domain.ValidQuantifier(in.Scope) {
		return nil, ErrInvalidScope
	}

	prop := domain.NewProposition(in.Name)
	if in.Relation != "" {
		prop.Relation = domain.Relation(in.Relation)
	}
	if in.Scope != "" {
		prop.Scope = domain.Quantifier(in.Scope)
	}
	prop.Antecedent = in.Antecedent
	prop.Subject = in.Subject
	prop.Consequent = in.Consequent
	prop.Predicate = in.Predicate

	// Rule shapes need both operand names to be usable by the engine.
	switch prop.Relation {
	case domain.RelationImplies, domain.RelationOr:
		if prop.Antecedent == "" || prop.Consequent == "" {
			return nil, ErrRelationArgsMissing
		}
	}

	prop.Assert(value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.kb.Put(prop)
	s.logger.Debug("proposition stored",
		zap.String("name", prop.Name),
		zap.String("relation", string(prop.Relation)),
		zap.Stringer("value", prop.Value))
	return prop.Clone(), nil
}

// Assert sets a proposition's truth value directly, creating it if needed.
func (s *ReasonService) Assert(name string, value domain.Tripartite) (*domain.Proposition, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrPropositionNameMissing
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prop := s.kb.Ensure(name)
	prop.Assert(value)
	return prop.Clone(), nil
}

// Get returns a copy of the named proposition.
func (s *ReasonService) Get(name string) (*domain.Proposition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prop, ok := s.kb.Get(name)
	if !ok {
		return nil, ErrPropositionNotFound
	}
	return prop.Clone(), nil
}

// List returns copies of all propositions in insertion order.
func (s *ReasonService) List() []*domain.Proposition {
	s.mu.Lock()
	defer s.mu.Unlock()
	props := s.kb.Propositions()
	out := make([]*domain.Proposition, 0, len(props))
	for _, p := range props {
		out = append(out, p.Clone())
	}
	return out
}

// Delete removes a proposition.
func (s *ReasonService) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.kb.Remove(name) {
		return ErrPropositionNotFound
	}
	return nil
}

// AddExpression parses an expression source string, snapshots operand
// values from the knowledge base, validates it with a trial evaluation, and
// retains it for deduction. The snapshot semantics are deliberate: the
// expression keeps the values as of this call even if its operands change
// later.
func (s *ReasonService) AddExpression(target, src string) (*domain.Expression, error) {
	if strings.TrimSpace(target) == "" {
		return nil, ErrExpressionTargetEmpty
	}
	if strings.TrimSpace(src) == "" {
		return nil, ErrExpressionEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expr, err := s.parser.ParseExpression(target, src, s.kb)
	if err != nil {
		return nil, err
	}
	if _, err := engine.Evaluate(expr); err != nil {
		return nil, err
	}
	s.kb.AddExpression(expr)
	s.logger.Debug("expression added",
		zap.String("target", target),
		zap.Int("tokens", len(expr.Tokens)))
	return expr, nil
}

// Evaluate parses and evaluates an expression against the current
// knowledge base without retaining it.
func (s *ReasonService) Evaluate(src string) (domain.Tripartite, error) {
	if strings.TrimSpace(src) == "" {
		return domain.Unknown, ErrExpressionEmpty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expr, err := s.parser.ParseExpression("", src, s.kb)
	if err != nil {
		return domain.Unknown, err
	}
	return engine.Evaluate(expr)
}

// Deduce runs the inference engine to fixed point and reports how many
// propositions changed value and how many conflicts were logged along the
// way.
func (s *ReasonService) Deduce() (*DeduceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := make(map[string]domain.Tripartite, s.kb.Len())
	conflictsBefore := 0
	for _, p := range s.kb.Propositions() {
		before[p.Name] = p.Value
		conflictsBefore += len(p.Conflicts)
	}

	if err := s.engine.DeduceAll(s.kb); err != nil {
		return nil, err
	}

	result := &DeduceResult{
		Propositions: s.kb.Len(),
		Expressions:  s.kb.ExpressionCount(),
	}
	conflictsAfter := 0
	for _, p := range s.kb.Propositions() {
		if v, ok := before[p.Name]; !ok || v != p.Value {
			result.Changed++
		}
		conflictsAfter += len(p.Conflicts)
	}
	result.Conflicts = conflictsAfter - conflictsBefore

	s.logger.Info("deduction complete",
		zap.Int("changed", result.Changed),
		zap.Int("conflicts", result.Conflicts),
		zap.Int("propositions", result.Propositions))
	return result, nil
}

// Trace returns the backward explanation walk for a proposition.
func (s *ReasonService) Trace(name string) []engine.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Trace(s.kb, name)
}

// Conflicts returns the conflict log for a proposition.
func (s *ReasonService) Conflicts(name string) ([]domain.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prop, ok := s.kb.Get(name)
	if !ok {
		return nil, ErrPropositionNotFound
	}
	return append([]domain.Conflict(nil), prop.Conflicts...), nil
}

// LoadAssumptions parses assumptions-format DSL text into the knowledge
// base.
func (s *ReasonService) LoadAssumptions(src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parser.ParseAssumptions(strings.NewReader(src), s.kb)
}

// LoadFacts parses facts-format DSL text into the knowledge base.
func (s *ReasonService) LoadFacts(src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parser.ParseFacts(strings.NewReader(src), s.kb)
}

// Reset discards the entire knowledge base.
func (s *ReasonService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kb = domain.NewKnowledgeBase()
	s.logger.Info("knowledge base reset")
}

// Stats summarizes the knowledge base for health and metrics reporting.
func (s *ReasonService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Propositions: s.kb.Len(),
		Expressions:  s.kb.ExpressionCount(),
	}
	for _, p := range s.kb.Propositions() {
		if p.Value.Known() {
			st.Known++
		}
		if p.HasConflicts() {
			st.Conflicted++
		}
	}
	return st
}
