package domain

// KnowledgeBase owns the name->Proposition map and the ordered expression
// list the inference engine works over. Iteration follows insertion order so
// that deduction runs, provenance, and conflict logs are deterministic.
//
// The knowledge base is not safe for concurrent use; callers serialize
// access (see service.ReasonService).
type KnowledgeBase struct {
	props map[string]*Proposition
	names []string
	exprs []*Expression
}

func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{props: make(map[string]*Proposition)}
}

// Get looks up a proposition by name.
func (kb *KnowledgeBase) Get(name string) (*Proposition, bool) {
	p, ok := kb.props[name]
	return p, ok
}

// Ensure returns the named proposition, creating an undetermined entry if
// none exists. Writes through the engine go through Ensure so that missing
// names never fail.
func (kb *KnowledgeBase) Ensure(name string) *Proposition {
	if p, ok := kb.props[name]; ok {
		return p
	}
	p := NewProposition(name)
	kb.props[name] = p
	kb.names = append(kb.names, name)
	return p
}

// Put stores a proposition under its name, replacing any existing entry.
func (kb *KnowledgeBase) Put(p *Proposition) {
	if _, ok := kb.props[p.Name]; !ok {
		kb.names = append(kb.names, p.Name)
	}
	kb.props[p.Name] = p
}

// Remove deletes a proposition. Expressions targeting it are kept; their
// updates simply stop applying until the name reappears.
func (kb *KnowledgeBase) Remove(name string) bool {
	if _, ok := kb.props[name]; !ok {
		return false
	}
	delete(kb.props, name)
	for i, n := range kb.names {
		if n == name {
			kb.names = append(kb.names[:i], kb.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns all proposition names in insertion order.
func (kb *KnowledgeBase) Names() []string {
	return append([]string(nil), kb.names...)
}

// Propositions returns all entries in insertion order.
func (kb *KnowledgeBase) Propositions() []*Proposition {
	out := make([]*Proposition, 0, len(kb.names))
	for _, name := range kb.names {
		out = append(out, kb.props[name])
	}
	return out
}

// TruthValue reads a proposition's value; a missing name reads as UNKNOWN.
func (kb *KnowledgeBase) TruthValue(name string) Tripartite {
	if p, ok := kb.props[name]; ok {
		return p.Value
	}
	return Unknown
}

// SetTruthValue asserts a value directly, creating the entry if needed.
func (kb *KnowledgeBase) SetTruthValue(name string, v Tripartite) {
	kb.Ensure(name).Assert(v)
}

func (kb *KnowledgeBase) AddExpression(e *Expression) {
	kb.exprs = append(kb.exprs, e)
}

// Expressions returns the retained expressions in append order.
func (kb *KnowledgeBase) Expressions() []*Expression {
	return append([]*Expression(nil), kb.exprs...)
}

func (kb *KnowledgeBase) ClearExpressions() {
	kb.exprs = nil
}

// Len is the number of propositions.
func (kb *KnowledgeBase) Len() int {
	return len(kb.props)
}

// ExpressionCount is the number of retained expressions.
func (kb *KnowledgeBase) ExpressionCount() int {
	return len(kb.exprs)
}
