package textmate

// Grammar is the immutable rule tree the engine parses against: a
// top-level pattern list plus a repository of named rules that include
// rules resolve against. Grammars are read-only after construction and may
// be shared across many concurrent line parsers (see engine.go).
type Grammar struct {
	ScopeName string
	Patterns  []*Rule

	// repository holds every named rule reachable via "#name" includes.
	repository map[string]*Rule

	// self and base back $self/$base includes. base is nil for a grammar
	// that was not embedded into another via an include.
	self *Rule
	base *Grammar
}

// NewGrammar constructs a Grammar from its top-level patterns and named
// repository. The repository map is taken by reference: callers must not
// mutate it afterward.
func NewGrammar(scopeName string, patterns []*Rule, repository map[string]*Rule) *Grammar {
	if repository == nil {
		repository = map[string]*Rule{}
	}
	g := &Grammar{ScopeName: scopeName, Patterns: patterns, repository: repository}
	g.self = &Rule{Kind: RuleScope, Scope: &ScopeSpec{Patterns: patterns}}
	return g
}

// SetBase records the grammar this one was embedded into, for $base
// includes. Nothing in this module calls it, so $base includes stay
// unresolved unless a caller sets it.
func (g *Grammar) SetBase(base *Grammar) { g.base = base }

// Resolve maps an include reference to a rule, or reports it as unresolved.
// Unresolved references contribute no plans (spec: "tolerated; TextMate
// grammars rely on this").
func (g *Grammar) Resolve(ref string) (*Rule, bool) {
	switch ref {
	case "$self":
		if g.self == nil {
			g.self = &Rule{Kind: RuleScope, Scope: &ScopeSpec{Patterns: g.Patterns}}
		}
		return g.self, true
	case "$base":
		if g.base == nil {
			return nil, false
		}
		return g.base.Resolve("$self")
	default:
		name := ref
		if len(name) > 0 && name[0] == '#' {
			name = name[1:]
		}
		r, ok := g.repository[name]
		return r, ok
	}
}

// Repository exposes the named rule map read-only, for the loader and for
// diagnostics.
func (g *Grammar) Repository() map[string]*Rule { return g.repository }
