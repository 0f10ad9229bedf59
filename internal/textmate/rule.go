package textmate

// RuleKind tags which variant of Rule is populated.
type RuleKind int

const (
	RuleMatch RuleKind = iota
	RuleScope
	RuleInclude
)

func (k RuleKind) String() string {
	switch k {
	case RuleMatch:
		return "match"
	case RuleScope:
		return "scope"
	case RuleInclude:
		return "include"
	default:
		return "unknown"
	}
}

// Rule is a polymorphic grammar rule: a match rule, a scope rule, or an
// include rule. Exactly one of Match, Scope, Include is populated, selected
// by Kind.
type Rule struct {
	Kind RuleKind

	Match   *MatchSpec
	Scope   *ScopeSpec
	Include *IncludeSpec

	// Name is a short diagnostic label (e.g. grammar scope name + index
	// path) used in error messages and trace output. Optional.
	Name string
}

// CaptureAttr is a capture attribute: what a capture group contributes when
// the parser descends into it — an optional scope name and nested patterns
// evaluated only within that capture's range.
type CaptureAttr struct {
	ScopeName string
	Patterns  []*Rule
}

// CaptureMap maps a capture group index (0 is the whole match) to its
// attribute.
type CaptureMap map[int]CaptureAttr

// MatchSpec is the body of a match rule: a single regex with an optional
// scope name and capture map.
type MatchSpec struct {
	Pattern   Pattern
	ScopeName string
	Captures  CaptureMap
}

// ScopeSpec is the body of a scope rule. Begin is nil for a "group rule"
// (patterns inlined with no begin/end pair); non-nil for a "range rule".
// EndSource/EndCompiled are only meaningful when Begin is non-nil.
type ScopeSpec struct {
	ScopeName   string
	ContentName string

	Begin         Pattern
	BeginCaptures CaptureMap

	// EndSource is the raw end-pattern text, possibly containing \N
	// back-references. EndCompiled is EndSource compiled verbatim at
	// grammar-build time, used directly whenever a particular begin match
	// supplies no back-references to resolve (see backref.go).
	EndSource   string
	EndCompiled Pattern
	EndTag      string
	EndCaptures CaptureMap

	Patterns []*Rule

	// ApplyEndPatternLast reorders this frame's match plans (see
	// planner.go) so the end pattern is tried after its sibling patterns
	// instead of before. Defaults to false, reproducing the literal
	// planner order.
	ApplyEndPatternLast bool
}

// IsRangeRule reports whether this scope rule has a begin/end pair.
func (s *ScopeSpec) IsRangeRule() bool { return s.Begin != nil }

// IncludeSpec is an include rule: a symbolic reference resolved against the
// grammar at plan-collection time (or, for interned grammars, eagerly at
// build time).
type IncludeSpec struct {
	Ref string

	// Resolved is filled in once by the grammar loader for cross-grammar
	// references (a scope name such as "source.base"). $self, $base and
	// "#name" repository references are resolved lazily through
	// Grammar.Resolve instead, leaving Resolved nil.
	Resolved *Rule
}
