package testfixture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/oniguregexp"
	"github.com/zjrosen/tmscope/internal/textmate"
)

// GrammarBuilder accumulates top-level rules for a small synthetic grammar,
// compiling each pattern through the real oniguregexp.Compiler so tests
// exercise the same regex engine production code does.
type GrammarBuilder struct {
	t          *testing.T
	scopeName  string
	patterns   []*textmate.Rule
	repository map[string]*textmate.Rule
	compiler   textmate.Compiler
}

// NewGrammarBuilder starts a builder for a grammar with the given scope
// name (e.g. "source.fixture").
func NewGrammarBuilder(t *testing.T, scopeName string) *GrammarBuilder {
	t.Helper()
	return &GrammarBuilder{
		t:          t,
		scopeName:  scopeName,
		repository: map[string]*textmate.Rule{},
		compiler:   oniguregexp.Compiler{},
	}
}

func (b *GrammarBuilder) compile(source, tag string) textmate.Pattern {
	b.t.Helper()
	p, err := b.compiler.Compile(source, tag)
	require.NoError(b.t, err)
	return p
}

// WithMatch adds a top-level single-pattern match rule.
func (b *GrammarBuilder) WithMatch(scope, pattern string) *GrammarBuilder {
	b.patterns = append(b.patterns, &textmate.Rule{
		Kind: textmate.RuleMatch,
		Match: &textmate.MatchSpec{
			Pattern:   b.compile(pattern, b.scopeName+":"+scope),
			ScopeName: scope,
		},
		Name: scope,
	})
	return b
}

// WithBeginEnd adds a top-level range rule.
func (b *GrammarBuilder) WithBeginEnd(scope, begin, end string) *GrammarBuilder {
	b.patterns = append(b.patterns, &textmate.Rule{
		Kind: textmate.RuleScope,
		Scope: &textmate.ScopeSpec{
			ScopeName:   scope,
			Begin:       b.compile(begin, b.scopeName+":"+scope+":begin"),
			EndSource:   end,
			EndCompiled: b.compile(end, b.scopeName+":"+scope+":end"),
			EndTag:      b.scopeName + ":" + scope + ":end",
		},
		Name: scope,
	})
	return b
}

// WithRepositoryMatch registers a named match rule in the repository,
// reachable via an include of "#name".
func (b *GrammarBuilder) WithRepositoryMatch(name, scope, pattern string) *GrammarBuilder {
	b.repository[name] = &textmate.Rule{
		Kind: textmate.RuleMatch,
		Match: &textmate.MatchSpec{
			Pattern:   b.compile(pattern, b.scopeName+":"+name),
			ScopeName: scope,
		},
		Name: name,
	}
	return b
}

// WithInclude adds a top-level include of a repository or $self/$base
// reference.
func (b *GrammarBuilder) WithInclude(ref string) *GrammarBuilder {
	b.patterns = append(b.patterns, &textmate.Rule{
		Kind:    textmate.RuleInclude,
		Include: &textmate.IncludeSpec{Ref: ref},
	})
	return b
}

// Build constructs the grammar.
func (b *GrammarBuilder) Build() *textmate.Grammar {
	return textmate.NewGrammar(b.scopeName, b.patterns, b.repository)
}
