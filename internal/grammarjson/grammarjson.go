// Package grammarjson decodes TextMate grammar files (.tmLanguage.json or
// .tmLanguage.yaml) into the textmate package's compiled Rule/Grammar model,
// compiling every match/begin/end pattern through an injected
// textmate.Compiler along the way.
package grammarjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/tmscope/internal/textmate"
)

// RuleJSON is the raw on-disk shape of one grammar rule, decoded as-is
// before compilation. Capture groups are addressed by string keys ("1",
// "2", ...), matching the TextMate JSON/plist convention.
type RuleJSON struct {
	Name          string              `json:"name" yaml:"name"`
	ContentName   string              `json:"contentName" yaml:"contentName"`
	Match         string              `json:"match" yaml:"match"`
	Begin         string              `json:"begin" yaml:"begin"`
	End           string              `json:"end" yaml:"end"`
	Patterns      []RuleJSON          `json:"patterns" yaml:"patterns"`
	Captures      map[string]RuleJSON `json:"captures" yaml:"captures"`
	BeginCaptures map[string]RuleJSON `json:"beginCaptures" yaml:"beginCaptures"`
	EndCaptures   map[string]RuleJSON `json:"endCaptures" yaml:"endCaptures"`
	Include       string              `json:"include" yaml:"include"`

	// ApplyEndPatternLast mirrors the TextMate grammar field of the same
	// name: when true, the end pattern is tried after this rule's own
	// patterns rather than before them.
	ApplyEndPatternLast bool `json:"applyEndPatternLast" yaml:"applyEndPatternLast"`
}

// GrammarJSON mirrors the top-level shape of a .tmLanguage file.
type GrammarJSON struct {
	ScopeName  string              `json:"scopeName" yaml:"scopeName"`
	FileTypes  []string            `json:"fileTypes" yaml:"fileTypes"`
	Repository map[string]RuleJSON `json:"repository" yaml:"repository"`
	Patterns   []RuleJSON          `json:"patterns" yaml:"patterns"`
}

// Decode parses raw grammar bytes as JSON or YAML depending on ext (a file
// extension including the leading dot, e.g. ".json" or ".yaml").
func Decode(data []byte, ext string) (GrammarJSON, error) {
	var g GrammarJSON
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &g); err != nil {
			return GrammarJSON{}, fmt.Errorf("decode yaml grammar: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &g); err != nil {
			return GrammarJSON{}, fmt.Errorf("decode json grammar: %w", err)
		}
	}
	return g, nil
}

// errNamedBackreference is returned when a pattern uses Oniguruma named
// back-reference syntax (\k<name>), which spec.md's back-reference model
// does not support — only positional \N references are resolved (§4.7).
// Rejecting at compile time surfaces the incompatibility immediately rather
// than silently matching the literal text "\k<name>".
var errNamedBackreference = fmt.Errorf("named back-references (\\k<name>) are not supported")

func checkBackreferenceSyntax(pattern string) error {
	if strings.Contains(pattern, `\k<`) || strings.Contains(pattern, `\k'`) {
		return errNamedBackreference
	}
	return nil
}

// Compile compiles a decoded GrammarJSON into a *textmate.Grammar, using c
// to compile every match/begin/end pattern string into a textmate.Pattern.
func Compile(g GrammarJSON, c textmate.Compiler) (*textmate.Grammar, error) {
	patterns := make([]*textmate.Rule, 0, len(g.Patterns))
	for i, rj := range g.Patterns {
		r, err := compileRule(rj, c, fmt.Sprintf("%s:patterns[%d]", g.ScopeName, i))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, r)
	}

	repository := make(map[string]*textmate.Rule, len(g.Repository))
	for name, rj := range g.Repository {
		r, err := compileRule(rj, c, fmt.Sprintf("%s:#%s", g.ScopeName, name))
		if err != nil {
			return nil, err
		}
		repository[name] = r
	}

	return textmate.NewGrammar(g.ScopeName, patterns, repository), nil
}

func compileCaptures(j map[string]RuleJSON, c textmate.Compiler, tag string) (textmate.CaptureMap, error) {
	if len(j) == 0 {
		return nil, nil
	}

	out := make(textmate.CaptureMap, len(j))
	for key, rj := range j {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%s: capture index %q is not numeric: %w", tag, key, err)
		}

		var nested []*textmate.Rule
		for i, p := range rj.Patterns {
			r, err := compileRule(p, c, fmt.Sprintf("%s:captures[%s].patterns[%d]", tag, key, i))
			if err != nil {
				return nil, err
			}
			nested = append(nested, r)
		}

		out[idx] = textmate.CaptureAttr{ScopeName: rj.Name, Patterns: nested}
	}
	return out, nil
}

// compileRule compiles a single RuleJSON, dispatching on which of
// Include/Match/Begin+End/Patterns is present. tag identifies the rule in
// compile errors.
func compileRule(rj RuleJSON, c textmate.Compiler, tag string) (*textmate.Rule, error) {
	switch {
	case rj.Include != "":
		return &textmate.Rule{
			Kind:    textmate.RuleInclude,
			Name:    rj.Name,
			Include: &textmate.IncludeSpec{Ref: rj.Include},
		}, nil

	case rj.Match != "":
		if err := checkBackreferenceSyntax(rj.Match); err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		pat, err := c.Compile(rj.Match, tag+":match")
		if err != nil {
			return nil, err
		}
		captures, err := compileCaptures(rj.Captures, c, tag)
		if err != nil {
			return nil, err
		}
		return &textmate.Rule{
			Kind: textmate.RuleMatch,
			Name: rj.Name,
			Match: &textmate.MatchSpec{
				Pattern:   pat,
				ScopeName: rj.Name,
				Captures:  captures,
			},
		}, nil

	case rj.Begin != "" && rj.End != "":
		if err := checkBackreferenceSyntax(rj.Begin); err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		if err := checkBackreferenceSyntax(rj.End); err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		begin, err := c.Compile(rj.Begin, tag+":begin")
		if err != nil {
			return nil, err
		}
		beginCaptures, err := compileCaptures(rj.BeginCaptures, c, tag)
		if err != nil {
			return nil, err
		}
		endCaptures, err := compileCaptures(rj.EndCaptures, c, tag)
		if err != nil {
			return nil, err
		}

		nested := make([]*textmate.Rule, 0, len(rj.Patterns))
		for i, p := range rj.Patterns {
			r, err := compileRule(p, c, fmt.Sprintf("%s:patterns[%d]", tag, i))
			if err != nil {
				return nil, err
			}
			nested = append(nested, r)
		}

		// End is resolved against the begin match's captures (back
		// references), so it is compiled lazily by the engine rather
		// than here; we still eagerly compile it once with no
		// substitution applied, as the common case with no \N in End
		// needs no recompilation per push (engine.go's resolveEndPattern).
		end, err := c.Compile(rj.End, tag+":end")
		if err != nil {
			return nil, err
		}

		return &textmate.Rule{
			Kind: textmate.RuleScope,
			Name: rj.Name,
			Scope: &textmate.ScopeSpec{
				ScopeName:           rj.Name,
				ContentName:         rj.ContentName,
				Begin:               begin,
				BeginCaptures:       beginCaptures,
				EndSource:           rj.End,
				EndCompiled:         end,
				EndTag:              tag + ":end",
				EndCaptures:         endCaptures,
				Patterns:            nested,
				ApplyEndPatternLast: rj.ApplyEndPatternLast,
			},
		}, nil

	case rj.Begin != "" || rj.End != "":
		return nil, fmt.Errorf("%s: rule has begin or end but not both", tag)

	default:
		nested := make([]*textmate.Rule, 0, len(rj.Patterns))
		for i, p := range rj.Patterns {
			r, err := compileRule(p, c, fmt.Sprintf("%s:patterns[%d]", tag, i))
			if err != nil {
				return nil, err
			}
			nested = append(nested, r)
		}
		return &textmate.Rule{
			Kind: textmate.RuleScope,
			Name: rj.Name,
			Scope: &textmate.ScopeSpec{
				ScopeName: rj.Name,
				Patterns:  nested,
			},
		}, nil
	}
}

// Loader loads and caches grammars from a directory of .tmLanguage.json /
// .tmLanguage.yaml files, resolving cross-grammar "source.*" includes by
// loading the referenced file and wiring its root patterns in as a resolved
// include (textmate.IncludeSpec.Resolved), bypassing $self/$base/#name
// lookup entirely for those references.
type Loader struct {
	Dir      string
	Compiler textmate.Compiler

	cache map[string]*textmate.Grammar
}

// NewLoader constructs a Loader rooted at dir.
func NewLoader(dir string, c textmate.Compiler) *Loader {
	return &Loader{Dir: dir, Compiler: c, cache: map[string]*textmate.Grammar{}}
}

// FromScope loads the grammar for scopeName (e.g. "source.go"), caching the
// result and recursively resolving any cross-grammar includes it contains.
func (l *Loader) FromScope(scopeName string) (*textmate.Grammar, error) {
	if g, ok := l.cache[scopeName]; ok {
		return g, nil
	}

	path, ext, err := l.findFile(scopeName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar %s: %w", path, err)
	}

	gj, err := Decode(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	g, err := Compile(gj, l.Compiler)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Cache before resolving cross-grammar includes so a cycle back to
	// this scope reuses the in-progress grammar rather than recursing
	// forever.
	l.cache[scopeName] = g

	if err := l.resolveCrossGrammarIncludes(g); err != nil {
		return nil, err
	}

	return g, nil
}

func (l *Loader) resolveCrossGrammarIncludes(g *textmate.Grammar) error {
	seen := map[*textmate.Rule]bool{}
	var walk func(rules []*textmate.Rule) error
	walk = func(rules []*textmate.Rule) error {
		for _, r := range rules {
			if seen[r] {
				continue
			}
			seen[r] = true
			switch r.Kind {
			case textmate.RuleInclude:
				ref := r.Include.Ref
				if ref == "$self" || ref == "$base" || strings.HasPrefix(ref, "#") {
					continue
				}
				other, err := l.FromScope(ref)
				if err != nil {
					return fmt.Errorf("resolving include %q in %s: %w", ref, g.ScopeName, err)
				}
				r.Include.Resolved = &textmate.Rule{
					Kind:  textmate.RuleScope,
					Scope: &textmate.ScopeSpec{Patterns: other.Patterns},
				}
			case textmate.RuleScope:
				if err := walk(r.Scope.Patterns); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(g.Patterns); err != nil {
		return err
	}
	for _, r := range g.Repository() {
		if r.Kind == textmate.RuleScope {
			if err := walk(r.Scope.Patterns); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadFile loads and compiles a grammar from an explicit file path rather
// than resolving it by scope name within Dir, for CLI invocations that name
// a grammar file directly. Cross-grammar includes it contains are still
// resolved against Dir, and the result is cached under its own scope name.
func (l *Loader) LoadFile(path string) (*textmate.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar %s: %w", path, err)
	}

	gj, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if g, ok := l.cache[gj.ScopeName]; ok {
		return g, nil
	}

	g, err := Compile(gj, l.Compiler)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.cache[gj.ScopeName] = g

	if err := l.resolveCrossGrammarIncludes(g); err != nil {
		return nil, err
	}

	return g, nil
}

func (l *Loader) findFile(scopeName string) (path, ext string, err error) {
	base := strings.TrimPrefix(scopeName, "source.")
	for _, candidate := range []string{base + ".tmLanguage.json", base + ".tmLanguage.yaml"} {
		p := filepath.Join(l.Dir, candidate)
		if _, statErr := os.Stat(p); statErr == nil {
			return p, filepath.Ext(p), nil
		}
	}
	return "", "", fmt.Errorf("no grammar file found for scope %q in %s", scopeName, l.Dir)
}
