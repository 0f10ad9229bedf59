package textmate

import "fmt"

// Engine parses lines against a fixed Grammar. It holds a Compiler because
// back-reference resolution (4.7) may need to compile a fresh end pattern
// per begin match; the Grammar itself is read-only and may be shared across
// many Engines or reused concurrently by Engines that do not share a state
// stack (§5).
type Engine struct {
	Grammar  *Grammar
	Compiler Compiler

	// Strict selects §7's "debug build" behavior for grammar-integrity
	// violations and the anchor-outlives-line assertion: panic instead of
	// returning a *GrammarError / dropping the anchors. Defaults to false.
	Strict bool
}

// NewEngine builds an Engine over a grammar and the compiler used to
// resolve back-referenced end patterns.
func NewEngine(g *Grammar, c Compiler) *Engine {
	return &Engine{Grammar: g, Compiler: c}
}

// ParseLine drives the state machine over one line (4.4). lineEnd is the
// byte offset of the line's terminator (callers pass len(line) for a line
// with no trailing newline in the slice). It returns the updated stack —
// moved, not copied, ready to be handed to the next line's call — and the
// ordered tokens covering the line.
//
// On error the returned stack must not be reused (§7).
func (e *Engine) ParseLine(line string, lineEnd int, stack Stack, trace bool, tracer Tracer, stale StaleAnchorObserver) (Stack, []Token, error) {
	var tokens []Token
	position := 0
	if tracer == nil {
		trace = false
	}

	for {
		top := stack.Top()

		switch top.Phase {
		case PhasePushContent:
			if top.PhaseRule.Scope.ContentName != "" {
				top.ScopePath = appendScope(top.ScopePath, top.PhaseRule.Scope.ContentName)
				if trace {
					tracer.Trace("apply contentName")
				}
			}
			top.Phase = PhaseContent
		case PhasePop:
			stack.Pop()
			if trace {
				tracer.Trace("pop")
			}
			continue
		}

		top = stack.Top()
		searchEnd, kind := computeSearchEnd(top, position, lineEnd)
		plans := CollectPlans(e.Grammar, top)

		if trace {
			tracer.Trace(fmt.Sprintf("match plans, position %d", position))
			for i, p := range plans {
				tracer.Trace(fmt.Sprintf("[%d/%d]%s", i+1, len(plans), p.String()))
			}
		}

		planIdx, match, ok := leftmostSearch(line, position, searchEnd, plans)
		if !ok {
			if tok := newToken(position, searchEnd, top.ScopePath); tok != nil {
				tokens = append(tokens, *tok)
			}
			switch kind {
			case searchEndAnchor:
				a := top.CaptureAnchors[0]
				top.CaptureAnchors = top.CaptureAnchors[1:]
				e.processHitAnchor(&stack, a, trace, tracer)
				position = searchEnd
			case searchEndPosition:
				stack.Pop()
				if trace {
					tracer.Trace("pop state")
				}
				position = searchEnd
			case searchEndLine:
				if n := len(top.CaptureAnchors); n > 0 {
					top.CaptureAnchors = nil
					if e.Strict {
						panic(&GrammarError{Msg: "capture anchors outlive their enclosing line"})
					}
					if stale != nil {
						stale.StaleAnchors(n)
					}
				}
				if trace {
					tracer.Trace("no match, end line")
				}
				return stack, tokens, nil
			}
			continue
		}

		plan := plans[planIdx]
		if trace {
			tracer.Trace("match!: " + plan.String())
		}
		if tok := newToken(position, match.Whole().Start, top.ScopePath); tok != nil {
			tokens = append(tokens, *tok)
		}
		position = match.Whole().Start

		var err error
		switch plan.Kind {
		case PlanMatch:
			e.applyMatchRule(&stack, plan.Rule, match, trace, tracer)
		case PlanBegin:
			err = e.applyBeginRule(&stack, plan.Rule, match, line, trace, tracer)
		case PlanEnd:
			err = e.applyEndRule(&stack, match, trace, tracer)
		}
		if err != nil {
			return stack, tokens, err
		}
	}
}

type searchEndKind int

const (
	searchEndAnchor searchEndKind = iota
	searchEndPosition
	searchEndLine
)

// computeSearchEnd implements 4.2. It also performs the anchor cleanup of
// step 2 (4.4): stale anchors — ones whose range no longer lies ahead of
// position — are discarded from the front of the frame's anchor list as a
// side effect of looking for the next candidate.
func computeSearchEnd(f *Frame, position, lineEnd int) (int, searchEndKind) {
	for len(f.CaptureAnchors) > 0 {
		a := f.CaptureAnchors[0]
		if a.Range.End <= position || a.Range.Start < position {
			f.CaptureAnchors = f.CaptureAnchors[1:]
			continue
		}
		break
	}
	if len(f.CaptureAnchors) > 0 {
		a := f.CaptureAnchors[0]
		if !f.HasEndPosition || a.Range.End <= f.EndPosition {
			return a.Range.Start, searchEndAnchor
		}
	}
	if f.HasEndPosition {
		return f.EndPosition, searchEndPosition
	}
	return lineEnd, searchEndLine
}

// leftmostSearch implements 4.3: the plan whose pattern matches with the
// smallest start offset wins; ties broken by plan index.
func leftmostSearch(line string, start, end int, plans []Plan) (int, Match, bool) {
	best := -1
	var bestMatch Match
	for i, p := range plans {
		m, ok := p.Pattern.Search(line, start, end)
		if !ok {
			continue
		}
		if best == -1 || m.Whole().Start < bestMatch.Whole().Start {
			best = i
			bestMatch = m
		}
	}
	if best == -1 {
		return 0, Match{}, false
	}
	return best, bestMatch, true
}

func appendScope(path []string, scope string) []string {
	if scope == "" {
		return path
	}
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = scope
	return out
}

// applyMatchRule implements the MatchRule branch of 4.4 step 6.
func (e *Engine) applyMatchRule(stack *Stack, r *Rule, m Match, trace bool, tracer Tracer) {
	scopePath := appendScope(stack.Top().ScopePath, r.Match.ScopeName)
	anchors := BuildCaptureAnchors(m, r.Match.Captures)
	whole := m.Whole()
	e.pushFrame(stack, Frame{
		CaptureAnchors: anchors,
		ScopePath:      scopePath,
		HasEndPosition: true,
		EndPosition:    whole.End,
	}, trace, tracer)
}

// applyBeginRule implements the BeginRule branch of 4.4 step 6.
func (e *Engine) applyBeginRule(stack *Stack, r *Rule, m Match, line string, trace bool, tracer Tracer) error {
	scopePath := appendScope(stack.Top().ScopePath, r.Scope.ScopeName)
	endPattern, err := e.resolveEndPattern(r, m, line)
	if err != nil {
		return err
	}
	anchors := matchAnchors(m, r.Scope.BeginCaptures)
	e.pushFrame(stack, Frame{
		Phase:               PhasePushContent,
		PhaseRule:           r,
		Patterns:            r.Scope.Patterns,
		CaptureAnchors:      anchors,
		ScopePath:           scopePath,
		EndPattern:          endPattern,
		ApplyEndPatternLast: r.Scope.ApplyEndPatternLast,
	}, trace, tracer)
	return nil
}

// applyEndRule implements the EndPattern branch of 4.4 step 6.
func (e *Engine) applyEndRule(stack *Stack, m Match, trace bool, tracer Tracer) error {
	top := stack.Top()
	r := top.PhaseRule
	if r == nil || r.Scope == nil {
		return e.grammarError("pop requested on a frame without an owning scope rule")
	}
	if r.Scope.ContentName != "" {
		if len(top.ScopePath) == 0 || top.ScopePath[len(top.ScopePath)-1] != r.Scope.ContentName {
			return e.grammarError(fmt.Sprintf("contentName %q mismatch on pop", r.Scope.ContentName))
		}
		top.ScopePath = top.ScopePath[:len(top.ScopePath)-1]
	}
	top.Phase = PhasePop
	anchors := matchAnchors(m, r.Scope.EndCaptures)
	if len(anchors) > 0 {
		a := anchors[0]
		top.CaptureAnchors = anchors[1:]
		e.processHitAnchor(stack, a, trace, tracer)
	}
	return nil
}

// matchAnchors builds the anchors for a begin or end match: one anchor with
// no attribute over the whole match, holding the capture anchors as its
// children, so the matched text is consumed as its own token before the
// frame's patterns or end pattern are searched again. An empty match gets no
// anchor (4.5).
func matchAnchors(m Match, captures CaptureMap) []Anchor {
	whole := m.Whole()
	if whole.Empty() {
		return nil
	}
	return []Anchor{{Range: whole, Children: BuildCaptureAnchors(m, captures)}}
}

// resolveEndPattern implements 4.7: resolve \N references in the owning
// rule's end source against the begin match, compiling a fresh pattern only
// when a substitution actually occurred.
func (e *Engine) resolveEndPattern(r *Rule, begin Match, line string) (Pattern, error) {
	resolved, changed := ResolveEndPattern(r.Scope.EndSource, line, begin)
	if !changed {
		return r.Scope.EndCompiled, nil
	}
	p, err := e.Compiler.Compile(resolved, r.Scope.EndTag)
	if err != nil {
		return nil, &CompileError{Source: resolved, Tag: r.Scope.EndTag, Err: err}
	}
	return p, nil
}

// pushFrame pushes f and, if it carries pending capture anchors, immediately
// enters the earliest one (4.4's "if an anchor was built, immediately
// process-hit-anchor on it").
func (e *Engine) pushFrame(stack *Stack, f Frame, trace bool, tracer Tracer) {
	stack.Push(f)
	if trace {
		tracer.Trace("push state")
	}
	top := stack.Top()
	if len(top.CaptureAnchors) > 0 {
		a := top.CaptureAnchors[0]
		top.CaptureAnchors = top.CaptureAnchors[1:]
		e.processHitAnchor(stack, a, trace, tracer)
	}
}

// processHitAnchor implements 4.6.
func (e *Engine) processHitAnchor(stack *Stack, a Anchor, trace bool, tracer Tracer) {
	scopePath := stack.Top().ScopePath
	if a.HasAttr {
		scopePath = appendScope(scopePath, a.Attr.ScopeName)
	}
	var patterns []*Rule
	if a.HasAttr {
		patterns = a.Attr.Patterns
	}
	stack.Push(Frame{
		Patterns:       patterns,
		CaptureAnchors: a.Children,
		ScopePath:      scopePath,
		HasEndPosition: true,
		EndPosition:    a.Range.End,
	})
	if trace {
		tracer.Trace("push state: anchor")
	}
}

func (e *Engine) grammarError(msg string) error {
	err := &GrammarError{Msg: msg}
	if e.Strict {
		panic(err)
	}
	return err
}
