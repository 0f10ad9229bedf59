package textmate

import "fmt"

// PlanKind tags which of the three match-plan variants a Plan carries.
type PlanKind int

const (
	PlanEnd PlanKind = iota
	PlanMatch
	PlanBegin
)

// Plan is one candidate regex for the next search: the active end pattern,
// a match rule, or a begin pattern of a range rule.
type Plan struct {
	Kind    PlanKind
	Pattern Pattern
	Rule    *Rule // nil for PlanEnd
}

func (p Plan) String() string {
	switch p.Kind {
	case PlanEnd:
		return fmt.Sprintf("EndPattern(%s)", p.Pattern.Source())
	case PlanMatch:
		return fmt.Sprintf("MatchRule(%s)", p.Pattern.Source())
	case PlanBegin:
		return fmt.Sprintf("BeginRule(%s)", p.Pattern.Source())
	default:
		return "Plan(?)"
	}
}

// CollectPlans enumerates the current frame's match plans (4.1): the active
// end pattern first (unless the rule that owns it set ApplyEndPatternLast),
// followed by the frame's patterns, expanded recursively through includes
// and group rules.
func CollectPlans(g *Grammar, f *Frame) []Plan {
	var plans []Plan
	var end *Plan
	if f.EndPattern != nil {
		p := Plan{Kind: PlanEnd, Pattern: f.EndPattern}
		end = &p
	}
	if end != nil && !f.ApplyEndPatternLast {
		plans = append(plans, *end)
	}
	plans = appendExpanded(g, plans, f.Patterns, nil)
	if end != nil && f.ApplyEndPatternLast {
		plans = append(plans, *end)
	}
	return plans
}

func appendExpanded(g *Grammar, plans []Plan, rules []*Rule, visiting map[*Rule]bool) []Plan {
	for _, r := range rules {
		plans = appendRule(g, plans, r, visiting)
	}
	return plans
}

func appendRule(g *Grammar, plans []Plan, r *Rule, visiting map[*Rule]bool) []Plan {
	switch r.Kind {
	case RuleInclude:
		resolved := r.Include.Resolved
		if resolved == nil {
			var ok bool
			resolved, ok = g.Resolve(r.Include.Ref)
			if !ok {
				return plans // unresolved include contributes nothing (§7)
			}
		}
		if visiting == nil {
			visiting = map[*Rule]bool{}
		}
		if visiting[resolved] {
			return plans // defensive: break a cyclic include chain
		}
		visiting[resolved] = true
		return appendRule(g, plans, resolved, visiting)
	case RuleMatch:
		return append(plans, Plan{Kind: PlanMatch, Pattern: r.Match.Pattern, Rule: r})
	case RuleScope:
		if r.Scope.IsRangeRule() {
			return append(plans, Plan{Kind: PlanBegin, Pattern: r.Scope.Begin, Rule: r})
		}
		return appendExpanded(g, plans, r.Scope.Patterns, visiting)
	default:
		return plans
	}
}
