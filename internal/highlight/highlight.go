// Package highlight renders tokenized lines as ANSI-colored text for the
// terminal, mapping a token's innermost scope name to a lipgloss style the
// way a theme would.
package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/tmscope/internal/textmate"
)

// Theme maps top-level scope-name segments ("keyword", "string", ...) to
// colors. A zero-value Theme falls back to defaultColors.
type Theme struct {
	Colors map[string]lipgloss.Color
}

// DefaultTheme returns the built-in color mapping.
func DefaultTheme() Theme {
	colors := make(map[string]lipgloss.Color, len(defaultColors))
	for k, v := range defaultColors {
		colors[k] = v
	}
	return Theme{Colors: colors}
}

// ThemeFromOverrides returns DefaultTheme with overrides (scope-prefix ->
// hex color, as read from config) applied on top.
func ThemeFromOverrides(overrides map[string]string) Theme {
	theme := DefaultTheme()
	for prefix, hex := range overrides {
		theme.Colors[prefix] = lipgloss.Color(hex)
	}
	return theme
}

// Line renders a source line given the tokens the engine produced for it.
// Text outside any token's range (there should be none, per the engine's
// "total run" guarantee over its own ranges, but an empty line or a custom
// Pattern reporting an unexpected range is still handled defensively) is
// passed through unstyled rather than dropped.
func Line(theme Theme, text string, tokens []textmate.Token) string {
	if text == "" {
		return ""
	}

	colors := theme.Colors
	if colors == nil {
		colors = defaultColors
	}

	var b strings.Builder
	last := 0
	for _, tok := range tokens {
		if tok.Range.Start > last {
			b.WriteString(text[last:tok.Range.Start])
		}
		if tok.Range.Start < last || tok.Range.End > len(text) || tok.Range.Start >= tok.Range.End {
			continue
		}
		style := styleFor(colors, tok.ScopePath)
		b.WriteString(style.Render(text[tok.Range.Start:tok.Range.End]))
		last = tok.Range.End
	}
	if last < len(text) {
		b.WriteString(text[last:])
	}
	return b.String()
}
