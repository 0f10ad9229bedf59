package highlight

import "github.com/charmbracelet/lipgloss"

// Default colors for the top-level scope-name segment (the part before the
// first '.'), e.g. "keyword.control.go" maps on "keyword". These are the
// fallback theme used when no config override replaces them.
var defaultColors = map[string]lipgloss.Color{
	"keyword":   lipgloss.Color("#F92672"),
	"storage":   lipgloss.Color("#F92672"),
	"string":    lipgloss.Color("#E6DB74"),
	"comment":   lipgloss.Color("#75715E"),
	"constant":  lipgloss.Color("#AE81FF"),
	"variable":  lipgloss.Color("#FD971F"),
	"support":   lipgloss.Color("#66D9EF"),
	"entity":    lipgloss.Color("#A6E22E"),
	"meta":      lipgloss.Color("#BBBBBB"),
	"punctuation": lipgloss.Color("#F8F8F2"),
	"invalid":   lipgloss.Color("#F92672"),
}

// DefaultStyle renders plain text carrying no recognized scope.
var DefaultStyle = lipgloss.NewStyle()

// styleFor builds the style for a scope path's innermost (last) scope name,
// the way a real theme engine would pick the most specific rule.
func styleFor(colors map[string]lipgloss.Color, scopePath []string) lipgloss.Style {
	if len(scopePath) == 0 {
		return DefaultStyle
	}
	prefix := topLevelSegment(scopePath[len(scopePath)-1])
	if color, ok := colors[prefix]; ok {
		return lipgloss.NewStyle().Foreground(color)
	}
	return DefaultStyle
}

// topLevelSegment returns the portion of a dotted scope name before the
// first '.', e.g. "keyword.control.go" -> "keyword".
func topLevelSegment(scope string) string {
	for i := 0; i < len(scope); i++ {
		if scope[i] == '.' {
			return scope[:i]
		}
	}
	return scope
}
