// Package playground implements an interactive single-line tokenization
// demo: type a line, see its tokens highlighted live against a chosen
// grammar, with the engine's trace output streaming in a second pane
// alongside it.
package playground

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/tmscope/internal/highlight"
	"github.com/zjrosen/tmscope/internal/log"
	"github.com/zjrosen/tmscope/internal/textmate"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#75715E"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F92672"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	paneStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(48)
)

// maxTraceLines bounds the trace pane's scrollback so a long session doesn't
// grow the view unbounded.
const maxTraceLines = 200

// Model holds the playground's state: one editable line, the grammar it is
// tokenized against, and the result of the most recent parse.
type Model struct {
	input   textinput.Model
	grammar *textmate.Grammar
	engine  *textmate.Engine
	theme   highlight.Theme

	tokens []textmate.Token
	err    error

	trace    []string
	listener *log.LogListener
	cancel   context.CancelFunc

	width, height int
}

// New creates a playground for the given grammar, parsed with the supplied
// regex compiler.
func New(grammar *textmate.Grammar, compiler textmate.Compiler) Model {
	ti := textinput.New()
	ti.Placeholder = "type a line to tokenize..."
	ti.Prompt = "> "
	ti.Focus()

	log.SetEnabled(true)
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		input:   ti,
		grammar: grammar,
		engine:  textmate.NewEngine(grammar, compiler),
		theme:   highlight.DefaultTheme(),
		cancel:  cancel,
	}
	m.listener = log.NewListener(ctx)
	m.reparse()
	return m
}

// Init satisfies tea.Model, starting the live trace subscription alongside
// the cursor blink so the trace pane fills in as soon as the program starts.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.listener != nil {
		cmds = append(cmds, m.listener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case log.LogEvent:
		m.trace = append(m.trace, strings.TrimSuffix(msg.Payload, "\n"))
		if len(m.trace) > maxTraceLines {
			m.trace = m.trace[len(m.trace)-maxTraceLines:]
		}
		if m.listener != nil {
			return m, m.listener.Listen()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.reparse()
	return m, cmd
}

// reparse re-tokenizes the current input line against a fresh stack — the
// playground shows one line in isolation, so there is no carried state
// between keystrokes. Tracing is always on here so the trace pane has
// something to show for every keystroke, independent of --debug.
func (m *Model) reparse() {
	text := m.input.Value()
	stack := textmate.NewStack(m.grammar.Patterns)
	_, tokens, err := m.engine.ParseLine(text, len(text), stack, true, log.EngineTracer{}, log.StaleAnchorWarner{})
	m.tokens = tokens
	m.err = err
}

// View satisfies tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("tmscope playground — %s", m.grammar.ScopeName)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	var tokensPane strings.Builder
	if m.err != nil {
		tokensPane.WriteString(errStyle.Render("error: " + m.err.Error()))
	} else {
		tokensPane.WriteString(highlight.Line(m.theme, m.input.Value(), m.tokens))
		tokensPane.WriteString("\n\n")
		tokensPane.WriteString(dimStyle.Render(scopeSummary(m.tokens)))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(tokensPane.String()),
		paneStyle.Render(traceSummary(m.trace)),
	))

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("esc to quit"))

	return boxStyle.Render(b.String())
}

// traceSummary renders the tail of the live engine trace, the side-by-side
// counterpart to the token pane.
func traceSummary(trace []string) string {
	if len(trace) == 0 {
		return dimStyle.Render("(no trace output yet)")
	}
	return strings.Join(trace, "\n")
}

// scopeSummary renders one "[start,end) scope.path" line per token, the
// trace-like readout a grammar author uses to check capture scoping.
func scopeSummary(tokens []textmate.Token) string {
	if len(tokens) == 0 {
		return "(no tokens)"
	}
	lines := make([]string, len(tokens))
	for i, t := range tokens {
		lines[i] = fmt.Sprintf("%s %s", t.Range, strings.Join(t.ScopePath, " "))
	}
	return strings.Join(lines, "\n")
}
