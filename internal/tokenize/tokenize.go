// Package tokenize drives the per-line engine across a whole document: it
// threads the textmate.Stack from one ParseLine call to the next and
// aggregates the per-line token slices into a Document. Multi-line
// aggregation is explicitly outside the core engine (spec.md scopes
// per-line parsing only), so it lives here as a thin driver.
package tokenize

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/tmscope/internal/textmate"
	"github.com/zjrosen/tmscope/internal/tracing"
)

// Line is one source line together with the tokens the engine produced for
// it, given whatever stack state carried in from the previous line.
type Line struct {
	Text   string
	Tokens []textmate.Token
}

// Document is the aggregated result of tokenizing an entire file against a
// single grammar.
type Document struct {
	RunID string
	Scope string
	Lines []Line
}

// Options controls optional tracing hooks threaded into every ParseLine
// call. A nil Tracer/Stale/SpanTracer disables the corresponding behavior.
type Options struct {
	Trace  bool
	Tracer textmate.Tracer
	Stale  textmate.StaleAnchorObserver

	// SpanTracer, if set, wraps each ParseLine call in an otel span
	// carrying the line number, length and resulting token count. Pass
	// (*tracing.Provider).Tracer() to enable; nil is a no-op.
	SpanTracer trace.Tracer
}

// Tokenize reads r line by line, running each line through the engine with
// the stack carried over from the previous line, and returns the aggregated
// Document. A malformed grammar or engine error aborts the run; no partial
// Document is returned in that case.
func Tokenize(g *textmate.Grammar, c textmate.Compiler, r io.Reader, opts Options) (*Document, error) {
	engine := textmate.NewEngine(g, c)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	doc := &Document{
		RunID: uuid.NewString(),
		Scope: g.ScopeName,
	}

	stack := textmate.NewStack(g.Patterns)
	ctx := context.Background()

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		var span trace.Span
		if opts.SpanTracer != nil {
			_, span = opts.SpanTracer.Start(ctx, tracing.SpanPrefixParseLine+doc.Scope,
				trace.WithAttributes(
					attribute.String(tracing.AttrDocumentRunID, doc.RunID),
					attribute.String(tracing.AttrGrammarScope, doc.Scope),
					attribute.Int(tracing.AttrLineNumber, lineNo),
					attribute.Int(tracing.AttrLineLength, len(text)),
				),
			)
		}

		nextStack, toks, err := engine.ParseLine(text, len(text), stack, opts.Trace, opts.Tracer, opts.Stale)
		if err != nil {
			if span != nil {
				span.End()
			}
			return nil, fmt.Errorf("tokenizing line %d: %w", lineNo, err)
		}
		stack = nextStack

		if span != nil {
			span.SetAttributes(
				attribute.Int(tracing.AttrTokenCount, len(toks)),
				attribute.Int(tracing.AttrStackDepth, stack.Depth()),
			)
			span.End()
		}

		doc.Lines = append(doc.Lines, Line{Text: text, Tokens: toks})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return doc, nil
}
