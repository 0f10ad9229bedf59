package tracing

// Span attribute keys used across tokenize tracing.
const (
	AttrDocumentRunID = "document.run_id"
	AttrGrammarScope  = "grammar.scope"
	AttrLineNumber    = "line.number"
	AttrLineLength    = "line.length"
	AttrTokenCount    = "line.token_count"
	AttrStackDepth    = "line.stack_depth"
	AttrStaleAnchors  = "line.stale_anchors"
	AttrErrorMessage  = "error.message"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixParseLine = "parse.line."
	SpanPrefixDocument  = "document."
)

// Event names for span events.
const (
	EventStaleAnchorsDropped = "anchors.stale_dropped"
	EventGrammarError        = "grammar.error"
)
