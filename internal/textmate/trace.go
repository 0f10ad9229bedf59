package textmate

// Tracer receives the engine's human-readable trace lines (§6) when a
// ParseLine call is made with trace enabled. Implementations are
// diagnostic-only: the engine's behavior is identical whether or not a
// Tracer is supplied.
type Tracer interface {
	Trace(line string)
}

// StaleAnchorObserver is notified when the engine reaches end-of-line with
// capture anchors still pending on a frame. The design notes (§9 open
// questions) call this a programming error in the grammar but recommend
// defensive handling over aborting; ParseLine drops the anchors and, if an
// observer is supplied, reports how many.
type StaleAnchorObserver interface {
	StaleAnchors(count int)
}
