package log

import "github.com/zjrosen/tmscope/internal/textmate"

// EngineTracer adapts the package logger to textmate.Tracer, so the
// engine's per-line trace lines (§6 of the engine's trace contract) flow
// through the same category/level log file as everything else, at
// CatEngine/Debug.
type EngineTracer struct{}

func (EngineTracer) Trace(line string) { Debug(CatEngine, line) }

var _ textmate.Tracer = EngineTracer{}

// StaleAnchorWarner adapts the package logger to textmate.StaleAnchorObserver.
type StaleAnchorWarner struct{}

func (StaleAnchorWarner) StaleAnchors(count int) {
	Warn(CatEngine, "dropping stale capture anchors", "count", count)
}

var _ textmate.StaleAnchorObserver = StaleAnchorWarner{}
