package textmate

// Anchor is a capture anchor: a tree node describing a sub-region of a
// successful regex match that carries its own attribute and children. It is
// an owned value-type tree with no back pointers (per design notes) — the
// engine only ever shrinks a frame's anchor list from the front as the
// parse position advances past each anchor's start.
type Anchor struct {
	Attr    CaptureAttr
	HasAttr bool
	Range   Range
	Children []Anchor
}

// BuildCaptureAnchors builds the top-level capture anchors for a successful
// match against a capture map. Captures are nested by range containment: a
// capture whose range is entirely inside an earlier, still-open capture
// becomes that capture's child rather than a sibling, which is how a
// "captures" map for a pattern with nested regex groups becomes a tree
// instead of a flat overlapping list. Capture 0 (whole match), when present
// in the map, therefore becomes the sole top-level anchor with every other
// populated capture nested beneath it.
//
// Zero-width captures are dropped entirely (4.5): they would have no
// children and contribute no token, so there is nothing to anchor.
func BuildCaptureAnchors(m Match, captures CaptureMap) []Anchor {
	if len(captures) == 0 {
		return nil
	}
	entries := make([]capEntry, 0, len(captures))
	for idx, attr := range captures {
		r, ok := m.Group(idx)
		if !ok || r.Empty() {
			continue
		}
		entries = append(entries, capEntry{idx: idx, rng: r, attr: attr})
	}
	if len(entries) == 0 {
		return nil
	}
	sortCapEntries(entries)
	anchors, _ := buildAnchorLevel(entries, 0, Range{Start: 0, End: maxEnd(entries)})
	return anchors
}

type capEntry struct {
	idx  int
	rng  Range
	attr CaptureAttr
}

func maxEnd(entries []capEntry) int {
	max := 0
	for _, e := range entries {
		if e.rng.End > max {
			max = e.rng.End
		}
	}
	return max
}

// sortCapEntries orders by start ascending, then by end descending so that
// when two captures share a start the longer (ancestor) range is visited
// first and can claim the shorter one as a child.
func sortCapEntries(entries []capEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			a, b := entries[j-1], entries[j]
			if a.rng.Start < b.rng.Start || (a.rng.Start == b.rng.Start && a.rng.End >= b.rng.End) {
				break
			}
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

// buildAnchorLevel consumes entries starting at i whose range fits within
// bound, nesting any entry contained by a preceding sibling as that
// sibling's child. Returns the anchors built at this level and the index of
// the first unconsumed entry.
func buildAnchorLevel(entries []capEntry, i int, bound Range) ([]Anchor, int) {
	var out []Anchor
	for i < len(entries) {
		e := entries[i]
		if e.rng.Start < bound.Start || e.rng.End > bound.End {
			break
		}
		children, next := buildAnchorLevel(entries, i+1, e.rng)
		out = append(out, Anchor{
			Attr:     e.attr,
			HasAttr:  true,
			Range:    e.rng,
			Children: children,
		})
		i = next
	}
	return out, i
}
