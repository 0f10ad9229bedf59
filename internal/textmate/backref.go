package textmate

import "strconv"

// sentinelScalar is substituted for a back-reference whose capture did not
// participate in the begin match: U+FFFF cannot occur in well-formed UTF-8
// source text, so the resulting end pattern can never match (4.7).
const sentinelScalar = "￿"

// ResolveEndPattern scans source for \N back-references (N one or more
// decimal digits) and substitutes each with the literal text the N-th
// capture matched in beginLine, verbatim and without regex-escaping, or
// with sentinelScalar if that capture did not participate.
//
// If source contains no back-references, it is returned unchanged — same
// string value, changed is false — so callers can skip recompilation and
// reuse a precompiled Pattern (identity preserved, per design notes).
func ResolveEndPattern(source, beginLine string, begin Match) (resolved string, changed bool) {
	var buf []byte
	i, n := 0, len(source)
	for i < n {
		if source[i] == '\\' && i+1 < n && isDigit(source[i+1]) {
			if buf == nil {
				buf = make([]byte, 0, n)
				buf = append(buf, source[:i]...)
			}
			j := i + 1
			for j < n && isDigit(source[j]) {
				j++
			}
			group, _ := strconv.Atoi(source[i+1 : j])
			if r, ok := begin.Group(group); ok {
				buf = append(buf, beginLine[r.Start:r.End]...)
			} else {
				buf = append(buf, sentinelScalar...)
			}
			i = j
			continue
		}
		if buf != nil {
			buf = append(buf, source[i])
		}
		i++
	}
	if buf == nil {
		return source, false
	}
	return string(buf), true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
