package ui

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "..."

// truncateGraphemes shortens s to at most max grapheme clusters, ending
// with "..." when anything was cut. Clusters are never split.
func truncateGraphemes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= max {
		return s
	}

	keep, suffix := max-len(ellipsis), ellipsis
	if keep <= 0 {
		keep, suffix = max, ""
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < keep && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString(suffix)
	return b.String()
}

// padGraphemes truncates or right-pads s to exactly width clusters.
func padGraphemes(s string, width int) string {
	s = truncateGraphemes(s, width)
	if n := uniseg.GraphemeClusterCount(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}
