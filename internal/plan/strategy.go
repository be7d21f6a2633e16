package plan

import (
	"strings"

	"resume-tailor/internal/model"
	"resume-tailor/internal/textnorm"
)

// findAnchor locates the first occurrence of anchor in line, case-insensitive
// and tolerant of whitespace differences, and returns the byte range of the
// match in the original line. Both strings are folded through the same
// offset-preserving normalizer so the returned range is exact.
func findAnchor(line, anchor string) (start, end int, ok bool) {
	normLine, offsets := textnorm.NormalizeWithOffsets(line)
	normAnchor, _ := textnorm.NormalizeWithOffsets(anchor)
	if normAnchor == "" {
		return 0, 0, false
	}
	idx := strings.Index(normLine, normAnchor)
	if idx == -1 {
		return 0, 0, false
	}
	// Index is a byte offset into normLine; offsets is indexed by rune.
	runeStart := len([]rune(normLine[:idx]))
	runeEnd := runeStart + len([]rune(normAnchor))
	return offsets[runeStart], offsets[runeEnd], true
}

// buildEditedLine produces the post-edit line for a candidate. The validator
// scores this exact string and the applier emits it; the two can never
// diverge because there is only one placement implementation.
func buildEditedLine(line string, c model.EditCandidate) (string, bool) {
	start, end, ok := findAnchor(line, c.Anchor)
	if !ok {
		return "", false
	}

	switch c.Strategy {
	case model.StrategyModifier:
		return line[:start] + c.Insertion + " " + line[start:], true

	case model.StrategyParenthetical:
		ins := strings.TrimSpace(c.Insertion)
		if strings.HasPrefix(ins, "(") && strings.HasSuffix(ins, ")") {
			return line[:end] + " " + ins + line[end:], true
		}
		return line[:end] + " (" + ins + ")" + line[end:], true

	case model.StrategyTail:
		trimmed := strings.TrimRight(line, " \t")
		ins := c.Insertion
		if strings.HasPrefix(strings.TrimLeft(ins, " "), ",") {
			return trimmed + strings.TrimLeft(ins, " "), true
		}
		return trimmed + ", " + strings.TrimSpace(ins), true
	}

	return "", false
}
