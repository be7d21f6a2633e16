package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds text into the canonical form used for matching: NFKC,
// lowercase, and runs of whitespace collapsed to single spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return collapseSpaces(strings.TrimSpace(s))
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeWithOffsets lowercases s and collapses whitespace while keeping,
// for every rune of the normalized string, the byte offset of the rune in s
// that produced it. The trailing entry maps the end of the normalized string
// to len(s). Unlike Normalize this skips NFKC so that offsets stay exact.
func NormalizeWithOffsets(s string) (string, []int) {
	runes := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	inSpace := false
	pendingSpaceOffset := 0
	for i, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				pendingSpaceOffset = i
			}
			inSpace = true
			continue
		}
		if inSpace && len(runes) > 0 {
			runes = append(runes, ' ')
			offsets = append(offsets, pendingSpaceOffset)
		}
		inSpace = false
		runes = append(runes, unicode.ToLower(r))
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return string(runes), offsets
}

// WordTokens splits s into lowercase word tokens, stripping punctuation.
// A token is a maximal run of letters, digits, or intra-word marks (+ # . /),
// so "Power BI," yields ["power", "bi"] and "CI/CD" stays one token.
func WordTokens(s string) []string {
	s = Normalize(s)
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, strings.Trim(b.String(), "./"))
			b.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '/' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	out := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// glueWords are connective fillers that insertion strategies introduce around
// a keyword (", and X", "with Y"). They do not count toward the word budget.
var glueWords = map[string]struct{}{
	"and": {}, "or": {}, "with": {}, "using": {}, "via": {},
	"in": {}, "of": {}, "a": {}, "an": {}, "the": {},
}

// InsertionWordCount counts the content words of an insertion, ignoring
// punctuation and glue words, so ", and Power BI" counts as 2.
func InsertionWordCount(insertion string) int {
	n := 0
	for _, t := range WordTokens(insertion) {
		if _, glue := glueWords[t]; glue {
			continue
		}
		n++
	}
	return n
}

// WordSet returns the distinct word tokens of s.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range WordTokens(s) {
		set[t] = struct{}{}
	}
	return set
}
