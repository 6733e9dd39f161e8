package sc13dg

import (
	"regexp"
)

// Case selects which case-folded view of the text a locator searches.
type Case int

const (
	Upper Case = iota
	Lower
	Original
)

// Strategy reduces the matches of a locator's candidate patterns to a
// single offset.
type Strategy int

const (
	// EarliestStart takes the minimum match start across all candidates.
	EarliestStart Strategy = iota
	// FirstCandidate takes the start of the first candidate, in list
	// order, that matches at all.
	FirstCandidate
	// LastStart takes the largest start of a repeated forward search.
	LastStart
	// LastEnd takes the largest end of a repeated forward search.
	LastEnd
)

// Locator finds a structural boundary from an ordered list of candidate
// patterns, each encoding one known phrasing of a header.
type Locator struct {
	Name     string
	Case     Case
	Strategy Strategy
	Patterns []*regexp.Regexp
}

// newLocator compiles the candidate patterns of a locator.
func newLocator(name string, c Case, s Strategy, patterns ...string) *Locator {
	l := &Locator{Name: name, Case: c, Strategy: s}
	for _, p := range patterns {
		l.Patterns = append(l.Patterns, regexp.MustCompile(p))
	}
	return l
}

// Find searches the whole text.
func (l *Locator) Find(t *Text) Offset {
	return l.In(t, 0, t.Len())
}

// In searches the window [lo, hi) and returns an offset into the full text.
func (l *Locator) In(t *Text, lo, hi int) Offset {
	lo, hi = clampWindow(lo, hi, t.Len())
	s := t.view(l.Case)[lo:hi]

	result := NotFound
	for _, re := range l.Patterns {
		var o Offset
		switch l.Strategy {
		case EarliestStart, FirstCandidate:
			if loc := re.FindStringIndex(s); loc != nil {
				o = At(loc[0])
			}
		case LastStart:
			if loc := lastMatch(re, s); loc != nil {
				o = At(loc[0])
			}
		case LastEnd:
			if loc := lastMatch(re, s); loc != nil {
				o = At(loc[1])
			}
		}
		if !o.Found() {
			continue
		}
		switch l.Strategy {
		case FirstCandidate:
			return o.Add(lo)
		case EarliestStart:
			result = earliest(result, o)
		default:
			result = latest(result, o)
		}
	}
	return result.Add(lo)
}

// Count returns the number of non-overlapping matches of every candidate
// within [lo, hi).
func (l *Locator) Count(t *Text, lo, hi int) int {
	lo, hi = clampWindow(lo, hi, t.Len())
	s := t.view(l.Case)[lo:hi]
	n := 0
	for _, re := range l.Patterns {
		n += len(re.FindAllStringIndex(s, -1))
	}
	return n
}

// lastMatch repeats a forward search from the end of the previous match and
// returns the location of the final match, or nil.
func lastMatch(re *regexp.Regexp, s string) []int {
	var last []int
	pos := 0
	for pos <= len(s) {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		last = []int{pos + loc[0], pos + loc[1]}
		if loc[1] == 0 {
			pos++
		} else {
			pos += loc[1]
		}
	}
	return last
}

func clampWindow(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi < 0 || hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// Text is normalized filing text with ASCII case-folded views. Folding only
// touches ASCII letters, so byte offsets are identical across views.
type Text struct {
	raw   string
	upper string
	lower string
}

// NewText builds the case-folded views of s.
func NewText(s string) *Text {
	return &Text{raw: s, upper: foldASCII(s, true), lower: foldASCII(s, false)}
}

// String returns the original text.
func (t *Text) String() string { return t.raw }

// Len returns the length of the text in bytes.
func (t *Text) Len() int { return len(t.raw) }

// Slice returns the original text in [lo, hi).
func (t *Text) Slice(lo, hi int) string {
	lo, hi = clampWindow(lo, hi, t.Len())
	return t.raw[lo:hi]
}

func (t *Text) view(c Case) string {
	switch c {
	case Upper:
		return t.upper
	case Lower:
		return t.lower
	default:
		return t.raw
	}
}

func foldASCII(s string, upper bool) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case upper && 'a' <= c && c <= 'z':
			b[i] = c - ('a' - 'A')
		case !upper && 'A' <= c && c <= 'Z':
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func upperASCII(s string) string {
	return foldASCII(s, true)
}
