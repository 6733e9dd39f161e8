package sc13dg

import (
	"regexp"
)

// Optional short answer trailing the last question, e.g. "IN" or "CO, HC".
const trailingAnswer = `(?:\s*(?:[0-9A-Z]{2}\b[:;,\.]?[ \t]*)*[0-9A-Z]{2}\b)?`

var (
	pageEndRe = regexp.MustCompile(`1[24][\)]?\s*[:\.]?\s*TYPE[S]?\s+OF\s+REPORTING\s+PERSON[S]?\s*[\*]?\s*(\(SEE\s+INSTRUCTIONS\))?[:\.]?` + trailingAnswer)

	itemPageEnd = map[bool]*regexp.Regexp{
		true:  regexp.MustCompile(`ITEM\s*[#\.\:]?\s*[\(]?\s*14\s*[\)]?[\.\:]?(?:\s*TYPE[S]?\s+OF\s+REPORTING\s+PERSON[S]?\s*[\*]?\s*(\(SEE\s+INSTRUCTIONS\))?[:\.]?)?` + trailingAnswer),
		false: regexp.MustCompile(`ITEM\s*[#\.\:]?\s*[\(]?\s*12\s*[\)]?[\.\:]?(?:\s*TYPE[S]?\s+OF\s+REPORTING\s+PERSON[S]?\s*[\*]?\s*(\(SEE\s+INSTRUCTIONS\))?[:\.]?)?` + trailingAnswer),
	}
)

// ReportingPages splits the reporting-pages text into one span per
// reporting person. Every occurrence of the final question (with its short
// answer) closes a page; the text after the last one is appended to the
// last page, so the spans tile text exactly. It returns nil when no final
// question is present.
func ReportingPages(text string, form FormType, repQAsItems bool) []Span {
	re := pageEndRe
	if repQAsItems {
		re = itemPageEnd[form.Is13D()]
	}

	locs := re.FindAllStringIndex(upperASCII(text), -1)
	if len(locs) == 0 {
		return nil
	}

	pages := make([]Span, 0, len(locs))
	start := 0
	for _, loc := range locs {
		pages = append(pages, Span{start, loc[1]})
		start = loc[1]
	}
	pages[len(pages)-1].End = len(text)
	return pages
}

func questionPatterns(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// Question headers by question number minus one.
var (
	questions13D = questionPatterns(
		`[\(]?1[\)]?\s*[:\.]{0,1}\s*NAME[S]?\s+OF\s+REPORTING\s+PERSON[S]?`,
		`[\(]?2[\)]?\s*[:\.]{0,1}\s*CHECK\s+THE\s+APPROPRIATE\s+BOX\s+IF\s+A\s+MEMBER`,
		`[\(]?3[\)]?\s*[:\.]{0,1}\s*SEC\s+USE\s+ONLY`,
		`[\(]?4[\)]?\s*[:\.]{0,1}\s*SOURCE\s+OF\s+FUNDS[\*]?`,
		`[\(]?5[\)]?\s*[:\.]{0,1}\s*CHECK(\s+BOX)?\s+IF\s+DISCLOSURE\s+OF\s+LEGAL\s+PROCEEDINGS`,
		`[\(]?6[\)]?\s*[:\.]{0,1}\s*CITIZENSHIP\s+OR\s+PLACE\s+OF\s+ORGANIZATION`,
		`[\(]?7[\)]?\s*[:\.]{0,1}\s*SOLE\s+VOTING\s+POWER`,
		`[\(]?8[\)]?\s*[:\.]{0,1}\s*SHARED\s+VOTING\s+POWER`,
		`[\(]?9[\)]?\s*[:\.]{0,1}\s*SOLE\s+DISPOSITIVE\s+POWER`,
		`[\(]?10[\)]?\s*[:\.]{0,1}\s*SHARED\s+DISPOSITIVE\s+POWER`,
		`[\(]?11[\)]?\s*[:\.]{0,1}\s*AGGREGATE\s+AMOUNT\s+BENEFICIALLY\s+OWNED`,
		`[\(]?12[\)]?\s*[:\.]{0,1}\s*CHECK(\s+BOX)?\s+IF\s+THE\s+AGGREGATE\s+AMOUNT`,
		`[\(]?13[\)]?\s*[:\.]{0,1}\s*PERCENT\s+OF\s+CLASS\s+REPRESENTED`,
		`[\(]?14[\)]?\s*[:\.]{0,1}\s*TYPE[S]?\s+OF\s+REPORTING\s+PERSON[S]?`,
	)

	questions13G = questionPatterns(
		`[\(]?1[\)]?\s*[:\.]{0,1}\s*NAME[S]?\s+OF\s+REPORTING\s+PERSON[S]?`,
		`[\(]?2[\)]?\s*[:\.]{0,1}\s*CHECK\s+THE\s+APPROPRIATE\s+BOX\s+IF\s+A\s+MEMBER`,
		`[\(]?3[\)]?\s*[:\.]{0,1}\s*SEC\s+USE\s+ONLY`,
		`[\(]?4[\)]?\s*[:\.]{0,1}\s*CITIZENSHIP\s+OR\s+PLACE\s+OF\s+ORGANIZATION`,
		`[\(]?5[\)]?\s*[:\.]{0,1}\s*SOLE\s+VOTING\s+POWER`,
		`[\(]?6[\)]?\s*[:\.]{0,1}\s*SHARED\s+VOTING\s+POWER`,
		`[\(]?7[\)]?\s*[:\.]{0,1}\s*SOLE\s+DISPOSITIVE\s+POWER`,
		`[\(]?8[\)]?\s*[:\.]{0,1}\s*SHARED\s+DISPOSITIVE\s+POWER`,
		`[\(]?9[\)]?\s*[:\.]{0,1}\s*AGGREGATE\s+AMOUNT\s+BENEFICIALLY\s+OWNED`,
		`[\(]?10[\)]?\s*[:\.]{0,1}\s*CHECK(\s+BOX)?\s+IF\s+THE\s+AGGREGATE\s+AMOUNT`,
		`[\(]?11[\)]?\s*[:\.]{0,1}\s*PERCENT\s+OF\s+CLASS\s+REPRESENTED`,
		`[\(]?12[\)]?\s*[:\.]{0,1}\s*TYPE[S]?\s+OF\s+REPORTING\s+PERSON[S]?`,
	)
)

// SplitQuestions cuts one reporting page into its question sections.
// Section 0 holds the CUSIP/SEDOL header above question 1; section i holds
// question i through to the next question (the last runs to the page end).
// Each question is searched after the previous one; a missing question
// fails the page with ErrMissingQuestion.
func SplitQuestions(page string, form FormType) ([]string, error) {
	patterns := questions13G
	if form.Is13D() {
		patterns = questions13D
	}

	upper := upperASCII(page)
	starts := make([]int, 0, len(patterns))
	pos := 0
	for i, re := range patterns {
		loc := re.FindStringIndex(upper[pos:])
		if loc == nil {
			return nil, &ExtractionError{Question: i + 1, Err: ErrMissingQuestion}
		}
		pos += loc[0]
		starts = append(starts, pos)
	}

	sections := make([]string, 0, len(patterns)+1)
	sections = append(sections, page[:starts[0]])
	for i, start := range starts {
		end := len(page)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		sections = append(sections, page[start:end])
	}
	return sections, nil
}
