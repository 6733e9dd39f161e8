package sc13dg

import (
	"regexp"
	"strings"
)

// Question-1 headers of an orthodox reporting page, in their known phrasings.
var orthodoxQ1 = newLocator("cover_page_q1_start", Upper, EarliestStart,
	`\s+[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.]{0,1}(\s*[\(\|]\s*A\s*[\)\|])?\s*(.){0,50}\s*NAME[\(]?[S]?[\)]?\s+(?:OF|OR)(\s+THE)?\s+(?:REPORTING|ABOVE|REPORT)`,
	`\s+[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.]{0,1}(\s*[\(\|]\s*A\s*[\)\|])?\s*(.){0,50}\s*NAME[\(]?[S]?[\)]?\s+(?:OF|OR)(\s+THE)?(\s+(?:REPORTING|ABOVE|REPORT))?\s+PERSON[\(]?[S]?[\)]?`,
	`\s+[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.]{0,1}(\s*[\(\|]\s*A\s*[\)\|])?\s*(.){0,50}\s*NAME[\(]?[S]?[\)]?\s+(?:AND|OF|OR)(\s+I[\.]?R[\.]?S)?\s+IDENTIFICATION\s+NO[\(]?[S]?[\)]?\.`,
	`(NAME[\(]?[S]?[\)]?\s+(?:OF|OR)(\s+THE)?(\s+(?:REPORTING|ABOVE|REPORT))?\s+PERSON[\(]?[S]?[\)]?\s+)?[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.\|]{0,1}\s*I\.R\.S\.\s+IDENTIFICATION\s+NO[\(]?[S]?[\)]?\.\s+(?:OF|OR)\s+(\s+THE)?ABOVE\s+PERSON[\(]?[S]?[\)]?`,
	`(NAME[\(]?[S]?[\)]?\s+(?:OF|OR)(\s+THE)?(\s+(?:REPORTING|ABOVE|REPORT))?\s+PERSON[\(]?[S]?[\)]?\s+)?[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.\|]{0,1}\s*S\.S\.\s+OR\s+I\.R\.S\.\s+IDENTIFICATION\s+NO[\(]?[S]?[\)]?\.\s+(?:OF|OR)(\s+THE)?\s+ABOVE\s+PERSON[\(]?[S]?[\)]?`,
	`[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.]{0,1}(\s*[\(\|]\s*A\s*[\)\|])?\s*NAME[\(]?[S]?[\)]?\s+(?:OF|OR)(\s+THE)?\s+FILING\s+(?:PARTY|PARTIES|PERSON|PERSONS)`,
	`NAME[\(]?[S]?[\)]?\s+(?:OF|OR)(\s+THE)?(\s+(?:REPORTING|ABOVE|REPORT))?\s+PERSON[\(]?[S]?[\)]?\s+(S\.S\.\s+OR\s+I\.R\.S\.\s+IDENTIFICATION\s+NO[\(]?[S]?[\)]?\.\s+(?:OF|OR)(\s+THE)?\s+ABOVE\s+PERSON[\(]?[S]?[\)]?)?\s+[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.]{0,1}(\s*[\(\|]\s*A\s*[\)\|])?`,
	// short form: bare "1 ... 2 ... 3 (SEC USE ONLY)" numbering
	`\n\s*[\(\|]?\s1\s?[\)\|]?\s*[:\.]{0,1}([A-Z0-9\s\.\(\)_]?)+?[\(\|]?\s2\s?[\)\|]?\s*[:\.]{0,1}([A-Z0-9\s\.\(\)_]?)+?[\(\|]?\s3\s?[\)\|]?\s*[:\.]{0,1}\s+(.)+\s*\(SEC USE ONLY\)`,
	`NAME[\(]?[S]?[\)]?\s+(?:OF|OR)(\s+THE)?\s+(?:REPORTING|ABOVE|REPORT)`,
	`NAME[\(]?[S]?[\)]?\s+(?:AND|OF|OR)(\s+I[\.]?R[\.]?S)?\s+IDENTIFICATION\s+NO[\(]?[S]?[\)]?.`,
	`\s+[\(\|]?\s*[1L]\s*[\)\|]?\s*[:\.]{0,1}(\s*[\(\|]\s*A\s*[\)\|])?\s*(.){0,50}\s*NAME[\(]?[S]?[\)]?\s+(?:AND|OF|OR)(\s+I[\.]?R[\.]?S)?\s+NUMBER\s+OF\s+REPORTING\s+PERSON[S]?`,
)

var (
	repQAsItemsRe  = regexp.MustCompile(`\n\s*ITEM\s*(\.)?\s*[\(]?\s*1[24]\s*[\)]?(\.)?`)
	itemTwelveRe   = regexp.MustCompile(`ITEM\s*[#\.\:]?\s*[\(]?\s*1[24]\s*[\)]?[\.\:]?`)
	itemOneRe      = regexp.MustCompile(`ITEM\s*[#\.\:]?\s*[\(]?\s*1`)
	itemAnyRe      = regexp.MustCompile(`ITEM\s*[#\.\:]?\s*[\(]?\s*[0-9]{1,2}`)
	describedInRe  = regexp.MustCompile(`DESCRIBED\s+IN\s*$`)
	irsQuestionOne = regexp.MustCompile(`[\(]?\s*1\s*[\)]?\s*[:\.]{0,1}\s*NAME[S]?\s+(OF\s+(?:REPORTING|ABOVE)\s+PERSON[S]?)?(\s*/\s*)?(S\.S\.\s+)?(\s+(?:OR|AND))\s+I\.R\.S\.\s+IDENTIFICATION\s+NO[S]?\.\s+(OF\s+(?:REPORTING|ABOVE)\s+PERSON[S]?)?`)
)

// IsRepQAsItems reports whether the filer labelled the reporting-page
// questions "Item 1" .. "Item 12/14". It only applies when no orthodox
// question-1 header was found; real item sections never reach Item 12.
func IsRepQAsItems(t *Text, orthodoxQ1Start Offset) bool {
	if orthodoxQ1Start.Found() {
		return false
	}
	return repQAsItemsRe.MatchString(t.upper)
}

// OrthodoxQ1Start returns the earliest question-1 header across all known
// phrasings.
func OrthodoxQ1Start(t *Text) Offset {
	return orthodoxQ1.Find(t)
}

// RepAsItemsQ1Start returns the "Item 1" label preceding the first
// "Item 12" or "Item 14" label.
func RepAsItemsQ1Start(t *Text) Offset {
	loc := itemTwelveRe.FindStringIndex(t.upper)
	if loc == nil {
		return NotFound
	}
	return findNotFollowedByDigit(itemOneRe, t.upper[:loc[0]])
}

// CoverPageQ1Start returns the question-1 offset using the convention the
// filer followed.
func CoverPageQ1Start(t *Text, repQAsItems bool) Offset {
	if repQAsItems {
		return RepAsItemsQ1Start(t)
	}
	return OrthodoxQ1Start(t)
}

// findNotFollowedByDigit returns the first match of re in s whose next
// byte is not a digit, so "ITEM 1" never matches "ITEM 10".
func findNotFollowedByDigit(re *regexp.Regexp, s string) Offset {
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[1] < len(s) && isDigit(s[loc[1]]) {
			continue
		}
		return At(loc[0])
	}
	return NotFound
}

// TitlePageUpperBound bounds the title page from above: the first "Item 1"
// label when questions are mislabelled, otherwise the standard question-1
// phrasing, otherwise the first "Item N" that is not a "described in Item N"
// cross-reference.
func TitlePageUpperBound(t *Text, repQAsItems bool, orthodoxQ1Start Offset) Offset {
	if repQAsItems {
		return RepAsItemsQ1Start(t)
	}

	irs := NotFound
	if loc := irsQuestionOne.FindStringIndex(t.upper); loc != nil {
		irs = At(loc[0])
	}
	if bound := earliest(irs, orthodoxQ1Start); bound.Found() {
		return bound
	}

	for _, loc := range itemAnyRe.FindAllStringIndex(t.upper, -1) {
		if describedInRe.MatchString(t.upper[:loc[0]]) {
			continue
		}
		// Back up over the indentation so the bound never follows the
		// item-section start, which includes it.
		pos := loc[0]
		for pos > 0 && isSpace(t.upper[pos-1]) {
			pos--
		}
		return At(pos)
	}
	return NotFound
}

// Parenthetical captions under title-page blanks, e.g. "(Name of Issuer)".
var titleCaptions = newLocator("title_page_end_lower_bound", Upper, LastEnd,
	`\((?:NAME|CUSIP|SEDOL|DATE|TITLE|AMENDMENT)(.*?\s)*?(?:ISSUER|SECURITIES|NUMBER|STATEMENT|SCHEDULE|NO\.?|#)\)`,
)

// TitlePageLowerBound returns the end of the last parenthetical caption
// before the upper bound.
func TitlePageLowerBound(t *Text, repQAsItems bool, upper Offset) Offset {
	if repQAsItems {
		return NotFound
	}
	return titleCaptions.In(t, 0, upper.Or(t.Len()))
}

// Closing boilerplate of the title page.
var titleBoilerplate = newLocator("title_page_boilerplate", Lower, LastEnd,
	`but\s+shall\s+be\s+subject\s+to\s+all\s+other\s+provisions\s+of\s+the\s+act\s*(\(however,\s+see\s+the\s+notes\s*\))?(\.)?`,
	`for\s+any\s+subsequent\s+amendment\s+containing\s+information\s+which\s+would\s+alter\s+(the\s+)?disclosures\s+provided\s+in\s+a\s+prior\s+cover\s+page(\.)?`,
	`see\s+((?:section|rule|[\x{a7}]{1,2})\s*)?(240\.\s*)?(\.\s*)?13d\s*[-\x{2011}]?\s*7(\s*\(\s*[a-z]\s*\)\s*)?\s+for\s+other\s+parties\s+to\s+whom\s+copies\s+are\s+to\s+be\s+sent(\.)`,
	`(\x{a7}\x{a7})?(240\.)?13d-1\(e\),\s+(\x{a7}\x{a7})?(240\.)?13d-1\(f\)\s+or\s+(\x{a7}\x{a7})?(240\.)?13d-1\(g\),\s+check\s+the\s+following\s+box(\.)?\s*(?:\[\s*\]|\x{2610})?\s*(\.)?`,
	`(\()?\s*date\s+of\s+event\s+which\s+requires\s+filing\s+of\s+this\s+statement\s*(\))?`,
	`(\()?\s*name,\s+address\s+and\s+telephone\s+number\s+of\s+person\s+authorized\s+to\s+receive\s+notices\s+and\s+communication(s)?\s*(\))?`,
	`(\()?\s*(cusip\s+number\s+of\s+class\s+of\s+securities|cusip\s+number)\s*(\))?`,
)

var (
	cusipSEDOLMention = newLocator("cusip_sedol", Upper, LastStart, `(?:CUSIP|SEDOL)`)

	// Page-header keywords; the title page ends at the earliest of their
	// last occurrences.
	titleKeywords = []*Locator{
		cusipSEDOLMention,
		newLocator("schedule", Upper, LastStart, `SCHEDULE\s+13[DG](/A)?`),
		newLocator("sc", Upper, LastStart, `SC\s+13[DG](/A)?`),
		newLocator("page", Upper, LastStart, `PAGE`),
		newLocator("form", Upper, LastStart, `13[DG](/A)?`),
	}
)

// TitlePageEnd refines the upper bound downward. The end of the last
// closing-boilerplate sentence wins. Without boilerplate, a title page with
// fewer than two CUSIP/SEDOL mentions ends at the upper bound; otherwise it
// ends at the earliest of the last page-header keywords.
func TitlePageEnd(t *Text, upper Offset) Offset {
	hi := upper.Or(t.Len())
	if end := titleBoilerplate.In(t, 0, hi); end.Found() {
		return end
	}
	if !upper.Found() {
		return NotFound
	}
	if cusipSEDOLMention.Count(t, 0, hi) < 2 {
		return upper
	}

	result := NotFound
	for _, l := range titleKeywords {
		result = earliest(result, l.In(t, 0, hi))
	}
	return firstFound(result, upper)
}

var (
	pageHeaderLineRe = regexp.MustCompile(`\n\s*(?:CUSIP|SEDOL)`)
	scheduleLineRe   = regexp.MustCompile(`(?:^|\n)[ \t\f]*(?:SCHEDULE|SC)\s+13\s*[DG](?:\s*/\s*A)?[^\n]*\s*$`)
)

// CoverPageStart backs up from question 1 to the start of the page-header
// line naming the CUSIP/SEDOL, and across a "SCHEDULE 13D/G" line directly
// above it. It never backs up past floor.
func CoverPageStart(t *Text, q1 Offset, floor Offset) Offset {
	pos, ok := q1.Get()
	if !ok {
		return NotFound
	}
	lo := floor.Or(0)
	if lo > pos {
		lo = pos
	}

	start := pos
	if loc := lastMatch(pageHeaderLineRe, t.upper[lo:pos]); loc != nil {
		start = lo + loc[0]
	}
	if loc := scheduleLineRe.FindStringIndex(t.upper[lo:start]); loc != nil {
		start = lo + loc[0]
	}
	return At(start)
}

var (
	lastQuestion = newLocator("cover_page_last_question", Upper, LastEnd,
		`[\(]?\s*1[24][\)]?\s*[\:\.]?\s*TYPE[S]?\s+OF\s+REPORTING\s+PERSON[S]?[\*]?\s*(\(SEE\s+INSTRUCTIONS\))?`)
	lastQuestionAsItem = newLocator("cover_page_last_question", Upper, LastEnd,
		`ITEM\s*[\(]?\s*1[24]\s*[\)]?\s*[\:\.]?`)
)

// CoverPagesLastQuestion returns the end of the last "Type of Reporting
// Person" header (or "Item 12/14" label) within [lo, hi).
func CoverPagesLastQuestion(t *Text, repQAsItems bool, lo, hi Offset) Offset {
	l := lastQuestion
	if repQAsItems {
		l = lastQuestionAsItem
	}
	return l.In(t, lo.Or(0), hi.Or(t.Len()))
}

var (
	answerLineRe     = regexp.MustCompile(`^\s*[:\.]?\s*(?:[A-Z0]{2}\b[;,\.]?[ \t]*)+\n?`)
	footnoteStartRe  = regexp.MustCompile(`^[ \t\f\n]*(?:\(\d{1,2}\)|\*{1,3}|\[\d{1,2}\]|\d{1,2}\))[ \t]*\S`)
	blankLineRe      = regexp.MustCompile(`\n[ \t\f]*\n`)
	structuralWordRe = regexp.MustCompile(`\n[ \t\f]*(?:ITEM|Item\s+\d|SIGNATURES?|EXPLANATORY|EXHIBIT|SCHEDULE|AMENDMENT|INTRODUCTORY|PRELIMINARY)\b`)
)

// CoverPagesEnd finds where the last reporting page ends, looking after the
// last question within [lastQ, hi). Strategies, first success wins:
//  1. the end of a footnote block following the last answer
//  2. the end of the short answer line (e.g. "IN" or "CO, HC")
//  3. the next capitalized structural keyword
func CoverPagesEnd(t *Text, lastQ, hi Offset) Offset {
	lo, ok := lastQ.Get()
	if !ok {
		return NotFound
	}
	lo, end := clampWindow(lo, hi.Or(t.Len()), t.Len())

	answer := NotFound
	if loc := answerLineRe.FindStringIndex(t.raw[lo:end]); loc != nil {
		answer = At(lo + loc[1])
	}

	if fn := footnotesEnd(t.raw, answer.Or(lo), end); fn.Found() {
		return fn
	}
	if answer.Found() {
		return answer
	}
	if loc := structuralWordRe.FindStringIndex(t.raw[lo:end]); loc != nil {
		return At(lo + loc[0])
	}
	return NotFound
}

// footnotesEnd consumes consecutive footnote paragraphs starting at pos and
// returns the end of the last one, up to and including its blank line.
func footnotesEnd(s string, pos, end int) Offset {
	result := NotFound
	for pos < end && footnoteStartRe.MatchString(s[pos:end]) {
		loc := blankLineRe.FindStringIndex(s[pos:end])
		if loc == nil {
			return At(end)
		}
		pos += loc[1]
		result = At(pos)
	}
	return result
}

var (
	itemHeaderRe = regexp.MustCompile(`\n\s*item\s*[#\.\;\:]?\s*(?:[0-9])[#\.\;\:]?`)

	itemTitles13D = newLocator("item_section_start", Lower, FirstCandidate,
		`\n\s*[#\.\;\:]?\s*1[#\.\;\:]?\s*security\s+and\s+issuer`,
		`\n\s*[#\.\;\:]?\s*2[#\.\;\:]?\s*identity\s+and\s+background`,
		`\n\s*[#\.\;\:]?\s*3[#\.\;\:]?\s*source\s+and\s+amount\s+of\s+funds`,
		`\n\s*[#\.\;\:]?\s*4[#\.\;\:]?\s*purpose\s+of\s+transaction`,
		`\n\s*[#\.\;\:]?\s*5[#\.\;\:]?\s*interest\s+in\s+securities\s+of\s+the\s+issuer`,
		`\n\s*[#\.\;\:]?\s*6[#\.\;\:]?\s*contracts,\s+arrangements,\s+understandings`,
		`\n\s*[#\.\;\:]?\s*7[#\.\;\:]?\s*material\s+to\s+be\s+filed\s+as\s+exhibits`,
	)

	itemTitles13G = newLocator("item_section_start", Lower, FirstCandidate,
		`\n\s*[#\.\;\:]?\s*1[#\.\;\:]?[\(]?\s*a[\)]?[#\.\;\:]?\s*name\s+of\s+issuer`,
		`\n\s*[#\.\;\:]?\s*1[#\.\;\:]?[\(]?\s*b[\)]?[#\.\;\:]?\s*address\s+of\s+issuer`,
		`\n\s*[#\.\;\:]?\s*2[#\.\;\:]?[\(]?\s*a[\)]?[#\.\;\:]?\s*name[s]?\s+of\s+person[s]?\s+filing`,
		`\n\s*[#\.\;\:]?\s*2[#\.\;\:]?[\(]?\s*b[\)]?[#\.\;\:]?\s*address\s+of\s+principle`,
		`\n\s*[#\.\;\:]?\s*2[#\.\;\:]?[\(]?\s*c[\)]?[#\.\;\:]?\s*citizenship`,
		`\n\s*[#\.\;\:]?\s*2[#\.\;\:]?[\(]?\s*d[\)]?[#\.\;\:]?\s*title\s+of\s+class`,
		`\n\s*[#\.\;\:]?\s*2[#\.\;\:]?[\(]?\s*e[\)]?[#\.\;\:]?\s*cusip\s+number`,
		`\n\s*[#\.\;\:]?\s*3[#\.\;\:]?\s*if\s+this\s+statement\s+is\s+filed\s+pursuant`,
		`\n\s*[#\.\;\:]?\s*4[#\.\;\:]?\s*ownership`,
		`\n\s*[#\.\;\:]?\s*5[#\.\;\:]?\s*ownership\s+of\s+five`,
		`\n\s*[#\.\;\:]?\s*6[#\.\;\:]?\s*ownership\s+of\s+more`,
		`\n\s*[#\.\;\:]?\s*7[#\.\;\:]?\s*identification\s+and\s+classification`,
		`\n\s*[#\.\;\:]?\s*8[#\.\;\:]?\s*identification\s+and\s+classification`,
		`\n\s*[#\.\;\:]?\s*9[#\.\;\:]?\s*notice\s+of\s+dissolution`,
		`\n\s*[#\.\;\:]?\s*10[#\.\;\:]?\s*certification`,
	)
)

// ItemSectionStart finds the first "Item N" header after the last
// reporting-page question, or anywhere when there are no reporting pages.
// Failing that it falls back to the canonical item titles of the form type,
// taking the first title in item order that matches.
func ItemSectionStart(t *Text, form FormType, lastQ Offset) Offset {
	lo := lastQ.Or(0)
	if loc := itemHeaderRe.FindStringIndex(t.lower[lo:]); loc != nil {
		return At(lo + loc[0])
	}
	titles := itemTitles13G
	if form.Is13D() {
		titles = itemTitles13D
	}
	return titles.In(t, lo, t.Len())
}

var signatureMarkers = newLocator("signature_start", Lower, FirstCandidate,
	`\n\s*(signature|signatures)\s*(\.)?\n`,
	`the\s+following\s+certification\s+shall\s+be\s+included\s+if\s+the\s+statement\s+is\s+filed\s+pursuant to rule 13d-1\(b\)`,
	`by\s+signing\s+below\s+i\s+certify\s+that,\s+to\s+the\s+best\s+of\s+my\s+knowledge`,
	`after\s+reasonable\s+inquiry\s+`,
)

// SignatureStart returns the first signature marker at or after lo. The
// certification language stands in for filers that omit the word
// "Signature".
func SignatureStart(t *Text, lo Offset) Offset {
	return signatureMarkers.In(t, lo.Or(0), t.Len())
}

var exhibitMarkers = newLocator("exhibit_start", Upper, FirstCandidate,
	`EXHIBIT\s+INDEX`,
	`\n\s*EXHIBIT\s+[0-9A-Z](:)?`,
	`\n\s*APPENDIX\s+[0-9A-Z](:)?`,
)

// ExhibitStart returns the first exhibit marker at or after lo.
func ExhibitStart(t *Text, lo Offset) Offset {
	return exhibitMarkers.In(t, lo.Or(0), t.Len())
}

var explanatoryMarkers = newLocator("explanatory_statement_start", Lower, EarliestStart,
	`\n\s*explanatory\s+note`,
	`\n\s*amendment\s+(number|no)(\.)?\s*[0-9]+\s*\n`,
	`\n\s*schedule\s+13[dg]\s+amendment\s+(number|no)(\.)?\s*[0-9]+\s*\n`,
	`\n\s*this\s+amendment\s+(number|no)(\.)?\s*[0-9]+\s+`,
	`\n\s*pursuant\s+to\s+rule\s+13d-`,
	`\n\s*this\s+amended\s+schedule\s+13[dg]`,
	`\n\s*the\s+undersigned(\s+reporting\s+person(s)?)?\s+hereby\s+amend\s+(the|their)\s+schedule\s+13[dg]`,
	`\n\s*the\s+schedule\s+13[dg]\s+was\s+initially\s+filed`,
	`\n(.)+hereby\s+amends\s+the\s+schedule\s+13[dg]`,
	`\n\s*the\s+filing\s+of\s+this\s+schedule\s+13[dg]`,
	`\n\s*the\s+filing\s+of\s+this\s+statement\s+on\s+schedule\s+13[dg]`,
	`\n\s*the\s+reporting\s+person(s)?\s+listed\s+`,
)

// ExplanatoryStatementStart finds an explanatory or amendment statement
// between the cover pages and the item section.
func ExplanatoryStatementStart(t *Text, lo, hi Offset) Offset {
	return explanatoryMarkers.In(t, lo.Or(0), hi.Or(t.Len()))
}

var cusipSEDOLWord = newLocator("cusip_sedol_count", Lower, EarliestStart, `(cusip|sedol)`)

// CountCUSIPSEDOL counts "CUSIP"/"SEDOL" mentions before hi.
func CountCUSIPSEDOL(t *Text, hi Offset) int {
	return cusipSEDOLWord.Count(t, 0, hi.Or(t.Len()))
}

var tableOfContentsRe = regexp.MustCompile(`TABLE\s+OF\s+CONTENTS`)

// HasTableOfContents reports a table of contents before hi.
func HasTableOfContents(t *Text, hi Offset) bool {
	_, end := clampWindow(0, hi.Or(t.Len()), t.Len())
	return tableOfContentsRe.MatchString(t.upper[:end])
}

var scheduleTORe = regexp.MustCompile(`(?:SCHEDULE|Schedule)\s+TO\b`)

// IsScheduleTO reports a combined Schedule TO tender-offer statement, which
// names "Schedule TO" before hi.
func IsScheduleTO(t *Text, hi Offset) bool {
	_, end := clampWindow(0, hi.Or(t.Len()), t.Len())
	return scheduleTORe.MatchString(t.raw[:end])
}

var (
	questionOneRe     = regexp.MustCompile(`[\(]?1[\)]?\s*[:\.]{0,1}\s*NAME[S]?\s+OF\s+REPORTING\s+PERSON[S]?`)
	questionOneItemRe = regexp.MustCompile(`\n\s*ITEM\s*[#\.\:]?\s*[\(]?\s*1\s*[\)]?[\.\:]?\s+NAME`)
	embeddedItemRe    = regexp.MustCompile(`\n\s*ITEM\s*[#\.\;\:]?\s*[0-9]{1,2}[#\.\;\:]?\s`)
	embeddedSigRe     = regexp.MustCompile(`\n\s*SIGNATURES?\s*\.?\n`)
)

// HasJumbledOrder reports item or signature content between two question-1
// markers before hi, i.e. the filing does not run cover pages, then items,
// then signatures.
func HasJumbledOrder(t *Text, repQAsItems bool, hi Offset) bool {
	_, end := clampWindow(0, hi.Or(t.Len()), t.Len())
	s := t.upper[:end]

	q1 := questionOneRe
	if repQAsItems {
		q1 = questionOneItemRe
	}
	starts := q1.FindAllStringIndex(s, -1)
	for i := 1; i < len(starts); i++ {
		segment := s[starts[i-1][1]:starts[i][0]]
		if embeddedSigRe.MatchString(segment) {
			return true
		}
		if !repQAsItems && embeddedItemRe.MatchString(segment) {
			return true
		}
	}
	return false
}

// HasExhibitBreak reports a page break between lo and the exhibit
// heading. The whitespace leading into the heading counts.
func HasExhibitBreak(t *Text, lo, exhibit Offset) bool {
	end, ok := exhibit.Get()
	if !ok {
		return false
	}
	start, end := clampWindow(lo.Or(0), end, t.Len())
	for end < t.Len() && isSpace(t.raw[end]) {
		end++
	}
	return strings.ContainsRune(t.raw[start:end], PageBreak)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == PageBreak
}
