package sc13dg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// statementStripper removes a boilerplate statement, or any run of its
// words, from answer text. Filers wrap and truncate question captions, so
// the statement is matched as a sequence of optional words rather than a
// fixed phrase.
type statementStripper struct {
	atStart  *regexp.Regexp
	anywhere *regexp.Regexp
}

func newStatementStripper(statement string) *statementStripper {
	words := strings.Fields(strings.ToUpper(statement))
	for i, w := range words {
		words[i] = withWordBoundary(w)
	}

	parts := make([]string, len(words))
	for i := range words {
		alt := `(?:` + strings.Join(words[i:], "|") + `)`
		if i == 0 {
			parts[i] = alt
		} else {
			parts[i] = alt + `?`
		}
	}
	body := strings.Join(parts, `[\s-]*`)

	return &statementStripper{
		atStart:  regexp.MustCompile(`^\s*` + body),
		anywhere: regexp.MustCompile(`\n\s*` + body),
	}
}

var alternationRe = regexp.MustCompile(`^\(\?:([A-Z0-9|]+)\)$`)

// withWordBoundary stops a caption word from matching the start of an
// answer word, e.g. "OR" in "ORACLE".
func withWordBoundary(w string) string {
	if base, ok := strings.CutSuffix(w, `[*]?`); ok {
		return withWordBoundary(base) + `[*]?`
	}
	last := w[len(w)-1]
	switch {
	case isDigit(last) || ('A' <= last && last <= 'Z'):
		return w + `\b`
	case strings.HasSuffix(w, `[S]?`):
		return w + `\b`
	case alternationRe.MatchString(w):
		return w + `\b`
	}
	return w
}

// Strip replaces every located part of the statement with a space.
func (s *statementStripper) Strip(text string) string {
	upper := upperASCII(text)

	var parts []string
	if m := s.atStart.FindString(upper); m != "" {
		parts = append(parts, m)
	}
	parts = append(parts, s.anywhere.FindAllString(upper, -1)...)

	result := text
	for _, part := range parts {
		if start := strings.Index(upperASCII(result), part); start != -1 {
			result = result[:start] + " " + result[start+len(part):]
		}
	}
	return result
}

// StripFormStatement removes statement, matched word by word, from text.
func StripFormStatement(text, statement string) string {
	return newStatementStripper(statement).Strip(text)
}

const (
	beneficialOwnership = `NUMBER OF SHARES BENEFICIALLY OWNED BY EACH REPORTING PERSON WITH`
	nameStatement       = `(?:NAMES|NAME) OF REPORTING (?:PERSONS|PERSON)[*]? S.S. OR I.R.S. IDENTIFICATION (?:NOS.|NO.) OF ABOVE (?:PERSONS|PERSON) \(ENTITIES ONLY\)`
	typeStatement       = `TYPE[S]? OF REPORTING PERSON[S]? \(SEE INSTRUCTIONS\)`
)

var (
	beneficialOwnershipStripper = newStatementStripper(beneficialOwnership)

	// Question captions keyed by question number. Questions 2 and 3 have
	// no free-text answer.
	statements13D = compileStatements(map[int]string{
		1:  nameStatement,
		4:  `SOURCE OF FUNDS[*]? \(SEE INSTRUCTIONS\)`,
		5:  `CHECK BOX IF DISCLOSURE OF LEGAL PROCEEDINGS IS REQUIRED PURSUANT TO ITEMS 2\(D\) OR 2\(E\)`,
		6:  `CITIZENSHIP OR PLACE OF ORGANIZATION`,
		7:  `SOLE VOTING POWER`,
		8:  `SHARED VOTING POWER`,
		9:  `SOLE DISPOSITIVE POWER`,
		10: `SHARED DISPOSITIVE POWER`,
		11: `AGGREGATE AMOUNT BENEFICIALLY OWNED BY EACH REPORTING PERSON`,
		12: `CHECK BOX IF THE AGGREGATE AMOUNT IN ROW \(11\) EXCLUDES CERTAIN SHARES[*]?`,
		13: `PERCENT OF CLASS REPRESENTED BY AMOUNT IN ROW \(11\)`,
		14: typeStatement,
	})

	statements13G = compileStatements(map[int]string{
		1:  nameStatement,
		4:  `CITIZENSHIP OR PLACE OF ORGANIZATION`,
		5:  `SOLE VOTING POWER`,
		6:  `SHARED VOTING POWER`,
		7:  `SOLE DISPOSITIVE POWER`,
		8:  `SHARED DISPOSITIVE POWER`,
		9:  `AGGREGATE AMOUNT BENEFICIALLY OWNED BY EACH REPORTING PERSON`,
		10: `CHECK BOX IF THE AGGREGATE AMOUNT IN ROW \(9\) EXCLUDES CERTAIN SHARES[*]?`,
		11: `PERCENT OF CLASS REPRESENTED BY AMOUNT IN ROW \(9\)`,
		12: typeStatement,
	})

	questionNumberRes = compileQuestionNumbers(14)
	answerTrimRe      = regexp.MustCompile(`^[:;\-\x{2013}\.\s]+|[\s\-]+$`)
)

func compileStatements(statements map[int]string) map[int]*statementStripper {
	res := make(map[int]*statementStripper, len(statements))
	for q, s := range statements {
		res[q] = newStatementStripper(s)
	}
	return res
}

func compileQuestionNumbers(n int) map[int]*regexp.Regexp {
	res := make(map[int]*regexp.Regexp, n)
	for q := 1; q <= n; q++ {
		res[q] = regexp.MustCompile(`^\(?` + strconv.Itoa(q) + `\)?\s*[:\.]?`)
	}
	return res
}

// carriesBeneficialCaption reports the rows that sit beside the
// "Number of shares beneficially owned" column caption.
func carriesBeneficialCaption(form FormType, question int) bool {
	if form.Is13D() {
		return question >= 6 && question <= 11
	}
	return question >= 4 && question <= 9
}

// AnswerText extracts the free-text answer of a question section: the
// beneficial-ownership caption, the question number and the question's
// caption are removed, then stray punctuation is trimmed. Applying it to
// its own output returns the output unchanged.
func AnswerText(section string, form FormType, question int) string {
	result := section
	if carriesBeneficialCaption(form, question) {
		result = beneficialOwnershipStripper.Strip(result)
	}

	caption := questionCaption(form, question)
	result = stripQuestionNumber(result, question, caption)
	if caption != nil {
		result = caption.Strip(result)
	}
	return answerTrimRe.ReplaceAllString(result, "")
}

// questionCaption returns the caption stripper of a question, or nil for
// questions without a free-text answer.
func questionCaption(form FormType, question int) *statementStripper {
	if form.Is13D() {
		return statements13D[question]
	}
	return statements13G[question]
}

// stripQuestionNumber removes a leading "N", "(N)", "N." or "N:" label,
// leaving numeric answers such as "10,000" or "12.5%" intact. When the
// question has a caption the label is only removed in front of it, so an
// answer like "1 Main Street Capital" keeps its number.
func stripQuestionNumber(s string, question int, caption *statementStripper) string {
	re, ok := questionNumberRes[question]
	if !ok {
		return s
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}

	p := len(strconv.Itoa(question))
	if strings.HasPrefix(s, "(") {
		p++
	}
	if p < len(s) {
		c := s[p]
		if isDigit(c) || c == ',' || c == '%' {
			return s
		}
		if c == '.' && p+1 < len(s) && isDigit(s[p+1]) {
			return s
		}
	}
	rest := s[loc[1]:]
	if strings.TrimSpace(rest) == "" {
		return s
	}
	if caption != nil && !caption.atStart.MatchString(upperASCII(rest)) {
		return s
	}
	return rest
}

var (
	boxAMarkerRe = regexp.MustCompile(`\([aAcCeE][\.]?\)`)
	boxBMarkerRe = regexp.MustCompile(`\([bBdDfF][\.]?\)`)
	crossRe      = regexp.MustCompile(`\b[xX]\b|[\x{2612}\x{2611}\x{2713}\x{2714}]`)
	boxTickRe    = regexp.MustCompile(`\b[xX1]\b|[\x{2612}\x{2611}\x{2713}\x{2714}]`)
)

// GroupBoxes reads question 2: box (a) is checked when a cross appears
// between markers (a) and (b), box (b) when one appears after marker (b).
func GroupBoxes(section string) (a, b bool, err error) {
	aLoc := boxAMarkerRe.FindStringIndex(section)
	bLoc := boxBMarkerRe.FindStringIndex(section)
	if aLoc == nil || bLoc == nil {
		return false, false, ErrMissingCheckbox
	}
	if aLoc[1] < bLoc[0] {
		a = crossRe.MatchString(section[aLoc[1]:bLoc[0]])
	}
	b = crossRe.MatchString(section[bLoc[1]:])
	return a, b, nil
}

var (
	sourceOfFundsRe = regexp.MustCompile(`\b(SC|BK|AF|WC|PF|OO|00)\b`)
	personTypeRe    = regexp.MustCompile(`\b(BD|BK|IC|IV|IA|EP|HC|SA|CP|CO|C0|PN|IN|OO|00)\b`)
)

// SourceOfFunds returns the source-of-funds codes of 13D question 4, with
// "00" read as "OO".
func SourceOfFunds(section string, form FormType) ([]string, error) {
	if !form.Is13D() {
		return nil, fmt.Errorf("%w: source of funds is only reported on %s", ErrUnsupportedFormType, FormSC13D)
	}
	codes := sourceOfFundsRe.FindAllString(AnswerText(section, form, 4), -1)
	for i, c := range codes {
		if c == "00" {
			codes[i] = "OO"
		}
	}
	return codes, nil
}

// BoxChecked reads a single-box question: 13D questions 5 and 12, or 13G
// question 10.
func BoxChecked(section string, form FormType, question int) (bool, error) {
	switch {
	case form.Is13D() && (question == 5 || question == 12):
	case form.Is13G() && question == 10:
	default:
		return false, fmt.Errorf("%w: %s question %d", ErrNotCheckboxQuestion, form, question)
	}
	return boxTickRe.MatchString(AnswerText(section, form, question)), nil
}

// ReportingPersonTypes returns the type codes of the final question, with
// the digit 0 read as the letter O.
func ReportingPersonTypes(section string, form FormType) []string {
	codes := personTypeRe.FindAllString(AnswerText(section, form, form.Questions()), -1)
	for i, c := range codes {
		codes[i] = strings.ReplaceAll(c, "0", "O")
	}
	return codes
}
