package sc13dg

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Identifiers are the security identifiers listed above question 1 of a
// reporting page.
type Identifiers struct {
	CUSIPs []string `json:"cusips"`
	SEDOLs []string `json:"sedols"`
}

var (
	// Page-header boilerplate removed before identifiers are read, most
	// specific first.
	pageHeaderNoise = []*regexp.Regexp{
		regexp.MustCompile(`SCHEDULE\s+13\s*[DG]\s*(/\s*A)?|SC\s+13\s*[DG](/A)?|\s+13\s*[DG]\s*(/A)?\s{10,}`),
		regexp.MustCompile(`\s+13\s*[DG]\s*(/\s*A)?\s+PAGE\s+[0-9]{1,2}\s+OF\s+[0-9]{1,2}\s+(PAGES){0,1}`),
		regexp.MustCompile(`\s+13\s*[DG]\s*(/\s*A)?\s+PAGE\s+[0-9]{1,2}\s+`),
		regexp.MustCompile(`\s+13\s*[DG]\s*(/\s*A)?\s+[0-9]{1,2}\s+(PAGES)\s+`),
		regexp.MustCompile(`\s+PAGE\s+[0-9]{1,2}\s+OF\s+[0-9]{1,2}\s+(PAGES){0,1}`),
		regexp.MustCompile(`\s+PAGE\s+[0-9]{1,2}\s+`),
		regexp.MustCompile(`\s+[0-9]{1,2}\s+(PAGES)\s+`),
		regexp.MustCompile(`<PAGE>|PAGES|PAGE`),
	}

	cusipHeaderRe = regexp.MustCompile(`CUSIP(?:\s*(?:NOS?\.?|#|NUMBERS?))?\s*:?\s*`)
	sedolHeaderRe = regexp.MustCompile(`SEDOL(?:\s*(?:NOS?\.?|#|NUMBERS?))?\s*:?\s*`)

	cusipCandidateRe = regexp.MustCompile(`(?:[0-9A-Z][ -]{0,3}){4,9}`)
	sedolCandidateRe = regexp.MustCompile(`(?:[0-9A-Z][ -]{0,3}){4,7}`)

	nonAlnumRe = regexp.MustCompile(`[^0-9A-Z]`)

	// Cleaned candidates that are page furniture rather than identifiers.
	notIdentifiers = map[string]bool{
		"NONE13D": true, "NONE13G": true, "NONE13DA": true, "NONE13GA": true,
	}
)

// PageIdentifiers reads the CUSIP and SEDOL numbers from section 0 of a
// reporting page. Text after the first identifier header up to the next
// one belongs to that header's type; without any SEDOL header every
// candidate is taken as a CUSIP. Candidates keep only letters and digits
// and must be 6 to 9 characters long with at least one digit.
func PageIdentifiers(section string) Identifiers {
	text := upperASCII(section)
	for _, re := range pageHeaderNoise {
		text = re.ReplaceAllString(text, " ")
	}

	cusip := cusipHeaderRe.FindStringIndex(text)
	sedol := sedolHeaderRe.FindStringIndex(text)

	var cusipText, sedolText string
	switch {
	case sedol == nil && cusip == nil:
		cusipText = text
	case sedol == nil:
		cusipText = text[cusip[1]:]
	case cusip == nil:
		sedolText = text[sedol[1]:]
	case cusip[0] < sedol[0]:
		cusipText = text[cusip[1]:max(cusip[1], sedol[0])]
		sedolText = text[sedol[1]:]
	default:
		sedolText = text[sedol[1]:max(sedol[1], cusip[0])]
		cusipText = text[cusip[1]:]
	}

	return Identifiers{
		CUSIPs: identifierCandidates(cusipCandidateRe, cusipText),
		SEDOLs: identifierCandidates(sedolCandidateRe, sedolText),
	}
}

func identifierCandidates(re *regexp.Regexp, text string) []string {
	ids := lo.Map(re.FindAllString(text, -1), func(m string, _ int) string {
		return nonAlnumRe.ReplaceAllString(m, "")
	})
	ids = lo.Filter(ids, func(id string, _ int) bool {
		return len(id) >= 6 && len(id) <= 9 && strings.ContainsAny(id, "0123456789") && !notIdentifiers[id]
	})
	return lo.Uniq(ids)
}

// TitleCUSIP is a CUSIP found on the title page.
type TitleCUSIP struct {
	CUSIP      string           `json:"cusip"`
	CheckDigit *int             `json:"check_digit"`
	Format     IdentifierFormat `json:"format"`
	// Layouts lists the title-page layouts (A-D) that produced the number.
	Layouts string `json:"layouts"`
}

const (
	titleCUSIPNumber  = `((?:[0-9A-Z]{1}[ -]{0,3}){6,9})`
	titleCUSIPHeader  = `CUSIP\s+(?:No\.|NO\.|#|Number|NUMBER):?`
	titleCUSIPCaption = `\(CUSIP\s+(?:Number\s+of\s+Class\s+of\s+Securities|NUMBER\s+OF\s+CLASS\s+OF\s+SECURITIES|Number|NUMBER|number)\)`
)

var titleCUSIPLayouts = []struct {
	name string
	re   *regexp.Regexp
}{
	// number on a rule line above the caption
	{"A", regexp.MustCompile(titleCUSIPNumber + `[\n]?[_\.-]?\s+(?:[_\.-]{9,})?[\s\r\t\n]*` + titleCUSIPCaption)},
	// number directly above the caption
	{"B", regexp.MustCompile(titleCUSIPNumber + `[\s\t\r]*[\n]?[\s\t\r]*` + titleCUSIPCaption)},
	// header then number on the same line
	{"C", regexp.MustCompile(`[\s_]+` + titleCUSIPHeader + `[ _]{0,50}` + titleCUSIPNumber + `\s+`)},
	// header then number one or two lines below
	{"D", regexp.MustCompile(`[\s_]+` + titleCUSIPHeader + `(?:\n[\s_]{0,50}){1,2}` + titleCUSIPNumber + `\s+`)},
}

// TitlePageCUSIPs finds the subject CUSIPs on a title page, in order of
// first appearance.
func TitlePageCUSIPs(title string) []TitleCUSIP {
	var order []string
	layouts := make(map[string]string)
	for _, l := range titleCUSIPLayouts {
		for _, m := range l.re.FindAllStringSubmatch(title, -1) {
			cusip := nonAlnumRe.ReplaceAllString(m[1], "")
			if cusip == "" {
				continue
			}
			if _, seen := layouts[cusip]; !seen {
				order = append(order, cusip)
			}
			if !strings.Contains(layouts[cusip], l.name) {
				layouts[cusip] += l.name
			}
		}
	}

	return lo.Map(order, func(cusip string, _ int) TitleCUSIP {
		tc := TitleCUSIP{CUSIP: cusip, Format: ClassifyIdentifier(cusip), Layouts: layouts[cusip]}
		if d, ok := CUSIPCheckDigit(cusip); ok {
			tc.CheckDigit = &d
		}
		return tc
	})
}
