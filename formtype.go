package sc13dg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormType is one of the four Schedule 13D/13G submission types.
type FormType string

const (
	FormSC13D  FormType = "SC 13D"
	FormSC13DA FormType = "SC 13D/A"
	FormSC13G  FormType = "SC 13G"
	FormSC13GA FormType = "SC 13G/A"
)

// FormTypes lists every supported form type.
var FormTypes = []FormType{FormSC13D, FormSC13DA, FormSC13G, FormSC13GA}

var formSpaceRe = regexp.MustCompile(`\s+`)

// ParseFormType converts a user- or EDGAR-supplied form name into a FormType.
// Accepted spellings include:
//   - "SC 13D", "SC 13D/A", "SC 13G", "SC 13G/A" (EDGAR conformed types)
//   - "13D", "13g/a" (short names)
//   - "SCHEDULE 13D", "Schedule 13G/A" (XML submission types)
//
// Anything else returns ErrUnsupportedFormType.
func ParseFormType(s string) (FormType, error) {
	form := normalizeFormType(s)
	switch FormType(form) {
	case FormSC13D, FormSC13DA, FormSC13G, FormSC13GA:
		return FormType(form), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormType, s)
}

// MustParseFormType is like ParseFormType but panics on error.
func MustParseFormType(s string) FormType {
	ft, err := ParseFormType(s)
	if err != nil {
		panic(err)
	}
	return ft
}

// normalizeFormType converts user-friendly form names to SEC form names
// Examples:
//   - "13D" → "SC 13D"
//   - "SCHEDULE 13G/A" → "SC 13G/A"
//   - "sc 13d / a" → "SC 13D/A"
//   - "4" → "4" (unchanged)
func normalizeFormType(formType string) string {
	form := strings.ToUpper(strings.TrimSpace(formType))
	form = formSpaceRe.ReplaceAllString(form, " ")
	form = strings.ReplaceAll(form, " /", "/")
	form = strings.ReplaceAll(form, "/ ", "/")

	if rest, ok := strings.CutPrefix(form, "SCHEDULE "); ok {
		form = "SC " + rest
	}
	if strings.HasPrefix(form, "13D") || strings.HasPrefix(form, "13G") {
		form = "SC " + form
	}
	return form
}

// matchesFormType checks if a filing form matches the requested form type.
// Schedule 13 requests include amendments:
//   - "13D" matches "SC 13D" and "SC 13D/A"
//   - "13" matches every Schedule 13D/13G form
//   - "SC 13G/A" matches only "SC 13G/A"
func matchesFormType(filingForm, requestedForm string) bool {
	if strings.TrimSpace(requestedForm) == "13" {
		_, err := ParseFormType(filingForm)
		return err == nil
	}

	normalizedRequest := normalizeFormType(requestedForm)
	normalizedFiling := normalizeFormType(filingForm)
	if normalizedFiling == normalizedRequest {
		return true
	}
	if strings.HasPrefix(normalizedRequest, "SC 13") {
		return strings.HasPrefix(normalizedFiling, normalizedRequest+"/")
	}
	return false
}

// Is13D reports whether the form belongs to the 13D family.
func (f FormType) Is13D() bool {
	return f == FormSC13D || f == FormSC13DA
}

// Is13G reports whether the form belongs to the 13G family.
func (f FormType) Is13G() bool {
	return f == FormSC13G || f == FormSC13GA
}

// IsAmendment reports whether the form is a /A amendment.
func (f FormType) IsAmendment() bool {
	return strings.HasSuffix(string(f), "/A")
}

// Base returns the form without its amendment suffix.
func (f FormType) Base() FormType {
	return FormType(strings.TrimSuffix(string(f), "/A"))
}

// Questions returns the number of numbered questions on a reporting page:
// 14 for the 13D family and 12 for the 13G family.
func (f FormType) Questions() int {
	if f.Is13D() {
		return 14
	}
	return 12
}

func (f FormType) String() string {
	return string(f)
}

var (
	amendmentNoRe    = regexp.MustCompile(`(?i)Amendment\s+No\.?\s*:?\s*(\d+)`)
	amendmentSlashRe = regexp.MustCompile(`/A\s*#?(\d+)`)
)

// AmendmentNumber extracts the amendment number from a form type or title
// page, e.g. "Amendment No. 9" or "SC 13D/A #2".
func AmendmentNumber(text string) (int, bool) {
	for _, re := range []*regexp.Regexp{amendmentNoRe, amendmentSlashRe} {
		if matches := re.FindStringSubmatch(text); matches != nil {
			if num, err := strconv.Atoi(matches[1]); err == nil {
				return num, true
			}
		}
	}
	return 0, false
}
