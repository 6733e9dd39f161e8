package sc13dg

import (
	"errors"
)

// ExtractedRecord holds the answers of one reporting page. Numeric answers
// are kept as the filer wrote them.
type ExtractedRecord struct {
	Seq                    int      `json:"seq"`
	CUSIPs                 []string `json:"cusips"`
	SEDOLs                 []string `json:"sedols"`
	ReportingPersonName    string   `json:"rep_person_name"`
	Box2a                  bool     `json:"box_2a"`
	Box2b                  bool     `json:"box_2b"`
	SourceOfFunds          []string `json:"source_of_funds"` // 13D only
	SC13DBox5              *bool    `json:"SC_13D_box_5"`    // 13D only
	Citizenship            string   `json:"citizenship_place_of_organization"`
	SoleVotingPower        string   `json:"num_shares_sole_vp"`
	SharedVotingPower      string   `json:"num_shares_shared_vp"`
	SoleDispositivePower   string   `json:"num_shares_sole_dp"`
	SharedDispositivePower string   `json:"num_shares_shared_dp"`
	AggregateAmountOwned   string   `json:"agg_amount_owned"`
	CertainSharesExcluded  bool     `json:"certain_shares_exc_from_agg"`
	PercentOfClass         string   `json:"agg_amount_percentage_share"`
	ReportingPersonType    []string `json:"reporting_person_type"`
}

// Extraction is the result of processing one filing document.
type Extraction struct {
	FormType        FormType          `json:"form_type"`
	Segments        *SegmentMap       `json:"segments"`
	Components      Components        `json:"components"`
	TitleCUSIPs     []TitleCUSIP      `json:"title_cusips,omitempty"`
	AmendmentNumber *int              `json:"amendment_number,omitempty"`
	Records         []ExtractedRecord `json:"records"`
	// Structured is set for XML submissions, which carry no free text.
	Structured *Schedule13Filing `json:"structured,omitempty"`
}

// questionFields maps record fields to question numbers.
type questionFields struct {
	citizenship, soleVP, sharedVP, soleDP, sharedDP, aggregate, excluded, percent int
}

var (
	fields13D = questionFields{6, 7, 8, 9, 10, 11, 12, 13}
	fields13G = questionFields{4, 5, 6, 7, 8, 9, 10, 11}
)

// ExtractRecords segments a filing document and extracts one record per
// reporting page. The form type is checked before any text is processed.
//
// A document without reporting pages yields no records and no error. Any
// page that cannot be read fails the whole document: the error is returned
// together with an Extraction holding the segment map but no records, so
// no partial record set ever escapes.
func ExtractRecords(raw string, formType string) (*Extraction, error) {
	form, err := ParseFormType(formType)
	if err != nil {
		return nil, err
	}

	if kind := DetectDocumentKind([]byte(raw)); kind != KindText {
		return extractXML([]byte(raw), form)
	}

	norm := Normalize(raw)
	t := NewText(norm.Text)
	m := segmentText(t, norm.HeaderEnd, form)
	c := SplitDocument(norm.Text, m)

	ext := &Extraction{FormType: form, Segments: m, Components: c}
	title := c.TitlePage.In(norm.Text)
	ext.TitleCUSIPs = TitlePageCUSIPs(title)
	if n, ok := AmendmentNumber(title); ok {
		ext.AmendmentNumber = &n
	}

	if err := m.Validate(); err != nil {
		return ext, err
	}
	if !m.HasCoverPages() {
		ext.Records = []ExtractedRecord{}
		return ext, nil
	}

	text := c.ReportingPages.In(norm.Text)
	pages := ReportingPages(text, form, m.IsRepQAsItems)
	if len(pages) == 0 {
		return ext, &ExtractionError{Page: 1, Question: form.Questions(), Err: ErrMissingQuestion}
	}

	records := make([]ExtractedRecord, 0, len(pages))
	for i, p := range pages {
		rec, err := extractPage(p.In(text), form)
		if err != nil {
			var ee *ExtractionError
			if errors.As(err, &ee) {
				ee.Page = i + 1
				return ext, ee
			}
			return ext, &ExtractionError{Page: i + 1, Err: err}
		}
		rec.Seq = i + 1
		records = append(records, *rec)
	}
	ext.Records = records
	return ext, nil
}

// extractPage converts one reporting page into a record.
func extractPage(page string, form FormType) (*ExtractedRecord, error) {
	q, err := SplitQuestions(page, form)
	if err != nil {
		return nil, err
	}

	ids := PageIdentifiers(q[0])
	rec := &ExtractedRecord{
		CUSIPs:              ids.CUSIPs,
		SEDOLs:              ids.SEDOLs,
		ReportingPersonName: CleanExtractedText(AnswerText(q[1], form, 1)),
	}

	rec.Box2a, rec.Box2b, err = GroupBoxes(q[2])
	if err != nil {
		return nil, &ExtractionError{Question: 2, Err: err}
	}

	f := fields13G
	if form.Is13D() {
		f = fields13D

		if rec.SourceOfFunds, err = SourceOfFunds(q[4], form); err != nil {
			return nil, &ExtractionError{Question: 4, Err: err}
		}
		box5, err := BoxChecked(q[5], form, 5)
		if err != nil {
			return nil, &ExtractionError{Question: 5, Err: err}
		}
		rec.SC13DBox5 = &box5
	}

	rec.Citizenship = CleanExtractedText(AnswerText(q[f.citizenship], form, f.citizenship))
	rec.SoleVotingPower = AnswerText(q[f.soleVP], form, f.soleVP)
	rec.SharedVotingPower = AnswerText(q[f.sharedVP], form, f.sharedVP)
	rec.SoleDispositivePower = AnswerText(q[f.soleDP], form, f.soleDP)
	rec.SharedDispositivePower = AnswerText(q[f.sharedDP], form, f.sharedDP)
	rec.AggregateAmountOwned = AnswerText(q[f.aggregate], form, f.aggregate)
	rec.PercentOfClass = AnswerText(q[f.percent], form, f.percent)
	if rec.CertainSharesExcluded, err = BoxChecked(q[f.excluded], form, f.excluded); err != nil {
		return nil, &ExtractionError{Question: f.excluded, Err: err}
	}
	rec.ReportingPersonType = ReportingPersonTypes(q[form.Questions()], form)
	return rec, nil
}
