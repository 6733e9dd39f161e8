package sc13dg

import (
	"fmt"
)

// SegmentMap holds the structural boundaries of one filing document.
// Offsets index into the normalized text; a NotFound offset means the
// filing lacks that section.
type SegmentMap struct {
	FormType  FormType `json:"form_type"`
	HeaderEnd int      `json:"header_end"`
	TextLen   int      `json:"text_len"`

	TitlePageUpperBound      Offset `json:"title_page_upper_bound"`
	TitlePageLowerBound      Offset `json:"title_page_end_lower_bound"`
	TitlePageEnd             Offset `json:"title_page_end"`
	CoverPageQ1Start         Offset `json:"cover_page_q1_start"`
	CoverPageStart           Offset `json:"cover_page_start"`
	CoverPageLastQuestionEnd Offset `json:"cover_page_last_question_end"`
	CoverPageEnd             Offset `json:"cover_page_end"`
	ExplanatoryStart         Offset `json:"explanatory_statement_start"`
	ItemSectionStart         Offset `json:"item_section_start"`
	SignatureStart           Offset `json:"signature_start"`
	ExhibitStart             Offset `json:"exhibit_start"`

	IsRepQAsItems      bool `json:"is_rep_q_as_items"`
	IsScheduleTO       bool `json:"is_schedule_to"`
	HasTableOfContents bool `json:"has_table_of_contents"`
	HasJumbledOrder    bool `json:"has_jumbled_order"`
	HasExhibitBreak    bool `json:"has_exhibit_break"`

	NumCUSIPSEDOLBeforeQ1    int `json:"num_cusip_sedol_before_q1"`
	NumCUSIPSEDOLBeforeItems int `json:"num_cusip_sedol_before_items"`
}

// Segment normalizes a raw filing and computes its SegmentMap.
// The form type is checked before any text is processed.
func Segment(raw string, formType string) (*SegmentMap, error) {
	form, err := ParseFormType(formType)
	if err != nil {
		return nil, err
	}
	norm := Normalize(raw)
	return segmentText(NewText(norm.Text), norm.HeaderEnd, form), nil
}

// segmentText runs the locators in dependency order. Each locator receives
// the boundaries it depends on as arguments.
func segmentText(t *Text, headerEnd int, form FormType) *SegmentMap {
	m := &SegmentMap{FormType: form, HeaderEnd: headerEnd, TextLen: t.Len()}

	orthodox := OrthodoxQ1Start(t)
	m.IsRepQAsItems = IsRepQAsItems(t, orthodox)
	m.CoverPageQ1Start = orthodox
	if m.IsRepQAsItems {
		m.CoverPageQ1Start = RepAsItemsQ1Start(t)
	}

	m.TitlePageUpperBound = TitlePageUpperBound(t, m.IsRepQAsItems, orthodox)
	m.TitlePageLowerBound = TitlePageLowerBound(t, m.IsRepQAsItems, m.TitlePageUpperBound)
	m.TitlePageEnd = TitlePageEnd(t, m.TitlePageUpperBound)
	m.CoverPageStart = CoverPageStart(t, m.CoverPageQ1Start, m.TitlePageEnd)

	if m.CoverPageStart.Found() {
		m.CoverPageLastQuestionEnd = CoverPagesLastQuestion(t, m.IsRepQAsItems, m.CoverPageQ1Start, NotFound)
	}
	m.ItemSectionStart = ItemSectionStart(t, form, m.CoverPageLastQuestionEnd)
	m.CoverPageEnd = CoverPagesEnd(t, m.CoverPageLastQuestionEnd, m.ItemSectionStart)

	m.SignatureStart = SignatureStart(t, firstFound(m.ItemSectionStart, m.CoverPageEnd, m.CoverPageLastQuestionEnd, m.TitlePageEnd))
	m.ExhibitStart = ExhibitStart(t, firstFound(m.SignatureStart, m.ItemSectionStart, m.CoverPageEnd))

	explanatoryFrom := firstFound(m.CoverPageEnd, m.CoverPageLastQuestionEnd, m.TitlePageEnd)
	m.ExplanatoryStart = ExplanatoryStatementStart(t, explanatoryFrom, firstFound(m.ItemSectionStart, m.SignatureStart))

	m.IsScheduleTO = IsScheduleTO(t, firstFound(m.CoverPageStart, m.ItemSectionStart))
	m.HasTableOfContents = HasTableOfContents(t, m.ItemSectionStart)
	m.HasJumbledOrder = HasJumbledOrder(t, m.IsRepQAsItems, m.ExhibitStart)
	m.HasExhibitBreak = HasExhibitBreak(t, firstFound(m.SignatureStart, m.ItemSectionStart), m.ExhibitStart)

	m.NumCUSIPSEDOLBeforeQ1 = CountCUSIPSEDOL(t, m.CoverPageQ1Start)
	m.NumCUSIPSEDOLBeforeItems = CountCUSIPSEDOL(t, m.ItemSectionStart)
	return m
}

// HasCoverPages reports whether reporting pages were located.
func (m *SegmentMap) HasCoverPages() bool {
	return m.CoverPageStart.Found()
}

// Validate checks that the found boundaries are non-decreasing in document
// order:
//
//	title_page_end <= cover_page_start <= item_section_start <= signature_start <= exhibit_start
//
// NotFound boundaries are skipped.
func (m *SegmentMap) Validate() error {
	ordered := []struct {
		name string
		off  Offset
	}{
		{"title_page_end", m.TitlePageEnd},
		{"cover_page_start", m.CoverPageStart},
		{"item_section_start", m.ItemSectionStart},
		{"signature_start", m.SignatureStart},
		{"exhibit_start", m.ExhibitStart},
	}

	prevName, prev := "", -1
	for _, b := range ordered {
		pos, ok := b.off.Get()
		if !ok {
			continue
		}
		if pos < prev {
			return fmt.Errorf("%w: %s=%d precedes %s=%d", ErrOffsetsOutOfOrder, b.name, pos, prevName, prev)
		}
		prevName, prev = b.name, pos
	}
	return nil
}
