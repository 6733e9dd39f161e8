package sc13dg

import (
	"time"
)

// FailedOffset marks every offset of a document whose extraction failed,
// so a failed document is distinguishable from one not yet processed.
const FailedOffset = -2

// IndexRow is the persisted per-document row.
type IndexRow struct {
	FileName string `json:"file_name"`
	Document string `json:"document"`
	FormType string `json:"form_type"`

	TitlePageEndLowerBound    int `json:"title_page_end_lower_bound"`
	TitlePageEnd              int `json:"title_page_end"`
	CoverPageQ1Start          int `json:"cover_page_q1_start"`
	CoverPageStart            int `json:"cover_page_start"`
	CoverPageLastQuestionEnd  int `json:"cover_page_last_question_end"`
	CoverPageEnd              int `json:"cover_page_end"`
	ExplanatoryStatementStart int `json:"explanatory_statement_start"`
	ItemSectionStart          int `json:"item_section_start"`
	SignatureStart            int `json:"signature_start"`
	ExhibitStart              int `json:"exhibit_start"`

	NumCUSIPSEDOLBeforeQ1    int `json:"num_cusip_sedol_before_q1"`
	NumCUSIPSEDOLBeforeItems int `json:"num_cusip_sedol_before_items"`

	IsRepQAsItems      bool `json:"is_rep_q_as_items"`
	IsScheduleTO       bool `json:"is_schedule_to"`
	HasTableOfContents bool `json:"has_table_of_contents"`
	HasJumbledOrder    bool `json:"has_jumbled_order"`
	HasExhibitBreak    bool `json:"has_exhibit_break"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PageRow is the persisted row of one reporting page.
type PageRow struct {
	FileName string `json:"file_name"`
	Document string `json:"document"`
	ExtractedRecord
}

// DocumentResult is everything written for one document.
type DocumentResult struct {
	Ref         FilingRef `json:"ref"`
	Index       IndexRow  `json:"index"`
	Pages       []PageRow `json:"pages"`
	ProcessedAt time.Time `json:"processed_at"`
}

// NewDocumentResult builds the rows for ref from the outcome of
// ExtractRecords. A non-nil err produces a single failure row and no page
// rows.
func NewDocumentResult(ref FilingRef, ext *Extraction, err error) *DocumentResult {
	res := &DocumentResult{Ref: ref, ProcessedAt: time.Now().UTC()}
	if err != nil || ext == nil || ext.Segments == nil {
		res.Index = FailureRow(ref, err)
		return res
	}

	res.Index = NewIndexRow(ref, ext.Segments)
	for _, rec := range ext.Records {
		res.Pages = append(res.Pages, PageRow{
			FileName:        ref.FileName,
			Document:        ref.Document,
			ExtractedRecord: rec,
		})
	}
	return res
}

// NewIndexRow converts a segment map into a successful index row.
func NewIndexRow(ref FilingRef, m *SegmentMap) IndexRow {
	return IndexRow{
		FileName:                  ref.FileName,
		Document:                  ref.Document,
		FormType:                  m.FormType.String(),
		TitlePageEndLowerBound:    m.TitlePageLowerBound.Int(),
		TitlePageEnd:              m.TitlePageEnd.Int(),
		CoverPageQ1Start:          m.CoverPageQ1Start.Int(),
		CoverPageStart:            m.CoverPageStart.Int(),
		CoverPageLastQuestionEnd:  m.CoverPageLastQuestionEnd.Int(),
		CoverPageEnd:              m.CoverPageEnd.Int(),
		ExplanatoryStatementStart: m.ExplanatoryStart.Int(),
		ItemSectionStart:          m.ItemSectionStart.Int(),
		SignatureStart:            m.SignatureStart.Int(),
		ExhibitStart:              m.ExhibitStart.Int(),
		NumCUSIPSEDOLBeforeQ1:     m.NumCUSIPSEDOLBeforeQ1,
		NumCUSIPSEDOLBeforeItems:  m.NumCUSIPSEDOLBeforeItems,
		IsRepQAsItems:             m.IsRepQAsItems,
		IsScheduleTO:              m.IsScheduleTO,
		HasTableOfContents:        m.HasTableOfContents,
		HasJumbledOrder:           m.HasJumbledOrder,
		HasExhibitBreak:           m.HasExhibitBreak,
		Success:                   true,
	}
}

// FailureRow is the sentinel row of a document whose extraction failed.
func FailureRow(ref FilingRef, err error) IndexRow {
	row := IndexRow{
		FileName:                  ref.FileName,
		Document:                  ref.Document,
		FormType:                  ref.FormType,
		TitlePageEndLowerBound:    FailedOffset,
		TitlePageEnd:              FailedOffset,
		CoverPageQ1Start:          FailedOffset,
		CoverPageStart:            FailedOffset,
		CoverPageLastQuestionEnd:  FailedOffset,
		CoverPageEnd:              FailedOffset,
		ExplanatoryStatementStart: FailedOffset,
		ItemSectionStart:          FailedOffset,
		SignatureStart:            FailedOffset,
		ExhibitStart:              FailedOffset,
		NumCUSIPSEDOLBeforeQ1:     FailedOffset,
		NumCUSIPSEDOLBeforeItems:  FailedOffset,
	}
	if err != nil {
		row.Error = err.Error()
	}
	return row
}
