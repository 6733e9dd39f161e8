package sc13dg

// Span is a half-open byte range [Start, End) of the normalized text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span holds no text.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// In returns the span's text within s.
func (s Span) In(text string) string {
	return text[s.Start:s.End]
}

// Components partitions a filing's text into its structural sections.
// The spans tile the text: each starts where the previous one ends and
// the last ends at the end of the text.
type Components struct {
	Header         Span `json:"header"`
	TitlePage      Span `json:"title_page"`
	ReportingPages Span `json:"reporting_pages"`
	ItemSection    Span `json:"item_section"`
	Signatures     Span `json:"signatures"`
	Exhibits       Span `json:"exhibits"`
	HasExhibits    bool `json:"has_exhibits"`
}

// Spans returns the sections in document order. Exhibits are included
// only when present.
func (c Components) Spans() []Span {
	spans := []Span{c.Header, c.TitlePage, c.ReportingPages, c.ItemSection, c.Signatures}
	if c.HasExhibits {
		spans = append(spans, c.Exhibits)
	}
	return spans
}

// SplitDocument cuts text into Components using the boundaries in m.
// Missing boundaries take these defaults:
//   - title page ends at the cover-page start, else at the header end
//   - reporting pages are empty when no cover page was found; otherwise
//     they end at the cover-page end, else at the item-section start
//   - the item section ends at the signature start, else the exhibit start
//   - signatures run to the exhibit start, else to the end of the text
//
// A boundary that precedes the previous one is raised to it, so the spans
// never overlap.
func SplitDocument(text string, m *SegmentMap) Components {
	n := len(text)
	clamp := func(pos, floor int) int {
		if pos < floor {
			return floor
		}
		if pos > n {
			return n
		}
		return pos
	}

	headerEnd := clamp(m.HeaderEnd, 0)
	titleEnd := clamp(firstFound(m.TitlePageEnd, m.CoverPageStart).Or(headerEnd), headerEnd)

	reportingEnd := titleEnd
	if m.CoverPageStart.Found() {
		reportingEnd = clamp(firstFound(m.CoverPageEnd, m.ItemSectionStart, m.SignatureStart, m.ExhibitStart).Or(n), titleEnd)
	}

	exhibitStart := clamp(m.ExhibitStart.Or(n), reportingEnd)
	signatureStart := clamp(firstFound(m.SignatureStart).Or(exhibitStart), reportingEnd)
	if signatureStart > exhibitStart {
		exhibitStart = signatureStart
	}

	return Components{
		Header:         Span{0, headerEnd},
		TitlePage:      Span{headerEnd, titleEnd},
		ReportingPages: Span{titleEnd, reportingEnd},
		ItemSection:    Span{reportingEnd, signatureStart},
		Signatures:     Span{signatureStart, exhibitStart},
		Exhibits:       Span{exhibitStart, n},
		HasExhibits:    m.ExhibitStart.Found(),
	}
}
