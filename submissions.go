package sc13dg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// SubmissionsURL is the root of the per-CIK submissions API.
const SubmissionsURL = "https://data.sec.gov/submissions/"

// Submissions is the SEC submissions data for a CIK
type Submissions struct {
	CIK     string      `json:"cik"`
	Name    string      `json:"name"`
	Ticker  []string    `json:"tickers"`
	Filings FilingsData `json:"filings"`
}

// FilingsData contains recent and paginated filings information
type FilingsData struct {
	Recent FilingArrays `json:"recent"`
	Files  []FilingFile `json:"files"`
}

// FilingFile represents a paginated file containing older filings
type FilingFile struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// FilingArrays contains parallel arrays of filing data
// Each index in the arrays represents one filing
type FilingArrays struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is one row of FilingArrays.
type Filing struct {
	AccessionNumber string
	FilingDate      string
	Form            string
	PrimaryDocument string
	CIK             string
}

// FetchSubmissions fetches and parses the CIK submissions JSON from SEC
func FetchSubmissions(ctx context.Context, f *Fetcher, cik string) (*Submissions, error) {
	url := fmt.Sprintf("%sCIK%010s.json", SubmissionsURL, strings.TrimLeft(cik, "0"))
	body, err := f.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return ParseSubmissions(strings.NewReader(string(body)))
}

// ParseSubmissions parses a submissions JSON from a reader (for local files or testing)
func ParseSubmissions(r io.Reader) (*Submissions, error) {
	var subs Submissions
	if err := json.NewDecoder(r).Decode(&subs); err != nil {
		return nil, fmt.Errorf("failed to parse submissions JSON: %w", err)
	}
	return &subs, nil
}

// FetchPaginatedFilings fetches and parses a paginated filings file
func FetchPaginatedFilings(ctx context.Context, f *Fetcher, filename string) (*FilingArrays, error) {
	body, err := f.Get(ctx, SubmissionsURL+filename)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch paginated filings: %w", err)
	}
	var filings FilingArrays
	if err := json.Unmarshal(body, &filings); err != nil {
		return nil, fmt.Errorf("failed to parse paginated filings JSON: %w", err)
	}
	return &filings, nil
}

// GetFilings converts the parallel arrays in FilingArrays into a slice of Filing structs
func (fa *FilingArrays) GetFilings(cik string) []Filing {
	filings := make([]Filing, len(fa.AccessionNumber))
	for i, acc := range fa.AccessionNumber {
		filing := Filing{CIK: cik, AccessionNumber: acc}
		if i < len(fa.FilingDate) {
			filing.FilingDate = fa.FilingDate[i]
		}
		if i < len(fa.Form) {
			filing.Form = fa.Form[i]
		}
		if i < len(fa.PrimaryDocument) {
			filing.PrimaryDocument = fa.PrimaryDocument[i]
		}
		filings[i] = filing
	}
	return filings
}

// GetRecentFilings returns all recent filings as a slice
func (s *Submissions) GetRecentFilings() []Filing {
	return s.Filings.Recent.GetFilings(s.CIK)
}

// GetAllFilings returns recent filings followed by every paginated file.
// The fetcher's limiter paces the extra requests.
func (s *Submissions) GetAllFilings(ctx context.Context, f *Fetcher) ([]Filing, error) {
	all := s.GetRecentFilings()
	for _, file := range s.Filings.Files {
		page, err := FetchPaginatedFilings(ctx, f, file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", file.Name, err)
		}
		all = append(all, page.GetFilings(s.CIK)...)
	}
	return all, nil
}

// Ref converts the filing into a FilingRef. Rendered primary documents
// such as "xslSCHEDULE_13D_X01/primary_doc.xml" point at the raw file.
func (f Filing) Ref(companyName string) FilingRef {
	cik := strings.TrimLeft(f.CIK, "0")
	doc := f.PrimaryDocument
	if i := strings.LastIndex(doc, "/"); i >= 0 {
		doc = doc[i+1:]
	}
	return FilingRef{
		CIK:         cik,
		CompanyName: companyName,
		FormType:    f.Form,
		DateFiled:   f.FilingDate,
		FileName:    fmt.Sprintf("edgar/data/%s/%s.txt", cik, f.AccessionNumber),
		Document:    doc,
	}
}

// FilingRefs returns refs for the CIK's recent Schedule 13D/13G filings.
func (s *Submissions) FilingRefs() []FilingRef {
	return s.RefsFor(s.GetRecentFilings())
}

// RefsFor returns refs for the Schedule 13D/13G filings among filings.
func (s *Submissions) RefsFor(filings []Filing) []FilingRef {
	var refs []FilingRef
	for _, f := range FilterByForm(filings, "13") {
		refs = append(refs, f.Ref(s.Name))
	}
	return refs
}

// FilterByForm filters filings by form type.
// Examples:
//   - "13D" matches "SC 13D", "SC 13D/A"
//   - "13G" matches "SC 13G", "SC 13G/A"
//   - "13" matches all of them
func FilterByForm(filings []Filing, formType string) []Filing {
	var filtered []Filing
	for _, f := range filings {
		if matchesFormType(f.Form, formType) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// FilterByDateRange filters filings by date range (inclusive)
// Dates should be in YYYY-MM-DD format
func FilterByDateRange(filings []Filing, from, to string) []Filing {
	var filtered []Filing
	for _, f := range filings {
		if (from == "" || f.FilingDate >= from) && (to == "" || f.FilingDate <= to) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
