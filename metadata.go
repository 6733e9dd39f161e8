package sc13dg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ArchivesURL is the root of EDGAR's filing archive.
const ArchivesURL = "https://www.sec.gov/Archives/"

// FilingRef identifies one filing document on EDGAR.
type FilingRef struct {
	CIK         string `json:"cik"`
	CompanyName string `json:"company_name,omitempty"`
	FormType    string `json:"form_type"`
	DateFiled   string `json:"date_filed,omitempty"`
	// FileName is the archive path of the full submission, e.g.
	// "edgar/data/1631574/0001193125-25-314736.txt".
	FileName string `json:"file_name"`
	// Document is the primary document name; empty means the main
	// document of the .txt submission.
	Document string `json:"document,omitempty"`
}

var (
	fileNameRe  = regexp.MustCompile(`/(\d+)/(\d{10}-\d{2}-\d{6})`)
	filingURLRe = regexp.MustCompile(`/edgar/data/(\d+)/(\d{18})/([^/?#]*)`)
)

// Accession returns the dashed accession number, e.g. "0001193125-25-314736".
func (r FilingRef) Accession() string {
	if m := fileNameRe.FindStringSubmatch(r.FileName); m != nil {
		return m[2]
	}
	return ""
}

// Key identifies the document for resumable runs.
func (r FilingRef) Key() string {
	return r.FileName + "|" + r.Document
}

// TxtURL returns the URL of the full .txt submission.
func (r FilingRef) TxtURL() string {
	return ArchivesURL + strings.TrimPrefix(r.FileName, "/")
}

// IndexURL returns the URL of the filing's -index.htm page.
func (r FilingRef) IndexURL() string {
	acc := r.Accession()
	return fmt.Sprintf("%sedgar/data/%s/%s/%s-index.htm", ArchivesURL, r.directoryCIK(), accessionPath(acc), acc)
}

// DocumentURL returns the URL of the primary document.
func (r FilingRef) DocumentURL() string {
	return fmt.Sprintf("%sedgar/data/%s/%s/%s", ArchivesURL, r.directoryCIK(), accessionPath(r.Accession()), r.Document)
}

func (r FilingRef) directoryCIK() string {
	if m := fileNameRe.FindStringSubmatch(r.FileName); m != nil {
		return m[1]
	}
	return strings.TrimLeft(r.CIK, "0")
}

func accessionPath(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}

// formatAccession turns an 18-digit accession into XXXXXXXXXX-XX-XXXXXX.
func formatAccession(acc string) string {
	if len(acc) == 18 && !strings.Contains(acc, "-") {
		return acc[:10] + "-" + acc[10:12] + "-" + acc[12:]
	}
	return acc
}

// ParseFilingURL builds a FilingRef from an EDGAR document URL.
// Example URL: https://www.sec.gov/Archives/edgar/data/1631574/000119312525314736/primary_doc.xml
func ParseFilingURL(url string) (*FilingRef, error) {
	m := filingURLRe.FindStringSubmatch(url)
	if m == nil {
		return nil, fmt.Errorf("could not extract CIK and accession from URL %q", url)
	}
	acc := formatAccession(m[2])
	ref := &FilingRef{
		CIK:      m[1],
		FileName: fmt.Sprintf("edgar/data/%s/%s.txt", m[1], acc),
	}
	if !strings.HasSuffix(m[3], ".txt") && !strings.HasSuffix(m[3], "-index.htm") {
		ref.Document = m[3]
	}
	return ref, nil
}

// FormatJSON returns pretty-printed JSON.
func FormatJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// SaveJSON writes v as pretty-printed JSON to path, creating its directory.
func SaveJSON(path string, v any) error {
	data, err := FormatJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save JSON output: %w", err)
	}
	return nil
}
