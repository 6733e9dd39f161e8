package sc13dg

import (
	"fmt"
	"regexp"
	"strings"
)

// Submission is a full EDGAR .txt submission: the SEC header followed by
// one <DOCUMENT> block per file.
type Submission struct {
	Header    SECHeader
	Documents []Document
}

// Document is one <DOCUMENT> block of a submission.
type Document struct {
	Type        string
	Sequence    string
	FileName    string
	Description string
	// Text is the content between <TEXT> and </TEXT>.
	Text string
	// Raw is the whole block including its tags, so the document tags
	// form the header span when segmented.
	Raw string
}

// SECHeader holds the fields of <SEC-HEADER> used to index filings.
type SECHeader struct {
	AccessionNumber string
	SubmissionType  string
	FilingDate      string
	SubjectCompany  Company
	FiledBy         Company
}

// Company is a SUBJECT COMPANY or FILED BY block.
type Company struct {
	CIK  string
	Name string
}

var (
	headerBlockRe   = regexp.MustCompile(`(?s)<(?:SEC|IMS)-HEADER>(.*?)</(?:SEC|IMS)-HEADER>`)
	documentBlockRe = regexp.MustCompile(`(?s)<DOCUMENT>(.*?)</DOCUMENT>`)
	documentTextRe  = regexp.MustCompile(`(?s)<TEXT>(.*?)(?:</TEXT>|$)`)

	accessionNumberRe = regexp.MustCompile(`ACCESSION NUMBER:\s*(\S+)`)
	submissionTypeRe  = regexp.MustCompile(`CONFORMED SUBMISSION TYPE:\s*([^\n]+)`)
	filedAsOfRe       = regexp.MustCompile(`FILED AS OF DATE:\s*(\d{8})`)
	conformedNameRe   = regexp.MustCompile(`COMPANY CONFORMED NAME:\s*([^\n]+)`)
	centralIndexKeyRe = regexp.MustCompile(`CENTRAL INDEX KEY:\s*(\d+)`)
)

// ParseSubmission splits a .txt submission into header and documents.
// EDGAR's traffic-limit page is reported as ErrRateLimited.
func ParseSubmission(raw string) (*Submission, error) {
	if isRateLimitPage([]byte(raw)) {
		return nil, ErrRateLimited
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	sub := &Submission{}
	if m := headerBlockRe.FindStringSubmatch(raw); m != nil {
		sub.Header = ParseSECHeader(m[1])
	}

	for _, m := range documentBlockRe.FindAllStringSubmatch(raw, -1) {
		block := m[1]
		doc := Document{
			Type:        sgmlTag(block, "TYPE"),
			Sequence:    sgmlTag(block, "SEQUENCE"),
			FileName:    sgmlTag(block, "FILENAME"),
			Description: sgmlTag(block, "DESCRIPTION"),
			Raw:         m[0],
		}
		if t := documentTextRe.FindStringSubmatch(block); t != nil {
			doc.Text = t[1]
		}
		sub.Documents = append(sub.Documents, doc)
	}

	if len(sub.Documents) == 0 {
		return nil, fmt.Errorf("%w: no <DOCUMENT> blocks", ErrDocumentNotFound)
	}
	return sub, nil
}

// sgmlTag reads an unclosed SGML tag such as "<TYPE>SC 13G".
func sgmlTag(block, tag string) string {
	open := "<" + tag + ">"
	i := strings.Index(block, open)
	if i < 0 {
		return ""
	}
	value := block[i+len(open):]
	if j := strings.IndexAny(value, "\n<"); j >= 0 {
		value = value[:j]
	}
	return strings.TrimSpace(value)
}

// ParseSECHeader reads the accession number, submission type, filing date
// and the subject and filer companies from SEC header text.
func ParseSECHeader(text string) SECHeader {
	h := SECHeader{
		AccessionNumber: firstSubmatch(accessionNumberRe, text),
		SubmissionType:  firstSubmatch(submissionTypeRe, text),
		FilingDate:      firstSubmatch(filedAsOfRe, text),
	}

	subject := strings.Index(text, "SUBJECT COMPANY:")
	filer := strings.Index(text, "FILED BY:")
	if subject >= 0 {
		end := len(text)
		if filer > subject {
			end = filer
		}
		h.SubjectCompany = parseCompany(text[subject:end])
	}
	if filer >= 0 {
		end := len(text)
		if subject > filer {
			end = subject
		}
		h.FiledBy = parseCompany(text[filer:end])
	}
	return h
}

func parseCompany(block string) Company {
	return Company{
		CIK:  firstSubmatch(centralIndexKeyRe, block),
		Name: firstSubmatch(conformedNameRe, block),
	}
}

func firstSubmatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// MainDocument returns the document whose type is a Schedule 13D/13G form,
// or the first document.
func (s *Submission) MainDocument() (*Document, error) {
	for i := range s.Documents {
		if matchesFormType(s.Documents[i].Type, "13") {
			return &s.Documents[i], nil
		}
	}
	if len(s.Documents) > 0 {
		return &s.Documents[0], nil
	}
	return nil, ErrDocumentNotFound
}

// Document returns the document with the given file name.
func (s *Submission) Document(name string) (*Document, error) {
	for i := range s.Documents {
		if strings.EqualFold(s.Documents[i].FileName, name) {
			return &s.Documents[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
}
