package sc13dg

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// DocumentKind tells free-text filings from structured XML submissions.
type DocumentKind int

const (
	// KindText is an SGML/HTML/plain-text filing, read by the heuristic
	// segmenter.
	KindText DocumentKind = iota
	// KindXML13D is an edgarSubmission for Schedule 13D.
	KindXML13D
	// KindXML13G is an edgarSubmission for Schedule 13G.
	KindXML13G
)

func (k DocumentKind) String() string {
	switch k {
	case KindXML13D:
		return "xml-13d"
	case KindXML13G:
		return "xml-13g"
	default:
		return "text"
	}
}

// DetectDocumentKind examines a document to determine how to read it.
// XML is recognized by its edgarSubmission root, optionally wrapped in the
// <XML> element of an EDGAR .txt submission.
func DetectDocumentKind(data []byte) DocumentKind {
	data = unwrapXML(data)
	if !bytes.HasPrefix(data, []byte("<?xml")) && !bytes.HasPrefix(data, []byte("<edgarSubmission")) {
		return KindText
	}

	type quickCheck struct {
		XMLName        xml.Name
		SubmissionType string `xml:"headerData>submissionType"`
	}
	var check quickCheck
	if err := xml.Unmarshal(data, &check); err != nil || check.XMLName.Local != "edgarSubmission" {
		return KindText
	}

	form, err := ParseFormType(check.SubmissionType)
	switch {
	case err != nil:
		return KindText
	case form.Is13D():
		return KindXML13D
	default:
		return KindXML13G
	}
}

// unwrapXML strips surrounding whitespace and an <XML>..</XML> wrapper.
func unwrapXML(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if rest, ok := bytes.CutPrefix(data, []byte("<XML>")); ok {
		data = rest
		if i := bytes.LastIndex(data, []byte("</XML>")); i >= 0 {
			data = data[:i]
		}
		data = bytes.TrimSpace(data)
	}
	return data
}

// isRateLimitPage reports EDGAR's traffic-limit page, which is served with
// a success status.
func isRateLimitPage(body []byte) bool {
	text := strings.ReplaceAll(string(body), "\u2019", "'")
	return strings.Contains(text, "You've Exceeded the SEC's Traffic Limit")
}
