package sc13dg

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// CurrentFeedURL is EDGAR's Atom feed of the latest Schedule 13 filings.
const CurrentFeedURL = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=SC+13&company=&dateb=&owner=include&start=0&count=100&output=atom"

// Entry titles look like "SC 13G/A - ACME CORP (0001234567) (Subject)".
var feedTitleRe = regexp.MustCompile(`^(.+?)\s+-\s+(.+?)\s+\((\d+)\)\s+\((\w[\w ]*)\)`)

// ParseCurrentFeed turns a current-filings Atom feed into refs. The same
// filing appears once per party, each linked under that party's CIK; only
// the Subject entry is kept.
func ParseCurrentFeed(r io.Reader) ([]FilingRef, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var refs []FilingRef
	seen := make(map[string]bool)
	for _, item := range feed.Items {
		m := feedTitleRe.FindStringSubmatch(strings.TrimSpace(item.Title))
		if m == nil || !matchesFormType(m[1], "13") {
			continue
		}
		ref, err := ParseFilingURL(item.Link)
		if err != nil {
			continue
		}
		acc := ref.Accession()
		if seen[acc] || (!strings.EqualFold(m[4], "Subject") && feedHasSubject(feed, acc)) {
			continue
		}
		seen[acc] = true

		ref.FormType = m[1]
		ref.CompanyName = m[2]
		if item.UpdatedParsed != nil {
			ref.DateFiled = item.UpdatedParsed.Format("2006-01-02")
		}
		refs = append(refs, *ref)
	}
	return refs, nil
}

func feedHasSubject(feed *gofeed.Feed, accession string) bool {
	for _, item := range feed.Items {
		m := feedTitleRe.FindStringSubmatch(strings.TrimSpace(item.Title))
		if m == nil || !strings.EqualFold(m[4], "Subject") {
			continue
		}
		if ref, err := ParseFilingURL(item.Link); err == nil && ref.Accession() == accession {
			return true
		}
	}
	return false
}

// FetchCurrentFeed downloads and parses the current-filings feed.
func FetchCurrentFeed(ctx context.Context, f *Fetcher) ([]FilingRef, error) {
	body, err := f.Get(ctx, CurrentFeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current feed: %w", err)
	}
	return ParseCurrentFeed(strings.NewReader(string(body)))
}
