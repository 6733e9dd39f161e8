package sc13dg

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndexPage is the content of a filing's -index.htm page.
type IndexPage struct {
	Subject   Company
	FiledBy   Company
	Documents []IndexDocument
}

// IndexDocument is one row of the "Document Format Files" table.
type IndexDocument struct {
	Seq         string
	Description string
	Name        string
	Href        string
	Type        string
	Size        string
}

var (
	companyNameRe = regexp.MustCompile(`^(.*?)\s*\((Subject|Filed by|Filer|Reporting)\)`)
	indexCIKRe    = regexp.MustCompile(`CIK\s*:\s*(\d+)`)
)

// ParseIndexPage reads the subject and filer companies and the document
// table from an index page.
func ParseIndexPage(r io.Reader) (*IndexPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	page := &IndexPage{}
	doc.Find(".companyName").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		m := companyNameRe.FindStringSubmatch(text)
		if m == nil {
			return
		}
		c := Company{Name: m[1]}
		if cik := indexCIKRe.FindStringSubmatch(text); cik != nil {
			c.CIK = strings.TrimLeft(cik[1], "0")
		}
		if m[2] == "Subject" {
			page.Subject = c
		} else if page.FiledBy.Name == "" {
			page.FiledBy = c
		}
	})

	doc.Find("table.tableFile").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		cell := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }
		link := cells.Eq(2).Find("a").First()
		href, _ := link.Attr("href")
		d := IndexDocument{
			Seq:         cell(0),
			Description: cell(1),
			Name:        strings.TrimSpace(link.Text()),
			Href:        href,
			Type:        cell(3),
		}
		if d.Name == "" {
			d.Name = cell(2)
		}
		if cells.Length() > 4 {
			d.Size = cell(4)
		}
		page.Documents = append(page.Documents, d)
	})

	if len(page.Documents) == 0 {
		return nil, fmt.Errorf("%w: index page lists no documents", ErrDocumentNotFound)
	}
	return page, nil
}

// PrimaryDocument returns the first Schedule 13D/13G document, skipping
// rendered copies of XML filings.
func (p *IndexPage) PrimaryDocument() (*IndexDocument, error) {
	for i := range p.Documents {
		d := &p.Documents[i]
		if matchesFormType(d.Type, "13") && !strings.Contains(d.Href, "/xsl") {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: no Schedule 13D/13G document", ErrDocumentNotFound)
}

// ResolveDocument fills ref.Document, and an empty form type or company
// name, from the filing's index page.
func ResolveDocument(ctx context.Context, f *Fetcher, ref FilingRef) (FilingRef, error) {
	body, err := f.Get(ctx, ref.IndexURL())
	if err != nil {
		return ref, fmt.Errorf("failed to fetch index page: %w", err)
	}
	page, err := ParseIndexPage(strings.NewReader(string(body)))
	if err != nil {
		return ref, err
	}
	doc, err := page.PrimaryDocument()
	if err != nil {
		return ref, err
	}
	ref.Document = doc.Name
	if ref.FormType == "" {
		ref.FormType = doc.Type
	}
	if ref.CompanyName == "" {
		ref.CompanyName = page.Subject.Name
	}
	return ref, nil
}
