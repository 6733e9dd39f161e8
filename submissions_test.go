package sc13dg

import (
	"os"
	"testing"
)

func loadSubmissions(t *testing.T) *Submissions {
	t.Helper()
	f, err := os.Open("testdata/cik/CIK0001234567.json")
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f.Close()

	subs, err := ParseSubmissions(f)
	if err != nil {
		t.Fatalf("Failed to parse submissions: %v", err)
	}
	return subs
}

func TestParseSubmissions(t *testing.T) {
	subs := loadSubmissions(t)

	if subs.CIK != "0001234567" {
		t.Errorf("Expected CIK 0001234567, got %s", subs.CIK)
	}
	if subs.Name != "ACME CAPITAL LLC" {
		t.Errorf("Expected name ACME CAPITAL LLC, got %s", subs.Name)
	}
	if len(subs.Filings.Recent.AccessionNumber) != 5 {
		t.Errorf("Expected 5 recent filings, got %d", len(subs.Filings.Recent.AccessionNumber))
	}
	if len(subs.Filings.Files) != 1 || subs.Filings.Files[0].FilingCount != 40 {
		t.Errorf("Unexpected pagination files: %+v", subs.Filings.Files)
	}
}

func TestGetRecentFilings(t *testing.T) {
	filings := loadSubmissions(t).GetRecentFilings()
	if len(filings) != 5 {
		t.Fatalf("Expected 5 filings, got %d", len(filings))
	}

	first := filings[0]
	if first.AccessionNumber != "0001104659-23-018361" || first.Form != "SC 13G" ||
		first.FilingDate != "2023-02-14" || first.PrimaryDocument != "widget_sc13g.htm" {
		t.Errorf("Unexpected first filing: %+v", first)
	}
	if first.CIK != "0001234567" {
		t.Errorf("Expected CIK carried onto filing, got %s", first.CIK)
	}
}

func TestGetFilingsShortArrays(t *testing.T) {
	fa := FilingArrays{
		AccessionNumber: []string{"0001104659-23-018361", "0001104659-23-011002"},
		Form:            []string{"SC 13G"},
	}
	filings := fa.GetFilings("1")
	if len(filings) != 2 {
		t.Fatalf("Expected 2 filings, got %d", len(filings))
	}
	if filings[1].Form != "" || filings[1].FilingDate != "" {
		t.Errorf("Expected empty fields for missing entries, got %+v", filings[1])
	}
}

func TestFilterByForm(t *testing.T) {
	filings := loadSubmissions(t).GetRecentFilings()

	tests := []struct {
		form string
		want int
	}{
		{"13", 4},
		{"13D", 2},
		{"SC 13G", 2},
		{"SC 13G/A", 1},
		{"13F-HR", 1},
		{"4", 0},
	}
	for _, tt := range tests {
		if got := FilterByForm(filings, tt.form); len(got) != tt.want {
			t.Errorf("FilterByForm(%q): expected %d filings, got %d", tt.form, tt.want, len(got))
		}
	}
}

func TestFilterByDateRange(t *testing.T) {
	filings := loadSubmissions(t).GetRecentFilings()

	filtered := FilterByDateRange(filings, "2023-01-01", "2023-01-31")
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 filings in January 2023, got %d", len(filtered))
	}
	for _, filing := range filtered {
		if filing.FilingDate < "2023-01-01" || filing.FilingDate > "2023-01-31" {
			t.Errorf("Filing date %s outside of range", filing.FilingDate)
		}
	}

	if got := FilterByDateRange(filings, "", ""); len(got) != len(filings) {
		t.Errorf("Expected open range to keep all %d filings, got %d", len(filings), len(got))
	}
	if got := FilterByDateRange(filings, "2023-01-31", ""); len(got) != 2 {
		t.Errorf("Expected 2 filings from 2023-01-31 on, got %d", len(got))
	}
}

func TestCombinedFiltering(t *testing.T) {
	filings := loadSubmissions(t).GetRecentFilings()

	got := FilterByDateRange(FilterByForm(filings, "13G"), "2023-01-01", "")
	if len(got) != 1 || got[0].AccessionNumber != "0001104659-23-018361" {
		t.Errorf("Expected only the 2023 13G, got %+v", got)
	}
}

func TestFilingRef(t *testing.T) {
	filing := Filing{
		CIK:             "0001234567",
		AccessionNumber: "0001104659-22-090001",
		FilingDate:      "2022-08-05",
		Form:            "SC 13G/A",
		PrimaryDocument: "xslSCHEDULE_13G_X01/primary_doc.xml",
	}

	ref := filing.Ref("ACME CAPITAL LLC")
	want := FilingRef{
		CIK:         "1234567",
		CompanyName: "ACME CAPITAL LLC",
		FormType:    "SC 13G/A",
		DateFiled:   "2022-08-05",
		FileName:    "edgar/data/1234567/0001104659-22-090001.txt",
		Document:    "primary_doc.xml",
	}
	if ref != want {
		t.Errorf("Expected ref:\n%+v\nGot:\n%+v", want, ref)
	}

	url := ref.DocumentURL()
	expected := "https://www.sec.gov/Archives/edgar/data/1234567/000110465922090001/primary_doc.xml"
	if url != expected {
		t.Errorf("Expected URL:\n%s\nGot:\n%s", expected, url)
	}
}

func TestFilingRefs(t *testing.T) {
	refs := loadSubmissions(t).FilingRefs()
	if len(refs) != 4 {
		t.Fatalf("Expected 4 Schedule 13 refs, got %d", len(refs))
	}
	for _, ref := range refs {
		if ref.CompanyName != "ACME CAPITAL LLC" {
			t.Errorf("Expected company name on ref, got %q", ref.CompanyName)
		}
	}
}
