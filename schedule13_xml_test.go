package sc13dg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule13D(t *testing.T) {
	filing, err := ParseSchedule13XML([]byte(readFixture(t, "sc13d.xml")))
	require.NoError(t, err)

	assert.Equal(t, FormSC13DA, filing.FormType)
	assert.Nil(t, filing.AmendmentNumber)
	assert.Equal(t, "0000320193", filing.IssuerCIK)
	assert.Equal(t, "Gadget Corp", filing.IssuerName)
	assert.Equal(t, "037833100", filing.IssuerCUSIP)
	assert.Equal(t, "Common Stock, no par value", filing.SecurityTitle)
	assert.Equal(t, "03/01/2023", filing.DateOfEvent)

	require.Len(t, filing.ReportingPersons, 1)
	p := filing.ReportingPersons[0]
	assert.Equal(t, "0001373604", p.CIK, "falls back to the filer CIK")
	assert.Equal(t, "Gadget Partners LP", p.Name)
	assert.Equal(t, "WC", p.FundType)
	assert.Equal(t, "b", p.MemberOfGroup)
	assert.Equal(t, int64(2500000), p.Shares())
	assert.InDelta(t, 7.5, p.Percent(), 1e-9)

	records := filing.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []string{"WC"}, records[0].SourceOfFunds)
	assert.True(t, records[0].Box2b)
	assert.False(t, records[0].Box2a)
	assert.Equal(t, []string{}, records[0].SEDOLs)
}

func TestParseSchedule13G(t *testing.T) {
	filing, err := ParseSchedule13XML([]byte(readFixture(t, "sc13g.xml")))
	require.NoError(t, err)

	assert.Equal(t, FormSC13G, filing.FormType)
	assert.Equal(t, "Aadi Bioscience, Inc.", filing.IssuerName)
	assert.Equal(t, "00032Q104", filing.IssuerCUSIP)
	assert.Equal(t, "12/31/2024", filing.DateOfEvent)
	assert.Equal(t, []string{"Rule 13d-1(c)"}, filing.RuleDesignations)

	require.Len(t, filing.ReportingPersons, 2)
	assert.Equal(t, "0001373604", filing.ReportingPersons[0].CIK)
	assert.True(t, filing.ReportingPersons[1].NoCIK)
	assert.Empty(t, filing.ReportingPersons[1].CIK)
	assert.Equal(t, "IN", filing.ReportingPersons[1].TypeOfReportingPerson)
}

func TestParseSchedule13XMLWrapped(t *testing.T) {
	data := "<XML>\n" + readFixture(t, "sc13g.xml") + "</XML>\n"
	filing, err := ParseSchedule13XML([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, FormSC13G, filing.FormType)
}

func TestParseSchedule13XMLRejectsOtherForms(t *testing.T) {
	data := `<?xml version="1.0"?><edgarSubmission><headerData><submissionType>4</submissionType></headerData></edgarSubmission>`
	_, err := ParseSchedule13XML([]byte(data))
	assert.ErrorIs(t, err, ErrUnsupportedFormType)
}

func TestDetectDocumentKind(t *testing.T) {
	tests := []struct {
		name string
		data string
		want DocumentKind
	}{
		{"13D xml", readFixture(t, "sc13d.xml"), KindXML13D},
		{"13G xml", readFixture(t, "sc13g.xml"), KindXML13G},
		{"text filing", readFixture(t, "sc13g.txt"), KindText},
		{"html", "<html><body>SCHEDULE 13D</body></html>", KindText},
		{"other xml", `<?xml version="1.0"?><ownershipDocument/>`, KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectDocumentKind([]byte(tt.data))
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		in      string
		wantInt int64
		wantPct float64
	}{
		{"1,874,978 (1)", 1874978, 1874978},
		{"-0-", 0, 0},
		{"", 0, 0},
		{"5.1% (1)", 5, 5.1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantInt, parseInt64(tt.in), tt.in)
		assert.InDelta(t, tt.wantPct, parseFloat64(tt.in), 1e-9, tt.in)
	}
}
