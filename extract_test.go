package sc13dg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func boolPtr(b bool) *bool { return &b }

func trimBreaks(s string) string { return strings.TrimLeft(s, " \t\n\f") }

func TestExtractRecords13G(t *testing.T) {
	raw := readFixture(t, "sc13g.txt")

	ext, err := ExtractRecords(raw, "SC 13G")
	require.NoError(t, err)

	assert.Equal(t, FormSC13G, ext.FormType)
	assert.Nil(t, ext.AmendmentNumber)
	assert.Nil(t, ext.Structured)

	want := []ExtractedRecord{
		{
			Seq:                    1,
			CUSIPs:                 []string{"00032Q104"},
			SEDOLs:                 []string{},
			ReportingPersonName:    "ACME CAPITAL LLC",
			Box2a:                  false,
			Box2b:                  true,
			Citizenship:            "DELAWARE",
			SoleVotingPower:        "1,000",
			SharedVotingPower:      "0",
			SoleDispositivePower:   "1,000",
			SharedDispositivePower: "0",
			AggregateAmountOwned:   "1,000",
			CertainSharesExcluded:  false,
			PercentOfClass:         "5.2%",
			ReportingPersonType:    []string{"CO"},
		},
		{
			Seq:                    2,
			CUSIPs:                 []string{"00032Q104"},
			SEDOLs:                 []string{},
			ReportingPersonName:    "JOHN Q. SMITH",
			Box2a:                  false,
			Box2b:                  true,
			Citizenship:            "UNITED STATES",
			SoleVotingPower:        "0",
			SharedVotingPower:      "1,000",
			SoleDispositivePower:   "0",
			SharedDispositivePower: "1,000",
			AggregateAmountOwned:   "1,000",
			CertainSharesExcluded:  false,
			PercentOfClass:         "5.2%",
			ReportingPersonType:    []string{"IN"},
		},
	}
	if diff := cmp.Diff(want, ext.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, ext.TitleCUSIPs, 1)
	tc := ext.TitleCUSIPs[0]
	assert.Equal(t, "00032Q104", tc.CUSIP)
	assert.Equal(t, FormatCUSIP9, tc.Format)
	assert.Equal(t, "AB", tc.Layouts)
	require.NotNil(t, tc.CheckDigit)
	assert.Equal(t, 4, *tc.CheckDigit)
}

func TestExtractRecords13DAmendment(t *testing.T) {
	raw := readFixture(t, "sc13da.txt")

	ext, err := ExtractRecords(raw, "13D/A")
	require.NoError(t, err)

	assert.Equal(t, FormSC13DA, ext.FormType)
	require.NotNil(t, ext.AmendmentNumber)
	assert.Equal(t, 2, *ext.AmendmentNumber)

	want := []ExtractedRecord{{
		Seq:                    1,
		CUSIPs:                 []string{"037833100"},
		SEDOLs:                 []string{},
		ReportingPersonName:    "GADGET PARTNERS LP",
		Box2a:                  true,
		Box2b:                  false,
		SourceOfFunds:          []string{"WC", "AF"},
		SC13DBox5:              boolPtr(false),
		Citizenship:            "CAYMAN ISLANDS",
		SoleVotingPower:        "2,500,000",
		SharedVotingPower:      "0",
		SoleDispositivePower:   "2,500,000",
		SharedDispositivePower: "0",
		AggregateAmountOwned:   "2,500,000",
		CertainSharesExcluded:  false,
		PercentOfClass:         "7.5%",
		ReportingPersonType:    []string{"PN"},
	}}
	if diff := cmp.Diff(want, ext.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, ext.TitleCUSIPs, 1)
	assert.Equal(t, "037833100", ext.TitleCUSIPs[0].CUSIP)
	assert.Equal(t, FormatCUSIP9, ext.TitleCUSIPs[0].Format)
}

func TestExtractRecordsComponentsTile(t *testing.T) {
	for _, tt := range []struct {
		fixture string
		form    string
	}{
		{"sc13g.txt", "SC 13G"},
		{"sc13da.txt", "SC 13D/A"},
	} {
		t.Run(tt.fixture, func(t *testing.T) {
			raw := readFixture(t, tt.fixture)
			ext, err := ExtractRecords(raw, tt.form)
			require.NoError(t, err)

			spans := ext.Components.Spans()
			require.NotEmpty(t, spans)
			assert.Equal(t, 0, spans[0].Start)
			for i := 1; i < len(spans); i++ {
				assert.Equal(t, spans[i-1].End, spans[i].Start, "span %d", i)
			}
			assert.Equal(t, ext.Segments.TextLen, spans[len(spans)-1].End)
		})
	}
}

func TestExtractRecordsWrappedName(t *testing.T) {
	raw := readFixture(t, "sc13g.txt")
	raw = strings.Replace(raw, "\n    ACME CAPITAL LLC\n", "\n    ACME CAPITAL\n    MASTER   FUND LLC\n", 1)

	ext, err := ExtractRecords(raw, "SC 13G")
	require.NoError(t, err)
	require.Len(t, ext.Records, 2)
	assert.Equal(t, "ACME CAPITAL MASTER FUND LLC", ext.Records[0].ReportingPersonName)
	assert.Equal(t, "DELAWARE", ext.Records[0].Citizenship)
}

func TestExtractRecordsNoCoverPages(t *testing.T) {
	raw := "SCHEDULE 13G\n\nThis filing has no reporting pages.\n\nItem 1(a).  Name of Issuer:\n\n    Widget Holdings Inc\n\nSIGNATURE\n\n/s/ John Q. Smith\n"

	ext, err := ExtractRecords(raw, "SC 13G")
	require.NoError(t, err)
	assert.False(t, ext.Segments.HasCoverPages())
	assert.NotNil(t, ext.Records)
	assert.Empty(t, ext.Records)
	assert.True(t, ext.Components.ReportingPages.Empty())
}

func TestExtractRecordsMissingQuestion(t *testing.T) {
	raw := readFixture(t, "sc13g.txt")
	raw = strings.Replace(raw, "3.  SEC USE ONLY", "", 1)

	ext, err := ExtractRecords(raw, "SC 13G")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingQuestion))

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 1, ee.Page)
	assert.Equal(t, 3, ee.Question)

	require.NotNil(t, ext)
	assert.NotNil(t, ext.Segments)
	assert.Empty(t, ext.Records, "no partial record set")
}

func TestExtractRecordsUnsupportedForm(t *testing.T) {
	for _, form := range []string{"10-K", "4", "SC TO-T", ""} {
		t.Run(form, func(t *testing.T) {
			ext, err := ExtractRecords("irrelevant", form)
			assert.Nil(t, ext)
			assert.ErrorIs(t, err, ErrUnsupportedFormType)
		})
	}
}

func TestExtractRecordsXML(t *testing.T) {
	raw := readFixture(t, "sc13g.xml")

	ext, err := ExtractRecords(raw, "SC 13G")
	require.NoError(t, err)
	require.NotNil(t, ext.Structured)

	assert.False(t, ext.Segments.TitlePageEnd.Found())
	assert.False(t, ext.Segments.HasCoverPages())
	require.Len(t, ext.Records, 2)

	rec := ext.Records[0]
	assert.Equal(t, 1, rec.Seq)
	assert.Equal(t, []string{"00032Q104"}, rec.CUSIPs)
	assert.Equal(t, "BML Investment Partners, L.P.", rec.ReportingPersonName)
	assert.True(t, rec.Box2a)
	assert.Equal(t, "2100000", rec.AggregateAmountOwned)
	assert.Equal(t, []string{"PN"}, rec.ReportingPersonType)
	assert.Nil(t, rec.SC13DBox5)
	assert.Nil(t, rec.SourceOfFunds)
}
