package sc13dg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmission(t *testing.T) {
	sub, err := ParseSubmission(readFixture(t, "sc13g.txt"))
	require.NoError(t, err)

	assert.Equal(t, SECHeader{
		AccessionNumber: "0001104659-23-018361",
		SubmissionType:  "SC 13G",
		FilingDate:      "20230214",
		SubjectCompany:  Company{CIK: "0001000045", Name: "WIDGET HOLDINGS INC"},
		FiledBy:         Company{CIK: "0001234567", Name: "ACME CAPITAL LLC"},
	}, sub.Header)

	require.Len(t, sub.Documents, 1)
	doc := sub.Documents[0]
	assert.Equal(t, "SC 13G", doc.Type)
	assert.Equal(t, "1", doc.Sequence)
	assert.Equal(t, "widget_sc13g.txt", doc.FileName)
	assert.Equal(t, "SCHEDULE 13G", doc.Description)
	assert.True(t, strings.HasPrefix(doc.Raw, "<DOCUMENT>"))
	assert.True(t, strings.HasSuffix(doc.Raw, "</DOCUMENT>"))
	assert.Contains(t, doc.Text, "SCHEDULE 13G")
	assert.NotContains(t, doc.Text, "<TEXT>")

	main, err := sub.MainDocument()
	require.NoError(t, err)
	assert.Equal(t, "widget_sc13g.txt", main.FileName)

	byName, err := sub.Document("WIDGET_SC13G.TXT")
	require.NoError(t, err)
	assert.Same(t, main, byName)

	_, err = sub.Document("ex99.htm")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestSubmissionMainDocumentPrefersSchedule(t *testing.T) {
	raw := "<DOCUMENT>\n<TYPE>EX-99.1\n<FILENAME>ex99.txt\n<TEXT>\nexhibit\n</TEXT>\n</DOCUMENT>\n" +
		"<DOCUMENT>\n<TYPE>SC 13D/A\n<FILENAME>main.txt\n<TEXT>\nschedule\n</TEXT>\n</DOCUMENT>\n"

	sub, err := ParseSubmission(raw)
	require.NoError(t, err)
	assert.Equal(t, SECHeader{}, sub.Header)

	main, err := sub.MainDocument()
	require.NoError(t, err)
	assert.Equal(t, "main.txt", main.FileName)
	assert.Equal(t, "\nschedule\n", main.Text)
}

func TestParseSubmissionErrors(t *testing.T) {
	_, err := ParseSubmission("<html>You’ve Exceeded the SEC’s Traffic Limit</html>")
	assert.True(t, errors.Is(err, ErrRateLimited))

	_, err = ParseSubmission("<SEC-HEADER>\nACCESSION NUMBER: 1\n</SEC-HEADER>\n")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
