package sc13dg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerText(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		form     FormType
		question int
		want     string
	}{
		{
			name:     "name with irs caption",
			section:  "1.  NAMES OF REPORTING PERSONS\n    I.R.S. IDENTIFICATION NOS. OF ABOVE PERSONS (ENTITIES ONLY)\n\n    ACME CAPITAL LLC\n\n",
			form:     FormSC13G,
			question: 1,
			want:     "ACME CAPITAL LLC",
		},
		{
			name:     "caption word prefixes an answer word",
			section:  "1  NAME OF REPORTING PERSON\n  ORACLE CORP\n",
			form:     FormSC13D,
			question: 1,
			want:     "ORACLE CORP",
		},
		{
			name:     "beneficial ownership caption",
			section:  "6    CITIZENSHIP OR PLACE OF ORGANIZATION\n\n     CAYMAN ISLANDS\n\nNUMBER OF SHARES BENEFICIALLY OWNED BY EACH REPORTING PERSON WITH\n",
			form:     FormSC13D,
			question: 6,
			want:     "CAYMAN ISLANDS",
		},
		{
			name:     "dashed zero",
			section:  "8    SHARED VOTING POWER\n\n     -0-\n\n",
			form:     FormSC13D,
			question: 8,
			want:     "0",
		},
		{
			name:     "colon after caption",
			section:  "(5) Sole Voting Power: 1,250,000\n",
			form:     FormSC13G,
			question: 5,
			want:     "1,250,000",
		},
		{
			name:     "percent",
			section:  "11. PERCENT OF CLASS REPRESENTED BY AMOUNT IN ROW (9)\n\n    5.2%\n\n",
			form:     FormSC13G,
			question: 11,
			want:     "5.2%",
		},
		{
			name:     "name starting with the question number",
			section:  "1  NAME OF REPORTING PERSONS\n  1 Main Street Capital LLC\n",
			form:     FormSC13G,
			question: 1,
			want:     "1 Main Street Capital LLC",
		},
		{
			name:     "shares starting with the question number",
			section:  "5    SOLE VOTING POWER\n\n     5 shares (see Item 4)\n",
			form:     FormSC13G,
			question: 5,
			want:     "5 shares (see Item 4)",
		},
		{
			name:     "bare label before an answer",
			section:  "(7) 500",
			form:     FormSC13D,
			question: 7,
			want:     "(7) 500",
		},
		{
			name:     "no caption",
			section:  "2,500,000",
			form:     FormSC13D,
			question: 11,
			want:     "2,500,000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnswerText(tt.section, tt.form, tt.question)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, AnswerText(got, tt.form, tt.question), "not idempotent")
		})
	}
}

func TestStripQuestionNumber(t *testing.T) {
	tests := []struct {
		in       string
		form     FormType
		question int
		want     string
	}{
		{"7  SOLE VOTING POWER", FormSC13D, 7, "SOLE VOTING POWER"},
		{"(7) Sole voting power 500", FormSC13D, 7, "Sole voting power 500"},
		{"(7) 500", FormSC13D, 7, "(7) 500"},
		{"10. SHARED", FormSC13D, 10, " SHARED"},
		{"10,000", FormSC13D, 10, "10,000"},
		{"12.5%", FormSC13D, 12, "12.5%"},
		{"11%", FormSC13D, 11, "11%"},
		{"7", FormSC13D, 7, "7"},
		{"SOLE", FormSC13D, 7, "SOLE"},
		{"1 Main Street Capital LLC", FormSC13G, 1, "1 Main Street Capital LLC"},
		{"3 SEC USE ONLY", FormSC13G, 3, "SEC USE ONLY"},
		{"3 anything", FormSC13G, 3, "anything"},
	}

	for _, tt := range tests {
		got := stripQuestionNumber(tt.in, tt.question, questionCaption(tt.form, tt.question))
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStripFormStatement(t *testing.T) {
	assert.Equal(t, "  1,000", StripFormStatement("SOLE VOTING POWER 1,000", "SOLE VOTING POWER"))
	assert.Equal(t, " 1,000", StripFormStatement("Sole Voting 1,000", "SOLE VOTING POWER"))
	assert.Equal(t, "1,000 \nBy: ", StripFormStatement("1,000\nSOLE VOTING POWER\nBy: ", "SOLE VOTING POWER"))
}

func TestGroupBoxes(t *testing.T) {
	tests := []struct {
		name    string
		section string
		a, b    bool
		wantErr bool
	}{
		{name: "b checked", section: "2. CHECK THE APPROPRIATE BOX\n(a) [ ]\n(b) [X]\n", b: true},
		{name: "a checked lower case", section: "(a) [x]\n(b) [ ]", a: true},
		{name: "ballot box", section: "(a) ☒ (b) ☐", a: true},
		{name: "neither", section: "(a) [ ] (b) [ ]"},
		{name: "bare cross", section: "(a)\n(b) X", b: true},
		{name: "c and d markers", section: "(c) [X] (d) [ ]", a: true},
		{name: "no markers", section: "CHECK THE APPROPRIATE BOX IF A MEMBER OF A GROUP", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, err := GroupBoxes(tt.section)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingCheckbox)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.a, a, "box a")
			assert.Equal(t, tt.b, b, "box b")
		})
	}
}

func TestSourceOfFunds(t *testing.T) {
	codes, err := SourceOfFunds("4    SOURCE OF FUNDS (SEE INSTRUCTIONS)\n\n     WC, AF\n", FormSC13D)
	require.NoError(t, err)
	assert.Equal(t, []string{"WC", "AF"}, codes)

	codes, err = SourceOfFunds("4  SOURCE OF FUNDS*\n  00\n", FormSC13DA)
	require.NoError(t, err)
	assert.Equal(t, []string{"OO"}, codes)

	_, err = SourceOfFunds("4 CITIZENSHIP", FormSC13G)
	assert.ErrorIs(t, err, ErrUnsupportedFormType)
}

func TestBoxChecked(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		form     FormType
		question int
		want     bool
		wantErr  bool
	}{
		{
			name:     "13D legal proceedings checked",
			section:  "5  CHECK BOX IF DISCLOSURE OF LEGAL PROCEEDINGS IS REQUIRED PURSUANT TO ITEMS 2(d) OR 2(e)  [X]",
			form:     FormSC13D,
			question: 5,
			want:     true,
		},
		{
			name:     "13D excluded shares empty",
			section:  "12   CHECK BOX IF THE AGGREGATE AMOUNT IN ROW (11) EXCLUDES CERTAIN SHARES  [ ]",
			form:     FormSC13D,
			question: 12,
		},
		{
			name:     "13G excluded shares checked",
			section:  "10. CHECK BOX IF THE AGGREGATE AMOUNT IN ROW (9) EXCLUDES CERTAIN SHARES\n    (SEE INSTRUCTIONS)  [X]",
			form:     FormSC13G,
			question: 10,
			want:     true,
		},
		{
			name:     "13G has no box 5",
			section:  "5. SOLE VOTING POWER 100",
			form:     FormSC13G,
			question: 5,
			wantErr:  true,
		},
		{
			name:     "13D has no box 10",
			section:  "10 SHARED DISPOSITIVE POWER 0",
			form:     FormSC13D,
			question: 10,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BoxChecked(tt.section, tt.form, tt.question)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotCheckboxQuestion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportingPersonTypes(t *testing.T) {
	assert.Equal(t, []string{"IA", "HC"}, ReportingPersonTypes("12  TYPE OF REPORTING PERSON\n  IA, HC\n", FormSC13G))
	assert.Equal(t, []string{"CO", "OO"}, ReportingPersonTypes("14 TYPE OF REPORTING PERSON (SEE INSTRUCTIONS)\n C0; 00\n", FormSC13D))
	assert.Empty(t, ReportingPersonTypes("12  TYPE OF REPORTING PERSON (SEE INSTRUCTIONS)\n", FormSC13G))
}
