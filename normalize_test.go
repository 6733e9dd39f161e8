package sc13dg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePageTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"well formed", "cover\n<PAGE>\nitems"},
		{"missing close", "cover\n<PAGE\nitems"},
		{"missing open", "cover\nPAGE>\nitems"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw).Text
			assert.Contains(t, got, string(PageBreak))
			assert.NotContains(t, got, "PAGE")
			assert.True(t, strings.HasPrefix(got, "cover"))
			assert.True(t, strings.HasSuffix(got, "items"))
		})
	}
}

func TestNormalizeStripsMarkup(t *testing.T) {
	raw := `<html><body><p>Hello&nbsp;World</p><script>var x;</script>` +
		`<table><tr><td>A</td><td>B</td></tr></table><style>p {}</style></body></html>`

	got := Normalize(raw).Text
	assert.Contains(t, got, "Hello World")
	assert.Contains(t, got, " A B")
	assert.NotContains(t, got, "var x")
	assert.NotContains(t, got, "p {}")
	assert.NotContains(t, got, "<")
}

func TestNormalizeHeaderEnd(t *testing.T) {
	raw := "<SEC-HEADER>hdr</SEC-HEADER>\n<DOCUMENT>\n<TEXT>\nbody\n</TEXT>\n</DOCUMENT>"

	n := Normalize(raw)
	assert.Equal(t, "hdr", strings.TrimSpace(n.Text[:n.HeaderEnd]))
	assert.Equal(t, "body", strings.TrimSpace(n.Text[n.HeaderEnd:]))

	assert.Equal(t, 0, Normalize("plain filing text").HeaderEnd)
}

func TestNormalizePlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"crlf", "Line1\r\nLine2\rLine3", "Line1\nLine2\nLine3"},
		{"entities", "AT&amp;T &mdash; &#8212;", "AT&T — —"},
		{"nbsp", "5,000\u00a0shares", "5,000 shares"},
		{"split nbsp", "a&#\n160;b", "a b"},
		{"soft hyphen", "Share\u00adholder", "Shareholder"},
		{"checkbox", "&#9746; Yes", "☒ Yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw).Text)
		})
	}
}

func TestCleanExtractedText(t *testing.T) {
	assert.Equal(t, "ACME CAPITAL", CleanExtractedText("  ACME\n  CAPITAL   Page 2 of 5  "))
	assert.Equal(t, "", CleanExtractedText(" \n\t "))
}
