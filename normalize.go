package sc13dg

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// PageBreak is written in place of every <PAGE> marker so page boundaries
// survive markup stripping. It is whitespace to every locator pattern.
const PageBreak = '\f'

// Normalized is plain filing text ready for segmentation.
type Normalized struct {
	// Text is the plain text. All segment offsets index into it.
	Text string
	// HeaderEnd is the end of the SGML envelope (SEC header and document
	// tags before <TEXT>), or 0 when the input had none.
	HeaderEnd int
}

var (
	// "<PAGE" or "</PAGE" missing its closing delimiter
	openPageRe = regexp.MustCompile(`<(/?)PAGE([^>A-Za-z0-9]|$)`)
	// "PAGE>" or "/PAGE>" missing its opening delimiter
	closePageRe = regexp.MustCompile(`(^|[^</A-Za-z])(/?)PAGE>`)
	// "&#160;" split across a line by the filer's software
	splitNbspRe = regexp.MustCompile(`&#\s+160;`)
)

// Normalize converts raw SGML/HTML filing text to plain text:
// - corrupted <PAGE> delimiters are repaired
// - markup is stripped, keeping text content and line structure
// - non-breaking spaces become spaces and soft hyphens are removed
// - line endings are normalized to LF
//
// Normalize never fails. Input the tokenizer cannot handle is treated as
// plain text.
func Normalize(raw string) Normalized {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = repairPageTags(text)
	text = splitNbspRe.ReplaceAllString(text, "&#160;")

	if !strings.Contains(text, "<") {
		return Normalized{Text: NormalizeText(text)}
	}

	out, headerEnd, err := stripMarkup(text)
	if err != nil {
		return Normalized{Text: NormalizeText(text)}
	}
	return Normalized{Text: out, HeaderEnd: headerEnd}
}

// repairPageTags reinserts well-formed <PAGE>/</PAGE> markers, each followed
// by a newline, where a delimiter was dropped.
func repairPageTags(text string) string {
	text = openPageRe.ReplaceAllString(text, "<${1}PAGE>\n${2}")
	return closePageRe.ReplaceAllString(text, "${1}\n<${2}PAGE>\n")
}

// blockTags end a line of text when opened or closed.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "tr": true, "table": true,
	"li": true, "ul": true, "ol": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "center": true, "blockquote": true,
	"pre": true, "title": true, "caption": true,
}

// stripMarkup walks the token stream and keeps text content. It returns the
// output length at the start of <TEXT> (or the end of the SEC header) as
// the header end.
func stripMarkup(text string) (string, int, error) {
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	b.Grow(len(text))

	headerEnd, sawText := 0, false
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", 0, fmt.Errorf("failed to tokenize filing text: %w", err)
			}
			return b.String(), headerEnd, nil

		case html.TextToken:
			if skip == 0 {
				b.WriteString(cleanChars(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if tt == html.StartTagToken {
					skip++
				}
			case tag == "page":
				b.WriteString("\n" + string(PageBreak) + "\n")
			case tag == "text" && !sawText:
				sawText = true
				headerEnd = b.Len()
			case tag == "td" || tag == "th":
				b.WriteByte(' ')
			case blockTags[tag]:
				b.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if skip > 0 {
					skip--
				}
			case tag == "sec-header" || tag == "ims-header":
				if !sawText {
					headerEnd = b.Len()
				}
			case tag == "page" || blockTags[tag]:
				b.WriteByte('\n')
			}
		}
	}
}

// cleanChars applies the character-level normalizations to one run of text.
func cleanChars(text string) string {
	text = normalizeWhitespace(text)
	text = removeInvisibleChars(text)
	return strings.ReplaceAll(text, "\r", "\n")
}

// NormalizeText normalizes various Unicode and HTML entity issues that appear in SEC filings.
// It is used on text that is not tokenized as markup.
//
// Normalizations performed:
// - HTML entities (&nbsp;, &mdash;, &ldquo;, etc.) → Unicode equivalents
// - Non-breaking spaces (U+00A0) → regular spaces
// - Various Unicode whitespace → regular spaces
// - Soft hyphens and zero-width characters → removed
// - Normalize newlines (CRLF → LF)
func NormalizeText(text string) string {
	// 1. HTML entities to Unicode
	text = normalizeHTMLEntities(text)

	// 2. Unicode whitespace normalization
	text = normalizeWhitespace(text)

	// 3. Remove soft hyphens, zero-width and invisible characters
	text = removeInvisibleChars(text)

	// 4. Normalize line endings (CRLF → LF)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&#160;", " ",
	"&#xa0;", " ",
	"&shy;", "",
	"&#173;", "",
	"&mdash;", "\u2014",
	"&ndash;", "\u2013",
	"&ldquo;", "\u201C",
	"&rdquo;", "\u201D",
	"&lsquo;", "\u2018",
	"&rsquo;", "\u2019",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&apos;", "'",
	"&sect;", "\u00A7",
	"&#9746;", "\u2612",
	"&#9744;", "\u2610",
	"&amp;", "&",
)

var numericEntityRe = regexp.MustCompile(`&#(\d{1,7});`)

// normalizeHTMLEntities converts the entities common in SEC filings.
func normalizeHTMLEntities(text string) string {
	text = entityReplacer.Replace(text)
	return numericEntityRe.ReplaceAllStringFunc(text, func(match string) string {
		var code int
		if _, err := fmt.Sscanf(match, "&#%d;", &code); err != nil || code > unicode.MaxRune {
			return match
		}
		return string(rune(code))
	})
}

// normalizeWhitespace converts various Unicode whitespace characters to regular spaces
func normalizeWhitespace(text string) string {
	if isASCII(text) {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '\u00A0', '\u202F', '\u205F', '\u3000': // NBSP, narrow NBSP, math space, ideographic
			result.WriteRune(' ')
		default:
			if r >= '\u2000' && r <= '\u200A' { // en quad through hair space
				result.WriteRune(' ')
				continue
			}
			result.WriteRune(r)
		}
	}
	return result.String()
}

// removeInvisibleChars removes soft hyphens, zero-width and other format characters
func removeInvisibleChars(text string) string {
	if isASCII(text) {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '\u00AD', '\u200B', '\u200C', '\u200D', '\uFEFF', '\u180E':
			continue
		}
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// NormalizeXMLText is a lighter version for XML content that preserves more structure
// but still handles the most common issues
func NormalizeXMLText(text string) string {
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "\u00A0", " ")
	text = strings.ReplaceAll(text, "\u200B", "")
	text = strings.ReplaceAll(text, "\uFEFF", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

var (
	spaceRunRe  = regexp.MustCompile(`\s+`)
	pageOfNumRe = regexp.MustCompile(`(?i)Page \d+ of \d+`)
)

// CleanExtractedText collapses whitespace and drops "Page N of M" markers
// from a free-text value after extraction.
func CleanExtractedText(text string) string {
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = pageOfNumRe.ReplaceAllString(text, "")
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(text, " "))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
