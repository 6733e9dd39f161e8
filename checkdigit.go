package sc13dg

import "strings"

// cusipValue maps a CUSIP symbol to its value: digits 0-9, letters 10-35,
// then '*', '@' and '#' as 36-38.
func cusipValue(c byte) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), true
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10, true
	case c == '*':
		return 36, true
	case c == '@':
		return 37, true
	case c == '#':
		return 38, true
	}
	return 0, false
}

// CUSIPCheckDigit computes the CUSIP check digit. The characters used
// depend on the input length:
//   - 8 or more: the first 8
//   - 6 or 7: the first 6 (an issuer number)
//   - 3 to 5: left-padded with zeros to 9, then the first 8
//
// Shorter input, or a character outside the CUSIP alphabet, has no check
// digit and returns false.
func CUSIPCheckDigit(cusip string) (int, bool) {
	var base string
	switch n := len(cusip); {
	case n >= 8:
		base = cusip[:8]
	case n >= 6:
		base = cusip[:6]
	case n >= 3:
		base = zeroPad(cusip, 9)[:8]
	default:
		return 0, false
	}

	sum := 0
	for i := 0; i < len(base); i++ {
		v, ok := cusipValue(base[i])
		if !ok {
			return 0, false
		}
		if i%2 == 1 {
			v *= 2
		}
		for ; v > 0; v /= 10 {
			sum += v % 10
		}
	}
	return (10 - sum%10) % 10, true
}

func zeroPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

var sedolWeights = [6]int{1, 3, 1, 7, 3, 9}

// SEDOLCheckDigit computes the SEDOL check digit over the first six
// characters. Input shorter than six characters, or holding anything but
// digits and upper-case letters, returns false.
func SEDOLCheckDigit(sedol string) (int, bool) {
	if len(sedol) < 6 {
		return 0, false
	}
	sum := 0
	for i, w := range sedolWeights {
		c := sedol[i]
		var v int
		switch {
		case '0' <= c && c <= '9':
			v = int(c - '0')
		case 'A' <= c && c <= 'Z':
			v = int(c-'A') + 10
		default:
			return 0, false
		}
		sum += v * w
	}
	return (10 - sum%10) % 10, true
}

// IdentifierFormat classifies a cleaned security identifier.
type IdentifierFormat string

const (
	FormatCUSIP9  IdentifierFormat = "cusip9"  // base and matching check digit
	FormatCUSIP8  IdentifierFormat = "cusip8"  // base without check digit
	FormatCUSIP6  IdentifierFormat = "cusip6"  // issuer number
	FormatSEDOL   IdentifierFormat = "sedol"   // 7 characters with matching check digit
	FormatInvalid IdentifierFormat = "invalid" // anything else
)

// ClassifyIdentifier reports which identifier layout id follows.
func ClassifyIdentifier(id string) IdentifierFormat {
	switch len(id) {
	case 9:
		if d, ok := CUSIPCheckDigit(id); ok && int(id[8]-'0') == d {
			return FormatCUSIP9
		}
	case 8:
		if _, ok := CUSIPCheckDigit(id); ok {
			return FormatCUSIP8
		}
	case 7:
		if d, ok := SEDOLCheckDigit(id); ok && int(id[6]-'0') == d {
			return FormatSEDOL
		}
	case 6:
		if _, ok := CUSIPCheckDigit(id); ok {
			return FormatCUSIP6
		}
	}
	return FormatInvalid
}
