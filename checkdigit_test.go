package sc13dg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCUSIPCheckDigit(t *testing.T) {
	tests := []struct {
		cusip  string
		want   int
		wantOK bool
	}{
		{"037833100", 0, true},
		{"594918104", 4, true},
		{"38259P508", 8, true},
		{"68389X105", 5, true},
		{"00032Q104", 4, true},
		{"00032Q10", 4, true},
		{"037833", 1, true},
		{"0378331", 1, true},
		{"12345", 4, true},
		{"G0R4*@1#", 2, true},
		{"12", 0, false},
		{"0378$310", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.cusip, func(t *testing.T) {
			got, ok := CUSIPCheckDigit(tt.cusip)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSEDOLCheckDigit(t *testing.T) {
	tests := []struct {
		sedol  string
		want   int
		wantOK bool
	}{
		{"0263494", 4, true},
		{"B0YBKJ7", 7, true},
		{"B0YBKL9", 9, true},
		{"710889", 9, true},
		{"2046251", 1, true},
		{"b0ybkj", 0, false},
		{"02634", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.sedol, func(t *testing.T) {
			got, ok := SEDOLCheckDigit(tt.sedol)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		id   string
		want IdentifierFormat
	}{
		{"037833100", FormatCUSIP9},
		{"037833101", FormatInvalid},
		{"03783310", FormatCUSIP8},
		{"037833", FormatCUSIP6},
		{"0263494", FormatSEDOL},
		{"0263495", FormatInvalid},
		{"12345", FormatInvalid},
		{"0378$3", FormatInvalid},
		{"", FormatInvalid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIdentifier(tt.id), tt.id)
	}
}
