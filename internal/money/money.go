// Package money parses and formats fixed-point monetary amounts with two
// fractional digits. All request amounts pass through here before any
// balance arithmetic happens.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalid indicates an amount that is missing, not numeric, or carries
// more than two fractional digits.
var ErrInvalid = errors.New("invalid amount")

// Amount accepts a JSON number or a JSON string and preserves the raw
// textual form so that parsing stays exact.
type Amount string

// UnmarshalJSON keeps the literal characters of the amount, stripping quotes
// when the client sent a string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		s = ""
	}
	*a = Amount(s)
	return nil
}

// Parse converts a raw amount into a decimal. Values with more than two
// fractional digits are rejected rather than rounded.
func Parse(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalid
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalid
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, ErrInvalid
	}
	return d, nil
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
