package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("40.00")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(40)))

	d, err = Parse("0.01")
	require.NoError(t, err)
	assert.Equal(t, "0.01", Format(d))

	d, err = Parse("100")
	require.NoError(t, err)
	assert.Equal(t, "100.00", Format(d))
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "10,50", "1.2.3"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalid, "raw=%q", raw)
	}
}

func TestParseRejectsExcessPrecision(t *testing.T) {
	_, err := Parse("1.234")
	assert.ErrorIs(t, err, ErrInvalid)

	// Trailing zeros beyond two places are still the same fixed-point value.
	d, err := Parse("1.230")
	require.NoError(t, err)
	assert.Equal(t, "1.23", Format(d))
}

func TestParseKeepsSign(t *testing.T) {
	d, err := Parse("-5.00")
	require.NoError(t, err)
	assert.True(t, d.IsNegative())
}

func TestAmountAcceptsNumberAndString(t *testing.T) {
	var body struct {
		Valor Amount `json:"valor"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"valor": 40.5}`), &body))
	assert.Equal(t, Amount("40.5"), body.Valor)

	require.NoError(t, json.Unmarshal([]byte(`{"valor": "12.34"}`), &body))
	assert.Equal(t, Amount("12.34"), body.Valor)

	require.NoError(t, json.Unmarshal([]byte(`{"valor": null}`), &body))
	assert.Equal(t, Amount(""), body.Valor)
}
