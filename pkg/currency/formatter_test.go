package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{name: "small", amount: 29.99, code: "EUR", want: "EUR 29.99"},
		{name: "thousands", amount: 1234.5, code: "GBP", want: "GBP 1,234.50"},
		{name: "millions", amount: 1234567, code: "eur", want: "EUR 1,234,567.00"},
		{name: "zero", amount: 0, code: "EUR", want: "EUR 0.00"},
		{name: "negative", amount: -5.5, code: "EUR", want: "-EUR 5.50"},
		{name: "no_code", amount: 12, code: "", want: "12.00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Format(tt.amount, tt.code))
		})
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValid("EUR"))
	assert.True(t, IsValid("gbp"))
	assert.True(t, IsValid("PLN"))
	assert.False(t, IsValid("EURO"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("E1R"))
}
