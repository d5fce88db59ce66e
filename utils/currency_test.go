package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.5", "BRL", "R$ 1.234,50"},
		{"0", "brl", "R$ 0,00"},
		{"999.999", "USD", "$ 1.000,00"},
		{"1234567.8", "IDR", "Rp 1.234.567,80"},
		{"-42.1", "BRL", "R$ -42,10"},
		{"12", "CHF", "CHF 12,00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatMoney(decimal.RequireFromString(tc.amount), tc.currency), tc.amount)
	}
}
