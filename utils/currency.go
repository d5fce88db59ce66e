package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"BRL": "R$",
	"IDR": "Rp",
	"USD": "$",
	"EUR": "€",
}

// FormatMoney memformat nilai dengan pemisah ribuan "." dan desimal ","
// Contoh: 1234.5, "BRL" -> "R$ 1.234,50"
func FormatMoney(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency)
	}

	negative := amount.IsNegative()
	formatted := amount.Abs().StringFixed(2)

	parts := strings.SplitN(formatted, ".", 2)
	integerPart := parts[0]
	decimalPart := parts[1]

	// Tambahkan pemisah ribuan
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	result := strings.Join(groups, ".") + "," + decimalPart
	if negative {
		result = "-" + result
	}
	if symbol == "" {
		return result
	}
	return symbol + " " + result
}
