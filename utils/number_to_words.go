package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Indian numbering groups, largest first.
var scales = []struct {
	size int64
	name string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells n using the Indian numbering system. Zero gives "".
func NumberToWords(n int64) string {
	if n < 0 {
		return strings.TrimSpace("Minus " + NumberToWords(-n))
	}
	var words []string
	for _, s := range scales {
		if n >= s.size {
			words = append(words, NumberToWords(n/s.size), s.name)
			n %= s.size
		}
	}
	switch {
	case n >= 20:
		words = append(words, tens[n/10])
		if n%10 > 0 {
			words = append(words, ones[n%10])
		}
	case n > 0:
		words = append(words, ones[n])
	}
	return strings.Join(words, " ")
}

// NumberToCurrencyWords spells an amount as rupees and paise, rounding to the paisa.
func NumberToCurrencyWords(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Shift(2).IntPart()

	var parts []string
	if rupees != 0 {
		parts = append(parts, NumberToWords(rupees)+" Rupees")
	}
	if paise != 0 {
		parts = append(parts, NumberToWords(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
