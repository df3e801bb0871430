package currency

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
)

// IsValid reports whether code is a known ISO-4217 currency code.
func IsValid(code string) bool {
	_, err := currency.ParseISO(strings.ToUpper(code))
	return err == nil
}

// Format renders an amount as "EUR 1,234.56". Amounts are rounded to cents.
func Format(amount float64, code string) string {
	cents := math.Round(amount * 100)

	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := math.Floor(cents / 100)
	frac := int(cents - whole*100)

	intStr := fmt.Sprintf("%.0f", whole)
	formatted := addThousandsSeparator(intStr, ",") + fmt.Sprintf(".%02d", frac)

	result := strings.ToUpper(code) + " " + formatted
	if strings.TrimSpace(code) == "" {
		result = formatted
	}
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
