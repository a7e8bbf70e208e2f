package dataprocessing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a numeric cell. It accepts plain and exponent forms,
// a decimal comma, and spaces or no-break spaces as thousands separators.
// A comma followed by exactly three digits ("1,234", "12,345,678") groups
// thousands; any other lone comma is a decimal comma ("1,5", "1234,56").
// The second result is false when the cell is empty or not a number.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || thousandsGrouped(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// DecimalOrZero is ParseDecimal with unparseable input read as zero.
func DecimalOrZero(s string) decimal.Decimal {
	d, _ := ParseDecimal(s)
	return d
}

// thousandsGrouped reports whether s is a comma-grouped integer such as
// "1,234" or "-12,345,678".
func thousandsGrouped(s string) bool {
	groups := strings.Split(strings.TrimPrefix(s, "-"), ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

// NormalizeKey canonicalizes a product identifier. Identifiers are opaque:
// the only rewrite is dropping a ".0" tail that a spreadsheet adds when it
// stores a barcode as a float ("2041.0" becomes "2041"). Digit strings with
// a leading zero never come from a float and are left alone, as are exponent
// forms and text.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	head, tail, ok := strings.Cut(s, ".")
	if !ok || head == "" || tail == "" || !allDigits(head) || strings.Trim(tail, "0") != "" {
		return s
	}
	if len(head) > 1 && head[0] == '0' {
		return s
	}
	return head
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
