package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// formatCell renders a sheet cell as CSV text. Decimals keep their exact
// value; a null decimal is empty.
func formatCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return formatInt(v)
	case decimal.Decimal:
		return v.String()
	case decimal.NullDecimal:
		if !v.Valid {
			return ""
		}
		return v.Decimal.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// SanitizeLabel makes a run label safe to use as a file name prefix. An
// empty result falls back to fallback.
func SanitizeLabel(label, fallback string) string {
	label = strings.TrimSpace(label)
	label = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, label)
	label = strings.Trim(label, ". ")
	if label == "" {
		return fallback
	}
	return label
}
