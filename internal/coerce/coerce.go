// Package coerce parses the loosely formatted text values that come back from
// the record store: locale-formatted currency, several date and datetime
// spellings, and order numbers with decoration around the digits. Every parser
// is total: malformed input yields a defined zero value, never an error.
package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell values use the Brazilian convention: "." thousands, "," decimal.
var amountCleaner = strings.NewReplacer(
	"R$", "",
	" ", "",
	" ", "", // non-breaking space, common in exported cells
	".", "",
)

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"02/01/06",
}

var dateTimeLayouts = []string{
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// Amount parses a currency cell such as "R$ 1.234,56" into a decimal. Empty
// or unparsable input yields zero.
func Amount(raw string) decimal.Decimal {
	cleaned := amountCleaner.Replace(strings.TrimSpace(raw))
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders a decimal the way Amount reads it back: two fixed
// places, comma decimal separator, no thousands grouping.
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// Date tries the known date spellings in order and reports whether any
// matched. Spreadsheet serial numbers are deliberately not supported.
func Date(raw string) (time.Time, bool) {
	return parseLayouts(raw, dateLayouts)
}

// DateTime tries the known "day/month/year hour:minute[:second]" and ISO
// spellings in order, falling back to the date-only spellings (midnight), and
// reports whether any matched.
func DateTime(raw string) (time.Time, bool) {
	if t, ok := parseLayouts(raw, dateTimeLayouts); ok {
		return t, true
	}
	return parseLayouts(raw, dateLayouts)
}

func parseLayouts(raw string, layouts []string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NumericID extracts the digits of an order reference such as "#088" and
// parses them as an integer, defaulting to 0 when no digits remain.
func NumericID(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
