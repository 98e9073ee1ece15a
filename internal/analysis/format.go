package analysis

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders typed cells as display strings.
// A Formatter is not safe for concurrent use; build one per table.
type Formatter struct {
	Percent PercentPolicy
	printer *message.Printer
}

// NewFormatter builds a formatter for the given BCP 47 locale. An unknown or empty
// locale falls back to English.
func NewFormatter(p PercentPolicy, locale string) *Formatter {
	tag := language.English
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return &Formatter{Percent: p, printer: message.NewPrinter(tag)}
}

// FormatCell formats v with the default policy and English grouping.
func FormatCell(kind FieldKind, v any) string {
	return NewFormatter(DefaultPercentPolicy(), "").Format(kind, v)
}

// Format renders v by kind. Percent values are normalized and shown with one decimal
// and a trailing %, numbers are grouped with at most two decimals, text passes through.
// Unparsable numbers render as an empty cell.
func (f *Formatter) Format(kind FieldKind, v any) string {
	switch kind {
	case KindPercent:
		n := f.Percent.CoercePercent(v)
		if !n.Valid {
			return ""
		}
		return strconv.FormatFloat(n.Value, 'f', 1, 64) + "%"
	case KindNumeric, KindCount:
		n := Coerce(v)
		if !n.Valid {
			return ""
		}
		return f.Number(n.Value)
	default:
		return TextValue(v)
	}
}

// Number groups thousands per locale; integral values get no decimals.
func (f *Formatter) Number(v float64) string {
	digits := 2
	if v == math.Trunc(v) {
		digits = 0
	}
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(digits)))
}

// SelectColumns keeps the desired columns that exist in available, in the requested
// order. With no desired list, or when fewer than two desired columns exist while the
// data has more, every available column is returned.
func SelectColumns(available, desired []string) []string {
	all := append([]string(nil), available...)
	if len(desired) == 0 {
		return all
	}
	present := make(map[string]struct{}, len(available))
	for _, c := range available {
		present[c] = struct{}{}
	}
	var kept []string
	seen := map[string]struct{}{}
	for _, c := range desired {
		if _, ok := present[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		kept = append(kept, c)
	}
	if len(kept) < 2 && len(available) > len(kept) {
		return all
	}
	return kept
}
