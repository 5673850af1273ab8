package present

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown in place of an undefined value.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// FormatCurrency renders dollars rounded to the cent with thousands
// grouping, e.g. "$1,234.50" or "-$12.00".
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + printer.Sprintf("%.2f", d.InexactFloat64())
}

// FormatWholeCurrency renders dollars without cents, e.g. "$1,235".
func FormatWholeCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + printer.Sprintf("%d", d.IntPart())
}

// ParseCurrency reverses FormatCurrency. It accepts an optional sign,
// dollar sign and grouping commas, and rounds to the cent.
func ParseCurrency(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(raw, "-") {
		neg = true
		raw = raw[1:]
	}
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("parse currency %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d.Round(2).InexactFloat64(), nil
}

// FormatPercent renders v with the given number of decimals and a trailing %.
func FormatPercent(v float64, decimals int) string {
	return FormatNumber(v, decimals) + "%"
}

// FormatSignedPercent always shows the sign, e.g. "+12.5%".
func FormatSignedPercent(v float64, decimals int) string {
	if v >= 0 {
		return "+" + FormatPercent(v, decimals)
	}
	return FormatPercent(v, decimals)
}

// FormatNumber renders v with the given number of decimals and grouping.
func FormatNumber(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Format names a column display format.
type Format string

const (
	FormatText         Format = "text"
	FormatInteger      Format = "integer"
	FormatCurrencyCol  Format = "currency"
	FormatPercentCol   Format = "percent"
	FormatSignedPctCol Format = "signed_percent"
	FormatScore        Format = "score"
)

// Cell renders a single value according to f. Undefined numbers render as
// NotAvailable.
func Cell(v any, f Format) string {
	switch x := v.(type) {
	case nil:
		return ""
	case pgtype.Float8:
		if !x.Valid {
			return NotAvailable
		}
		return Cell(x.Float64, f)
	case float64:
		switch f {
		case FormatCurrencyCol:
			return FormatCurrency(x)
		case FormatPercentCol:
			return FormatPercent(x, 2)
		case FormatSignedPctCol:
			return FormatSignedPercent(x, 1)
		case FormatScore:
			return FormatNumber(x, 1)
		case FormatInteger:
			return FormatNumber(x, 0)
		default:
			return FormatNumber(x, 2)
		}
	case int:
		return printer.Sprintf("%d", x)
	case int64:
		return printer.Sprintf("%d", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
