// Package format renders money and dates the way Brazilian users read them
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	currencySymbol = "R$"
	emptyValue     = "-"
)

var thousand = decimal.NewFromInt(1000)

// compactUnits are the pt-BR short scales, largest first
var compactUnits = []struct {
	size   decimal.Decimal
	suffix string
}{
	{decimal.New(1, 12), "tri"},
	{decimal.New(1, 9), "bi"},
	{decimal.New(1, 6), "mi"},
	{decimal.New(1, 3), "mil"},
}

// Currency formats value as BRL with two decimals, e.g. "R$ 100.000,00" or "-R$ 10,00"
func Currency(value decimal.Decimal) string {
	sign := ""
	rounded := value.Round(2)
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + currencySymbol + " " + localize(rounded.StringFixed(2))
}

// Compact formats value in short notation for axis ticks, e.g. "R$ 250 mil" or "R$ 1,5 mi"
func Compact(value decimal.Decimal) string {
	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Abs()
	}

	if value.LessThan(thousand) {
		return sign + currencySymbol + " " + localize(value.Round(0).StringFixed(0))
	}

	for i, unit := range compactUnits {
		if value.LessThan(unit.size) {
			continue
		}
		scaled := value.Div(unit.size)
		places := int32(0)
		if scaled.LessThan(decimal.NewFromInt(10)) {
			places = 1
		}
		scaled = scaled.Round(places)
		// 999.6 mil rounds up into the next unit
		if i > 0 && scaled.GreaterThanOrEqual(thousand) {
			scaled = scaled.Div(thousand).Round(1)
			unit = compactUnits[i-1]
		}
		return sign + currencySymbol + " " + localize(scaled.String()) + " " + unit.suffix
	}
	return sign + currencySymbol + " " + localize(value.Round(0).String())
}

// Percent formats a rate such as 0.04 as "4,00%"
func Percent(rate decimal.Decimal) string {
	return localize(rate.Mul(decimal.NewFromInt(100)).StringFixed(2)) + "%"
}

// Date formats t as DD/MM/YYYY in UTC. The zero time renders as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return emptyValue
	}
	return t.UTC().Format("02/01/2006")
}

// DateTime formats t as DD/MM/YYYY HH:MM in UTC
func DateTime(t time.Time) string {
	if t.IsZero() {
		return emptyValue
	}
	return t.UTC().Format("02/01/2006 15:04")
}

// localize turns a plain "1234567.89" into "1.234.567,89"
func localize(plain string) string {
	intPart, fracPart := plain, ""
	if dot := strings.IndexByte(plain, '.'); dot >= 0 {
		intPart, fracPart = plain[:dot], plain[dot+1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
