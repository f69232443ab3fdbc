// Package format renders amounts, rates and dates the way the dashboard and
// the generated prose display them (Indonesian Rupiah conventions).
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// thousandsDot groups thousands with "." and prints no decimals.
const thousandsDot = "#.###,"

// Currency formats an amount as Rupiah, rounding half-up to whole units.
// 1500000 -> "Rp 1.500.000".
func Currency(amount float64) string {
	return "Rp " + humanize.FormatInteger(thousandsDot, int(roundHalfUp(amount)))
}

func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return f
}

// CurrencyInt is Currency for integer amounts.
func CurrencyInt(amount int64) string {
	return "Rp " + Number(amount)
}

// Number groups thousands with "." without a currency prefix.
// 10000 -> "10.000".
func Number(n int64) string {
	return humanize.FormatInteger(thousandsDot, int(n))
}

// Percentage renders value with a fixed number of decimals.
// 25.5 -> "25.5%".
func Percentage(value float64, decimals int) string {
	return Fixed(value, decimals) + "%"
}

// exactDigits is enough fractional digits to carry a float64's binary value
// past any rounding position Fixed is asked for.
const exactDigits = 40

// Fixed renders value with exactly decimals digits after the point. It rounds
// the exact binary value, ties away from zero, so 0.15 (stored as
// 0.14999...) renders as "0.1".
func Fixed(value float64, decimals int) string {
	d, err := decimal.NewFromString(strconv.FormatFloat(value, 'f', exactDigits, 64))
	if err != nil {
		return strconv.FormatFloat(value, 'f', decimals, 64)
	}
	return d.StringFixed(int32(decimals))
}

// Month turns "2024-01" into "January 2024". Malformed input is returned as is.
func Month(month string) string {
	parts := strings.Split(month, "-")
	if len(parts) < 2 {
		return month
	}
	name, ok := monthName(parts[1])
	if !ok {
		return month
	}
	return name + " " + parts[0]
}

// Date turns "2024-01-15" into "15 January 2024". Malformed input is returned as is.
func Date(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) < 3 {
		return date
	}
	name, ok := monthName(parts[1])
	if !ok {
		return date
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return date
	}
	return strconv.Itoa(day) + " " + name + " " + parts[0]
}

func monthName(mm string) (string, bool) {
	m, err := strconv.Atoi(mm)
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	return time.Month(m).String(), true
}

var scales = []struct {
	size   float64
	suffix string
}{
	{1_000_000_000, "M"}, // miliar
	{1_000_000, "Jt"},    // juta
	{1_000, "Rb"},        // ribu
}

// Abbreviate shortens large numbers for chart axes using Indonesian suffixes
// and a decimal comma. 1500000 -> "1,5 Jt", 2000000 -> "2 Jt".
func Abbreviate(n float64) string {
	for _, s := range scales {
		if n >= s.size {
			v := strings.Replace(Fixed(n/s.size, 1), ".", ",", 1)
			v = strings.Replace(v, ",0", "", 1)
			return v + " " + s.suffix
		}
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// CurrencyShort is Abbreviate with a Rupiah prefix. 1500000 -> "Rp 1,5 Jt".
func CurrencyShort(amount float64) string {
	return "Rp " + Abbreviate(amount)
}
