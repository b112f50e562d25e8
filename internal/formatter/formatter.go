package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/mcncl/scriptkit/internal/errors"
)

// Formatter renders numbers, money, dates and byte counts for display.
type Formatter struct {
	currency string
	decimals int
}

// NewFormatter creates a Formatter. defaultCurrency is used when Currency is
// called without a code, defaultDecimals when Number is called without a
// precision.
func NewFormatter(defaultCurrency string, defaultDecimals int) *Formatter {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &Formatter{currency: defaultCurrency, decimals: defaultDecimals}
}

// en-US display symbols. Currencies not listed here are shown by code.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"CAD": "CA$",
	"AUD": "A$",
	"INR": "₹",
	"KRW": "₩",
	"HKD": "HK$",
	"NZD": "NZ$",
	"MXN": "MX$",
	"BRL": "R$",
	"ILS": "₪",
	"VND": "₫",
	"TWD": "NT$",
	"PHP": "₱",
}

// Currency formats value as an amount of the ISO 4217 currency code, using
// the currency's standard number of minor digits.
func (f *Formatter) Currency(value, code string) (string, error) {
	num, err := parseNumber(value)
	if err != nil {
		return "", err
	}
	if code == "" {
		code = f.currency
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", errors.NewInvalidInputError(fmt.Sprintf("invalid currency code %q", code), err)
	}
	scale, _ := currency.Standard.Rounding(unit)

	amount := decimal.NewFromFloat(math.Abs(num)).StringFixed(int32(scale))
	intPart, fracPart, _ := strings.Cut(amount, ".")

	var sb strings.Builder
	if num < 0 {
		sb.WriteByte('-')
	}
	if symbol, ok := currencySymbols[unit.String()]; ok {
		sb.WriteString(symbol)
	} else {
		sb.WriteString(unit.String())
		sb.WriteString("\u00a0")
	}
	sb.WriteString(groupThousands(intPart))
	if fracPart != "" {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String(), nil
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

// Number formats value with a fixed number of decimal places, rounding half
// away from zero like Currency. An empty decimals string selects the
// configured default.
func (f *Formatter) Number(value, decimals string) (string, error) {
	num, err := parseNumber(value)
	if err != nil {
		return "", err
	}
	places := f.decimals
	if strings.TrimSpace(decimals) != "" {
		places, err = strconv.Atoi(strings.TrimSpace(decimals))
		if err != nil || places < 0 || places > 100 {
			return "", errors.NewInvalidInputError(fmt.Sprintf("decimals must be an integer between 0 and 100, got %q", decimals), nil)
		}
	}
	return decimal.NewFromFloat(num).StringFixed(int32(places)), nil
}

func parseNumber(value string) (float64, error) {
	num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, errors.NewParseError(fmt.Sprintf("%q is not a number", value), errors.ErrInvalidNumber)
	}
	return num, nil
}

// Layouts tried in order by Date. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// ISODate is the default output layout for Date.
const ISODate = "2006-01-02T15:04:05.000Z"

// ParseDate parses text with the first matching layout.
func ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.NewParseError(fmt.Sprintf("%q is not a recognised date", text), errors.ErrInvalidDate)
}

// Date re-renders a date in UTC. Without a pattern the result is an ISO 8601
// timestamp with milliseconds. In a pattern the tokens YYYY, MM, DD, HH, mm
// and ss are each substituted once, first occurrence only.
func (f *Formatter) Date(text, pattern string) (string, error) {
	t, err := ParseDate(text)
	if err != nil {
		return "", err
	}
	if pattern == "" {
		return t.Format(ISODate), nil
	}

	tokens := []struct {
		token string
		value string
	}{
		{"YYYY", strconv.Itoa(t.Year())},
		{"MM", fmt.Sprintf("%02d", int(t.Month()))},
		{"DD", fmt.Sprintf("%02d", t.Day())},
		{"HH", fmt.Sprintf("%02d", t.Hour())},
		{"mm", fmt.Sprintf("%02d", t.Minute())},
		{"ss", fmt.Sprintf("%02d", t.Second())},
	}
	out := pattern
	for _, tok := range tokens {
		out = strings.Replace(out, tok.token, tok.value, 1)
	}
	return out, nil
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// Bytes renders a byte count with 1024-based units, rounded to at most two
// decimal places.
func (f *Formatter) Bytes(value string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return "", errors.NewParseError(fmt.Sprintf("%q is not a non-negative whole number of bytes", value), errors.ErrInvalidNumber)
	}
	return FormatBytes(n), nil
}

// FormatBytes is Bytes for a count already in hand.
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	unit := 0
	threshold := int64(1024)
	for unit < len(byteUnits)-1 && n >= threshold {
		unit++
		threshold *= 1024
	}
	scaled := float64(n) / math.Pow(1024, float64(unit))
	rounded := math.Round(scaled*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[unit]
}
