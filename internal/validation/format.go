package validation

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MaxAmountDigits caps how many digits the amount field accepts.
const MaxAmountDigits = 10

var (
	ErrEmptyAmount = errors.New("amount is empty")
	ErrZeroAmount  = errors.New("amount must be greater than zero")
)

// CleanAmount strips everything but digits (so locale separators go away),
// keeps at most MaxAmountDigits and returns the rupee value.
func CleanAmount(raw string) (decimal.Decimal, error) {
	digits := onlyDigits(raw, MaxAmountDigits)
	if digits == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrZeroAmount
	}
	return d, nil
}

// FormatAmountInput re-renders a typed amount with Indian digit grouping,
// e.g. "1234567" -> "12,34,567". Empty input stays empty.
func FormatAmountInput(raw string) string {
	digits := onlyDigits(raw, MaxAmountDigits)
	if digits == "" {
		return ""
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return GroupIndian(digits)
}

// FormatRupees renders an amount with Indian grouping on the integer part,
// keeping any paise, e.g. 1234567.5 -> "12,34,567.5".
func FormatRupees(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	out := sign + GroupIndian(whole)
	if frac != "" {
		out += "." + frac
	}
	return out
}

// GroupIndian groups a string of digits the en-IN way: the last three digits,
// then pairs.
func GroupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}

// NormalizePhone keeps the first ten digits.
func NormalizePhone(raw string) string {
	return onlyDigits(raw, 10)
}

// NormalizePAN upper-cases and cuts to ten characters.
func NormalizePAN(raw string) string {
	p := strings.ToUpper(trim(raw))
	if len(p) > 10 {
		p = p[:10]
	}
	return p
}

func onlyDigits(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == limit {
				break
			}
		}
	}
	return b.String()
}

func trim(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}
