// Package core holds the normalized domain model shared by the API client,
// the aggregation services, and the offline cache.
//
// This file contains money parsing and formatting. Amounts travel over the
// wire as unsigned decimal strings; the client re-signs them during
// normalization (expense negative, income positive).
package core

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a signed amount in cents. Calculations always use cents to avoid
// floating-point drift; floats appear only at the display boundary.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and comma
// (12,34) separators and an optional leading minus (server-derived balances
// can be negative).
//
// Examples:
//
//	ParseDecimalToCents("300.00")  -> 30000, nil
//	ParseDecimalToCents("12,345")  -> 1235, nil (rounds up)
//	ParseDecimalToCents("-40.50")  -> -4050, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// MustParseAmount is a test and fixture helper; it panics on invalid input.
func MustParseAmount(s string) Money {
	c, err := ParseDecimalToCents(s)
	if err != nil {
		panic(fmt.Sprintf("parse amount %q: %v", s, err))
	}
	return Money{Cents: c}
}

// Validate rejects non-positive amounts. Used on user input before create
// calls; normalized transactions carry signed amounts and skip this check.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Abs returns the unsigned magnitude. Create payloads always send absolute
// values; the sign is a purely client-side presentation concern.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Negate flips the sign.
func (m Money) Negate() Money {
	return Money{Cents: -m.Cents}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// String renders the plain decimal form used on the wire, e.g. "-300.00".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Format renders the amount for display with a currency symbol, e.g.
// Format("₹") -> "-₹300.00".
func (m Money) Format(symbol string) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}

// UnmarshalJSON accepts the API's decimal-string amounts as well as bare
// JSON numbers, since some deployments serialize decimals unquoted.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "null" {
		m.Cents = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return fmt.Errorf("parse money %q: %w", s, err)
	}
	m.Cents = cents
	return nil
}

// MarshalJSON emits the quoted decimal form the API expects.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}
