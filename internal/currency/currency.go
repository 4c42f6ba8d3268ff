// Package currency converts amounts using a static rate table normalized through USD.
// Rates are a display affordance and are never sourced externally.
package currency

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// rates are units of each currency per 1 USD.
var rates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 148.45,
	"INR": 83.12,
}

// Currencies returns the supported currency codes in sorted order.
func Currencies() []string {
	return slices.Sorted(maps.Keys(rates))
}

// Supported reports whether code is in the rate table.
func Supported(code string) bool {
	_, ok := rates[normalize(code)]
	return ok
}

// Convert converts amount from one currency to another through USD.
func Convert(amount float64, from, to string) (float64, error) {
	fromRate, toRate, err := lookup(from, to)
	if err != nil {
		return 0, err
	}
	if fromRate == toRate {
		return amount, nil
	}
	return amount / fromRate * toRate, nil
}

// Rate returns the number of units of to per unit of from.
func Rate(from, to string) (float64, error) {
	fromRate, toRate, err := lookup(from, to)
	if err != nil {
		return 0, err
	}
	return toRate / fromRate, nil
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// FormatRate renders a rate with four decimals.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 4, 64)
}

func lookup(from, to string) (float64, float64, error) {
	fromRate, ok := rates[normalize(from)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, from)
	}
	toRate, ok := rates[normalize(to)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, to)
	}
	return fromRate, toRate, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
