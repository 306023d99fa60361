package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places every money value is kept and shown with.
const MoneyPlaces = 2

// FormatMoney renders an amount with exactly two decimals, e.g. 15 -> "15.00".
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPlaces)
}

// FormatTotal renders a tab total the way the bar prints it: "Total: 15.00 credits".
func FormatTotal(amount decimal.Decimal) string {
	return fmt.Sprintf("Total: %s credits", FormatMoney(amount))
}

// ParseMoney parses a user supplied amount and rejects negatives and
// more than two decimal places.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("This field is required.")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("Enter a number.")
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("Ensure this value is greater than or equal to 0.")
	}
	if d.Exponent() < -MoneyPlaces && !d.Equal(d.Round(MoneyPlaces)) {
		return decimal.Zero, fmt.Errorf("Ensure that there are no more than %d decimal places.", MoneyPlaces)
	}
	return d.Round(MoneyPlaces), nil
}
