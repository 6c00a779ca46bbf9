package payment

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest amount the gateway accepts in a single checkout.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// FormatAmount renders amount with exactly two fraction digits, a dot as
// decimal separator and no grouping, e.g. 1000 -> "1000.00". Amounts with
// sub-cent precision are rejected, never rounded.
func FormatAmount(amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("%w: %v is not finite", ErrInvalidAmount, amount)
	}
	return FormatDecimal(decimal.NewFromFloat(amount))
}

func FormatDecimal(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount.String())
	}

	if !amount.Equal(amount.Truncate(2)) {
		return "", fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, amount.String())
	}
	if amount.GreaterThan(MaxAmount) {
		return "", fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, amount.String(), MaxAmount.StringFixed(2))
	}
	return amount.StringFixed(2), nil
}

// ParseAmount parses a gateway amount string such as "1000.00".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if _, err := FormatDecimal(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}
