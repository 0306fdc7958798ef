package validation

import (
	"github.com/shopspring/decimal"
)

// CheckCurrencyAmount reports whether the given decimal
// is suitable as a monetary amount:
// the amount must be positive and must not be more precise than a cent
func CheckCurrencyAmount(amount decimal.Decimal) bool {
	if amount.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return amount.Equal(amount.Round(2))
}
