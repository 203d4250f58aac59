package utils

import (
	"fmt"
	"os"
)

// FormatAmount renders an amount with two fixed decimals and the unit
// label the shop trades in. Display convention only, totals are stored
// as plain numbers.
func FormatAmount(amount float64) string {
	unit := os.Getenv("CURRENCY_UNIT")
	if unit == "" {
		unit = "rub."
	}
	return fmt.Sprintf("%.2f %s", amount, unit)
}
