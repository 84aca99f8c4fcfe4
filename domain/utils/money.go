package utils

import (
	"arcade/domain/entities"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds an amount to the stored precision
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(entities.MoneyDecimalPlaces)
}

// IsMoneyPrecision reports whether the amount fits the stored precision without rounding
func IsMoneyPrecision(amount decimal.Decimal) bool {
	return amount.Equal(RoundMoney(amount))
}

// FormatMoney renders an amount with two decimal places
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(entities.MoneyDecimalPlaces)
}
