package services

import (
	"fmt"

	"arcade/domain/entities"
	"arcade/domain/utils"

	"github.com/shopspring/decimal"
)

// FeeQuote is the fee breakdown of a deposit or withdrawal
type FeeQuote struct {
	Gross decimal.Decimal
	Fee   decimal.Decimal
	Bonus decimal.Decimal
	Net   decimal.Decimal
}

// QuoteDeposit prices a deposit: 10% fee, plus a 15% bonus on deposits above 500.
// Only 20 to 1000 inclusive can be deposited.
func QuoteDeposit(gross decimal.Decimal) (FeeQuote, error) {
	if !utils.IsMoneyPrecision(gross) {
		return FeeQuote{}, fmt.Errorf("%w: %s has more than %d decimal places", entities.ErrInvalidAmount, gross, entities.MoneyDecimalPlaces)
	}
	if gross.LessThan(entities.DepositMinimum) || gross.GreaterThan(entities.DepositMaximum) {
		return FeeQuote{}, fmt.Errorf("%w: deposits must be between %s and %s",
			entities.ErrInvalidAmount, entities.DepositMinimum, entities.DepositMaximum)
	}

	fee := utils.RoundMoney(gross.Mul(entities.DepositFeeRate))
	bonus := decimal.Zero
	if gross.GreaterThan(entities.DepositBonusThreshold) {
		bonus = utils.RoundMoney(gross.Mul(entities.DepositBonusRate))
	}

	return FeeQuote{
		Gross: gross,
		Fee:   fee,
		Bonus: bonus,
		Net:   gross.Sub(fee).Add(bonus),
	}, nil
}

// QuoteWithdrawal prices a withdrawal: 20% fee, no bonus
func QuoteWithdrawal(gross decimal.Decimal) (FeeQuote, error) {
	if !gross.IsPositive() || !utils.IsMoneyPrecision(gross) {
		return FeeQuote{}, fmt.Errorf("%w: withdrawal amount must be positive with at most %d decimal places",
			entities.ErrInvalidAmount, entities.MoneyDecimalPlaces)
	}

	fee := utils.RoundMoney(gross.Mul(entities.WithdrawalFeeRate))
	return FeeQuote{
		Gross: gross,
		Fee:   fee,
		Bonus: decimal.Zero,
		Net:   gross.Sub(fee),
	}, nil
}
