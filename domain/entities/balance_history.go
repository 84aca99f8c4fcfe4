package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeLedgerEntry RelatedType = "ledger_entry"
	RelatedTypeGameOutcome RelatedType = "game_outcome"
	RelatedTypeReferral    RelatedType = "referral"
	RelatedTypeAuditRecord RelatedType = "audit_record"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           int64           `db:"account_id"`
	BalanceBefore       decimal.Decimal `db:"balance_before"`
	BalanceAfter        decimal.Decimal `db:"balance_after"`
	ChangeAmount        decimal.Decimal `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedID           *int64          `db:"related_id"`
	RelatedType         *RelatedType    `db:"related_type"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsPositiveChange returns true if the change amount is positive
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.ChangeAmount.IsPositive()
}

// IsNegativeChange returns true if the change amount is negative
func (bh *BalanceHistory) IsNegativeChange() bool {
	return bh.ChangeAmount.IsNegative()
}

// GetTransactionDescription returns a human-readable description of the transaction
func (bh *BalanceHistory) GetTransactionDescription() string {
	switch bh.TransactionType {
	case TransactionTypeStarterGrant:
		return "Starter grant"
	case TransactionTypeDailyBonus:
		return "Daily login bonus"
	case TransactionTypeDeposit:
		return "Deposit approved"
	case TransactionTypeWithdrawal:
		return "Withdrawal requested"
	case TransactionTypeWithdrawalRefund:
		return "Withdrawal refunded"
	case TransactionTypeGameWin:
		return "Game win"
	case TransactionTypeGameLoss:
		return "Game loss"
	case TransactionTypeLevelUpBonus:
		return "Level up bonus"
	case TransactionTypeReferralBonus:
		return "Referral bonus"
	case TransactionTypeReferralMilestone:
		return "Referral milestone"
	case TransactionTypeShopPurchase:
		return "Shop purchase"
	case TransactionTypeAdminOverride:
		return "Balance set by admin"
	default:
		return string(bh.TransactionType)
	}
}

// ValidateTransaction performs basic validation on the transaction
func (bh *BalanceHistory) ValidateTransaction() error {
	if bh.ChangeAmount.IsZero() {
		return errors.New("change amount cannot be zero")
	}

	if !bh.BalanceAfter.Equal(bh.BalanceBefore.Add(bh.ChangeAmount)) {
		return errors.New("balance calculation is inconsistent")
	}

	return nil
}

// RelatedTo links the history row to the entity that caused it
func (bh *BalanceHistory) RelatedTo(relatedType RelatedType, id int64) *BalanceHistory {
	bh.RelatedType = &relatedType
	bh.RelatedID = &id
	return bh
}
