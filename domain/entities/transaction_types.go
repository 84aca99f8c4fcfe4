package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Account lifecycle
	TransactionTypeStarterGrant TransactionType = "starter_grant"
	TransactionTypeDailyBonus   TransactionType = "daily_bonus"

	// Deposits and withdrawals
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdrawal       TransactionType = "withdrawal"
	TransactionTypeWithdrawalRefund TransactionType = "withdrawal_refund"

	// Games
	TransactionTypeGameWin      TransactionType = "game_win"
	TransactionTypeGameLoss     TransactionType = "game_loss"
	TransactionTypeLevelUpBonus TransactionType = "level_up_bonus"

	// Referrals
	TransactionTypeReferralBonus     TransactionType = "referral_bonus"
	TransactionTypeReferralMilestone TransactionType = "referral_milestone"

	// Shop
	TransactionTypeShopPurchase TransactionType = "shop_purchase"

	// Admin
	TransactionTypeAdminOverride TransactionType = "admin_override"
)

// IsGameType returns true if the transaction type came from a game round
func (tt TransactionType) IsGameType() bool {
	return tt == TransactionTypeGameWin ||
		tt == TransactionTypeGameLoss ||
		tt == TransactionTypeLevelUpBonus
}

// IsReconciliationType returns true if the change was applied by reconciling a ledger entry
func (tt TransactionType) IsReconciliationType() bool {
	return tt == TransactionTypeDeposit ||
		tt == TransactionTypeWithdrawalRefund
}

// IsSystemGenerated returns true if the change was granted by the platform
func (tt TransactionType) IsSystemGenerated() bool {
	return tt == TransactionTypeStarterGrant ||
		tt == TransactionTypeDailyBonus ||
		tt == TransactionTypeLevelUpBonus ||
		tt == TransactionTypeReferralBonus ||
		tt == TransactionTypeReferralMilestone
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
