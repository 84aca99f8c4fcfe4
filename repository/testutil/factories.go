package testutil

import (
	"fmt"
	"time"

	"arcade/domain/entities"

	"github.com/shopspring/decimal"
)

// CreateTestAccount creates an unsaved account with default values
func CreateTestAccount(n int) *entities.Account {
	now := time.Now()
	return &entities.Account{
		PublicID:     fmt.Sprintf("USER_%06d", n),
		Username:     fmt.Sprintf("player%d", n),
		Email:        fmt.Sprintf("player%d@example.com", n),
		PasswordHash: "$2a$10$test",
		Balance:      decimal.Zero,
		Level:        1,
		DailyBonusAt: now,
	}
}

// CreateTestAccountWithBalance creates an unsaved account with a specific balance
func CreateTestAccountWithBalance(n int, balance string) *entities.Account {
	account := CreateTestAccount(n)
	account.Balance = decimal.RequireFromString(balance)
	return account
}

// CreateTestLedgerEntry creates an unsaved pending entry
func CreateTestLedgerEntry(accountID int64, kind entities.LedgerEntryKind, gross, fee, bonus string) *entities.LedgerEntry {
	g := decimal.RequireFromString(gross)
	f := decimal.RequireFromString(fee)
	b := decimal.RequireFromString(bonus)
	return &entities.LedgerEntry{
		AccountID: accountID,
		Kind:      kind,
		Gross:     g,
		Fee:       f,
		Bonus:     b,
		Net:       g.Sub(f).Add(b),
		Reference: fmt.Sprintf("ref-%d-%s", accountID, kind),
		Status:    entities.LedgerEntryStatusPending,
	}
}

// CreateTestBalanceHistory creates an unsaved balance history row
func CreateTestBalanceHistory(accountID int64, before, change string, transactionType entities.TransactionType) *entities.BalanceHistory {
	b := decimal.RequireFromString(before)
	c := decimal.RequireFromString(change)
	return &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   b,
		BalanceAfter:    b.Add(c),
		ChangeAmount:    c,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
