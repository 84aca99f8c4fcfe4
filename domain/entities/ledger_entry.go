package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryKind distinguishes deposits from withdrawals
type LedgerEntryKind string

const (
	LedgerEntryKindDeposit  LedgerEntryKind = "deposit"
	LedgerEntryKindWithdraw LedgerEntryKind = "withdraw"
)

// LedgerEntryStatus is the resolution state of a ledger entry
type LedgerEntryStatus string

const (
	LedgerEntryStatusPending  LedgerEntryStatus = "pending"
	LedgerEntryStatusApproved LedgerEntryStatus = "approved"
	LedgerEntryStatusRejected LedgerEntryStatus = "rejected"
)

// LedgerEntry records a deposit or withdrawal request awaiting reconciliation
type LedgerEntry struct {
	ID         int64             `db:"id"`
	AccountID  int64             `db:"account_id"`
	Kind       LedgerEntryKind   `db:"kind"`
	Gross      decimal.Decimal   `db:"gross"`
	Fee        decimal.Decimal   `db:"fee"`
	Bonus      decimal.Decimal   `db:"bonus"`
	Net        decimal.Decimal   `db:"net"`
	Reference  string            `db:"reference"`
	Status     LedgerEntryStatus `db:"status"`
	CreatedAt  time.Time         `db:"created_at"`
	ResolvedAt *time.Time        `db:"resolved_at"`
	ResolvedBy *int64            `db:"resolved_by"`
}

// IsPending returns true if the entry has not been resolved yet
func (e *LedgerEntry) IsPending() bool {
	return e.Status == LedgerEntryStatusPending
}

// IsDeposit returns true for deposit entries
func (e *LedgerEntry) IsDeposit() bool {
	return e.Kind == LedgerEntryKindDeposit
}

// IsWithdrawal returns true for withdrawal entries
func (e *LedgerEntry) IsWithdrawal() bool {
	return e.Kind == LedgerEntryKindWithdraw
}

// CanTransitionTo checks if the entry may move to the target status
func (e *LedgerEntry) CanTransitionTo(target LedgerEntryStatus) bool {
	if !e.IsPending() {
		return false
	}
	return target == LedgerEntryStatusApproved || target == LedgerEntryStatusRejected
}

// Resolve moves a pending entry to a terminal status
func (e *LedgerEntry) Resolve(target LedgerEntryStatus, resolverID int64, at time.Time) error {
	if !e.CanTransitionTo(target) {
		return fmt.Errorf("%w: entry %d is %s, cannot become %s", ErrInvalidStateTransition, e.ID, e.Status, target)
	}
	e.Status = target
	e.ResolvedAt = &at
	e.ResolvedBy = &resolverID
	return nil
}

// Validate checks the amount invariant net = gross - fee + bonus
func (e *LedgerEntry) Validate() error {
	if !e.Gross.IsPositive() {
		return fmt.Errorf("%w: gross must be positive", ErrInvalidAmount)
	}
	if !e.Net.Equal(e.Gross.Sub(e.Fee).Add(e.Bonus)) {
		return fmt.Errorf("ledger entry amounts are inconsistent: net %s, gross %s, fee %s, bonus %s",
			e.Net, e.Gross, e.Fee, e.Bonus)
	}
	return nil
}
