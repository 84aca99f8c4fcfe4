package application

import (
	"context"
	"math/rand/v2"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/infrastructure/observability"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CoinFlipGame is the game kind of the built-in outcome generator
const CoinFlipGame = "coin_flip"

// Ledger runs ledger operations with the account serialised, one unit of work each
type Ledger struct {
	uowFactory interfaces.UnitOfWorkFactory
	locker     *AccountLocker
	rewards    interfaces.RewardSource
	timeout    time.Duration
	flip       func() bool
}

// NewLedger creates the ledger facade. A nil reward source draws uniform rewards.
func NewLedger(
	uowFactory interfaces.UnitOfWorkFactory,
	locker *AccountLocker,
	rewards interfaces.RewardSource,
	timeout time.Duration,
) *Ledger {
	return &Ledger{
		uowFactory: uowFactory,
		locker:     locker,
		rewards:    rewards,
		timeout:    timeout,
		flip:       func() bool { return rand.IntN(2) == 0 },
	}
}

// Deposit records a pending deposit
func (l *Ledger) Deposit(ctx context.Context, accountID int64, gross decimal.Decimal, reference string) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry
	err := l.serialized(ctx, accountID, observability.OperationDeposit, func(ctx context.Context, svc interfaces.LedgerService) error {
		var err error
		entry, err = svc.ProcessDeposit(ctx, accountID, gross, reference)
		return err
	})
	return entry, err
}

// Withdraw debits the gross amount and records a pending payout
func (l *Ledger) Withdraw(ctx context.Context, accountID int64, gross decimal.Decimal) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry
	err := l.serialized(ctx, accountID, observability.OperationWithdrawal, func(ctx context.Context, svc interfaces.LedgerService) error {
		var err error
		entry, err = svc.ProcessWithdrawal(ctx, accountID, gross)
		return err
	})
	return entry, err
}

// RecordGameOutcome applies a finished round
func (l *Ledger) RecordGameOutcome(ctx context.Context, outcome entities.GameOutcome) (*entities.GameOutcomeResult, error) {
	var result *entities.GameOutcomeResult
	err := l.serialized(ctx, outcome.AccountID, observability.OperationGameOutcome, func(ctx context.Context, svc interfaces.LedgerService) error {
		var err error
		result, err = svc.ProcessGameOutcome(ctx, outcome)
		return err
	})
	return result, err
}

// PlayCoinFlip plays one round of the built-in coin flip
func (l *Ledger) PlayCoinFlip(ctx context.Context, accountID int64) (*entities.GameOutcomeResult, error) {
	return l.RecordGameOutcome(ctx, entities.GameOutcome{
		AccountID: accountID,
		GameKind:  CoinFlipGame,
		Win:       l.flip(),
	})
}

// Purchase buys a shop item
func (l *Ledger) Purchase(ctx context.Context, accountID int64, item entities.ShopItem) (*entities.Account, error) {
	var account *entities.Account
	err := l.serialized(ctx, accountID, observability.OperationShopPurchase, func(ctx context.Context, svc interfaces.LedgerService) error {
		var err error
		account, err = svc.ProcessShopPurchase(ctx, accountID, item)
		return err
	})
	return account, err
}

// Entries returns an account's ledger entries, newest first
func (l *Ledger) Entries(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry
	err := withUnitOfWork(ctx, l.uowFactory, l.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		entries, err = uow.LedgerEntryRepository().ListByAccount(ctx, accountID, limit)
		return err
	})
	return entries, err
}

// BalanceHistory returns an account's balance changes, newest first
func (l *Ledger) BalanceHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	var history []*entities.BalanceHistory
	err := withUnitOfWork(ctx, l.uowFactory, l.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		history, err = uow.BalanceHistoryRepository().GetByAccount(ctx, accountID, limit)
		return err
	})
	return history, err
}

// GameHistory returns an account's recorded rounds, newest first
func (l *Ledger) GameHistory(ctx context.Context, accountID int64, limit int) ([]*entities.GameOutcomeRecord, error) {
	var records []*entities.GameOutcomeRecord
	err := withUnitOfWork(ctx, l.uowFactory, l.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		records, err = uow.GameOutcomeRepository().ListByAccount(ctx, accountID, limit)
		return err
	})
	return records, err
}

func (l *Ledger) serialized(
	ctx context.Context,
	accountID int64,
	operation string,
	fn func(ctx context.Context, svc interfaces.LedgerService) error,
) error {
	unlock := l.locker.Lock(accountID)
	defer unlock()

	err := withUnitOfWork(ctx, l.uowFactory, l.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		return fn(ctx, ledgerServiceFor(uow, l.rewards))
	})

	observability.GetMetrics().RecordLedgerOperation(operation, err)
	if err != nil {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"operation": operation,
			"error":     err,
		}).Debug("Ledger operation refused")
	}
	return err
}
