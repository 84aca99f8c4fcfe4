package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"arcade/database"
	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/domain/services"
	"arcade/domain/testhelpers"
	"arcade/domain/utils"
	"arcade/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedReward int64

func (f fixedReward) WinReward() int64 { return int64(f) }

func quietPublisher() *testhelpers.MockTransactionalEventPublisher {
	publisher := new(testhelpers.MockTransactionalEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil).Maybe()
	publisher.On("Flush", mock.Anything).Return(nil).Maybe()
	publisher.On("Discard").Maybe()
	return publisher
}

// inTx runs fn inside a committed unit of work, rolling back on error
func inTx(t *testing.T, db *database.DB, fn func(uow interfaces.UnitOfWork) error) error {
	t.Helper()
	ctx := context.Background()

	uow := CreateTestUnitOfWork(db, quietPublisher())
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}

func ledgerFor(uow interfaces.UnitOfWork, reward int64) interfaces.LedgerService {
	return services.NewLedgerService(
		uow.AccountRepository(),
		uow.LedgerEntryRepository(),
		uow.BalanceHistoryRepository(),
		uow.GameOutcomeRepository(),
		uow.ReferralRepository(),
		uow.EventBus(),
		fixedReward(reward),
	)
}

func grant(ctx context.Context, uow interfaces.UnitOfWork, accountID int64, amount string) error {
	_, err := utils.ApplyBalanceChange(ctx, uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), utils.BalanceChange{
		AccountID:       accountID,
		Amount:          decimal.RequireFromString(amount),
		AllowNegative:   true,
		TransactionType: entities.TransactionTypeStarterGrant,
	})
	return err
}

func TestUnitOfWork_CommitFlushesAndRollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		publisher := new(testhelpers.MockTransactionalEventPublisher)
		publisher.On("Flush", mock.Anything).Return(nil).Once()

		uow := CreateTestUnitOfWork(testDB.DB, publisher)
		require.NoError(t, uow.Begin(ctx))
		require.Error(t, uow.Begin(ctx))

		account := testutil.CreateTestAccount(1)
		require.NoError(t, uow.AccountRepository().Create(ctx, account))
		require.NoError(t, uow.Commit())

		stored, err := NewAccountRepository(testDB.DB).GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored)
		publisher.AssertExpectations(t)
	})

	t.Run("rollback", func(t *testing.T) {
		publisher := new(testhelpers.MockTransactionalEventPublisher)
		publisher.On("Discard").Once()

		uow := CreateTestUnitOfWork(testDB.DB, publisher)
		require.NoError(t, uow.Begin(ctx))

		account := testutil.CreateTestAccount(2)
		require.NoError(t, uow.AccountRepository().Create(ctx, account))
		require.NoError(t, uow.Rollback())
		require.NoError(t, uow.Rollback())

		stored, err := NewAccountRepository(testDB.DB).GetByPublicID(ctx, account.PublicID)
		require.NoError(t, err)
		assert.Nil(t, stored)
		publisher.AssertExpectations(t)
		publisher.AssertNotCalled(t, "Flush", mock.Anything)
	})

	t.Run("getters panic before begin", func(t *testing.T) {
		uow := CreateTestUnitOfWork(testDB.DB, quietPublisher())
		assert.Panics(t, func() { uow.AccountRepository() })
		assert.Error(t, uow.Commit())
	})
}

func TestUnitOfWork_BalanceMatchesHistory(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	account := testutil.CreateTestAccount(1)
	admin := testutil.CreateTestAccount(2)
	require.NoError(t, inTx(t, testDB.DB, func(uow interfaces.UnitOfWork) error {
		if err := uow.AccountRepository().Create(ctx, account); err != nil {
			return err
		}
		if err := uow.AccountRepository().Create(ctx, admin); err != nil {
			return err
		}
		return grant(ctx, uow, account.ID, "100")
	}))

	// wins until a level-up, then losses into negative territory
	for i := 0; i < 10; i++ {
		require.NoError(t, inTx(t, testDB.DB, func(uow interfaces.UnitOfWork) error {
			_, err := ledgerFor(uow, 25).ProcessGameOutcome(ctx, entities.GameOutcome{AccountID: account.ID, GameKind: "coin_flip", Win: true})
			return err
		}))
	}
	var withdrawal *entities.LedgerEntry
	require.NoError(t, inTx(t, testDB.DB, func(uow interfaces.UnitOfWork) error {
		var err error
		withdrawal, err = ledgerFor(uow, 0).ProcessWithdrawal(ctx, account.ID, decimal.RequireFromString("333.33"))
		return err
	}))
	for i := 0; i < 30; i++ {
		require.NoError(t, inTx(t, testDB.DB, func(uow interfaces.UnitOfWork) error {
			_, err := ledgerFor(uow, 0).ProcessGameOutcome(ctx, entities.GameOutcome{AccountID: account.ID, GameKind: "coin_flip", Win: false})
			return err
		}))
	}
	require.NoError(t, inTx(t, testDB.DB, func(uow interfaces.UnitOfWork) error {
		reconciliation := services.NewReconciliationService(uow.AccountRepository(), uow.LedgerEntryRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
		_, err := reconciliation.Reject(ctx, withdrawal.ID, admin.ID)
		return err
	}))

	stored, err := NewAccountRepository(testDB.DB).GetByID(ctx, account.ID)
	require.NoError(t, err)
	sum, err := NewBalanceHistoryRepository(testDB.DB).SumChanges(ctx, account.ID)
	require.NoError(t, err)

	assert.True(t, stored.Balance.Equal(sum), "balance %s, history %s", stored.Balance, sum)
	// 100 + 10*25 - 30*20 plus two level-up bonuses, the withdrawal being fully refunded
	assert.True(t, decimal.NewFromInt(-50).Equal(stored.Balance), "balance %s", stored.Balance)

	history, err := NewBalanceHistoryRepository(testDB.DB).GetByAccount(ctx, account.ID, 100)
	require.NoError(t, err)
	for _, h := range history {
		assert.True(t, h.BalanceAfter.Equal(h.BalanceBefore.Add(h.ChangeAmount)))
	}
}

func TestUnitOfWork_ConcurrentDebitsSerialize(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	account := testutil.CreateTestAccount(1)
	require.NoError(t, inTx(t, testDB.DB, func(uow interfaces.UnitOfWork) error {
		if err := uow.AccountRepository().Create(ctx, account); err != nil {
			return err
		}
		return grant(ctx, uow, account.ID, "1000")
	}))

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, refused := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			uow := CreateTestUnitOfWork(testDB.DB, quietPublisher())
			if err := uow.Begin(ctx); err != nil {
				t.Errorf("begin: %v", err)
				return
			}
			defer uow.Rollback()

			if _, err := uow.AccountRepository().GetByIDForUpdate(ctx, account.ID); err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			_, err := utils.ApplyBalanceChange(ctx, uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), utils.BalanceChange{
				AccountID:       account.ID,
				Amount:          decimal.NewFromInt(-100),
				TransactionType: entities.TransactionTypeShopPurchase,
			})
			if err == nil {
				err = uow.Commit()
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, entities.ErrInsufficientFunds):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, refused)

	stored, err := NewAccountRepository(testDB.DB).GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero(), "balance %s", stored.Balance)

	sum, err := NewBalanceHistoryRepository(testDB.DB).SumChanges(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero(), "history %s", sum)
}
