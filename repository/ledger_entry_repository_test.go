package repository

import (
	"context"
	"testing"
	"time"

	"arcade/domain/entities"
	"arcade/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEntryRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewLedgerEntryRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(1)
	admin := testutil.CreateTestAccount(2)
	require.NoError(t, accounts.Create(ctx, account))
	require.NoError(t, accounts.Create(ctx, admin))

	t.Run("create and read back", func(t *testing.T) {
		entry := testutil.CreateTestLedgerEntry(account.ID, entities.LedgerEntryKindDeposit, "600", "60", "90")
		require.NoError(t, repo.Create(ctx, entry))
		assert.NotZero(t, entry.ID)

		stored, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, entry.Net.Equal(stored.Net))
		assert.Equal(t, entities.LedgerEntryStatusPending, stored.Status)
		assert.Nil(t, stored.ResolvedAt)
	})

	t.Run("inconsistent amounts are refused by the schema", func(t *testing.T) {
		entry := testutil.CreateTestLedgerEntry(account.ID, entities.LedgerEntryKindDeposit, "100", "10", "0")
		entry.Net = entry.Gross
		assert.Error(t, repo.Create(ctx, entry))
	})

	t.Run("resolution happens at most once", func(t *testing.T) {
		entry := testutil.CreateTestLedgerEntry(account.ID, entities.LedgerEntryKindWithdraw, "100", "20", "0")
		require.NoError(t, repo.Create(ctx, entry))

		approved := *entry
		require.NoError(t, approved.Resolve(entities.LedgerEntryStatusApproved, admin.ID, time.Now()))
		require.NoError(t, repo.MarkResolved(ctx, &approved))

		rejected := *entry
		require.NoError(t, rejected.Resolve(entities.LedgerEntryStatusRejected, admin.ID, time.Now()))
		err := repo.MarkResolved(ctx, &rejected)
		assert.ErrorIs(t, err, entities.ErrInvalidStateTransition)

		stored, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.LedgerEntryStatusApproved, stored.Status)
		require.NotNil(t, stored.ResolvedBy)
		assert.Equal(t, admin.ID, *stored.ResolvedBy)
	})

	t.Run("counts and lists", func(t *testing.T) {
		since := time.Now().Add(-time.Hour)
		count, err := repo.CountByKindSince(ctx, account.ID, entities.LedgerEntryKindWithdraw, since)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = repo.CountByKindSince(ctx, account.ID, entities.LedgerEntryKindWithdraw, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, count)

		pending, err := repo.ListByStatus(ctx, entities.LedgerEntryStatusPending, 10)
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		pendingCount, err := repo.CountByStatus(ctx, entities.LedgerEntryStatusPending)
		require.NoError(t, err)
		assert.Equal(t, int64(1), pendingCount)

		all, err := repo.ListByAccount(ctx, account.ID, 10)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
