package repository

import (
	"context"
	"testing"
	"time"

	"arcade/domain/entities"
	"arcade/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		account := testutil.CreateTestAccount(1)

		require.NoError(t, repo.Create(ctx, account))
		assert.NotZero(t, account.ID)
		assert.False(t, account.CreatedAt.IsZero())

		stored, err := repo.GetByPublicID(ctx, account.PublicID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, account.Username, stored.Username)
		assert.Equal(t, int64(1), stored.Level)
		assert.True(t, stored.Balance.IsZero())
		assert.Nil(t, stored.LastLoginAt)
	})

	t.Run("duplicate username", func(t *testing.T) {
		first := testutil.CreateTestAccount(2)
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestAccount(3)
		second.Username = first.Username
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, entities.ErrDuplicateAccount)
	})

	t.Run("not found", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)

		account, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccountWithBalance(10, "100.00")
	require.NoError(t, repo.Create(ctx, account))

	t.Run("debit within balance", func(t *testing.T) {
		balance, err := repo.AdjustBalance(ctx, account.ID, decimal.RequireFromString("-40.25"), false)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("59.75").Equal(balance), "got %s", balance)
	})

	t.Run("debit beyond balance is refused", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, account.ID, decimal.NewFromInt(-60), false)
		assert.ErrorIs(t, err, entities.ErrInsufficientFunds)

		stored, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("59.75").Equal(stored.Balance))
	})

	t.Run("allowNegative lets the balance go below zero", func(t *testing.T) {
		balance, err := repo.AdjustBalance(ctx, account.ID, decimal.NewFromInt(-60), true)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("-0.25").Equal(balance), "got %s", balance)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, 999999, decimal.NewFromInt(10), true)
		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
	})
}

func TestAccountRepository_FlagsAndProfile(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(20)
	require.NoError(t, repo.Create(ctx, account))

	require.NoError(t, repo.SetFlag(ctx, account.ID, entities.AccountFlagVIP, true))
	require.NoError(t, repo.SetFlag(ctx, account.ID, entities.AccountFlagBanned, true))
	assert.ErrorIs(t, repo.SetFlag(ctx, account.ID, entities.AccountFlag("balance"), true), entities.ErrInvalidInput)
	assert.ErrorIs(t, repo.SetFlag(ctx, 999999, entities.AccountFlagVIP, true), entities.ErrAccountNotFound)

	require.NoError(t, repo.UpdateProgress(ctx, account.ID, 250, 3))
	require.NoError(t, repo.UpdateProfile(ctx, account.ID, "hello", true, "avatars/a.png"))

	stored, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.VIP)
	assert.True(t, stored.Banned)
	assert.False(t, stored.Admin)
	assert.Equal(t, int64(250), stored.Experience)
	assert.Equal(t, int64(3), stored.Level)
	assert.Equal(t, "hello", stored.Bio)
	assert.True(t, stored.HidePhone)
	assert.Equal(t, "avatars/a.png", stored.AvatarKey)
}

func TestAccountRepository_TouchLogin(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(30)
	account.DailyBonusAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, account))

	first := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLogin(ctx, account.ID, first, false))

	stored, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, first.Equal(*stored.LastLoginAt))
	assert.True(t, account.DailyBonusAt.Equal(stored.DailyBonusAt))

	second := first.Add(time.Hour)
	require.NoError(t, repo.TouchLogin(ctx, account.ID, second, true))

	stored, err = repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, second.Equal(stored.DailyBonusAt))
}

func TestAccountRepository_SearchAndLeaderboard(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	for i, name := range []string{"alice", "alfred", "bob", "al_x"} {
		account := testutil.CreateTestAccount(40 + i)
		account.Username = name
		require.NoError(t, repo.Create(ctx, account))
		require.NoError(t, repo.UpdateProgress(ctx, account.ID, int64(100*(i+1)), 1))
	}

	t.Run("username prefix", func(t *testing.T) {
		found, err := repo.Search(ctx, "al", 10)
		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		found, err := repo.Search(ctx, "al_", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "al_x", found[0].Username)
	})

	t.Run("exact public id", func(t *testing.T) {
		found, err := repo.Search(ctx, "USER_000042", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "bob", found[0].Username)
	})

	t.Run("leaderboard orders by experience", func(t *testing.T) {
		top, err := repo.Leaderboard(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "al_x", top[0].Username)
		assert.Equal(t, "bob", top[1].Username)
	})

	t.Run("list pages by id", func(t *testing.T) {
		page, err := repo.List(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "bob", page[0].Username)
	})
}
