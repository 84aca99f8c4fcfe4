package testutil

import (
	"context"
	"testing"
	"time"

	"arcade/database"
	"arcade/domain/entities"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:16-alpine"

// TestDatabase is a migrated Postgres container owned by one test
type TestDatabase struct {
	Container *postgres.PostgresContainer
	DB        *database.DB
	URL       string
}

// SetupTestDatabase starts a container, applies every migration and opens a pool.
// The container is terminated by t.Cleanup.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase("arcade_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "arcade-ledger",
			"test-name": t.Name(),
			"timestamp": time.Now().Format("20060102-150405"),
			"cleanup":   "auto",
		}),
	)
	require.NoError(t, err)

	testDB := &TestDatabase{Container: container}
	t.Cleanup(func() { testDB.teardown(t) })

	testDB.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrationsWithURL(testDB.URL))

	// Concurrency tests hold one connection per goroutine
	testDB.DB, err = database.NewConnection(ctx, testDB.URL, database.PoolOptions{MaxConns: 20})
	require.NoError(t, err)

	return testDB
}

// InsertAccounts stores accounts straight through SQL, filling in their IDs
func (td *TestDatabase) InsertAccounts(t *testing.T, accounts ...*entities.Account) {
	t.Helper()
	ctx := context.Background()

	for _, account := range accounts {
		err := td.DB.QueryRow(ctx, `
			INSERT INTO accounts
			(public_id, username, email, phone, password_hash, balance, experience, level, vip, admin, daily_bonus_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at`,
			account.PublicID, account.Username, account.Email, account.Phone, account.PasswordHash,
			account.Balance, account.Experience, account.Level, account.VIP, account.Admin, account.DailyBonusAt,
		).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
		require.NoError(t, err, "insert account %s", account.Username)
	}
}

// InsertLedgerEntries stores pending entries, filling in their IDs
func (td *TestDatabase) InsertLedgerEntries(t *testing.T, entries ...*entities.LedgerEntry) {
	t.Helper()
	ctx := context.Background()

	for _, entry := range entries {
		err := td.DB.QueryRow(ctx, `
			INSERT INTO ledger_entries (account_id, kind, gross, fee, bonus, net, reference, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			entry.AccountID, entry.Kind, entry.Gross, entry.Fee, entry.Bonus, entry.Net, entry.Reference, entry.Status,
		).Scan(&entry.ID, &entry.CreatedAt)
		require.NoError(t, err, "insert %s entry for account %d", entry.Kind, entry.AccountID)
	}
}

func (td *TestDatabase) teardown(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Logf("recovered during container teardown: %v", r)
		}
	}()

	if td.DB != nil {
		td.DB.Close()
	}

	if td.Container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := td.Container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate test container: %v", err)
	}
}
