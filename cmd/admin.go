package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"arcade/application"
	"arcade/config"
	"arcade/database"
	"arcade/domain/entities"
	"arcade/infrastructure"
	"arcade/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const adminUsage = "usage: arcade admin [ban <account-id>|balance <account-id> <amount>|approve <entry-id>|reject <entry-id>|pending]"

var errAdminUsage = errors.New(adminUsage)

// adminRuntime is the in-process wiring behind the admin CLI.
// Domain events stay local; notification requests go through a dispatcher drained on Close.
type adminRuntime struct {
	console    *application.AdminConsole
	dispatcher *application.NotificationDispatcher
	out        io.Writer
}

func newAdminRuntime(ctx context.Context, db *database.DB, queueSize int, timeout time.Duration, out io.Writer) *adminRuntime {
	publisher := infrastructure.NewNATSEventPublisher(nil, infrastructure.NewEventSubjectMapper())
	uowFactory := repository.NewUnitOfWorkFactory(db, infrastructure.TransactionalPublisherFactory(publisher))

	dispatcher := application.NewNotificationDispatcher(uowFactory, queueSize, timeout)
	dispatcher.Start(ctx)
	application.RegisterApplicationSubscriptions(publisher, dispatcher, nil)

	return &adminRuntime{
		console:    application.NewAdminConsole(uowFactory, application.NewAccountLocker(), timeout),
		dispatcher: dispatcher,
		out:        out,
	}
}

// Close waits until every queued notification is stored
func (r *adminRuntime) Close() {
	r.dispatcher.Stop()
}

// RunAdmin executes a single reconciliation command as the configured admin account
func RunAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errAdminUsage
	}

	cfg := config.Get()
	ConfigureLogging(cfg)

	if cfg.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME must name the admin account running the command")
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), PoolOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	admin := newAdminRuntime(ctx, db, cfg.NotificationQueueSize, cfg.StorageTimeout, os.Stdout)
	defer admin.Close()

	if err := admin.execute(ctx, cfg.AdminUsername, args); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"command": args[0],
		"admin":   cfg.AdminUsername,
	}).Info("Admin command completed")
	return nil
}

func (r *adminRuntime) execute(ctx context.Context, adminUsername string, args []string) error {
	if len(args) == 0 {
		return errAdminUsage
	}

	actor, err := r.console.ActorByUsername(ctx, adminUsername, entities.AuditSourceCLI)
	if err != nil {
		return err
	}

	switch args[0] {
	case "ban":
		id, err := parseIDArg(args, 1, "account-id")
		if err != nil {
			return err
		}
		account, err := r.console.ToggleBan(ctx, actor, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Account %d (%s) banned: %t\n", account.ID, account.Username, account.Banned)

	case "balance":
		id, err := parseIDArg(args, 1, "account-id")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return errAdminUsage
		}
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("%w: invalid amount %q", entities.ErrInvalidAmount, args[2])
		}
		account, err := r.console.OverrideBalance(ctx, actor, id, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Account %d (%s) balance: %s\n", account.ID, account.Username, account.Balance.StringFixed(2))

	case "approve", "reject":
		id, err := parseIDArg(args, 1, "entry-id")
		if err != nil {
			return err
		}
		resolve := r.console.ApproveEntry
		if args[0] == "reject" {
			resolve = r.console.RejectEntry
		}
		entry, err := resolve(ctx, actor, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Entry %d (%s, account %d): %s\n", entry.ID, entry.Kind, entry.AccountID, entry.Status)

	case "pending":
		entries, err := r.console.PendingEntries(ctx, actor, 100)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(r.out, "No pending entries")
			return nil
		}
		for _, entry := range entries {
			fmt.Fprintf(r.out, "%d\t%s\taccount=%d\tgross=%s\tnet=%s\t%s\n",
				entry.ID, entry.Kind, entry.AccountID,
				entry.Gross.StringFixed(2), entry.Net.StringFixed(2),
				entry.CreatedAt.Format("2006-01-02 15:04:05"))
		}

	default:
		return fmt.Errorf("unknown admin command: %s", args[0])
	}

	return nil
}

func parseIDArg(args []string, index int, name string) (int64, error) {
	if len(args) <= index {
		return 0, errAdminUsage
	}
	id, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", entities.ErrInvalidInput, name, args[index])
	}
	return id, nil
}
