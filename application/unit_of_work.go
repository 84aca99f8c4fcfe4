package application

import (
	"context"
	"fmt"
	"time"

	"arcade/domain/interfaces"
	"arcade/domain/services"
)

// withUnitOfWork runs fn in one transaction bounded by timeout.
// Any error from fn rolls the whole unit back and discards its events.
func withUnitOfWork(
	ctx context.Context,
	uowFactory interfaces.UnitOfWorkFactory,
	timeout time.Duration,
	fn func(ctx context.Context, uow interfaces.UnitOfWork) error,
) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(ctx, uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func ledgerServiceFor(uow interfaces.UnitOfWork, rewards interfaces.RewardSource) interfaces.LedgerService {
	return services.NewLedgerService(
		uow.AccountRepository(),
		uow.LedgerEntryRepository(),
		uow.BalanceHistoryRepository(),
		uow.GameOutcomeRepository(),
		uow.ReferralRepository(),
		uow.EventBus(),
		rewards,
	)
}

func adminServiceFor(uow interfaces.UnitOfWork) interfaces.AdminService {
	return services.NewAdminService(
		uow.AccountRepository(),
		uow.LedgerEntryRepository(),
		uow.BalanceHistoryRepository(),
		uow.AuditRepository(),
		uow.ChatRepository(),
		uow.EventBus(),
	)
}
