package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arcade/domain/entities"
	"arcade/domain/events"
	"arcade/domain/interfaces"
	"arcade/domain/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ledgerService applies balance-affecting events to accounts.
// Every method expects to run inside a unit of work with the account serialised.
type ledgerService struct {
	accountRepo        interfaces.AccountRepository
	ledgerRepo         interfaces.LedgerEntryRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	gameOutcomeRepo    interfaces.GameOutcomeRepository
	referralRepo       interfaces.ReferralRepository
	eventPublisher     interfaces.EventPublisher
	rewards            interfaces.RewardSource
	now                func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	accountRepo interfaces.AccountRepository,
	ledgerRepo interfaces.LedgerEntryRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	gameOutcomeRepo interfaces.GameOutcomeRepository,
	referralRepo interfaces.ReferralRepository,
	eventPublisher interfaces.EventPublisher,
	rewards interfaces.RewardSource,
) interfaces.LedgerService {
	if rewards == nil {
		rewards = UniformRewardSource{}
	}
	return &ledgerService{
		accountRepo:        accountRepo,
		ledgerRepo:         ledgerRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		gameOutcomeRepo:    gameOutcomeRepo,
		referralRepo:       referralRepo,
		eventPublisher:     eventPublisher,
		rewards:            rewards,
		now:                time.Now,
	}
}

// ProcessDeposit records a pending deposit. The balance is only credited on approval.
func (s *ledgerService) ProcessDeposit(ctx context.Context, accountID int64, gross decimal.Decimal, reference string) (*entities.LedgerEntry, error) {
	quote, err := QuoteDeposit(gross)
	if err != nil {
		return nil, err
	}

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: payment reference is required", entities.ErrInvalidInput)
	}

	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerEntry{
		AccountID: account.ID,
		Kind:      entities.LedgerEntryKindDeposit,
		Gross:     quote.Gross,
		Fee:       quote.Fee,
		Bonus:     quote.Bonus,
		Net:       quote.Net,
		Reference: reference,
		Status:    entities.LedgerEntryStatusPending,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create deposit entry: %w", err)
	}

	s.publishEntryCreated(entry)
	utils.Notify(s.eventPublisher, account.ID,
		"Deposit of %s received. %s will be credited once it is confirmed.",
		utils.FormatMoney(entry.Gross), utils.FormatMoney(entry.Net))

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"entryID":   entry.ID,
		"gross":     entry.Gross.String(),
		"net":       entry.Net.String(),
	}).Info("Deposit request recorded")

	return entry, nil
}

// ProcessWithdrawal debits the full gross amount and records the net payout as pending
func (s *ledgerService) ProcessWithdrawal(ctx context.Context, accountID int64, gross decimal.Decimal) (*entities.LedgerEntry, error) {
	quote, err := QuoteWithdrawal(gross)
	if err != nil {
		return nil, err
	}

	account, err := s.lockActiveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// The frequency cap applies regardless of balance
	since := s.now().Add(-entities.WithdrawalWindow)
	recent, err := s.ledgerRepo.CountByKindSince(ctx, account.ID, entities.LedgerEntryKindWithdraw, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent withdrawals: %w", err)
	}
	if recent >= entities.WithdrawalLimit {
		return nil, fmt.Errorf("%w: at most %d withdrawals per %s", entities.ErrRateLimitExceeded, entities.WithdrawalLimit, entities.WithdrawalWindow)
	}

	if !account.CanAfford(quote.Gross) {
		return nil, fmt.Errorf("%w: balance %s, requested %s", entities.ErrInsufficientFunds,
			utils.FormatMoney(account.Balance), utils.FormatMoney(quote.Gross))
	}

	entry := &entities.LedgerEntry{
		AccountID: account.ID,
		Kind:      entities.LedgerEntryKindWithdraw,
		Gross:     quote.Gross,
		Fee:       quote.Fee,
		Bonus:     quote.Bonus,
		Net:       quote.Net,
		Reference: uuid.NewString(),
		Status:    entities.LedgerEntryStatusPending,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal entry: %w", err)
	}

	_, err = utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		AccountID:       account.ID,
		Amount:          quote.Gross.Neg(),
		TransactionType: entities.TransactionTypeWithdrawal,
		Metadata: map[string]any{
			"entry_id": entry.ID,
			"fee":      quote.Fee.String(),
			"net":      quote.Net.String(),
		},
		RelatedType: entities.RelatedTypeLedgerEntry,
		RelatedID:   entry.ID,
	})
	if err != nil {
		return nil, err
	}

	s.publishEntryCreated(entry)
	utils.Notify(s.eventPublisher, account.ID,
		"Withdrawal of %s requested. %s will be paid out after review.",
		utils.FormatMoney(entry.Gross), utils.FormatMoney(entry.Net))

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"entryID":   entry.ID,
		"gross":     entry.Gross.String(),
		"net":       entry.Net.String(),
	}).Info("Withdrawal request recorded")

	return entry, nil
}

// ProcessGameOutcome credits or debits a finished round and applies any level-ups.
// A loss may take the balance below zero.
func (s *ledgerService) ProcessGameOutcome(ctx context.Context, outcome entities.GameOutcome) (*entities.GameOutcomeResult, error) {
	gameKind := strings.TrimSpace(outcome.GameKind)
	if gameKind == "" {
		return nil, fmt.Errorf("%w: game kind is required", entities.ErrInvalidInput)
	}

	account, err := s.lockActiveAccount(ctx, outcome.AccountID)
	if err != nil {
		return nil, err
	}

	var delta decimal.Decimal
	var experienceGain int64
	transactionType := entities.TransactionTypeGameLoss
	if outcome.Win {
		delta = decimal.NewFromInt(s.rewards.WinReward())
		experienceGain = entities.GameWinExperience
		transactionType = entities.TransactionTypeGameWin
	} else {
		delta = entities.GameLossDebit.Neg()
		experienceGain = entities.GameLossExperience
	}

	experience := account.Experience + experienceGain
	level, levelsGained := LevelAfter(account.Level, experience)

	record := &entities.GameOutcomeRecord{
		AccountID:       account.ID,
		GameKind:        gameKind,
		Win:             outcome.Win,
		BalanceDelta:    delta,
		ExperienceDelta: experienceGain,
		LevelsGained:    levelsGained,
	}
	if err := s.gameOutcomeRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record game outcome: %w", err)
	}

	history, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		AccountID:       account.ID,
		Amount:          delta,
		AllowNegative:   true,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"game_kind": gameKind,
		},
		RelatedType: entities.RelatedTypeGameOutcome,
		RelatedID:   record.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateProgress(ctx, account.ID, experience, level); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	result := &entities.GameOutcomeResult{
		Record:       record,
		Balance:      history.BalanceAfter,
		Experience:   experience,
		Level:        level,
		LevelUpBonus: decimal.Zero,
	}

	// Every level crossed pays its own bonus
	for reached := account.Level + 1; reached <= level; reached++ {
		bonusHistory, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
			AccountID:       account.ID,
			Amount:          entities.LevelUpBonus,
			AllowNegative:   true,
			TransactionType: entities.TransactionTypeLevelUpBonus,
			Metadata: map[string]any{
				"level": reached,
			},
			RelatedType: entities.RelatedTypeGameOutcome,
			RelatedID:   record.ID,
		})
		if err != nil {
			return nil, err
		}
		result.Balance = bonusHistory.BalanceAfter
		result.LevelUpBonus = result.LevelUpBonus.Add(entities.LevelUpBonus)

		if err := s.eventPublisher.Publish(events.LevelUpEvent{
			AccountID: account.ID,
			NewLevel:  reached,
			Bonus:     entities.LevelUpBonus,
		}); err != nil {
			log.WithError(err).Error("Failed to publish level up event")
		}
		utils.Notify(s.eventPublisher, account.ID,
			"Level up! You reached level %d and earned %s coins.", reached, utils.FormatMoney(entities.LevelUpBonus))
	}

	if err := s.eventPublisher.Publish(events.GameOutcomeRecordedEvent{
		RecordID:     record.ID,
		AccountID:    account.ID,
		GameKind:     gameKind,
		Win:          outcome.Win,
		BalanceDelta: delta,
	}); err != nil {
		log.WithError(err).Error("Failed to publish game outcome event")
	}

	log.WithFields(log.Fields{
		"accountID":    account.ID,
		"gameKind":     gameKind,
		"win":          outcome.Win,
		"delta":        delta.String(),
		"levelsGained": levelsGained,
	}).Debug("Game outcome applied")

	return result, nil
}

// ProcessReferralBonus credits the referrer and pays milestone bonuses at exact referral counts
func (s *ledgerService) ProcessReferralBonus(ctx context.Context, referrerAccountID int64, invitedPublicID string) (*entities.ReferralResult, error) {
	invitedPublicID = strings.TrimSpace(invitedPublicID)
	if invitedPublicID == "" {
		return nil, fmt.Errorf("%w: invited account is required", entities.ErrInvalidInput)
	}

	referrer, err := s.lockAccount(ctx, referrerAccountID)
	if err != nil {
		return nil, err
	}

	referral := &entities.Referral{
		ReferrerAccountID: referrer.ID,
		InvitedPublicID:   invitedPublicID,
	}
	if err := s.referralRepo.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	count, err := s.referralRepo.CountByReferrer(ctx, referrer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}

	_, err = utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		AccountID:       referrer.ID,
		Amount:          entities.ReferralBonus,
		AllowNegative:   true,
		TransactionType: entities.TransactionTypeReferralBonus,
		Metadata: map[string]any{
			"invited_public_id": invitedPublicID,
		},
		RelatedType: entities.RelatedTypeReferral,
		RelatedID:   referral.ID,
	})
	if err != nil {
		return nil, err
	}

	result := &entities.ReferralResult{
		Referral:       referral,
		ReferralCount:  count,
		Bonus:          entities.ReferralBonus,
		MilestoneBonus: decimal.Zero,
	}
	utils.Notify(s.eventPublisher, referrer.ID,
		"%s joined with your referral code. You earned %s coins.", invitedPublicID, utils.FormatMoney(entities.ReferralBonus))

	// Milestones trigger on the exact count only
	if milestone, ok := entities.ReferralMilestones[count]; ok {
		_, err = utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
			AccountID:       referrer.ID,
			Amount:          milestone,
			AllowNegative:   true,
			TransactionType: entities.TransactionTypeReferralMilestone,
			Metadata: map[string]any{
				"referral_count": count,
			},
			RelatedType: entities.RelatedTypeReferral,
			RelatedID:   referral.ID,
		})
		if err != nil {
			return nil, err
		}
		result.MilestoneBonus = milestone
		utils.Notify(s.eventPublisher, referrer.ID,
			"You reached %d referrals and earned a %s coin bonus!", count, utils.FormatMoney(milestone))
	}

	log.WithFields(log.Fields{
		"referrerID":    referrer.ID,
		"invited":       invitedPublicID,
		"referralCount": count,
		"milestone":     result.MilestoneBonus.String(),
	}).Info("Referral bonus granted")

	return result, nil
}

// ProcessShopPurchase buys a shop item. VIP costs 500 and is bought at most once.
func (s *ledgerService) ProcessShopPurchase(ctx context.Context, accountID int64, item entities.ShopItem) (*entities.Account, error) {
	if item != entities.ShopItemVIP {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownItem, item)
	}

	account, err := s.lockActiveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.VIP {
		return nil, fmt.Errorf("%w: account is already VIP", entities.ErrAlreadyOwned)
	}
	if !account.CanAfford(entities.VIPPrice) {
		return nil, fmt.Errorf("%w: VIP costs %s, balance is %s", entities.ErrInsufficientFunds,
			utils.FormatMoney(entities.VIPPrice), utils.FormatMoney(account.Balance))
	}

	history, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		AccountID:       account.ID,
		Amount:          entities.VIPPrice.Neg(),
		TransactionType: entities.TransactionTypeShopPurchase,
		Metadata: map[string]any{
			"item": string(item),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.SetFlag(ctx, account.ID, entities.AccountFlagVIP, true); err != nil {
		return nil, fmt.Errorf("failed to set vip flag: %w", err)
	}

	account.Balance = history.BalanceAfter
	account.VIP = true
	utils.Notify(s.eventPublisher, account.ID, "You are now a VIP member!")

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"item":      item,
	}).Info("Shop purchase completed")

	return account, nil
}

// LevelAfter returns the level reached with the given experience and how many levels were gained.
// Leveling repeats while experience reaches the current level's threshold, so one large gain
// can cross several levels.
func LevelAfter(level, experience int64) (int64, int64) {
	if level < 1 {
		level = 1
	}
	var gained int64
	for experience >= level*entities.ExperiencePerLevel {
		level++
		gained++
	}
	return level, gained
}

func (s *ledgerService) publishEntryCreated(entry *entities.LedgerEntry) {
	if err := s.eventPublisher.Publish(events.LedgerEntryCreatedEvent{
		EntryID:   entry.ID,
		AccountID: entry.AccountID,
		Kind:      entry.Kind,
		Gross:     entry.Gross,
		Net:       entry.Net,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ledger entry created event")
	}
}

// activeAccount loads an account without locking it and rejects banned accounts
func (s *ledgerService) activeAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, accountID)
	}
	if account.Banned {
		return nil, entities.ErrAccountBanned
	}
	return account, nil
}

// lockAccount loads an account with a row lock held until the transaction ends
func (s *ledgerService) lockAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, accountID)
	}
	return account, nil
}

func (s *ledgerService) lockActiveAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.lockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Banned {
		return nil, entities.ErrAccountBanned
	}
	return account, nil
}
