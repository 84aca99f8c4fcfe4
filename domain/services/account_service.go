package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	publicIDAttempts = 5
	searchLimit      = 20
	maxBioLength     = 500
)

type accountService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	ledger             interfaces.LedgerService
	eventPublisher     interfaces.EventPublisher
	hasher             interfaces.PasswordHasher
	publicIDs          interfaces.PublicIDGenerator
	now                func() time.Time
}

// NewAccountService creates the account lifecycle service
func NewAccountService(
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
	hasher interfaces.PasswordHasher,
	publicIDs interfaces.PublicIDGenerator,
) interfaces.AccountService {
	if publicIDs == nil {
		publicIDs = RandomPublicIDs{}
	}
	return &accountService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		ledger:             ledger,
		eventPublisher:     eventPublisher,
		hasher:             hasher,
		publicIDs:          publicIDs,
		now:                time.Now,
	}
}

// Register creates an account, grants the starter coins and credits the referrer if the code matches
func (s *accountService) Register(ctx context.Context, registration interfaces.Registration) (*entities.Account, error) {
	account, err := s.create(ctx, registration, false)
	if err != nil {
		return nil, err
	}

	// Unknown referral codes are ignored, the signup still succeeds
	if code := strings.TrimSpace(registration.ReferralCode); code != "" {
		referrer, err := s.accountRepo.GetByPublicID(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up referrer: %w", err)
		}
		if referrer == nil {
			log.WithFields(log.Fields{
				"publicID":     account.PublicID,
				"referralCode": code,
			}).Warn("Ignoring unknown referral code")
		} else if _, err := s.ledger.ProcessReferralBonus(ctx, referrer.ID, account.PublicID); err != nil {
			return nil, err
		}
	}

	utils.Notify(s.eventPublisher, account.ID,
		"Welcome to the arcade, %s! You received %s starter coins.", account.Username, utils.FormatMoney(entities.StarterGrant))

	return account, nil
}

// RecordLogin stamps the login and pays the daily bonus once per interval
func (s *accountService) RecordLogin(ctx context.Context, accountID int64, now time.Time) (*interfaces.LoginResult, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, accountID)
	}
	if account.Banned {
		return nil, entities.ErrAccountBanned
	}

	result := &interfaces.LoginResult{Account: account, DailyBonus: decimal.Zero}

	due := account.DailyBonusDue(now)
	if due {
		history, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
			AccountID:       account.ID,
			Amount:          entities.DailyLoginBonus,
			AllowNegative:   true,
			TransactionType: entities.TransactionTypeDailyBonus,
		})
		if err != nil {
			return nil, err
		}
		account.Balance = history.BalanceAfter
		account.DailyBonusAt = now
		result.DailyBonus = entities.DailyLoginBonus
		utils.Notify(s.eventPublisher, account.ID, "Daily login bonus: +%s coins!", utils.FormatMoney(entities.DailyLoginBonus))
	}

	if err := s.accountRepo.TouchLogin(ctx, account.ID, now, due); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	account.LastLoginAt = &now

	return result, nil
}

// GetProfile returns the account behind a public ID
func (s *accountService) GetProfile(ctx context.Context, publicID string) (*entities.Account, error) {
	account, err := s.accountRepo.GetByPublicID(ctx, strings.TrimSpace(publicID))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrAccountNotFound, publicID)
	}
	return account, nil
}

// UpdateProfile stores bio, phone visibility and optionally a new avatar
func (s *accountService) UpdateProfile(ctx context.Context, accountID int64, update interfaces.ProfileUpdate) (*entities.Account, error) {
	bio := strings.TrimSpace(update.Bio)
	if len(bio) > maxBioLength {
		return nil, fmt.Errorf("%w: bio is limited to %d characters", entities.ErrInvalidInput, maxBioLength)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, accountID)
	}

	avatarKey := account.AvatarKey
	if update.AvatarKey != nil {
		avatarKey = *update.AvatarKey
	}

	if err := s.accountRepo.UpdateProfile(ctx, account.ID, bio, update.HidePhone, avatarKey); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	account.Bio = bio
	account.HidePhone = update.HidePhone
	account.AvatarKey = avatarKey
	return account, nil
}

// Leaderboard returns the accounts with the most experience
func (s *accountService) Leaderboard(ctx context.Context) ([]*entities.Account, error) {
	accounts, err := s.accountRepo.Leaderboard(ctx, entities.LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return accounts, nil
}

// Search finds accounts by exact public ID or username prefix
func (s *accountService) Search(ctx context.Context, query string) ([]*entities.Account, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entities.Account{}, nil
	}

	accounts, err := s.accountRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	return accounts, nil
}

// EnsureAdmin creates the default admin on first start and restores the flag if it was removed
func (s *accountService) EnsureAdmin(ctx context.Context, username, email, password string) (*entities.Account, bool, error) {
	existing, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get admin account: %w", err)
	}
	if existing != nil {
		if !existing.Admin {
			if err := s.accountRepo.SetFlag(ctx, existing.ID, entities.AccountFlagAdmin, true); err != nil {
				return nil, false, fmt.Errorf("failed to set admin flag: %w", err)
			}
			existing.Admin = true
		}
		return existing, false, nil
	}

	account, err := s.create(ctx, interfaces.Registration{
		Username: username,
		Email:    email,
		Password: password,
	}, true)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

// create inserts the account with a zero balance and then applies the starter grant,
// so the balance always equals the sum of its history.
func (s *accountService) create(ctx context.Context, registration interfaces.Registration, admin bool) (*entities.Account, error) {
	username := strings.TrimSpace(registration.Username)
	email := strings.ToLower(strings.TrimSpace(registration.Email))
	if username == "" || registration.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", entities.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email address is not valid", entities.ErrInvalidInput)
	}

	existing, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing == nil {
		existing, err = s.accountRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}
	if existing != nil {
		return nil, entities.ErrDuplicateAccount
	}

	passwordHash, err := s.hasher.Hash(registration.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	publicID, err := s.allocatePublicID(ctx)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		PublicID:     publicID,
		Username:     username,
		Email:        email,
		Phone:        strings.TrimSpace(registration.Phone),
		PasswordHash: passwordHash,
		Balance:      decimal.Zero,
		Level:        1,
		Admin:        admin,
		DailyBonusAt: s.now(),
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	history, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		AccountID:       account.ID,
		Amount:          entities.StarterGrant,
		AllowNegative:   true,
		TransactionType: entities.TransactionTypeStarterGrant,
		Metadata: map[string]any{
			"username":  account.Username,
			"public_id": account.PublicID,
		},
	})
	if err != nil {
		return nil, err
	}
	account.Balance = history.BalanceAfter

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"publicID":  account.PublicID,
		"username":  account.Username,
		"admin":     admin,
	}).Info("Account created")

	return account, nil
}

func (s *accountService) allocatePublicID(ctx context.Context) (string, error) {
	for range publicIDAttempts {
		candidate := s.publicIDs.NewPublicID()
		taken, err := s.accountRepo.GetByPublicID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check public id: %w", err)
		}
		if taken == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a public id after %d attempts", publicIDAttempts)
}
