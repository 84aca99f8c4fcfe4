package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/domain/services"
	"arcade/infrastructure/observability"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Login is the result of a successful sign-in
type Login struct {
	Token      string
	ExpiresAt  time.Time
	Account    *entities.Account
	DailyBonus decimal.Decimal
}

// AccountsConfig bundles the collaborators of the account flows
type AccountsConfig struct {
	UnitOfWorkFactory interfaces.UnitOfWorkFactory
	Locker            *AccountLocker
	Verifier          interfaces.CredentialVerifier
	Hasher            interfaces.PasswordHasher
	Sessions          interfaces.SessionIssuer
	Storage           interfaces.FileStorage
	Rewards           interfaces.RewardSource
	PublicIDs         interfaces.PublicIDGenerator
	Timeout           time.Duration
}

// Accounts runs signup, login and profile flows
type Accounts struct {
	uowFactory interfaces.UnitOfWorkFactory
	locker     *AccountLocker
	verifier   interfaces.CredentialVerifier
	hasher     interfaces.PasswordHasher
	sessions   interfaces.SessionIssuer
	storage    interfaces.FileStorage
	rewards    interfaces.RewardSource
	publicIDs  interfaces.PublicIDGenerator
	timeout    time.Duration
	now        func() time.Time
}

// NewAccounts creates the account flows
func NewAccounts(cfg AccountsConfig) *Accounts {
	return &Accounts{
		uowFactory: cfg.UnitOfWorkFactory,
		locker:     cfg.Locker,
		verifier:   cfg.Verifier,
		hasher:     cfg.Hasher,
		sessions:   cfg.Sessions,
		storage:    cfg.Storage,
		rewards:    cfg.Rewards,
		publicIDs:  cfg.PublicIDs,
		timeout:    cfg.Timeout,
		now:        time.Now,
	}
}

func (a *Accounts) service(uow interfaces.UnitOfWork) interfaces.AccountService {
	return services.NewAccountService(
		uow.AccountRepository(),
		uow.BalanceHistoryRepository(),
		ledgerServiceFor(uow, a.rewards),
		uow.EventBus(),
		a.hasher,
		a.publicIDs,
	)
}

// Register creates an account. A known referral code credits its owner in the same transaction.
func (a *Accounts) Register(ctx context.Context, registration interfaces.Registration) (*entities.Account, error) {
	unlock := func() {}
	code := strings.TrimSpace(registration.ReferralCode)
	if code != "" {
		referrer, err := a.findByPublicID(ctx, code)
		if err != nil {
			return nil, err
		}
		if referrer != nil {
			unlock = a.locker.Lock(referrer.ID)
		}
	}
	defer unlock()

	var account *entities.Account
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = a.service(uow).Register(ctx, registration)
		return err
	})
	if code != "" {
		observability.GetMetrics().RecordLedgerOperation(observability.OperationReferral, err)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies credentials, pays the daily bonus when due and issues a session token
func (a *Accounts) Login(ctx context.Context, username, password string) (*Login, error) {
	verifyCtx, cancel := a.storageContext(ctx)
	accountID, err := a.verifier.Verify(verifyCtx, strings.TrimSpace(username), password)
	cancel()
	if err != nil {
		return nil, err
	}

	unlock := a.locker.Lock(accountID)
	defer unlock()

	var result *interfaces.LoginResult
	err = withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		result, err = a.service(uow).RecordLogin(ctx, accountID, a.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := a.sessions.Issue(result.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":  accountID,
		"dailyBonus": result.DailyBonus.String(),
	}).Info("Account logged in")

	return &Login{
		Token:      token,
		ExpiresAt:  expiresAt,
		Account:    result.Account,
		DailyBonus: result.DailyBonus,
	}, nil
}

// Authenticate resolves a bearer token to its session
func (a *Accounts) Authenticate(token string) (*entities.Session, error) {
	return a.sessions.Parse(token)
}

// Get returns an account by internal ID
func (a *Accounts) Get(ctx context.Context, accountID int64) (*entities.Account, error) {
	var account *entities.Account
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("%w: %d", entities.ErrAccountNotFound, accountID)
		}
		return nil
	})
	return account, err
}

// Profile returns an account by public ID
func (a *Accounts) Profile(ctx context.Context, publicID string) (*entities.Account, error) {
	var account *entities.Account
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = a.service(uow).GetProfile(ctx, publicID)
		return err
	})
	return account, err
}

// UpdateProfile stores the editable profile fields
func (a *Accounts) UpdateProfile(ctx context.Context, accountID int64, update interfaces.ProfileUpdate) (*entities.Account, error) {
	var account *entities.Account
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = a.service(uow).UpdateProfile(ctx, accountID, update)
		return err
	})
	return account, err
}

// Upload stores a media file for an account and returns its key
func (a *Accounts) Upload(ctx context.Context, accountID int64, filename, contentType string, body io.Reader) (string, error) {
	if a.storage == nil {
		return "", fmt.Errorf("%w: uploads are not configured", entities.ErrInvalidInput)
	}

	uploadCtx, cancel := a.storageContext(ctx)
	defer cancel()

	key, err := a.storage.Store(uploadCtx, filename, contentType, body)
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"key":       key,
	}).Info("Stored upload")
	return key, nil
}

// Leaderboard returns the top accounts by experience
func (a *Accounts) Leaderboard(ctx context.Context) ([]*entities.Account, error) {
	var accounts []*entities.Account
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		accounts, err = a.service(uow).Leaderboard(ctx)
		return err
	})
	return accounts, err
}

// Search finds accounts by public ID or username prefix
func (a *Accounts) Search(ctx context.Context, query string) ([]*entities.Account, error) {
	var accounts []*entities.Account
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		accounts, err = a.service(uow).Search(ctx, query)
		return err
	})
	return accounts, err
}

// Referrals lists the signups an account referred, oldest first
func (a *Accounts) Referrals(ctx context.Context, accountID int64) ([]*entities.Referral, error) {
	var referrals []*entities.Referral
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		referrals, err = uow.ReferralRepository().ListByReferrer(ctx, accountID)
		return err
	})
	return referrals, err
}

// EnsureAdmin creates the configured default admin when missing
func (a *Accounts) EnsureAdmin(ctx context.Context, username, email, password string) (*entities.Account, error) {
	var account *entities.Account
	var created bool
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, created, err = a.service(uow).EnsureAdmin(ctx, username, email, password)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created {
		log.WithField("username", username).Info("Created default admin account")
	}
	return account, nil
}

func (a *Accounts) findByPublicID(ctx context.Context, publicID string) (*entities.Account, error) {
	var account *entities.Account
	err := withUnitOfWork(ctx, a.uowFactory, a.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByPublicID(ctx, publicID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up account %s: %w", publicID, err)
	}
	return account, nil
}

func (a *Accounts) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
