package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountFlag names a boolean flag stored on an account
type AccountFlag string

const (
	AccountFlagVIP    AccountFlag = "vip"
	AccountFlagAdmin  AccountFlag = "admin"
	AccountFlagBanned AccountFlag = "banned"
)

// Capability is a privilege an account may hold
type Capability string

const (
	CapabilityAdmin Capability = "admin"
)

// Account represents a player of the arcade
type Account struct {
	ID           int64           `db:"id"`
	PublicID     string          `db:"public_id"`
	Username     string          `db:"username"`
	Email        string          `db:"email"`
	Phone        string          `db:"phone"`
	PasswordHash string          `db:"password_hash"`
	Balance      decimal.Decimal `db:"balance"`
	Experience   int64           `db:"experience"`
	Level        int64           `db:"level"`
	VIP          bool            `db:"vip"`
	Admin        bool            `db:"admin"`
	Banned       bool            `db:"banned"`
	Bio          string          `db:"bio"`
	AvatarKey    string          `db:"avatar_key"`
	HidePhone    bool            `db:"hide_phone"`
	LastLoginAt  *time.Time      `db:"last_login_at"`
	DailyBonusAt time.Time       `db:"daily_bonus_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// HasCapability reports whether the account holds the given privilege
func (a *Account) HasCapability(capability Capability) bool {
	switch capability {
	case CapabilityAdmin:
		return a.Admin
	default:
		return false
	}
}

// CanAfford returns true if the balance covers the amount
func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// NextLevelThreshold returns the experience needed to leave the current level
func (a *Account) NextLevelThreshold() int64 {
	return a.Level * ExperiencePerLevel
}

// Flag returns the value of a named flag
func (a *Account) Flag(flag AccountFlag) bool {
	switch flag {
	case AccountFlagVIP:
		return a.VIP
	case AccountFlagAdmin:
		return a.Admin
	case AccountFlagBanned:
		return a.Banned
	default:
		return false
	}
}

// DailyBonusDue reports whether the daily login bonus can be claimed at now
func (a *Account) DailyBonusDue(now time.Time) bool {
	return now.Sub(a.DailyBonusAt) > DailyBonusInterval
}

// VisiblePhone returns the phone number unless the owner chose to hide it
func (a *Account) VisiblePhone() string {
	if a.HidePhone {
		return ""
	}
	return a.Phone
}

// IsValid reports whether the flag is one the account store knows
func (f AccountFlag) IsValid() bool {
	return f == AccountFlagVIP || f == AccountFlagAdmin || f == AccountFlagBanned
}
