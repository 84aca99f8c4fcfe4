package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral records that an account invited another one at signup
type Referral struct {
	ID                int64     `db:"id"`
	ReferrerAccountID int64     `db:"referrer_account_id"`
	InvitedPublicID   string    `db:"invited_public_id"`
	CreatedAt         time.Time `db:"created_at"`
}

// ReferralResult describes the credit granted for a referral
type ReferralResult struct {
	Referral       *Referral
	ReferralCount  int64
	Bonus          decimal.Decimal
	MilestoneBonus decimal.Decimal
}
