package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Economy constants shared by the ledger and account flows
var (
	StarterGrant    = decimal.NewFromInt(100)
	DailyLoginBonus = decimal.NewFromInt(50)

	DepositMinimum        = decimal.NewFromInt(20)
	DepositMaximum        = decimal.NewFromInt(1000)
	DepositFeeRate        = decimal.RequireFromString("0.10")
	DepositBonusThreshold = decimal.NewFromInt(500)
	DepositBonusRate      = decimal.RequireFromString("0.15")

	WithdrawalFeeRate = decimal.RequireFromString("0.20")

	GameLossDebit = decimal.NewFromInt(20)
	LevelUpBonus  = decimal.NewFromInt(100)

	ReferralBonus = decimal.NewFromInt(10)

	VIPPrice = decimal.NewFromInt(500)
)

const (
	// WithdrawalLimit is the number of withdrawals allowed inside WithdrawalWindow
	WithdrawalLimit  = 2
	WithdrawalWindow = 24 * time.Hour

	DailyBonusInterval = 24 * time.Hour

	GameWinRewardMin   = 10
	GameWinRewardMax   = 50
	GameWinExperience  = 10
	GameLossExperience = 5
	ExperiencePerLevel = 100

	MoneyDecimalPlaces = 2

	PublicIDPrefix = "USER_"
	PublicIDDigits = 6

	LeaderboardSize = 10
)

// ReferralMilestones maps an exact referral count to its one-time bonus
var ReferralMilestones = map[int64]decimal.Decimal{
	10: decimal.NewFromInt(50),
	25: decimal.NewFromInt(100),
}

// ShopItem identifies something purchasable in the shop
type ShopItem string

const (
	ShopItemVIP ShopItem = "vip"
)
