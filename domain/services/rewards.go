package services

import (
	"math/rand/v2"
	"strconv"

	"arcade/domain/entities"
)

// UniformRewardSource draws win rewards uniformly from the inclusive reward range
type UniformRewardSource struct{}

// WinReward returns a reward between GameWinRewardMin and GameWinRewardMax inclusive
func (UniformRewardSource) WinReward() int64 {
	return entities.GameWinRewardMin + rand.Int64N(entities.GameWinRewardMax-entities.GameWinRewardMin+1)
}

// RandomPublicIDs generates public identifiers of the form USER_123456
type RandomPublicIDs struct{}

// NewPublicID returns a fresh candidate identifier; uniqueness is checked by the caller
func (RandomPublicIDs) NewPublicID() string {
	return entities.PublicIDPrefix + strconv.FormatInt(100000+rand.Int64N(900000), 10)
}
