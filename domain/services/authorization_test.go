package services

import (
	"testing"

	"arcade/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeCapability(t *testing.T) {
	t.Parallel()

	admin := &entities.Account{ID: 1, Admin: true}
	bannedAdmin := &entities.Account{ID: 2, Admin: true, Banned: true}
	player := &entities.Account{ID: 3}

	tests := []struct {
		name        string
		account     *entities.Account
		wantGranted bool
		wantReason  string
	}{
		{name: "admin", account: admin, wantGranted: true},
		{name: "banned admin", account: bannedAdmin, wantReason: "account is banned"},
		{name: "player", account: player, wantReason: "missing admin capability"},
		{name: "anonymous", account: nil, wantReason: "no authenticated account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := AuthorizeCapability(tt.account, entities.CapabilityAdmin)

			assert.Equal(t, tt.wantGranted, result.Granted)
			assert.Equal(t, tt.wantReason, result.Reason)
			assert.Equal(t, entities.CapabilityAdmin, result.Capability)
		})
	}
}

func TestUniformRewardSource_StaysInRange(t *testing.T) {
	t.Parallel()

	source := UniformRewardSource{}
	seen := map[int64]bool{}
	for range 5000 {
		reward := source.WinReward()
		assert.GreaterOrEqual(t, reward, int64(entities.GameWinRewardMin))
		assert.LessOrEqual(t, reward, int64(entities.GameWinRewardMax))
		seen[reward] = true
	}
	assert.True(t, seen[entities.GameWinRewardMin], "minimum reward never drawn")
	assert.True(t, seen[entities.GameWinRewardMax], "maximum reward never drawn")
}

func TestRandomPublicIDs_Format(t *testing.T) {
	t.Parallel()

	id := RandomPublicIDs{}.NewPublicID()
	assert.Regexp(t, `^USER_[1-9][0-9]{5}$`, id)
}
