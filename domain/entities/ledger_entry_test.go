package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEntry_Resolve(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  LedgerEntryStatus
		target  LedgerEntryStatus
		wantErr bool
	}{
		{name: "pending to approved", status: LedgerEntryStatusPending, target: LedgerEntryStatusApproved},
		{name: "pending to rejected", status: LedgerEntryStatusPending, target: LedgerEntryStatusRejected},
		{name: "pending to pending", status: LedgerEntryStatusPending, target: LedgerEntryStatusPending, wantErr: true},
		{name: "approved is terminal", status: LedgerEntryStatusApproved, target: LedgerEntryStatusRejected, wantErr: true},
		{name: "rejected is terminal", status: LedgerEntryStatusRejected, target: LedgerEntryStatusApproved, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entry := &LedgerEntry{ID: 1, Status: tt.status}
			err := entry.Resolve(tt.target, 9, at)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStateTransition)
				assert.Equal(t, tt.status, entry.Status)
				assert.Nil(t, entry.ResolvedAt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, entry.Status)
			require.NotNil(t, entry.ResolvedBy)
			assert.Equal(t, int64(9), *entry.ResolvedBy)
			assert.Equal(t, at, *entry.ResolvedAt)
		})
	}
}

func TestLedgerEntry_Validate(t *testing.T) {
	t.Parallel()

	valid := &LedgerEntry{
		Gross: decimal.NewFromInt(600),
		Fee:   decimal.NewFromInt(60),
		Bonus: decimal.NewFromInt(90),
		Net:   decimal.NewFromInt(630),
	}
	assert.NoError(t, valid.Validate())

	inconsistent := *valid
	inconsistent.Net = decimal.NewFromInt(540)
	assert.Error(t, inconsistent.Validate())

	zero := &LedgerEntry{}
	assert.ErrorIs(t, zero.Validate(), ErrInvalidAmount)
}
