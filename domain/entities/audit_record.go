package entities

import "time"

// AuditAction names a privileged operation
type AuditAction string

const (
	AuditActionBan             AuditAction = "ban"
	AuditActionUnban           AuditAction = "unban"
	AuditActionBalanceOverride AuditAction = "balance_override"
	AuditActionApproveEntry    AuditAction = "approve_entry"
	AuditActionRejectEntry     AuditAction = "reject_entry"
	AuditActionDeleteChat      AuditAction = "delete_chat"
)

// AuditSource identifies the surface an admin action came through
type AuditSource string

const (
	AuditSourceHTTP   AuditSource = "http"
	AuditSourceCLI    AuditSource = "cli"
	AuditSourceSystem AuditSource = "system"
)

// AuditRecord is the persisted trail of one admin action.
// ActorAccountID is nil for actions taken by the system itself.
type AuditRecord struct {
	ID              int64          `db:"id"`
	ActorAccountID  *int64         `db:"actor_account_id"`
	Action          AuditAction    `db:"action"`
	Source          AuditSource    `db:"source"`
	TargetAccountID *int64         `db:"target_account_id"`
	TargetEntryID   *int64         `db:"target_entry_id"`
	TargetChatID    *int64         `db:"target_chat_id"`
	Details         map[string]any `db:"details"`
	CreatedAt       time.Time      `db:"created_at"`
}
