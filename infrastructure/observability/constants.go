package observability

// Metric name prefixes
const (
	MetricPrefix = "arcade"
)

// Metric names
const (
	// Ledger metrics
	LedgerOperationsTotal = MetricPrefix + ".ledger.operations_total"
	LedgerPendingEntries  = MetricPrefix + ".ledger.pending_entries"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Notification metrics
	NotificationsDroppedTotal = MetricPrefix + ".notifications.dropped_total"

	// Chat metrics
	ChatMessagesBlockedTotal = MetricPrefix + ".chat.blocked_total"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelOperation = "operation"
	LabelResult    = "result"
)

// Ledger operations
const (
	OperationDeposit       = "deposit"
	OperationWithdrawal    = "withdrawal"
	OperationGameOutcome   = "game_outcome"
	OperationReferral      = "referral"
	OperationShopPurchase  = "shop_purchase"
	OperationApprove       = "approve"
	OperationReject        = "reject"
	OperationAdminOverride = "admin_override"
)

// Operation results
const (
	ResultSuccess = "success"
	ResultError   = "error"
)
