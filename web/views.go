package web

import (
	"time"

	"arcade/domain/entities"

	"github.com/shopspring/decimal"
)

type publicAccountView struct {
	PublicID   string    `json:"public_id"`
	Username   string    `json:"username"`
	Phone      string    `json:"phone,omitempty"`
	Experience int64     `json:"experience"`
	Level      int64     `json:"level"`
	VIP        bool      `json:"vip"`
	Bio        string    `json:"bio,omitempty"`
	AvatarKey  string    `json:"avatar_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ownAccountView struct {
	publicAccountView
	Email       string          `json:"email"`
	Balance     decimal.Decimal `json:"balance"`
	HidePhone   bool            `json:"hide_phone"`
	Admin       bool            `json:"admin"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
}

type adminAccountView struct {
	ownAccountView
	ID     int64 `json:"id"`
	Banned bool  `json:"banned"`
}

func publicAccount(a *entities.Account) publicAccountView {
	return publicAccountView{
		PublicID:   a.PublicID,
		Username:   a.Username,
		Phone:      a.VisiblePhone(),
		Experience: a.Experience,
		Level:      a.Level,
		VIP:        a.VIP,
		Bio:        a.Bio,
		AvatarKey:  a.AvatarKey,
		CreatedAt:  a.CreatedAt,
	}
}

func ownAccount(a *entities.Account) ownAccountView {
	view := ownAccountView{
		publicAccountView: publicAccount(a),
		Email:             a.Email,
		Balance:           a.Balance,
		HidePhone:         a.HidePhone,
		Admin:             a.Admin,
		LastLoginAt:       a.LastLoginAt,
	}
	view.Phone = a.Phone
	return view
}

func adminAccount(a *entities.Account) adminAccountView {
	return adminAccountView{
		ownAccountView: ownAccount(a),
		ID:             a.ID,
		Banned:         a.Banned,
	}
}

func publicAccounts(accounts []*entities.Account) []publicAccountView {
	views := make([]publicAccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, publicAccount(a))
	}
	return views
}

func adminAccounts(accounts []*entities.Account) []adminAccountView {
	views := make([]adminAccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, adminAccount(a))
	}
	return views
}

type entryView struct {
	ID         int64                      `json:"id"`
	AccountID  int64                      `json:"account_id"`
	Kind       entities.LedgerEntryKind   `json:"kind"`
	Gross      decimal.Decimal            `json:"gross"`
	Fee        decimal.Decimal            `json:"fee"`
	Bonus      decimal.Decimal            `json:"bonus"`
	Net        decimal.Decimal            `json:"net"`
	Reference  string                     `json:"reference"`
	Status     entities.LedgerEntryStatus `json:"status"`
	CreatedAt  time.Time                  `json:"created_at"`
	ResolvedAt *time.Time                 `json:"resolved_at,omitempty"`
	ResolvedBy *int64                     `json:"resolved_by,omitempty"`
}

func entry(e *entities.LedgerEntry) entryView {
	return entryView{
		ID:         e.ID,
		AccountID:  e.AccountID,
		Kind:       e.Kind,
		Gross:      e.Gross,
		Fee:        e.Fee,
		Bonus:      e.Bonus,
		Net:        e.Net,
		Reference:  e.Reference,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
		ResolvedAt: e.ResolvedAt,
		ResolvedBy: e.ResolvedBy,
	}
}

func entries(list []*entities.LedgerEntry) []entryView {
	views := make([]entryView, 0, len(list))
	for _, e := range list {
		views = append(views, entry(e))
	}
	return views
}

type balanceHistoryView struct {
	BalanceBefore   decimal.Decimal          `json:"balance_before"`
	BalanceAfter    decimal.Decimal          `json:"balance_after"`
	ChangeAmount    decimal.Decimal          `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	Metadata        map[string]any           `json:"metadata,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

func balanceHistory(list []*entities.BalanceHistory) []balanceHistoryView {
	views := make([]balanceHistoryView, 0, len(list))
	for _, h := range list {
		views = append(views, balanceHistoryView{
			BalanceBefore:   h.BalanceBefore,
			BalanceAfter:    h.BalanceAfter,
			ChangeAmount:    h.ChangeAmount,
			TransactionType: h.TransactionType,
			Metadata:        h.TransactionMetadata,
			CreatedAt:       h.CreatedAt,
		})
	}
	return views
}

type gameRecordView struct {
	ID              int64           `json:"id"`
	AccountID       int64           `json:"account_id"`
	GameKind        string          `json:"game_kind"`
	Win             bool            `json:"win"`
	BalanceDelta    decimal.Decimal `json:"balance_delta"`
	ExperienceDelta int64           `json:"experience_delta"`
	LevelsGained    int64           `json:"levels_gained"`
	CreatedAt       time.Time       `json:"created_at"`
}

func gameRecords(list []*entities.GameOutcomeRecord) []gameRecordView {
	views := make([]gameRecordView, 0, len(list))
	for _, r := range list {
		views = append(views, gameRecordView{
			ID:              r.ID,
			AccountID:       r.AccountID,
			GameKind:        r.GameKind,
			Win:             r.Win,
			BalanceDelta:    r.BalanceDelta,
			ExperienceDelta: r.ExperienceDelta,
			LevelsGained:    r.LevelsGained,
			CreatedAt:       r.CreatedAt,
		})
	}
	return views
}

type chatMessageView struct {
	ID        int64     `json:"id"`
	Room      string    `json:"room"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Text      string    `json:"text"`
	MediaKey  string    `json:"media_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func chatMessage(m *entities.ChatMessage) chatMessageView {
	return chatMessageView{
		ID:        m.ID,
		Room:      m.Room,
		From:      m.SenderPublicID,
		To:        m.RecipientPublicID,
		Text:      m.Text,
		MediaKey:  m.MediaKey,
		CreatedAt: m.CreatedAt,
	}
}

func chatMessages(list []*entities.ChatMessage) []chatMessageView {
	views := make([]chatMessageView, 0, len(list))
	for _, m := range list {
		views = append(views, chatMessage(m))
	}
	return views
}

type notificationView struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func notifications(list []*entities.Notification) []notificationView {
	views := make([]notificationView, 0, len(list))
	for _, n := range list {
		views = append(views, notificationView{
			ID:        n.ID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return views
}

type auditRecordView struct {
	ID              int64                `json:"id"`
	ActorAccountID  *int64               `json:"actor_account_id,omitempty"`
	Action          entities.AuditAction `json:"action"`
	Source          entities.AuditSource `json:"source"`
	TargetAccountID *int64               `json:"target_account_id,omitempty"`
	TargetEntryID   *int64               `json:"target_entry_id,omitempty"`
	TargetChatID    *int64               `json:"target_chat_id,omitempty"`
	Details         map[string]any       `json:"details,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func auditRecords(list []*entities.AuditRecord) []auditRecordView {
	views := make([]auditRecordView, 0, len(list))
	for _, r := range list {
		views = append(views, auditRecordView{
			ID:              r.ID,
			ActorAccountID:  r.ActorAccountID,
			Action:          r.Action,
			Source:          r.Source,
			TargetAccountID: r.TargetAccountID,
			TargetEntryID:   r.TargetEntryID,
			TargetChatID:    r.TargetChatID,
			Details:         r.Details,
			CreatedAt:       r.CreatedAt,
		})
	}
	return views
}

type referralView struct {
	InvitedPublicID string    `json:"invited_public_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func referralViews(referrals []*entities.Referral) []referralView {
	views := make([]referralView, 0, len(referrals))
	for _, r := range referrals {
		views = append(views, referralView{InvitedPublicID: r.InvitedPublicID, CreatedAt: r.CreatedAt})
	}
	return views
}
