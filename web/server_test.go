package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arcade/application"
	"arcade/domain/entities"
	"arcade/domain/interfaces"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server        *Server
	accounts      *mockAccounts
	ledger        *mockLedger
	admin         *mockAdmin
	chat          *mockChat
	notifications *mockNotifications
}

const (
	playerToken = "player-token"
	adminToken  = "admin-token"
)

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		accounts:      new(mockAccounts),
		ledger:        new(mockLedger),
		admin:         new(mockAdmin),
		chat:          new(mockChat),
		notifications: new(mockNotifications),
	}
	ts.accounts.On("Authenticate", playerToken).Return(&entities.Session{AccountID: 7, PublicID: "USER_000007"}, nil).Maybe()
	ts.accounts.On("Authenticate", adminToken).Return(&entities.Session{AccountID: 1, PublicID: "USER_000001", Admin: true}, nil).Maybe()
	ts.accounts.On("Authenticate", mock.Anything).Return(nil, entities.ErrUnauthorized).Maybe()

	ts.server = NewServer(Dependencies{
		Accounts:      ts.accounts,
		Ledger:        ts.ledger,
		Admin:         ts.admin,
		Chat:          ts.chat,
		Notifications: ts.notifications,
	}, "")
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/api/ledger/entries", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing bearer token", body["error"])

	resp, _ = ts.do(t, http.MethodGet, "/api/ledger/entries", "forged", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	expires := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	ts.accounts.On("Login", mock.Anything, "alice", "secret").Return(&application.Login{
		Token:      "signed",
		ExpiresAt:  expires,
		Account:    &entities.Account{PublicID: "USER_123456", Username: "alice", Balance: decimal.NewFromInt(150)},
		DailyBonus: entities.DailyLoginBonus,
	}, nil).Once()
	ts.accounts.On("Login", mock.Anything, "alice", "wrong").Return(nil, entities.ErrInvalidCredentials).Once()

	resp, body := ts.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Username: "alice", Password: "secret"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "signed", body["token"])
	assert.Equal(t, "50", body["daily_bonus"])

	resp, body = ts.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, entities.ErrInvalidCredentials.Error(), body["error"])
}

func TestDeposit(t *testing.T) {
	ts := newTestServer(t)

	ts.ledger.On("Deposit", mock.Anything, int64(7), decimal.NewFromInt(600), "UTR123").Return(&entities.LedgerEntry{
		ID:        3,
		AccountID: 7,
		Kind:      entities.LedgerEntryKindDeposit,
		Gross:     decimal.NewFromInt(600),
		Fee:       decimal.NewFromInt(60),
		Bonus:     decimal.NewFromInt(90),
		Net:       decimal.NewFromInt(630),
		Reference: "UTR123",
		Status:    entities.LedgerEntryStatusPending,
	}, nil).Once()

	resp, body := ts.do(t, http.MethodPost, "/api/ledger/deposits", playerToken, map[string]any{"amount": "600", "reference": "UTR123"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "630", body["net"])
	assert.Equal(t, "pending", body["status"])

	ts.ledger.AssertExpectations(t)
}

func TestLedgerErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid amount", err: fmt.Errorf("%w: below minimum", entities.ErrInvalidAmount), wantStatus: fiber.StatusBadRequest},
		{name: "insufficient funds", err: entities.ErrInsufficientFunds, wantStatus: fiber.StatusUnprocessableEntity},
		{name: "rate limit", err: entities.ErrRateLimitExceeded, wantStatus: fiber.StatusTooManyRequests},
		{name: "banned", err: entities.ErrAccountBanned, wantStatus: fiber.StatusForbidden},
		{name: "unexpected", err: errors.New("connection refused"), wantStatus: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.ledger.On("Withdraw", mock.Anything, int64(7), decimal.NewFromInt(40)).Return(nil, tt.err).Once()

			resp, body := ts.do(t, http.MethodPost, "/api/ledger/withdrawals", playerToken, map[string]any{"amount": 40})

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == fiber.StatusInternalServerError {
				assert.Equal(t, "internal server error", body["error"])
			} else {
				assert.Equal(t, tt.err.Error(), body["error"])
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ledger/deposits", strings.NewReader(`{"amount":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+playerToken)

	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	ts.ledger.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlayGame(t *testing.T) {
	ts := newTestServer(t)

	ts.ledger.On("PlayCoinFlip", mock.Anything, int64(7)).Return(&entities.GameOutcomeResult{
		Record:       &entities.GameOutcomeRecord{Win: true, BalanceDelta: decimal.NewFromInt(30)},
		Balance:      decimal.NewFromInt(230),
		Experience:   100,
		Level:        2,
		LevelUpBonus: entities.LevelUpBonus,
	}, nil).Once()

	resp, body := ts.do(t, http.MethodPost, "/api/games/coin_flip/outcome", playerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["win"])
	assert.Equal(t, "230", body["balance"])
	assert.Equal(t, float64(2), body["level"])

	resp, _ = ts.do(t, http.MethodPost, "/api/games/roulette/outcome", playerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPurchase(t *testing.T) {
	ts := newTestServer(t)

	ts.ledger.On("Purchase", mock.Anything, int64(7), entities.ShopItemVIP).Return(nil, entities.ErrAlreadyOwned).Once()
	ts.ledger.On("Purchase", mock.Anything, int64(7), entities.ShopItem("hat")).Return(nil, entities.ErrUnknownItem).Once()

	resp, _ := ts.do(t, http.MethodPost, "/api/shop/vip", playerToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/shop/hat", playerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminGate(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodPost, "/api/admin/entries/5/approve", playerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	ts.admin.AssertNotCalled(t, "ApproveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminApproveAndReject(t *testing.T) {
	ts := newTestServer(t)
	actor := interfaces.AdminActor{AccountID: 1, Source: entities.AuditSourceHTTP}

	ts.admin.On("ApproveEntry", mock.Anything, actor, int64(5)).Return(&entities.LedgerEntry{
		ID:     5,
		Kind:   entities.LedgerEntryKindDeposit,
		Status: entities.LedgerEntryStatusApproved,
	}, nil).Once()
	ts.admin.On("RejectEntry", mock.Anything, actor, int64(5)).Return(nil, entities.ErrInvalidStateTransition).Once()
	ts.admin.On("ApproveEntry", mock.Anything, actor, int64(99)).Return(nil, entities.ErrEntryNotFound).Once()

	resp, body := ts.do(t, http.MethodPost, "/api/admin/entries/5/approve", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", body["status"])

	resp, _ = ts.do(t, http.MethodPost, "/api/admin/entries/5/reject", adminToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/admin/entries/99/approve", adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	ts.admin.AssertExpectations(t)
}

func TestAdminOverrideBalance(t *testing.T) {
	ts := newTestServer(t)
	actor := interfaces.AdminActor{AccountID: 1, Source: entities.AuditSourceHTTP}

	ts.admin.On("OverrideBalance", mock.Anything, actor, int64(7), decimal.RequireFromString("-15.5")).Return(&entities.Account{
		ID:       7,
		PublicID: "USER_000007",
		Balance:  decimal.RequireFromString("-15.5"),
	}, nil).Once()

	resp, body := ts.do(t, http.MethodPut, "/api/admin/accounts/7/balance", adminToken, map[string]any{"balance": "-15.5"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "-15.5", body["balance"])
	assert.Equal(t, float64(7), body["id"])
}

func TestAdminDeleteChat(t *testing.T) {
	ts := newTestServer(t)
	actor := interfaces.AdminActor{AccountID: 1, Source: entities.AuditSourceHTTP}

	ts.admin.On("DeleteChatMessage", mock.Anything, actor, int64(12)).Return(nil).Once()
	ts.admin.On("DeleteChatMessage", mock.Anything, actor, int64(13)).Return(entities.ErrChatMessageNotFound).Once()

	resp, _ := ts.do(t, http.MethodDelete, "/api/admin/chats/12", adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodDelete, "/api/admin/chats/13", adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSendChatBlocked(t *testing.T) {
	ts := newTestServer(t)

	ts.chat.On("Send", mock.Anything, int64(7), "USER_000002", "bad words", "").
		Return(nil, &entities.BlockedMessageError{Strikes: 2}).Once()

	resp, body := ts.do(t, http.MethodPost, "/api/chat/USER_000002", playerToken, chatRequest{Text: "bad words"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "strike 2")
}

func TestPublicProfileHidesPrivateFields(t *testing.T) {
	ts := newTestServer(t)

	ts.accounts.On("Profile", mock.Anything, "USER_000002").Return(&entities.Account{
		PublicID:  "USER_000002",
		Username:  "bob",
		Email:     "bob@example.com",
		Phone:     "555-0100",
		HidePhone: true,
		Balance:   decimal.NewFromInt(900),
	}, nil).Once()

	resp, body := ts.do(t, http.MethodGet, "/api/profiles/USER_000002", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob", body["username"])
	assert.NotContains(t, body, "phone")
	assert.NotContains(t, body, "email")
	assert.NotContains(t, body, "balance")
}

func TestUpload(t *testing.T) {
	ts := newTestServer(t)

	ts.accounts.On("Upload", mock.Anything, int64(7), "cat.png", mock.Anything, mock.Anything).Return("uploads/abcd1234-cat.png", nil).Once()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+playerToken)

	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	ts.accounts.AssertExpectations(t)
}

func TestReferrals(t *testing.T) {
	ts := newTestServer(t)
	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ts.accounts.On("Referrals", mock.Anything, int64(7)).Return([]*entities.Referral{
		{ID: 1, ReferrerAccountID: 7, InvitedPublicID: "USER_111111", CreatedAt: joined},
		{ID: 2, ReferrerAccountID: 7, InvitedPublicID: "USER_222222", CreatedAt: joined.Add(time.Hour)},
	}, nil).Once()

	resp, body := ts.do(t, http.MethodGet, "/api/me/referrals", playerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	referrals, ok := body["referrals"].([]any)
	require.True(t, ok)
	require.Len(t, referrals, 2)
	assert.Equal(t, "USER_111111", referrals[0].(map[string]any)["invited_public_id"])

	ts.accounts.AssertExpectations(t)
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fiber.StatusTeapot, statusFor(fiber.NewError(fiber.StatusTeapot, "tea")))
	assert.Equal(t, fiber.StatusConflict, statusFor(fmt.Errorf("wrapped: %w", entities.ErrDuplicateAccount)))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, statusFor(entities.ErrUnsupportedFileType))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(errors.New("boom")))
}
