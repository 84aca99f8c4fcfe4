package web

import (
	"context"
	"io"
	"time"

	"arcade/application"
	"arcade/domain/entities"
	"arcade/domain/interfaces"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxUploadBytes  = 25 * 1024 * 1024
)

// AccountFlows is what the API needs from the account layer
type AccountFlows interface {
	Register(ctx context.Context, registration interfaces.Registration) (*entities.Account, error)
	Login(ctx context.Context, username, password string) (*application.Login, error)
	Authenticate(token string) (*entities.Session, error)
	Get(ctx context.Context, accountID int64) (*entities.Account, error)
	Profile(ctx context.Context, publicID string) (*entities.Account, error)
	UpdateProfile(ctx context.Context, accountID int64, update interfaces.ProfileUpdate) (*entities.Account, error)
	Upload(ctx context.Context, accountID int64, filename, contentType string, body io.Reader) (string, error)
	Leaderboard(ctx context.Context) ([]*entities.Account, error)
	Search(ctx context.Context, query string) ([]*entities.Account, error)
	Referrals(ctx context.Context, accountID int64) ([]*entities.Referral, error)
}

// LedgerFlows is what the API needs from the ledger
type LedgerFlows interface {
	Deposit(ctx context.Context, accountID int64, gross decimal.Decimal, reference string) (*entities.LedgerEntry, error)
	Withdraw(ctx context.Context, accountID int64, gross decimal.Decimal) (*entities.LedgerEntry, error)
	PlayCoinFlip(ctx context.Context, accountID int64) (*entities.GameOutcomeResult, error)
	Purchase(ctx context.Context, accountID int64, item entities.ShopItem) (*entities.Account, error)
	Entries(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error)
	BalanceHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)
	GameHistory(ctx context.Context, accountID int64, limit int) ([]*entities.GameOutcomeRecord, error)
}

// AdminFlows is what the API needs from the admin console
type AdminFlows interface {
	ToggleBan(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64) (*entities.Account, error)
	OverrideBalance(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64, balance decimal.Decimal) (*entities.Account, error)
	ApproveEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error)
	RejectEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error)
	DeleteChatMessage(ctx context.Context, actor interfaces.AdminActor, messageID int64) error
	Accounts(ctx context.Context, actor interfaces.AdminActor, limit, offset int) ([]*entities.Account, error)
	FindAccount(ctx context.Context, actor interfaces.AdminActor, publicID string) (*entities.Account, error)
	PendingEntries(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.LedgerEntry, error)
	AccountEntries(ctx context.Context, actor interfaces.AdminActor, accountID int64, limit int) ([]*entities.LedgerEntry, error)
	Chats(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.ChatMessage, error)
	GameOutcomes(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.GameOutcomeRecord, error)
	AuditTrail(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.AuditRecord, error)
}

// ChatFlows is what the API needs from chat
type ChatFlows interface {
	Send(ctx context.Context, senderAccountID int64, recipientPublicID, text, mediaKey string) (*entities.ChatMessage, error)
	History(ctx context.Context, accountID int64, otherPublicID string, limit int) ([]*entities.ChatMessage, error)
}

// NotificationFlows is what the API needs from the notification inbox
type NotificationFlows interface {
	List(ctx context.Context, accountID int64, limit int) ([]*entities.Notification, error)
	UnreadCount(ctx context.Context, accountID int64) (int64, error)
}

// Dependencies holds the application flows served over HTTP
type Dependencies struct {
	Accounts      AccountFlows
	Ledger        LedgerFlows
	Admin         AdminFlows
	Chat          ChatFlows
	Notifications NotificationFlows
}

// Server is the JSON HTTP API
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// NewServer builds the fiber app and registers every route
func NewServer(deps Dependencies, allowedOrigins string) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "arcade",
		BodyLimit:             maxUploadBytes,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLogger())

	s := &Server{app: app, deps: deps}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)

	api.Get("/leaderboard", s.leaderboard)
	api.Get("/profiles/:publicID", s.profile)

	user := api.Group("", s.authRequired)
	user.Get("/me", s.me)
	user.Put("/me/profile", s.updateProfile)
	user.Get("/me/referrals", s.referrals)
	user.Get("/accounts/search", s.search)

	user.Post("/ledger/deposits", s.deposit)
	user.Post("/ledger/withdrawals", s.withdraw)
	user.Get("/ledger/entries", s.entries)
	user.Get("/ledger/history", s.balanceHistory)

	user.Post("/games/:kind/outcome", s.playGame)
	user.Get("/games/history", s.gameHistory)

	user.Post("/shop/:item", s.purchase)

	user.Get("/notifications", s.notifications)
	user.Get("/notifications/unread", s.unreadNotifications)

	user.Post("/chat/:publicID", s.sendChat)
	user.Get("/chat/:publicID", s.chatHistory)

	user.Post("/uploads", s.upload)

	admin := user.Group("/admin", adminRequired)
	admin.Get("/accounts", s.adminAccounts)
	admin.Get("/accounts/:publicID", s.adminFindAccount)
	admin.Get("/accounts/:id<int>/entries", s.adminAccountEntries)
	admin.Post("/accounts/:id<int>/ban", s.adminToggleBan)
	admin.Put("/accounts/:id<int>/balance", s.adminOverrideBalance)
	admin.Get("/entries/pending", s.adminPendingEntries)
	admin.Post("/entries/:id<int>/approve", s.adminApproveEntry)
	admin.Post("/entries/:id<int>/reject", s.adminRejectEntry)
	admin.Get("/chats", s.adminChats)
	admin.Delete("/chats/:id<int>", s.adminDeleteChat)
	admin.Get("/games", s.adminGameOutcomes)
	admin.Get("/audit", s.adminAuditTrail)
}

// App exposes the fiber app, mostly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the API until Shutdown is called
func (s *Server) Listen(addr string) error {
	log.WithField("addr", addr).Info("HTTP API listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func pageSize(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

var (
	_ AccountFlows      = (*application.Accounts)(nil)
	_ LedgerFlows       = (*application.Ledger)(nil)
	_ AdminFlows        = (*application.AdminConsole)(nil)
	_ ChatFlows         = (*application.Chat)(nil)
	_ NotificationFlows = (*application.Notifications)(nil)
)
