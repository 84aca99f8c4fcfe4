package web

import (
	"fmt"

	"arcade/application"
	"arcade/domain/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type depositRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

type withdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	created, err := s.deps.Ledger.Deposit(c.UserContext(), currentSession(c).AccountID, req.Amount, req.Reference)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry(created))
}

func (s *Server) withdraw(c *fiber.Ctx) error {
	var req withdrawalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	created, err := s.deps.Ledger.Withdraw(c.UserContext(), currentSession(c).AccountID, req.Amount)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry(created))
}

func (s *Server) entries(c *fiber.Ctx) error {
	list, err := s.deps.Ledger.Entries(c.UserContext(), currentSession(c).AccountID, pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(entries(list))
}

func (s *Server) balanceHistory(c *fiber.Ctx) error {
	list, err := s.deps.Ledger.BalanceHistory(c.UserContext(), currentSession(c).AccountID, pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(balanceHistory(list))
}

func (s *Server) playGame(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if kind != application.CoinFlipGame {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown game %q", kind))
	}

	result, err := s.deps.Ledger.PlayCoinFlip(c.UserContext(), currentSession(c).AccountID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"win":            result.Record.Win,
		"balance_delta":  result.Record.BalanceDelta,
		"balance":        result.Balance,
		"experience":     result.Experience,
		"level":          result.Level,
		"level_up_bonus": result.LevelUpBonus,
	})
}

func (s *Server) gameHistory(c *fiber.Ctx) error {
	list, err := s.deps.Ledger.GameHistory(c.UserContext(), currentSession(c).AccountID, pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(gameRecords(list))
}

func (s *Server) purchase(c *fiber.Ctx) error {
	account, err := s.deps.Ledger.Purchase(c.UserContext(), currentSession(c).AccountID, entities.ShopItem(c.Params("item")))
	if err != nil {
		return err
	}
	return c.JSON(ownAccount(account))
}
