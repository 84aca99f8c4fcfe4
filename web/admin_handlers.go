package web

import (
	"fmt"

	"arcade/domain/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type balanceOverrideRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", entities.ErrInvalidInput)
	}
	return int64(id), nil
}

func (s *Server) adminAccounts(c *fiber.Ctx) error {
	list, err := s.deps.Admin.Accounts(c.UserContext(), adminActor(c), pageSize(c), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(adminAccounts(list))
}

func (s *Server) adminFindAccount(c *fiber.Ctx) error {
	account, err := s.deps.Admin.FindAccount(c.UserContext(), adminActor(c), c.Params("publicID"))
	if err != nil {
		return err
	}
	return c.JSON(adminAccount(account))
}

func (s *Server) adminAccountEntries(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	list, err := s.deps.Admin.AccountEntries(c.UserContext(), adminActor(c), id, pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(entries(list))
}

func (s *Server) adminToggleBan(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	account, err := s.deps.Admin.ToggleBan(c.UserContext(), adminActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(adminAccount(account))
}

func (s *Server) adminOverrideBalance(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req balanceOverrideRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	account, err := s.deps.Admin.OverrideBalance(c.UserContext(), adminActor(c), id, req.Balance)
	if err != nil {
		return err
	}
	return c.JSON(adminAccount(account))
}

func (s *Server) adminPendingEntries(c *fiber.Ctx) error {
	list, err := s.deps.Admin.PendingEntries(c.UserContext(), adminActor(c), pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(entries(list))
}

func (s *Server) adminApproveEntry(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	resolved, err := s.deps.Admin.ApproveEntry(c.UserContext(), adminActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(entry(resolved))
}

func (s *Server) adminRejectEntry(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	resolved, err := s.deps.Admin.RejectEntry(c.UserContext(), adminActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(entry(resolved))
}

func (s *Server) adminChats(c *fiber.Ctx) error {
	list, err := s.deps.Admin.Chats(c.UserContext(), adminActor(c), pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(chatMessages(list))
}

func (s *Server) adminDeleteChat(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.deps.Admin.DeleteChatMessage(c.UserContext(), adminActor(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) adminGameOutcomes(c *fiber.Ctx) error {
	list, err := s.deps.Admin.GameOutcomes(c.UserContext(), adminActor(c), pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(gameRecords(list))
}

func (s *Server) adminAuditTrail(c *fiber.Ctx) error {
	list, err := s.deps.Admin.AuditTrail(c.UserContext(), adminActor(c), pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(auditRecords(list))
}
