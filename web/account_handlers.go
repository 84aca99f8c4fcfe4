package web

import (
	"fmt"
	"strings"

	"arcade/domain/entities"
	"arcade/domain/interfaces"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileRequest struct {
	Bio       string  `json:"bio"`
	HidePhone bool    `json:"hide_phone"`
	AvatarKey *string `json:"avatar_key"`
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: malformed request body", entities.ErrInvalidInput)
	}
	return nil
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	account, err := s.deps.Accounts.Register(c.UserContext(), interfaces.Registration{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(ownAccount(account))
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := s.deps.Accounts.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token":       result.Token,
		"expires_at":  result.ExpiresAt,
		"daily_bonus": result.DailyBonus,
		"account":     ownAccount(result.Account),
	})
}

func (s *Server) me(c *fiber.Ctx) error {
	account, err := s.deps.Accounts.Get(c.UserContext(), currentSession(c).AccountID)
	if err != nil {
		return err
	}
	return c.JSON(ownAccount(account))
}

func (s *Server) referrals(c *fiber.Ctx) error {
	referrals, err := s.deps.Accounts.Referrals(c.UserContext(), currentSession(c).AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count":     len(referrals),
		"referrals": referralViews(referrals),
	})
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	account, err := s.deps.Accounts.UpdateProfile(c.UserContext(), currentSession(c).AccountID, interfaces.ProfileUpdate{
		Bio:       req.Bio,
		HidePhone: req.HidePhone,
		AvatarKey: req.AvatarKey,
	})
	if err != nil {
		return err
	}
	return c.JSON(ownAccount(account))
}

func (s *Server) profile(c *fiber.Ctx) error {
	account, err := s.deps.Accounts.Profile(c.UserContext(), c.Params("publicID"))
	if err != nil {
		return err
	}
	return c.JSON(publicAccount(account))
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	accounts, err := s.deps.Accounts.Leaderboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(publicAccounts(accounts))
}

func (s *Server) search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", entities.ErrInvalidInput)
	}

	accounts, err := s.deps.Accounts.Search(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(publicAccounts(accounts))
}

func (s *Server) upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: multipart field \"file\" is required", entities.ErrInvalidInput)
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	key, err := s.deps.Accounts.Upload(c.UserContext(), currentSession(c).AccountID,
		header.Filename, header.Header.Get(fiber.HeaderContentType), file)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
}
