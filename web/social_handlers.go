package web

import (
	"github.com/gofiber/fiber/v2"
)

type chatRequest struct {
	Text     string `json:"text"`
	MediaKey string `json:"media_key"`
}

func (s *Server) notifications(c *fiber.Ctx) error {
	list, err := s.deps.Notifications.List(c.UserContext(), currentSession(c).AccountID, pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(notifications(list))
}

func (s *Server) unreadNotifications(c *fiber.Ctx) error {
	count, err := s.deps.Notifications.UnreadCount(c.UserContext(), currentSession(c).AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unread": count})
}

func (s *Server) sendChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	message, err := s.deps.Chat.Send(c.UserContext(), currentSession(c).AccountID, c.Params("publicID"), req.Text, req.MediaKey)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(chatMessage(message))
}

func (s *Server) chatHistory(c *fiber.Ctx) error {
	list, err := s.deps.Chat.History(c.UserContext(), currentSession(c).AccountID, c.Params("publicID"), pageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(chatMessages(list))
}
