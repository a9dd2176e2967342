package controllers

import (
	"github.com/gofiber/fiber/v2"

	"skillswap/app/middlewares"
	"skillswap/app/services"
)

// ChatController exposes chat history and unread counts over REST. Live
// message flow goes through the socket router.
type ChatController struct {
	chatService *services.ChatService
}

// NewChatController creates a new chat controller instance
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// GetMessages returns the non-deleted messages of a match
func (c *ChatController) GetMessages(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)
	matchID := ctx.Params("matchId")

	limit := int64(ctx.QueryInt("limit", 0))

	messages, err := c.chatService.GetMessages(ctx.Context(), matchID, userID, limit)
	if err != nil {
		status := 500
		switch err {
		case services.ErrMatchNotFound:
			status = 404
		case services.ErrNotParticipant:
			status = 403
		}
		return ctx.Status(status).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"status":   "success",
		"count":    len(messages),
		"messages": messages,
	})
}

// GetUnreadCounts returns the caller's unread message count per match
func (c *ChatController) GetUnreadCounts(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)

	counts, err := c.chatService.GetUnreadCounts(ctx.Context(), userID)
	if err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"status": "success",
		"unread": counts,
	})
}
