package controllers

import (
	"github.com/gofiber/fiber/v2"

	"skillswap/app/middlewares"
	"skillswap/app/services"
)

// RequestController exposes the connection-request lifecycle API
type RequestController struct {
	requestService *services.RequestService
}

// NewRequestController creates a new request controller instance
func NewRequestController(requestService *services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// CreateRequestBody is the body of the request creation endpoint
type CreateRequestBody struct {
	MatchID string `json:"match_id"`
	Message string `json:"message,omitempty"`
}

// Create sends a connection request for a match
func (c *RequestController) Create(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)

	var body CreateRequestBody
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}
	if body.MatchID == "" {
		return ctx.Status(400).JSON(fiber.Map{
			"status":  "error",
			"message": "match_id is required",
		})
	}

	request, err := c.requestService.CreateRequest(ctx.Context(), body.MatchID, userID, body.Message)
	if err != nil {
		return requestError(ctx, err)
	}

	return ctx.Status(201).JSON(fiber.Map{
		"status":  "success",
		"request": request,
	})
}

// Accept accepts a pending request, activating the match
func (c *RequestController) Accept(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)
	requestID := ctx.Params("id")

	match, err := c.requestService.AcceptRequest(ctx.Context(), requestID, userID)
	if err != nil {
		return requestError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"status": "success",
		"match":  match,
	})
}

// Decline declines a pending request
func (c *RequestController) Decline(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)
	requestID := ctx.Params("id")

	request, err := c.requestService.DeclineRequest(ctx.Context(), requestID, userID)
	if err != nil {
		return requestError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"status":  "success",
		"request": request,
	})
}

// Cancel deletes a still-pending request sent by the caller
func (c *RequestController) Cancel(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)
	requestID := ctx.Params("id")

	if err := c.requestService.CancelRequest(ctx.Context(), requestID, userID); err != nil {
		return requestError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"status":  "success",
		"message": "Request cancelled",
	})
}

// List returns the requests the caller sent or received
func (c *RequestController) List(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)

	requests, err := c.requestService.GetRequestsForUser(ctx.Context(), userID)
	if err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"status":   "success",
		"count":    len(requests),
		"requests": requests,
	})
}

// requestError maps request service errors to HTTP responses
func requestError(ctx *fiber.Ctx, err error) error {
	status := 500
	switch err {
	case services.ErrMatchNotFound, services.ErrRequestNotFound:
		status = 404
	case services.ErrNotParticipant, services.ErrNotReceiver:
		status = 403
	case services.ErrRequestPending, services.ErrRequestClosed:
		status = 409
	}

	return ctx.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": err.Error(),
	})
}
