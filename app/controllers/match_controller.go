package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"skillswap/app/middlewares"
	"skillswap/app/models"
	"skillswap/app/services"
	"skillswap/redis"
)

// MatchController exposes the candidate discovery and match listing API
type MatchController struct {
	matchmakingService *services.MatchmakingService
	redisService       *redis.Service
}

// NewMatchController creates a new match controller instance
func NewMatchController(matchmakingService *services.MatchmakingService, redisService *redis.Service) *MatchController {
	return &MatchController{
		matchmakingService: matchmakingService,
		redisService:       redisService,
	}
}

// FindMatchesRequest is the body of the candidate discovery endpoint
type FindMatchesRequest struct {
	MinScore int `json:"min_score"`
	Limit    int `json:"limit"`
}

// FindMatches runs candidate discovery for the caller and persists the
// retained candidates as pending matches
func (c *MatchController) FindMatches(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)

	var req FindMatchesRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return ctx.Status(400).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	candidates, err := c.matchmakingService.FindCandidates(ctx.Context(), userID, req.MinScore, req.Limit)
	if err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	// Cache the latest discovery results for quick re-reads
	if err := c.redisService.CacheCandidates(userID, candidates, 5*time.Minute); err != nil {
		log.Printf("⚠️ Failed to cache candidates for %s: %v", userID, err)
	}

	return ctx.JSON(fiber.Map{
		"status":     "success",
		"count":      len(candidates),
		"candidates": candidates,
	})
}

// GetSuggestions returns the caller's cached discovery results without
// recomputing them
func (c *MatchController) GetSuggestions(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)

	var candidates []models.MatchCandidate
	if err := c.redisService.GetCandidates(userID, &candidates); err != nil {
		return ctx.JSON(fiber.Map{
			"status":     "success",
			"cached":     false,
			"candidates": []models.MatchCandidate{},
		})
	}

	return ctx.JSON(fiber.Map{
		"status":     "success",
		"cached":     true,
		"candidates": candidates,
	})
}

// GetMatches lists the caller's matches ordered by latest interaction
func (c *MatchController) GetMatches(ctx *fiber.Ctx) error {
	userID := middlewares.CallerID(ctx)

	matches, err := c.matchmakingService.GetMatchesForUser(ctx.Context(), userID)
	if err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"status":  "success",
		"count":   len(matches),
		"matches": matches,
	})
}

// Rescore runs an on-demand rescoring pass over all non-blocked matches
func (c *MatchController) Rescore(ctx *fiber.Ctx) error {
	rescored, err := c.matchmakingService.RescoreAll(ctx.Context())
	if err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"status":   "success",
		"rescored": rescored,
	})
}
