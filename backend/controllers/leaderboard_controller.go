package controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"quizmaster/backend/config"
	"quizmaster/backend/services"
	"quizmaster/backend/utils"
)

type LeaderboardController struct {
	Leaderboard *services.LeaderboardService
	Cfg         *config.Config
	Logger      *log.Logger
}

func NewLeaderboardController(leaderboard *services.LeaderboardService, cfg *config.Config, logger *log.Logger) *LeaderboardController {
	return &LeaderboardController{Leaderboard: leaderboard, Cfg: cfg, Logger: logger}
}

func (lc *LeaderboardController) GetLeaderboard(c *fiber.Ctx) error {
	// Optional filter; zero means all categories
	categoryID, _ := strconv.Atoi(c.Query("categoryId"))

	entries, err := lc.Leaderboard.Leaderboard(uint(categoryID))
	if err != nil {
		lc.Logger.Printf("fetching leaderboard: %v", err)
		return utils.Fail(c, lc.Cfg, fiber.StatusInternalServerError, "Failed to fetch leaderboard", err)
	}

	return c.JSON(entries)
}

func (lc *LeaderboardController) GetUserStats(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	stats, err := lc.Leaderboard.UserStats(uint(userID))
	if err != nil {
		lc.Logger.Printf("fetching stats for user %d: %v", userID, err)
		return utils.Fail(c, lc.Cfg, fiber.StatusInternalServerError, "Failed to fetch user statistics", err)
	}

	return c.JSON(stats)
}
