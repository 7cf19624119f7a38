package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizmaster/backend/config"
	"quizmaster/backend/controllers"
	"quizmaster/backend/services"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "Quiz API is running"})
	})

	// Auth routes
	authController := controllers.NewAuthController(services.NewUserService(db), cfg, logger)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Quiz routes
	quizController := controllers.NewQuizController(services.NewQuizService(db, logger), cfg, logger)
	quiz := app.Group("/api/quiz")
	quiz.Get("/categories", quizController.GetCategories)
	quiz.Post("/start", quizController.StartQuiz)
	quiz.Post("/submit", quizController.SubmitQuiz)

	// Leaderboard routes
	leaderboardController := controllers.NewLeaderboardController(services.NewLeaderboardService(db), cfg, logger)
	app.Get("/api/leaderboard", leaderboardController.GetLeaderboard)
	app.Get("/api/leaderboard/user/:userId", leaderboardController.GetUserStats)
}
