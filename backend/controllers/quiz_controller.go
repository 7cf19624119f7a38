package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"quizmaster/backend/config"
	"quizmaster/backend/services"
	"quizmaster/backend/utils"
)

type QuizController struct {
	Quiz   *services.QuizService
	Cfg    *config.Config
	Logger *log.Logger
}

func NewQuizController(quiz *services.QuizService, cfg *config.Config, logger *log.Logger) *QuizController {
	return &QuizController{Quiz: quiz, Cfg: cfg, Logger: logger}
}

func (qc *QuizController) GetCategories(c *fiber.Ctx) error {
	categories, err := qc.Quiz.Categories()
	if err != nil {
		qc.Logger.Printf("fetching categories: %v", err)
		return utils.Fail(c, qc.Cfg, fiber.StatusInternalServerError, "Failed to fetch categories", err)
	}

	result := make([]fiber.Map, 0, len(categories))
	for _, category := range categories {
		result = append(result, fiber.Map{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
		})
	}

	return c.JSON(result)
}

// StartQuiz godoc
// @Summary Start a quiz attempt
// @Description Opens an attempt and returns the category's questions without correct answers
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} services.StartResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /quiz/start [post]
func (qc *QuizController) StartQuiz(c *fiber.Ctx) error {
	var input struct {
		UserID     uint `json:"userId"`
		CategoryID uint `json:"categoryId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.UserID == 0 || input.CategoryID == 0 {
		return utils.BadRequest(c, "User ID and category ID are required")
	}

	result, err := qc.Quiz.StartAttempt(input.UserID, input.CategoryID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return utils.NotFound(c, "User not found")
		case errors.Is(err, services.ErrCategoryNotFound):
			return utils.NotFound(c, "Category not found")
		case errors.Is(err, services.ErrNoQuestionsInCategory):
			return utils.NotFound(c, "No questions found for this category")
		}
		qc.Logger.Printf("starting quiz for user %d category %d: %v", input.UserID, input.CategoryID, err)
		return utils.Fail(c, qc.Cfg, fiber.StatusInternalServerError, "Failed to start quiz", err)
	}

	return c.JSON(result)
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Scores the attempt and returns per-question results
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} services.SubmitResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /quiz/submit [post]
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	var input struct {
		AttemptID uint `json:"attemptId"`
		Answers   []struct {
			QuestionID     uint   `json:"questionId"`
			SelectedAnswer string `json:"selectedAnswer"`
		} `json:"answers"`
		TimeTaken int `json:"timeTaken"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.AttemptID == 0 {
		return utils.BadRequest(c, "Invalid submission data")
	}
	if len(input.Answers) == 0 {
		return utils.BadRequest(c, "No answers provided")
	}

	answers := make([]services.SubmittedAnswer, 0, len(input.Answers))
	for _, answer := range input.Answers {
		if answer.QuestionID == 0 || answer.SelectedAnswer == "" {
			return utils.BadRequest(c, "Invalid answer format. Each answer must have questionId and selectedAnswer")
		}
		answers = append(answers, services.SubmittedAnswer{
			QuestionID:     answer.QuestionID,
			SelectedAnswer: answer.SelectedAnswer,
		})
	}

	result, err := qc.Quiz.SubmitAttempt(input.AttemptID, answers, input.TimeTaken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAttemptNotFound):
			return utils.NotFound(c, "Quiz attempt not found")
		case errors.Is(err, services.ErrNoMatchingQuestions):
			return utils.NotFound(c, "No questions found for the provided IDs")
		case errors.Is(err, services.ErrAttemptCompleted):
			return utils.Conflict(c, "Quiz attempt already completed")
		}
		qc.Logger.Printf("submitting attempt %d: %v", input.AttemptID, err)
		return utils.Fail(c, qc.Cfg, fiber.StatusInternalServerError, "Failed to submit quiz", err)
	}

	return c.JSON(result)
}
