package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"quizmaster/backend/config"
	"quizmaster/backend/models"
	"quizmaster/backend/routes"
	"quizmaster/backend/utils"
)

var (
	app           *fiber.App
	db            *gorm.DB
	cfg           *config.Config
	testUser      models.User
	gkCategory    models.QuizCategory
	emptyCategory models.QuizCategory
	gkQuestions   []models.Question
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	cfg = &config.Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "quiz_app_test",
		JWTSecret:  "testsecret",
		ServerPort: "5000",
		AppEnv:     "development",
	}

	var err error
	db, err = utils.InitDB(cfg)
	if err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg, utils.InitLogger())

	testUser = models.User{Name: "Test User", Email: "quiztaker@example.com"}
	db.Create(&testUser)

	gkCategory = models.QuizCategory{Name: "General Knowledge", Description: "A bit of everything"}
	db.Create(&gkCategory)

	emptyCategory = models.QuizCategory{Name: "Unwritten History", Description: "No questions yet"}
	db.Create(&emptyCategory)

	gkQuestions = []models.Question{
		{CategoryID: gkCategory.ID, QuestionText: "What is the capital of France?", OptionA: "Paris", OptionB: "Rome", OptionC: "Berlin", OptionD: "Madrid", CorrectAnswer: "A", DifficultyLevel: 1},
		{CategoryID: gkCategory.ID, QuestionText: "Which planet is the largest?", OptionA: "Mars", OptionB: "Jupiter", OptionC: "Venus", OptionD: "Saturn", CorrectAnswer: "B", DifficultyLevel: 2},
		{CategoryID: gkCategory.ID, QuestionText: "Who wrote Hamlet?", OptionA: "Dickens", OptionB: "Tolstoy", OptionC: "Shakespeare", OptionD: "Chaucer", CorrectAnswer: "C", DifficultyLevel: 3},
	}
	db.Create(&gkQuestions)
}

func teardown() {
	db.Migrator().DropTable(
		&models.UserAnswer{},
		&models.QuizAttempt{},
		&models.Question{},
		&models.QuizCategory{},
		&models.User{},
	)
}

func doJSON(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func decodeList(t *testing.T, resp *http.Response) []interface{} {
	t.Helper()
	var result []interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func startAttempt(t *testing.T) uint {
	t.Helper()
	resp := doJSON(t, "POST", "/api/quiz/start", map[string]interface{}{
		"userId":     testUser.ID,
		"categoryId": gkCategory.ID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeMap(t, resp)
	return uint(result["attemptId"].(float64))
}

func TestHealth(t *testing.T) {
	resp := doJSON(t, "GET", "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", decodeMap(t, resp)["status"])
}

func TestRegister(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", map[string]string{
		"name":  "New User",
		"email": "newuser@example.com",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.NotEmpty(t, result["token"])
	assert.Equal(t, "newuser@example.com", result["user"].(map[string]interface{})["email"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", map[string]string{
		"name":  "Copycat",
		"email": "quiztaker@example.com",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already exists", decodeMap(t, resp)["error"])
}

func TestRegisterInvalidEmail(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", map[string]string{
		"name":  "Bad Email",
		"email": "not-an-email",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/login", map[string]string{
		"email": "quiztaker@example.com",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.NotEmpty(t, result["token"])
	assert.Equal(t, "Test User", result["user"].(map[string]interface{})["name"])
}

func TestLoginUnknownEmail(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/login", map[string]string{
		"email": "ghost@example.com",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetCategories(t *testing.T) {
	resp := doJSON(t, "GET", "/api/quiz/categories", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	categories := decodeList(t, resp)
	assert.GreaterOrEqual(t, len(categories), 2)
	first := categories[0].(map[string]interface{})
	assert.Equal(t, "General Knowledge", first["name"])
}

func TestStartQuiz(t *testing.T) {
	resp := doJSON(t, "POST", "/api/quiz/start", map[string]interface{}{
		"userId":     testUser.ID,
		"categoryId": gkCategory.ID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.NotZero(t, result["attemptId"])

	questions := result["questions"].([]interface{})
	assert.Len(t, questions, 3)

	// Ordered easiest first, options complete, correct answer never leaked
	previousDifficulty := 0.0
	for _, raw := range questions {
		question := raw.(map[string]interface{})
		assert.NotContains(t, question, "correctAnswer")
		assert.NotContains(t, question, "CorrectAnswer")
		assert.GreaterOrEqual(t, question["difficulty"].(float64), previousDifficulty)
		previousDifficulty = question["difficulty"].(float64)

		options := question["options"].(map[string]interface{})
		assert.Len(t, options, 4)
	}
}

func TestStartQuizMissingFields(t *testing.T) {
	resp := doJSON(t, "POST", "/api/quiz/start", map[string]interface{}{
		"userId": testUser.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStartQuizUnknownUser(t *testing.T) {
	resp := doJSON(t, "POST", "/api/quiz/start", map[string]interface{}{
		"userId":     999999,
		"categoryId": gkCategory.ID,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", decodeMap(t, resp)["error"])
}

func TestStartQuizUnknownCategory(t *testing.T) {
	resp := doJSON(t, "POST", "/api/quiz/start", map[string]interface{}{
		"userId":     testUser.ID,
		"categoryId": 999999,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Category not found", decodeMap(t, resp)["error"])
}

func TestStartQuizEmptyCategory(t *testing.T) {
	var before int64
	db.Model(&models.QuizAttempt{}).Where("category_id = ?", emptyCategory.ID).Count(&before)

	resp := doJSON(t, "POST", "/api/quiz/start", map[string]interface{}{
		"userId":     testUser.ID,
		"categoryId": emptyCategory.ID,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No questions found for this category", decodeMap(t, resp)["error"])

	// The attempt row is created before questions are loaded, so the
	// failure still leaves one open attempt behind.
	var after int64
	db.Model(&models.QuizAttempt{}).Where("category_id = ?", emptyCategory.ID).Count(&after)
	assert.Equal(t, before+1, after)
}

func TestSubmitQuiz(t *testing.T) {
	attemptID := startAttempt(t)

	resp := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers": []map[string]interface{}{
			{"questionId": gkQuestions[0].ID, "selectedAnswer": "A"},
			{"questionId": gkQuestions[1].ID, "selectedAnswer": "B"},
			{"questionId": gkQuestions[2].ID, "selectedAnswer": "D"},
		},
		"timeTaken": 45,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.Equal(t, 2.0, result["score"])
	assert.Equal(t, 3.0, result["totalQuestions"])
	assert.Equal(t, 67.0, result["percentage"])

	results := result["results"].([]interface{})
	assert.Len(t, results, 3)

	var wrong map[string]interface{}
	for _, raw := range results {
		entry := raw.(map[string]interface{})
		if entry["isCorrect"] == false {
			wrong = entry
		}
	}
	assert.NotNil(t, wrong)
	assert.Equal(t, "D", wrong["yourAnswer"])
	assert.Equal(t, "C", wrong["correctAnswer"])
	assert.Equal(t, "Who wrote Hamlet?", wrong["question"])

	// The attempt is finalized in storage
	var attempt models.QuizAttempt
	assert.NoError(t, db.First(&attempt, attemptID).Error)
	assert.Equal(t, 2, attempt.Score)
	assert.Equal(t, 3, attempt.TotalQuestions)
	assert.Equal(t, 45, attempt.TimeTaken)
	assert.NotNil(t, attempt.CompletedAt)
}

func TestSubmitQuizEmptyAnswers(t *testing.T) {
	attemptID := startAttempt(t)

	resp := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers":   []map[string]interface{}{},
		"timeTaken": 10,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No answers provided", decodeMap(t, resp)["error"])
}

func TestSubmitQuizMalformedAnswer(t *testing.T) {
	attemptID := startAttempt(t)

	resp := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers": []map[string]interface{}{
			{"questionId": gkQuestions[0].ID},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitQuizUnknownAttempt(t *testing.T) {
	resp := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": 999999,
		"answers": []map[string]interface{}{
			{"questionId": gkQuestions[0].ID, "selectedAnswer": "A"},
		},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Quiz attempt not found", decodeMap(t, resp)["error"])
}

func TestSubmitQuizResubmission(t *testing.T) {
	attemptID := startAttempt(t)
	answers := []map[string]interface{}{
		{"questionId": gkQuestions[0].ID, "selectedAnswer": "A"},
	}

	first := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers":   answers,
	})
	assert.Equal(t, fiber.StatusOK, first.StatusCode)

	second := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers":   answers,
	})
	assert.Equal(t, fiber.StatusConflict, second.StatusCode)
	assert.Equal(t, "Quiz attempt already completed", decodeMap(t, second)["error"])
}

func TestSubmitQuizSkipsUnknownQuestions(t *testing.T) {
	attemptID := startAttempt(t)

	resp := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers": []map[string]interface{}{
			{"questionId": gkQuestions[0].ID, "selectedAnswer": "A"},
			{"questionId": gkQuestions[1].ID, "selectedAnswer": "C"},
			{"questionId": 999999, "selectedAnswer": "B"},
		},
		"timeTaken": 30,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.Equal(t, 1.0, result["score"])
	// The denominator stays at the submitted count even though one answer
	// had no matching question
	assert.Equal(t, 3.0, result["totalQuestions"])
	assert.Len(t, result["results"].([]interface{}), 2)
}

func TestSubmitQuizNoMatchingQuestions(t *testing.T) {
	attemptID := startAttempt(t)

	resp := doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers": []map[string]interface{}{
			{"questionId": 999998, "selectedAnswer": "A"},
			{"questionId": 999999, "selectedAnswer": "B"},
		},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No questions found for the provided IDs", decodeMap(t, resp)["error"])
}

func TestLeaderboard(t *testing.T) {
	// Make sure at least one scored attempt exists
	attemptID := startAttempt(t)
	doJSON(t, "POST", "/api/quiz/submit", map[string]interface{}{
		"attemptId": attemptID,
		"answers": []map[string]interface{}{
			{"questionId": gkQuestions[0].ID, "selectedAnswer": "A"},
			{"questionId": gkQuestions[1].ID, "selectedAnswer": "B"},
			{"questionId": gkQuestions[2].ID, "selectedAnswer": "C"},
		},
		"timeTaken": 20,
	})

	resp := doJSON(t, "GET", "/api/leaderboard", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	entries := decodeList(t, resp)
	assert.GreaterOrEqual(t, len(entries), 1)

	first := entries[0].(map[string]interface{})
	assert.Equal(t, 1.0, first["rank"])
	assert.Equal(t, 100.0, first["percentage"])
	assert.Equal(t, "General Knowledge", first["category"])

	// Scores never decrease down the board
	previous := first["score"].(float64)
	for _, raw := range entries[1:] {
		entry := raw.(map[string]interface{})
		assert.LessOrEqual(t, entry["score"].(float64), previous)
		previous = entry["score"].(float64)
	}
}

func TestLeaderboardCategoryFilter(t *testing.T) {
	resp := doJSON(t, "GET", "/api/leaderboard?categoryId=999999", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeList(t, resp))
}

func TestUserStats(t *testing.T) {
	resp := doJSON(t, "GET", "/api/leaderboard/user/"+itoa(testUser.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	stats := decodeMap(t, resp)
	assert.GreaterOrEqual(t, stats["totalAttempts"].(float64), 1.0)
	assert.LessOrEqual(t, stats["bestScore"].(float64), 100.0)
	assert.LessOrEqual(t, len(stats["recentAttempts"].([]interface{})), 5)
}

func TestUserStatsInvalidID(t *testing.T) {
	resp := doJSON(t, "GET", "/api/leaderboard/user/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
