package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"quizmaster/backend/models"
)

// QuizService owns the attempt lifecycle: starting an attempt hands out
// sanitized questions, submitting one scores and finalizes it.
type QuizService struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewQuizService(db *gorm.DB, logger *log.Logger) *QuizService {
	return &QuizService{DB: db, Logger: logger}
}

// QuestionView is the client-safe projection of a question. The correct
// answer is deliberately absent.
type QuestionView struct {
	ID         uint              `json:"id"`
	Question   string            `json:"question"`
	Options    map[string]string `json:"options"`
	Difficulty int               `json:"difficulty"`
}

type StartResult struct {
	AttemptID uint           `json:"attemptId"`
	Questions []QuestionView `json:"questions"`
}

type AnswerResult struct {
	Question      string            `json:"question"`
	YourAnswer    string            `json:"yourAnswer"`
	CorrectAnswer string            `json:"correctAnswer"`
	IsCorrect     bool              `json:"isCorrect"`
	Options       map[string]string `json:"options"`
}

type SubmitResult struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	Results        []AnswerResult `json:"results"`
}

func (s *QuizService) Categories() ([]models.QuizCategory, error) {
	var categories []models.QuizCategory
	if err := s.DB.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	return categories, nil
}

// StartAttempt verifies both references, opens an attempt and returns the
// category's questions ordered easiest first.
func (s *QuizService) StartAttempt(userID, categoryID uint) (*StartResult, error) {
	var user models.User
	if err := s.DB.Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("verifying user: %w", err)
	}

	var category models.QuizCategory
	if err := s.DB.Select("id").First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("verifying category: %w", err)
	}

	attempt := models.QuizAttempt{
		UserID:     userID,
		CategoryID: categoryID,
	}
	if err := s.DB.Create(&attempt).Error; err != nil {
		return nil, fmt.Errorf("creating quiz attempt: %w", err)
	}

	var questions []models.Question
	if err := s.DB.Where("category_id = ?", categoryID).
		Order("difficulty_level").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("fetching questions: %w", err)
	}

	// The attempt row already exists at this point; an empty category leaves
	// a stray open attempt behind, matching the original flow.
	if len(questions) == 0 {
		return nil, ErrNoQuestionsInCategory
	}

	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:         q.ID,
			Question:   q.QuestionText,
			Options:    optionMap(q),
			Difficulty: q.DifficultyLevel,
		})
	}

	return &StartResult{AttemptID: attempt.ID, Questions: views}, nil
}

// SubmitAttempt scores the submitted answers against the stored answer key,
// persists one answer record per matched answer and finalizes the attempt.
// A finalized attempt is terminal; resubmission returns ErrAttemptCompleted.
func (s *QuizService) SubmitAttempt(attemptID uint, answers []SubmittedAnswer, timeTaken int) (*SubmitResult, error) {
	var attempt models.QuizAttempt
	if err := s.DB.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("checking attempt: %w", err)
	}

	if attempt.CompletedAt != nil {
		return nil, ErrAttemptCompleted
	}

	questionIDs := make([]uint, 0, len(answers))
	for _, answer := range answers {
		questionIDs = append(questionIDs, answer.QuestionID)
	}

	var questions []models.Question
	if err := s.DB.Select("id", "correct_answer").
		Where("id IN ?", questionIDs).
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("fetching answer keys: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoMatchingQuestions
	}

	keys := make(map[uint]string, len(questions))
	for _, q := range questions {
		keys[q.ID] = q.CorrectAnswer
	}

	scored, correct := ScoreAnswers(answers, keys)
	if len(scored) < len(answers) {
		s.Logger.Printf("submit attempt %d: skipped %d answers with unknown question ids",
			attemptID, len(answers)-len(scored))
	}

	records := make([]models.UserAnswer, 0, len(scored))
	for _, sa := range scored {
		records = append(records, models.UserAnswer{
			AttemptID:      attempt.ID,
			QuestionID:     sa.QuestionID,
			SelectedAnswer: sa.SelectedAnswer,
			IsCorrect:      sa.IsCorrect,
		})
	}

	// The answer records and the attempt update land together or not at all.
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return fmt.Errorf("inserting answers: %w", err)
			}
		}

		// total_questions counts every submitted answer, matched or not,
		// so the denominator stays what the user actually faced.
		updates := map[string]interface{}{
			"score":           correct,
			"total_questions": len(answers),
			"time_taken":      timeTaken,
			"completed_at":    now,
		}
		if err := tx.Model(&attempt).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var stored []models.UserAnswer
	if err := s.DB.Preload("Question").
		Where("attempt_id = ?", attempt.ID).
		Order("question_id").
		Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("fetching results: %w", err)
	}

	results := make([]AnswerResult, 0, len(stored))
	for _, ua := range stored {
		results = append(results, AnswerResult{
			Question:      ua.Question.QuestionText,
			YourAnswer:    ua.SelectedAnswer,
			CorrectAnswer: ua.Question.CorrectAnswer,
			IsCorrect:     ua.IsCorrect,
			Options:       optionMap(ua.Question),
		})
	}

	return &SubmitResult{
		Score:          correct,
		TotalQuestions: len(answers),
		Percentage:     percentage(correct, len(answers)),
		Results:        results,
	}, nil
}

func optionMap(q models.Question) map[string]string {
	return map[string]string{
		"A": q.OptionA,
		"B": q.OptionB,
		"C": q.OptionC,
		"D": q.OptionD,
	}
}

func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
