package services

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"quizmaster/backend/models"
)

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	TimeTaken      int       `json:"timeTaken"`
	Category       string    `json:"category"`
	CompletedAt    time.Time `json:"completedAt"`
}

type RecentAttempt struct {
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	Category       string    `json:"category"`
	CompletedAt    time.Time `json:"completedAt"`
}

type UserStats struct {
	TotalAttempts  int             `json:"totalAttempts"`
	AverageScore   int             `json:"averageScore"`
	BestScore      int             `json:"bestScore"`
	RecentAttempts []RecentAttempt `json:"recentAttempts"`
}

type attemptRow struct {
	Score          int
	TotalQuestions int
	TimeTaken      int
	CompletedAt    time.Time
	Name           string
	Email          string
	Category       string
}

// Leaderboard ranks scored attempts across users, highest score first with
// faster time breaking ties. categoryID of zero means all categories.
func (s *LeaderboardService) Leaderboard(categoryID uint) ([]LeaderboardEntry, error) {
	query := s.DB.Model(&models.QuizAttempt{}).
		Select("quiz_attempts.score, quiz_attempts.total_questions, quiz_attempts.time_taken, "+
			"quiz_attempts.completed_at, users.name, users.email, quiz_categories.name AS category").
		Joins("JOIN users ON users.id = quiz_attempts.user_id").
		Joins("JOIN quiz_categories ON quiz_categories.id = quiz_attempts.category_id").
		Where("quiz_attempts.completed_at IS NOT NULL").
		Order("quiz_attempts.score DESC").
		Order("quiz_attempts.time_taken ASC")

	if categoryID != 0 {
		query = query.Where("quiz_attempts.category_id = ?", categoryID)
	}

	var rows []attemptRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			Name:           row.Name,
			Email:          row.Email,
			Score:          row.Score,
			TotalQuestions: row.TotalQuestions,
			Percentage:     percentage(row.Score, row.TotalQuestions),
			TimeTaken:      row.TimeTaken,
			Category:       row.Category,
			CompletedAt:    row.CompletedAt,
		})
	}

	return entries, nil
}

// UserStats summarizes one user's scored attempts.
func (s *LeaderboardService) UserStats(userID uint) (*UserStats, error) {
	var rows []attemptRow
	if err := s.DB.Model(&models.QuizAttempt{}).
		Select("quiz_attempts.score, quiz_attempts.total_questions, quiz_attempts.time_taken, "+
			"quiz_attempts.completed_at, quiz_categories.name AS category").
		Joins("JOIN quiz_categories ON quiz_categories.id = quiz_attempts.category_id").
		Where("quiz_attempts.user_id = ? AND quiz_attempts.completed_at IS NOT NULL", userID).
		Order("quiz_attempts.completed_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetching user attempts: %w", err)
	}

	stats := &UserStats{
		TotalAttempts:  len(rows),
		RecentAttempts: make([]RecentAttempt, 0, 5),
	}

	ratioSum := 0.0
	for i, row := range rows {
		pct := percentage(row.Score, row.TotalQuestions)
		if row.TotalQuestions > 0 {
			ratioSum += float64(row.Score) / float64(row.TotalQuestions)
		}
		if pct > stats.BestScore {
			stats.BestScore = pct
		}
		if i < 5 {
			stats.RecentAttempts = append(stats.RecentAttempts, RecentAttempt{
				Score:          row.Score,
				TotalQuestions: row.TotalQuestions,
				Percentage:     pct,
				Category:       row.Category,
				CompletedAt:    row.CompletedAt,
			})
		}
	}

	if len(rows) > 0 {
		stats.AverageScore = int(math.Round(ratioSum / float64(len(rows)) * 100))
	}

	return stats, nil
}
