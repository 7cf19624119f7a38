package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizCategory struct {
	gorm.Model
	Name        string `gorm:"unique;not null"`
	Description string
}

type Question struct {
	gorm.Model
	CategoryID      uint `gorm:"not null;index"`
	QuestionText    string
	OptionA         string
	OptionB         string
	OptionC         string
	OptionD         string
	CorrectAnswer   string // option label A-D, stripped from client projections until scoring
	DifficultyLevel int    `gorm:"default:1"` // 1 (easiest) to 5
}

type QuizAttempt struct {
	gorm.Model
	UserID         uint `gorm:"not null;index"`
	CategoryID     uint `gorm:"not null;index"`
	Score          int  `gorm:"default:0"`
	TotalQuestions int  `gorm:"default:0"`
	TimeTaken      int  // seconds, taken from the submission payload
	CompletedAt    *time.Time
	Answers        []UserAnswer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`
}

type UserAnswer struct {
	gorm.Model
	AttemptID      uint     `gorm:"not null;index"`
	QuestionID     uint     `gorm:"not null"`
	Question       Question `gorm:"foreignKey:QuestionID"`
	SelectedAnswer string
	IsCorrect      bool
}
