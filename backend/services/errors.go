package services

import "errors"

// Reference-resolution failures share one family so controllers can map them
// to 404 uniformly; terminal-state violations map to 409.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrAttemptNotFound       = errors.New("quiz attempt not found")
	ErrNoQuestionsInCategory = errors.New("no questions found for this category")
	ErrNoMatchingQuestions   = errors.New("no questions found for the provided IDs")
	ErrAttemptCompleted      = errors.New("quiz attempt already completed")
	ErrEmailTaken            = errors.New("email already exists")
)
