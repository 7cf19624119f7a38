package services

type SubmittedAnswer struct {
	QuestionID     uint
	SelectedAnswer string
}

type ScoredAnswer struct {
	QuestionID     uint
	SelectedAnswer string
	IsCorrect      bool
}

// ScoreAnswers compares each submitted answer against the canonical answer
// key for its question. Labels are matched exactly, case-sensitive. Answers
// whose question id has no entry in keys are dropped from the result.
func ScoreAnswers(answers []SubmittedAnswer, keys map[uint]string) ([]ScoredAnswer, int) {
	scored := make([]ScoredAnswer, 0, len(answers))
	correct := 0

	for _, answer := range answers {
		key, ok := keys[answer.QuestionID]
		if !ok {
			continue
		}

		isCorrect := answer.SelectedAnswer == key
		if isCorrect {
			correct++
		}

		scored = append(scored, ScoredAnswer{
			QuestionID:     answer.QuestionID,
			SelectedAnswer: answer.SelectedAnswer,
			IsCorrect:      isCorrect,
		})
	}

	return scored, correct
}
