package quiz

import (
	"math"
	"time"
)

// Grade evaluates every question of a finished session against the recorded
// answers. Unanswered indices grade as "". Pure: no I/O, no clock.
func Grade(eval Evaluator, questions []FlashcardContent, answers map[int]string) []GradedAnswer {
	graded := make([]GradedAnswer, 0, len(questions))
	for i, q := range questions {
		user := answers[i]
		graded = append(graded, GradedAnswer{
			Index:         i,
			Question:      q.Question,
			UserAnswer:    user,
			CorrectAnswer: q.Answer,
			Correct:       eval.IsCorrect(user, q.Answer),
		})
	}
	return graded
}

// Summarize reduces graded answers to score, counts and bucket.
// score = round(correct/total*100); elapsed is clamped to zero.
func Summarize(graded []GradedAnswer, elapsed time.Duration) Result {
	correct := 0
	for _, g := range graded {
		if g.Correct {
			correct++
		}
	}
	total := len(graded)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return Result{
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: total,
		TimeSpentSec:   int(math.Round(elapsed.Seconds())),
		Bucket:         BucketForScore(score),
	}
}

// Reviews emits one record per miss, carrying the raw answer texts.
func Reviews(graded []GradedAnswer, flashcardID string) []ReviewRecord {
	var out []ReviewRecord
	for _, g := range graded {
		if g.Correct {
			continue
		}
		out = append(out, ReviewRecord{
			FlashcardID:     flashcardID,
			IncorrectAnswer: g.UserAnswer,
			CorrectAnswer:   g.CorrectAnswer,
		})
	}
	return out
}
