package quiz

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// TimeLimitSec maps difficulty to the countdown budget. Harder quizzes get
// less time; the table is fixed, not per-call configurable.
func (d Difficulty) TimeLimitSec() int {
	switch d {
	case DifficultyEasy:
		return 600
	case DifficultyHard:
		return 180
	default:
		return 300
	}
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusExpired    Status = "expired"
)

type PerformanceBucket string

const (
	BucketExcellent        PerformanceBucket = "EXCELLENT"
	BucketGood             PerformanceBucket = "GOOD"
	BucketFair             PerformanceBucket = "FAIR"
	BucketNeedsImprovement PerformanceBucket = "NEEDS_IMPROVEMENT"
)

func BucketForScore(score int) PerformanceBucket {
	switch {
	case score >= 90:
		return BucketExcellent
	case score >= 75:
		return BucketGood
	case score >= 60:
		return BucketFair
	default:
		return BucketNeedsImprovement
	}
}

// FlashcardContent is one question/answer pair of a deck. Immutable once
// fetched for a session; Order is the 1-based position that fixes the
// default question sequence.
type FlashcardContent struct {
	ContentID   string `json:"content_id"`
	FlashcardID string `json:"flashcard_id"`
	Order       int    `json:"order"`
	Question    string `json:"question"`
	Answer      string `json:"answer,omitempty"`
}

// GradedAnswer is derived at submission time and never stored standalone.
type GradedAnswer struct {
	Index         int
	Question      string
	UserAnswer    string
	CorrectAnswer string
	Correct       bool
}

// Result is the write-once outcome of one session.
type Result struct {
	SessionID      string            `json:"session_id"`
	RemoteQuizID   string            `json:"remote_quiz_id,omitempty"`
	FlashcardID    string            `json:"flashcard_id"`
	Difficulty     Difficulty        `json:"difficulty"`
	Score          int               `json:"score"`
	CorrectCount   int               `json:"correct_count"`
	TotalQuestions int               `json:"total_questions"`
	TimeSpentSec   int               `json:"time_spent_sec"`
	Bucket         PerformanceBucket `json:"performance_bucket"`
}

// ReviewRecord notes one incorrect answer for later targeted study.
// Answers are carried raw (as recorded), not normalized.
type ReviewRecord struct {
	FlashcardID     string `json:"flashcard_id"`
	IncorrectAnswer string `json:"incorrect_answer"`
	CorrectAnswer   string `json:"correct_answer"`
}

type ProgressEntry struct {
	FlashcardID  string            `json:"flashcard_id"`
	Score        int               `json:"score"`
	TimeSpentSec int               `json:"time_spent_sec"`
	Bucket       PerformanceBucket `json:"performance_bucket"`
}

// SessionContext identifies the student a session belongs to. It is passed
// explicitly instead of read from ambient storage.
type SessionContext struct {
	StudentID string
}

// Attempt is one row of the local attempt history, including the status of
// the write-behind sync to the Smartie backend.
type Attempt struct {
	SessionID      string            `json:"session_id"`
	StudentID      string            `json:"student_id"`
	FlashcardID    string            `json:"flashcard_id"`
	RemoteQuizID   string            `json:"remote_quiz_id,omitempty"`
	Difficulty     Difficulty        `json:"difficulty"`
	Status         Status            `json:"status"`
	Score          int               `json:"score"`
	CorrectCount   int               `json:"correct_count"`
	TotalQuestions int               `json:"total_questions"`
	TimeSpentSec   int               `json:"time_spent_sec"`
	Bucket         PerformanceBucket `json:"performance_bucket,omitempty"`
	StartedAt      time.Time         `json:"started_at"`
	SubmittedAt    *time.Time        `json:"submitted_at,omitempty"`
	SyncStatus     string            `json:"sync_status,omitempty"`
	SyncError      string            `json:"sync_error,omitempty"`
}
