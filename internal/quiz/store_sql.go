package quiz

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore implements HistoryStore on sqlite or postgres.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) SaveSession(ctx context.Context, at Attempt) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO quiz_attempts
		(id, student_id, flashcard_id, remote_quiz_id, difficulty, status, started_at, sync_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'')
		ON CONFLICT (id) DO NOTHING`,
		at.SessionID, at.StudentID, at.FlashcardID, at.RemoteQuizID,
		string(at.Difficulty), string(at.Status), at.StartedAt.Unix())
	return err
}

func (s *SQLStore) SaveResult(ctx context.Context, at Attempt) error {
	var submitted interface{}
	if at.SubmittedAt != nil {
		submitted = at.SubmittedAt.Unix()
	}
	_, err := s.db.ExecContext(ctx, `UPDATE quiz_attempts
		SET status=$1, score=$2, correct_count=$3, total_questions=$4,
		    time_spent_sec=$5, bucket=$6, submitted_at=$7
		WHERE id=$8`,
		string(at.Status), at.Score, at.CorrectCount, at.TotalQuestions,
		at.TimeSpentSec, string(at.Bucket), submitted, at.SessionID)
	return err
}

func (s *SQLStore) MarkSyncPending(ctx context.Context, sessionID string) error {
	return s.setSync(ctx, sessionID, "pending", "")
}

func (s *SQLStore) MarkSyncOK(ctx context.Context, sessionID string) error {
	return s.setSync(ctx, sessionID, "ok", "")
}

func (s *SQLStore) MarkSyncFailed(ctx context.Context, sessionID, reason string) error {
	return s.setSync(ctx, sessionID, "failed", reason)
}

func (s *SQLStore) setSync(ctx context.Context, sessionID, status, lastErr string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE quiz_attempts SET sync_status=$1, sync_error=$2 WHERE id=$3`,
		status, lastErr, sessionID)
	return err
}

// ListAttempts returns a student's attempts, newest first. flashcardID is
// an optional filter.
func (s *SQLStore) ListAttempts(ctx context.Context, studentID, flashcardID string) ([]Attempt, error) {
	q := `SELECT id, student_id, flashcard_id, remote_quiz_id, difficulty, status,
		score, correct_count, total_questions, time_spent_sec, bucket,
		started_at, submitted_at, sync_status, sync_error
		FROM quiz_attempts WHERE student_id=$1`
	args := []interface{}{studentID}
	if flashcardID != "" {
		q += ` AND flashcard_id=$2`
		args = append(args, flashcardID)
	}
	q += ` ORDER BY started_at DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var at Attempt
		var difficulty, status, bucket string
		var started int64
		var submitted sql.NullInt64
		if err := rows.Scan(&at.SessionID, &at.StudentID, &at.FlashcardID, &at.RemoteQuizID,
			&difficulty, &status, &at.Score, &at.CorrectCount, &at.TotalQuestions,
			&at.TimeSpentSec, &bucket, &started, &submitted, &at.SyncStatus, &at.SyncError); err != nil {
			return nil, err
		}
		at.Difficulty = Difficulty(difficulty)
		at.Status = Status(status)
		at.Bucket = PerformanceBucket(bucket)
		at.StartedAt = time.Unix(started, 0)
		if submitted.Valid {
			t := time.Unix(submitted.Int64, 0)
			at.SubmittedAt = &t
		}
		out = append(out, at)
	}
	return out, rows.Err()
}

// GetAttempt fetches a single history row.
func (s *SQLStore) GetAttempt(ctx context.Context, sessionID string) (Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, student_id, flashcard_id, remote_quiz_id,
		difficulty, status, score, correct_count, total_questions, time_spent_sec, bucket,
		started_at, submitted_at, sync_status, sync_error
		FROM quiz_attempts WHERE id=$1`, sessionID)
	if err != nil {
		return Attempt{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Attempt{}, err
		}
		return Attempt{}, errors.New("attempt not found")
	}
	var at Attempt
	var difficulty, status, bucket string
	var started int64
	var submitted sql.NullInt64
	if err := rows.Scan(&at.SessionID, &at.StudentID, &at.FlashcardID, &at.RemoteQuizID,
		&difficulty, &status, &at.Score, &at.CorrectCount, &at.TotalQuestions,
		&at.TimeSpentSec, &bucket, &started, &submitted, &at.SyncStatus, &at.SyncError); err != nil {
		return Attempt{}, err
	}
	at.Difficulty = Difficulty(difficulty)
	at.Status = Status(status)
	at.Bucket = PerformanceBucket(bucket)
	at.StartedAt = time.Unix(started, 0)
	if submitted.Valid {
		t := time.Unix(submitted.Int64, 0)
		at.SubmittedAt = &t
	}
	return at, nil
}
