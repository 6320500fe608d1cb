package quiz_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Poysss/TeamSmartie-IndustryElec/internal/db"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/quiz"
)

func newTestStore(t *testing.T) *quiz.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "quiz.db")
	conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return quiz.NewSQLStore(conn)
}

func attempt(id, student string, started time.Time) quiz.Attempt {
	return quiz.Attempt{
		SessionID:   id,
		StudentID:   student,
		FlashcardID: "fc-1",
		Difficulty:  quiz.DifficultyMedium,
		Status:      quiz.StatusInProgress,
		StartedAt:   started,
	}
}

func TestSQLStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	started := time.Now().Truncate(time.Second)

	if err := store.SaveSession(ctx, attempt("sess-1", "s1", started)); err != nil {
		t.Fatalf("save session: %v", err)
	}
	// A replayed insert must not clobber the row.
	if err := store.SaveSession(ctx, attempt("sess-1", "s1", started)); err != nil {
		t.Fatalf("replayed save: %v", err)
	}

	submitted := started.Add(42 * time.Second)
	done := attempt("sess-1", "s1", started)
	done.Status = quiz.StatusSubmitted
	done.Score = 50
	done.CorrectCount = 1
	done.TotalQuestions = 2
	done.TimeSpentSec = 42
	done.Bucket = quiz.BucketNeedsImprovement
	done.SubmittedAt = &submitted
	if err := store.SaveResult(ctx, done); err != nil {
		t.Fatalf("save result: %v", err)
	}

	got, err := store.GetAttempt(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != quiz.StatusSubmitted || got.Score != 50 || got.TimeSpentSec != 42 {
		t.Fatalf("unexpected attempt %+v", got)
	}
	if got.SubmittedAt == nil || !got.SubmittedAt.Equal(submitted) {
		t.Fatalf("submitted_at = %v, want %v", got.SubmittedAt, submitted)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatalf("started_at = %v, want %v", got.StartedAt, started)
	}
}

func TestSQLStoreSyncBookkeeping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, attempt("sess-1", "s1", time.Now())); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.MarkSyncPending(ctx, "sess-1"); err != nil {
		t.Fatalf("pending: %v", err)
	}
	if err := store.MarkSyncFailed(ctx, "sess-1", "backend down"); err != nil {
		t.Fatalf("failed: %v", err)
	}
	got, err := store.GetAttempt(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SyncStatus != "failed" || got.SyncError != "backend down" {
		t.Fatalf("sync = %q/%q, want failed/backend down", got.SyncStatus, got.SyncError)
	}

	if err := store.MarkSyncOK(ctx, "sess-1"); err != nil {
		t.Fatalf("ok: %v", err)
	}
	got, _ = store.GetAttempt(ctx, "sess-1")
	if got.SyncStatus != "ok" || got.SyncError != "" {
		t.Fatalf("sync = %q/%q, want ok with cleared error", got.SyncStatus, got.SyncError)
	}
}

func TestSQLStoreListAttempts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	older := attempt("sess-old", "s1", base.Add(-time.Hour))
	newer := attempt("sess-new", "s1", base)
	other := attempt("sess-other", "s2", base)
	otherCard := attempt("sess-card", "s1", base.Add(-2*time.Hour))
	otherCard.FlashcardID = "fc-2"
	for _, at := range []quiz.Attempt{older, newer, other, otherCard} {
		if err := store.SaveSession(ctx, at); err != nil {
			t.Fatalf("save %s: %v", at.SessionID, err)
		}
	}

	got, err := store.ListAttempts(ctx, "s1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].SessionID != "sess-new" || got[1].SessionID != "sess-old" {
		t.Fatalf("expected newest first, got %s then %s", got[0].SessionID, got[1].SessionID)
	}

	got, err = store.ListAttempts(ctx, "s1", "fc-2")
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(got) != 1 || got[0].SessionID != "sess-card" {
		t.Fatalf("unexpected filtered result %+v", got)
	}
}
