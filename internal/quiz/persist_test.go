package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Poysss/TeamSmartie-IndustryElec/internal/quiz"
)

// fakeHistory records sync bookkeeping like the SQL store would.
type fakeHistory struct {
	saved      []quiz.Attempt
	results    []quiz.Attempt
	syncStatus map[string]string
	syncErrs   map[string]string
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{syncStatus: map[string]string{}, syncErrs: map[string]string{}}
}

func (h *fakeHistory) SaveSession(_ context.Context, at quiz.Attempt) error {
	h.saved = append(h.saved, at)
	return nil
}

func (h *fakeHistory) SaveResult(_ context.Context, at quiz.Attempt) error {
	h.results = append(h.results, at)
	return nil
}

func (h *fakeHistory) MarkSyncPending(_ context.Context, id string) error {
	h.syncStatus[id] = "pending"
	return nil
}

func (h *fakeHistory) MarkSyncOK(_ context.Context, id string) error {
	h.syncStatus[id] = "ok"
	return nil
}

func (h *fakeHistory) MarkSyncFailed(_ context.Context, id, reason string) error {
	h.syncStatus[id] = "failed"
	h.syncErrs[id] = reason
	return nil
}

func (h *fakeHistory) ListAttempts(_ context.Context, _, _ string) ([]quiz.Attempt, error) {
	return h.saved, nil
}

func sampleResult() quiz.Result {
	return quiz.Result{
		SessionID:      "sess-1",
		RemoteQuizID:   "42",
		FlashcardID:    "fc-1",
		Difficulty:     quiz.DifficultyMedium,
		Score:          50,
		CorrectCount:   1,
		TotalQuestions: 2,
		TimeSpentSec:   30,
		Bucket:         quiz.BucketNeedsImprovement,
	}
}

func TestPersistHappyPath(t *testing.T) {
	api := &fakeAPI{}
	h := newFakeHistory()
	p := quiz.NewPersister(api, h, nil)

	reviews := []quiz.ReviewRecord{{FlashcardID: "fc-1", IncorrectAnswer: "5", CorrectAnswer: "4"}}
	if err := p.Persist(context.Background(), quiz.SessionContext{StudentID: "s1"}, sampleResult(), reviews); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if api.updateCount() != 1 {
		t.Fatalf("score writes = %d, want 1", api.updateCount())
	}
	if api.reviewCount() != 1 {
		t.Fatalf("reviews = %d, want 1", api.reviewCount())
	}
	if len(api.progress) != 1 {
		t.Fatalf("progress writes = %d, want 1", len(api.progress))
	}
	if got := api.progress[0]; got.Score != 50 || got.TimeSpentSec != 30 || got.Bucket != quiz.BucketNeedsImprovement {
		t.Fatalf("unexpected progress entry %+v", got)
	}
	if h.syncStatus["sess-1"] != "ok" {
		t.Fatalf("sync status = %q, want ok", h.syncStatus["sess-1"])
	}
}

func TestPersistPrimaryFailureIsFatal(t *testing.T) {
	api := &fakeAPI{updateErr: errors.New("backend down")}
	h := newFakeHistory()
	p := quiz.NewPersister(api, h, nil)

	err := p.Persist(context.Background(), quiz.SessionContext{}, sampleResult(),
		[]quiz.ReviewRecord{{FlashcardID: "fc-1"}})
	var pe *quiz.PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PersistError", err)
	}
	if api.reviewCount() != 0 || len(api.progress) != 0 {
		t.Fatalf("secondary writes must not run after a primary failure")
	}
	if h.syncStatus["sess-1"] != "failed" {
		t.Fatalf("sync status = %q, want failed", h.syncStatus["sess-1"])
	}
}

func TestPersistReviewFailureIsSwallowed(t *testing.T) {
	api := &fakeAPI{reviewErr: errors.New("review endpoint down")}
	h := newFakeHistory()
	p := quiz.NewPersister(api, h, nil)

	err := p.Persist(context.Background(), quiz.SessionContext{}, sampleResult(),
		[]quiz.ReviewRecord{{FlashcardID: "fc-1"}, {FlashcardID: "fc-1"}})
	if err != nil {
		t.Fatalf("secondary failures must not surface, got %v", err)
	}
	if len(api.progress) != 1 {
		t.Fatalf("progress must still be written, got %d", len(api.progress))
	}
	if h.syncStatus["sess-1"] != "failed" {
		t.Fatalf("sync status = %q, want failed for bookkeeping", h.syncStatus["sess-1"])
	}
	if h.syncErrs["sess-1"] == "" {
		t.Fatalf("expected the failure reason recorded")
	}
}

func TestPersistProgressFailureIsSwallowed(t *testing.T) {
	api := &fakeAPI{progressErr: errors.New("progress endpoint down")}
	p := quiz.NewPersister(api, nil, nil)

	if err := p.Persist(context.Background(), quiz.SessionContext{}, sampleResult(), nil); err != nil {
		t.Fatalf("secondary failures must not surface, got %v", err)
	}
	if api.updateCount() != 1 {
		t.Fatalf("score writes = %d, want 1", api.updateCount())
	}
}

func TestPersistWithoutHistoryStore(t *testing.T) {
	api := &fakeAPI{}
	p := quiz.NewPersister(api, nil, nil)
	if err := p.Persist(context.Background(), quiz.SessionContext{}, sampleResult(), nil); err != nil {
		t.Fatalf("persist without history: %v", err)
	}
}
