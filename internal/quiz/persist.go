package quiz

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ResultAPI is the slice of the Smartie backend the persister writes to.
type ResultAPI interface {
	UpdateQuizScore(ctx context.Context, remoteQuizID string, r Result) error
	AddReview(ctx context.Context, rec ReviewRecord) error
	AddProgress(ctx context.Context, p ProgressEntry) error
}

// HistoryStore keeps the local attempt rows and their backend-sync status.
type HistoryStore interface {
	SaveSession(ctx context.Context, at Attempt) error
	SaveResult(ctx context.Context, at Attempt) error
	MarkSyncPending(ctx context.Context, sessionID string) error
	MarkSyncOK(ctx context.Context, sessionID string) error
	MarkSyncFailed(ctx context.Context, sessionID, reason string) error
	ListAttempts(ctx context.Context, studentID, flashcardID string) ([]Attempt, error)
}

// Persister writes a finished session back to the Smartie backend. The
// score update is the one write that must succeed; review and progress
// records are write-behind and never block the result the student is
// already looking at.
type Persister struct {
	api     ResultAPI
	history HistoryStore
	log     *logrus.Logger
}

func NewPersister(api ResultAPI, history HistoryStore, log *logrus.Logger) *Persister {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Persister{api: api, history: history, log: log}
}

func (p *Persister) Persist(ctx context.Context, sc SessionContext, res Result, reviews []ReviewRecord) error {
	p.markPending(ctx, res.SessionID)

	if err := p.api.UpdateQuizScore(ctx, res.RemoteQuizID, res); err != nil {
		p.markFailed(ctx, res.SessionID, err.Error())
		return &PersistError{Err: err}
	}

	secondary := p.writeSecondary(ctx, sc, res, reviews)
	if secondary != nil {
		p.markFailed(ctx, res.SessionID, secondary.Error())
	} else {
		p.markOK(ctx, res.SessionID)
	}
	return nil
}

// writeSecondary posts reviews in parallel plus one progress entry. Any
// failure is logged and reported for bookkeeping, never returned upward.
func (p *Persister) writeSecondary(ctx context.Context, sc SessionContext, res Result, reviews []ReviewRecord) error {
	var firstErr error

	var g errgroup.Group
	for _, rec := range reviews {
		rec := rec
		g.Go(func() error { return p.api.AddReview(ctx, rec) })
	}
	if err := g.Wait(); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"session_id": res.SessionID,
			"student_id": sc.StudentID,
		}).Warn("review write failed")
		firstErr = err
	}

	if err := p.api.AddProgress(ctx, ProgressEntry{
		FlashcardID:  res.FlashcardID,
		Score:        res.Score,
		TimeSpentSec: res.TimeSpentSec,
		Bucket:       res.Bucket,
	}); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"session_id": res.SessionID,
			"student_id": sc.StudentID,
		}).Warn("progress write failed")
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Persister) markPending(ctx context.Context, id string) {
	if p.history == nil {
		return
	}
	if err := p.history.MarkSyncPending(ctx, id); err != nil {
		p.log.WithError(err).WithField("session_id", id).Warn("sync bookkeeping failed")
	}
}

func (p *Persister) markOK(ctx context.Context, id string) {
	if p.history == nil {
		return
	}
	if err := p.history.MarkSyncOK(ctx, id); err != nil {
		p.log.WithError(err).WithField("session_id", id).Warn("sync bookkeeping failed")
	}
}

func (p *Persister) markFailed(ctx context.Context, id, reason string) {
	if p.history == nil {
		return
	}
	if err := p.history.MarkSyncFailed(ctx, id, reason); err != nil {
		p.log.WithError(err).WithField("session_id", id).Warn("sync bookkeeping failed")
	}
}
