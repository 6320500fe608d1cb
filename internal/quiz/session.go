package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ContentSource is read-only access to a flashcard's ordered contents.
// Every setup re-fetches; nothing is cached between sessions.
type ContentSource interface {
	FetchContents(ctx context.Context, flashcardID string) ([]FlashcardContent, error)
}

// QuizRegistry creates the quiz record on the Smartie backend at setup time
// and hands back its id for the later score update.
type QuizRegistry interface {
	CreateQuiz(ctx context.Context, flashcardID string, d Difficulty, randomize bool, timeLimitSec int) (string, error)
}

// Engine owns the active quiz sessions. One session is exclusively owned by
// the flow that created it; the countdown tick is the only background
// activity touching it.
type Engine struct {
	contents  ContentSource
	registry  QuizRegistry
	persister *Persister
	history   HistoryStore
	eval      Evaluator
	now       Clock
	log       *logrus.Logger

	rndMu sync.Mutex
	rnd   *rand.Rand

	manualTicks bool

	mu       sync.RWMutex
	sessions map[string]*Session
}

type EngineOption func(*Engine)

func WithRegistry(r QuizRegistry) EngineOption { return func(e *Engine) { e.registry = r } }
func WithPersister(p *Persister) EngineOption { return func(e *Engine) { e.persister = p } }
func WithHistory(h HistoryStore) EngineOption { return func(e *Engine) { e.history = h } }
func WithClock(now Clock) EngineOption { return func(e *Engine) { e.now = now } }
func WithLogger(l *logrus.Logger) EngineOption { return func(e *Engine) { e.log = l } }
func WithRand(r *rand.Rand) EngineOption { return func(e *Engine) { e.rnd = r } }

// WithManualTicks keeps countdowns off wall time; tests drive Tick.
func WithManualTicks() EngineOption { return func(e *Engine) { e.manualTicks = true } }

func NewEngine(contents ContentSource, eval Evaluator, opts ...EngineOption) *Engine {
	e := &Engine{
		contents: contents,
		eval:     eval,
		now:      time.Now,
		log:      logrus.StandardLogger(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sessions: map[string]*Session{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Session is one timed attempt at a deck. All state mutates under its own
// mutex; terminal status is reached exactly once.
type Session struct {
	mu sync.Mutex

	id           string
	remoteQuizID string
	flashcardID  string
	student      SessionContext
	difficulty   Difficulty
	randomize    bool
	timeLimitSec int
	questions    []FlashcardContent
	current      int
	answers      map[int]string
	startedAt    time.Time
	status       Status

	confirmPending bool
	countdown      *Countdown

	result  *Result
	reviews []ReviewRecord
}

// Start fetches the deck, derives the time limit, optionally shuffles, and
// begins the countdown. An empty deck fails with ErrEmptyDeck and creates
// nothing.
func (e *Engine) Start(ctx context.Context, sc SessionContext, flashcardID string, d Difficulty, randomize bool) (*Session, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q", d)
	}
	contents, err := e.contents.FetchContents(ctx, flashcardID)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	if len(contents) == 0 {
		return nil, ErrEmptyDeck
	}
	order := make([]FlashcardContent, len(contents))
	copy(order, contents)
	sort.Slice(order, func(i, j int) bool { return order[i].Order < order[j].Order })

	limit := d.TimeLimitSec()
	if randomize {
		e.rndMu.Lock()
		e.rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		e.rndMu.Unlock()
	}

	var remoteID string
	if e.registry != nil {
		remoteID, err = e.registry.CreateQuiz(ctx, flashcardID, d, randomize, limit)
		if err != nil {
			return nil, &PersistError{Err: fmt.Errorf("create quiz record: %w", err)}
		}
	}

	s := &Session{
		id:           uuid.NewString(),
		remoteQuizID: remoteID,
		flashcardID:  flashcardID,
		student:      sc,
		difficulty:   d,
		randomize:    randomize,
		timeLimitSec: limit,
		questions:    order,
		answers:      map[int]string{},
		startedAt:    e.now(),
		status:       StatusInProgress,
	}
	s.countdown = NewCountdown(limit, func() { e.expire(s.id) })

	if e.history != nil {
		if err := e.history.SaveSession(ctx, e.snapshot(s)); err != nil {
			e.log.WithError(err).WithField("session_id", s.id).Warn("history write failed")
		}
	}

	e.mu.Lock()
	e.sessions[s.id] = s
	e.mu.Unlock()

	if !e.manualTicks {
		s.countdown.Start()
	}
	return s, nil
}

// Get returns an active or finished session by id.
func (e *Engine) Get(id string) (*Session, error) {
	e.mu.RLock()
	s, ok := e.sessions[id]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Submit grades and terminates a session. With unanswered questions the
// first call only arms the confirmation gate (ErrConfirmPending); the next
// call, or force, goes through. A session already terminal returns its
// cached result and persists nothing again.
func (e *Engine) Submit(ctx context.Context, id string, force bool) (Result, error) {
	s, err := e.Get(id)
	if err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	if s.status != StatusInProgress {
		res := *s.result
		s.mu.Unlock()
		return res, nil
	}
	if !force && !s.confirmPending && len(s.answers) < len(s.questions) {
		s.confirmPending = true
		s.mu.Unlock()
		return Result{}, ErrConfirmPending
	}
	res, reviews := s.finalizeLocked(e.eval, e.now(), StatusSubmitted)
	s.mu.Unlock()
	s.countdown.Stop()

	e.recordResult(ctx, s, res)
	return res, e.persist(ctx, s, res, reviews)
}

// expire is the countdown's auto-submit path. It bypasses the confirmation
// gate and is a no-op when a manual submit already won the transition.
func (e *Engine) expire(id string) {
	s, err := e.Get(id)
	if err != nil {
		return
	}
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return
	}
	res, reviews := s.finalizeLocked(e.eval, e.now(), StatusExpired)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	e.recordResult(ctx, s, res)
	if err := e.persist(ctx, s, res, reviews); err != nil {
		e.log.WithError(err).WithField("session_id", s.id).Error("auto-submit persist failed")
	}
	e.log.WithFields(logrus.Fields{
		"session_id": s.id,
		"score":      res.Score,
	}).Info("session expired")
}

// finalizeLocked freezes the session and computes the write-once result.
// Callers hold s.mu and have already checked the status.
func (s *Session) finalizeLocked(eval Evaluator, now time.Time, to Status) (Result, []ReviewRecord) {
	graded := Grade(eval, s.questions, s.answers)
	res := Summarize(graded, now.Sub(s.startedAt))
	res.SessionID = s.id
	res.RemoteQuizID = s.remoteQuizID
	res.FlashcardID = s.flashcardID
	res.Difficulty = s.difficulty
	s.status = to
	s.result = &res
	s.reviews = Reviews(graded, s.flashcardID)
	return res, s.reviews
}

func (e *Engine) persist(ctx context.Context, s *Session, res Result, reviews []ReviewRecord) error {
	if e.persister == nil {
		return nil
	}
	return e.persister.Persist(ctx, s.student, res, reviews)
}

func (e *Engine) recordResult(ctx context.Context, s *Session, res Result) {
	if e.history == nil {
		return
	}
	if err := e.history.SaveResult(ctx, e.snapshot(s)); err != nil {
		e.log.WithError(err).WithField("session_id", s.id).Warn("history write failed")
	}
}

func (e *Engine) snapshot(s *Session) Attempt {
	at := Attempt{
		SessionID:    s.id,
		StudentID:    s.student.StudentID,
		FlashcardID:  s.flashcardID,
		RemoteQuizID: s.remoteQuizID,
		Difficulty:   s.difficulty,
		Status:       s.status,
		StartedAt:    s.startedAt,
	}
	if s.result != nil {
		at.Score = s.result.Score
		at.CorrectCount = s.result.CorrectCount
		at.TotalQuestions = s.result.TotalQuestions
		at.TimeSpentSec = s.result.TimeSpentSec
		at.Bucket = s.result.Bucket
		done := e.now()
		at.SubmittedAt = &done
	}
	return at
}

// --- session accessors and mutators ---

func (s *Session) ID() string { return s.id }
func (s *Session) FlashcardID() string { return s.flashcardID }
func (s *Session) Student() SessionContext { return s.student }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) TimeLimitSec() int { return s.timeLimitSec }
func (s *Session) Countdown() *Countdown { return s.countdown }

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) ConfirmPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmPending
}

// Questions returns the session's question order with answers withheld.
func (s *Session) Questions() []FlashcardContent {
	out := make([]FlashcardContent, len(s.questions))
	copy(out, s.questions)
	for i := range out {
		out[i].Answer = ""
	}
	return out
}

// AnsweredIndices reports which questions have a recorded answer, ascending.
func (s *Session) AnsweredIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.answers))
	for i := range s.answers {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Result returns the final result once the session is terminal.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Next advances to the following question; a no-op at the last one.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusInProgress {
		return ErrSessionClosed
	}
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

// Previous steps back one question; a no-op at the first one.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusInProgress {
		return ErrSessionClosed
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// RecordAnswer stores the trimmed text at the current index, overwriting
// any earlier answer there. The index does not advance.
func (s *Session) RecordAnswer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusInProgress {
		return ErrSessionClosed
	}
	s.answers[s.current] = strings.TrimSpace(text)
	return nil
}
