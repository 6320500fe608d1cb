package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/Poysss/TeamSmartie-IndustryElec/internal/auth/middleware"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/quiz"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/rbac"
)

type sessionView struct {
	ID             string                  `json:"id"`
	FlashcardID    string                  `json:"flashcard_id"`
	Difficulty     quiz.Difficulty         `json:"difficulty"`
	Status         quiz.Status             `json:"status"`
	TimeLimitSec   int                     `json:"time_limit_sec"`
	RemainingSec   int                     `json:"remaining_sec"`
	CurrentIndex   int                     `json:"current_index"`
	TotalQuestions int                     `json:"total_questions"`
	Answered       []int                   `json:"answered"`
	ConfirmPending bool                    `json:"confirm_pending"`
	Questions      []quiz.FlashcardContent `json:"questions,omitempty"`
}

func viewOf(s *quiz.Session, withQuestions bool) sessionView {
	v := sessionView{
		ID:             s.ID(),
		FlashcardID:    s.FlashcardID(),
		Difficulty:     s.Difficulty(),
		Status:         s.Status(),
		TimeLimitSec:   s.TimeLimitSec(),
		RemainingSec:   s.Countdown().Remaining(),
		CurrentIndex:   s.CurrentIndex(),
		TotalQuestions: len(s.Questions()),
		Answered:       s.AnsweredIndices(),
		ConfirmPending: s.ConfirmPending(),
	}
	if withQuestions {
		v.Questions = s.Questions()
	}
	return v
}

// StartQuizHandler sets up a session for the authenticated student.
func StartQuizHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FlashcardID string          `json:"flashcard_id"`
			Difficulty  quiz.Difficulty `json:"difficulty"`
			Randomize   bool            `json:"randomize"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.FlashcardID == "" {
			http.Error(w, "flashcard_id required", http.StatusBadRequest)
			return
		}
		sc := quiz.SessionContext{StudentID: auth.StudentFromContext(r.Context())}
		s, err := eng.Start(r.Context(), sc, req.FlashcardID, req.Difficulty, req.Randomize)
		if err != nil {
			writeQuizError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(viewOf(s, true))
	}
}

func GetQuizHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := ownedSession(w, r, eng)
		if !ok {
			return
		}
		_ = json.NewEncoder(w).Encode(viewOf(s, true))
	}
}

// AnswerHandler records the answer text at the session's current question.
func AnswerHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := ownedSession(w, r, eng)
		if !ok {
			return
		}
		var req struct {
			Answer string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := s.RecordAnswer(req.Answer); err != nil {
			writeQuizError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(viewOf(s, false))
	}
}

// NavigateHandler moves the current index one step either way. Steps past
// the ends are no-ops, matching the engine.
func NavigateHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := ownedSession(w, r, eng)
		if !ok {
			return
		}
		var req struct {
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		var err error
		switch req.Direction {
		case "next":
			err = s.Next()
		case "previous":
			err = s.Previous()
		default:
			http.Error(w, "direction must be next or previous", http.StatusBadRequest)
			return
		}
		if err != nil {
			writeQuizError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(viewOf(s, false))
	}
}

// SubmitHandler grades and terminates the session. A primary persist
// failure still returns the locally computed result, flagged unsaved.
func SubmitHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := ownedSession(w, r, eng)
		if !ok {
			return
		}
		var req struct {
			Force bool `json:"force"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
		}
		res, err := eng.Submit(r.Context(), s.ID(), req.Force)

		var pe *quiz.PersistError
		switch {
		case errors.Is(err, quiz.ErrConfirmPending):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"confirm_required": true,
				"answered":         len(s.AnsweredIndices()),
				"total_questions":  len(s.Questions()),
			})
		case errors.As(err, &pe):
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"result": res,
				"saved":  false,
			})
		case err != nil:
			writeQuizError(w, err)
		default:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"result": res,
				"saved":  true,
			})
		}
	}
}

// ListAttemptsHandler serves the student's attempt history for the
// progress screens.
func ListAttemptsHandler(store quiz.HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student := auth.StudentFromContext(r.Context())
		attempts, err := store.ListAttempts(r.Context(), student, r.URL.Query().Get("flashcard_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if attempts == nil {
			attempts = []quiz.Attempt{}
		}
		_ = json.NewEncoder(w).Encode(attempts)
	}
}

// ownedSession loads the session and enforces that it belongs to the
// requesting student (admin passes).
func ownedSession(w http.ResponseWriter, r *http.Request, eng *quiz.Engine) (*quiz.Session, bool) {
	s, err := eng.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeQuizError(w, err)
		return nil, false
	}
	student := auth.StudentFromContext(r.Context())
	if s.Student().StudentID != student && rbac.RoleFromContext(r.Context()) != "admin" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return s, true
}

func writeQuizError(w http.ResponseWriter, err error) {
	var fe *quiz.FetchError
	var pe *quiz.PersistError
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, quiz.ErrEmptyDeck):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, quiz.ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &fe):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.As(err, &pe):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
