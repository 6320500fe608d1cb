package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDeck is returned when quiz setup finds no contents for the
	// flashcard. A session is never created in that case.
	ErrEmptyDeck = errors.New("flashcard has no contents")

	// ErrSessionClosed is returned for mutations on a terminal session.
	ErrSessionClosed = errors.New("session already finished")

	// ErrConfirmPending is returned by the first manual submit while
	// questions are still unanswered. The next submit (or force) goes
	// through.
	ErrConfirmPending = errors.New("unanswered questions, submit again to confirm")

	// ErrNotFound is returned for unknown session ids.
	ErrNotFound = errors.New("session not found")
)

// FetchError wraps a failure reading content from the Smartie backend.
// Setup fails; the caller may retry.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch contents: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// PersistError wraps a failure of the primary score write. The locally
// computed result stays valid; the caller decides whether to retry or warn.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return fmt.Sprintf("persist result: %v", e.Err) }
func (e *PersistError) Unwrap() error { return e.Err }
