package smartie

import (
	"encoding/json"
	"strconv"
)

// The Smartie backend nests owning entities on some deployments and
// flattens them on others, and serves ids as numbers. The wire shapes here
// decode defensively; mapping onto the engine's canonical model happens in
// the client so the engine never sees backend quirks.

type flashCardRef struct {
	FlashCardID json.Number `json:"flashCardId"`
}

type contentWire struct {
	ContentID        json.Number   `json:"contentId"`
	NumberOfQuestion int           `json:"numberOfQuestion"`
	Question         string        `json:"question"`
	Answer           string        `json:"answer"`
	FlashCard        *flashCardRef `json:"flashCard"`
	FlashCardID      json.Number   `json:"flashCardId"` // flat variant
}

func (c contentWire) flashcardID() string {
	if c.FlashCard != nil && c.FlashCard.FlashCardID.String() != "" {
		return c.FlashCard.FlashCardID.String()
	}
	return c.FlashCardID.String()
}

type quizWire struct {
	QuizModeID json.Number `json:"quizModeId"`
}

// idValue keeps numeric ids numeric on the wire; the backend rejects
// quoted numbers in some versions.
func idValue(id string) interface{} {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func cardRef(flashcardID string) map[string]interface{} {
	return map[string]interface{}{"flashCardId": idValue(flashcardID)}
}
