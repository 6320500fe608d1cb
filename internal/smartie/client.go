package smartie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/Poysss/TeamSmartie-IndustryElec/internal/quiz"
)

// Client talks to the Smartie persistence API. It implements the engine's
// ContentSource, QuizRegistry and ResultAPI contracts.
type Client struct {
	base string
	http *http.Client
}

type Config struct {
	BaseURL string

	// Optional OAuth2 client credentials; a plain client is used otherwise.
	TokenURL     string
	ClientID     string
	ClientSecret string

	Timeout time.Duration
}

func New(cfg Config) *Client {
	var h *http.Client
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		h = cc.Client(context.Background())
	} else {
		h = &http.Client{}
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	} else {
		h.Timeout = 10 * time.Second
	}
	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), http: h}
}

// FetchContents loads a flashcard's question/answer pairs, ascending by
// position. The backend only exposes the full content list, so the client
// filters by flashcard id.
func (c *Client) FetchContents(ctx context.Context, flashcardID string) ([]quiz.FlashcardContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/content/get", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch contents: %s", res.Status)
	}
	var items []contentWire
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		return nil, err
	}
	var out []quiz.FlashcardContent
	for _, it := range items {
		if it.flashcardID() != flashcardID {
			continue
		}
		out = append(out, quiz.FlashcardContent{
			ContentID:   it.ContentID.String(),
			FlashcardID: flashcardID,
			Order:       it.NumberOfQuestion,
			Question:    it.Question,
			Answer:      it.Answer,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// CreateQuiz registers the attempt on the backend before it starts and
// returns the backend's quiz id for the later score update.
func (c *Client) CreateQuiz(ctx context.Context, flashcardID string, d quiz.Difficulty, randomize bool, timeLimitSec int) (string, error) {
	body := map[string]interface{}{
		"flashCard":          cardRef(flashcardID),
		"difficultyLevel":    string(d),
		"typeOfQuiz":         "IDENTIFICATION",
		"score":              0,
		"timeLimit":          timeLimitSec,
		"randomizeQuestions": randomize,
	}
	var created quizWire
	if err := c.post(ctx, http.MethodPost, "/quiz/add", body, &created); err != nil {
		return "", err
	}
	return created.QuizModeID.String(), nil
}

func (c *Client) UpdateQuizScore(ctx context.Context, remoteQuizID string, r quiz.Result) error {
	body := map[string]interface{}{
		"quizModeId":      idValue(remoteQuizID),
		"flashCard":       cardRef(r.FlashcardID),
		"difficultyLevel": string(r.Difficulty),
		"typeOfQuiz":      "IDENTIFICATION",
		"score":           r.Score,
	}
	return c.post(ctx, http.MethodPut, "/quiz/update", body, nil)
}

func (c *Client) AddReview(ctx context.Context, rec quiz.ReviewRecord) error {
	body := map[string]interface{}{
		"flashCard":             cardRef(rec.FlashcardID),
		"reviewIncorrectAnswer": rec.IncorrectAnswer,
		"reviewCorrectAnswer":   rec.CorrectAnswer,
	}
	return c.post(ctx, http.MethodPost, "/review/add", body, nil)
}

func (c *Client) AddProgress(ctx context.Context, p quiz.ProgressEntry) error {
	body := map[string]interface{}{
		"flashCard":       cardRef(p.FlashcardID),
		"score":           p.Score,
		"timeSpent":       p.TimeSpentSec,
		"scoreComparison": string(p.Bucket),
	}
	return c.post(ctx, http.MethodPost, "/progress/add", body, nil)
}

func (c *Client) post(ctx context.Context, method, path string, body, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("%s %s: %s", method, path, res.Status)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
