package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	api "github.com/Poysss/TeamSmartie-IndustryElec/internal/api/http"
	auth "github.com/Poysss/TeamSmartie-IndustryElec/internal/auth/middleware"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/config"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/db"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/quiz"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/rbac"
	"github.com/Poysss/TeamSmartie-IndustryElec/internal/smartie"
)

func main() {
	cfg := config.FromEnv()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	history := quiz.NewSQLStore(dbh)

	client := smartie.New(smartie.Config{
		BaseURL:      cfg.APIBaseURL,
		TokenURL:     cfg.APITokenURL,
		ClientID:     cfg.APIClientID,
		ClientSecret: cfg.APIClientSecret,
		Timeout:      time.Duration(cfg.APITimeoutSec) * time.Second,
	})

	eval, err := quiz.ForRule(cfg.MatchRule)
	if err != nil {
		log.Fatalf("match rule: %v", err)
	}

	persister := quiz.NewPersister(client, history, log)
	engine := quiz.NewEngine(client, eval,
		quiz.WithRegistry(client),
		quiz.WithPersister(persister),
		quiz.WithHistory(history),
		quiz.WithLogger(log),
	)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("quiz:start")).
			Post("/quizzes", api.StartQuizHandler(engine))
		pr.With(rbac.Require("quiz:play")).
			Get("/quizzes/{sessionID}", api.GetQuizHandler(engine))
		pr.With(rbac.Require("quiz:play")).
			Post("/quizzes/{sessionID}/answer", api.AnswerHandler(engine))
		pr.With(rbac.Require("quiz:play")).
			Post("/quizzes/{sessionID}/navigate", api.NavigateHandler(engine))
		pr.With(rbac.Require("quiz:submit")).
			Post("/quizzes/{sessionID}/submit", api.SubmitHandler(engine))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/attempts", api.ListAttemptsHandler(history))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.WithFields(logrus.Fields{
		"addr":       cfg.HTTPAddr,
		"db":         cfg.DBDriver,
		"api":        cfg.APIBaseURL,
		"match_rule": cfg.MatchRule,
	}).Info("quizd listening")
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
