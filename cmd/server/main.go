package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/polls/internal/adapters/metrics"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.SetupLogger(); err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.RequireServer(); err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		logrus.Fatal(err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer db.Close()

	// Initialize Repositories
	questionRepo := postgres.NewQuestionRepository(db)
	voteRepo := postgres.NewVoteRepository(db)

	// Initialize Services
	m := metrics.New()
	questionService := services.NewQuestionService(questionRepo, voteRepo, time.Now)
	voteService := services.NewVoteService(questionRepo, voteRepo, m, time.Now)

	handler, err := http.NewHandler(http.RouterConfig{
		Questions:    questionService,
		Votes:        voteService,
		Auth:         http.NewAuthenticator(cfg.JWTSecret, cfg.LoginURL),
		Metrics:      m.Handler(),
		DB:           db,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("Listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatal(err)
	}
}
