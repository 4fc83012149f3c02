package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	Questions    ports.QuestionService
	Votes        ports.VoteService
	Auth         *Authenticator
	Metrics      http.Handler
	DB           Pinger
	CookieSecure bool
}

func NewHandler(cfg RouterConfig) (http.Handler, error) {
	views, err := newViews()
	if err != nil {
		return nil, err
	}

	questionHandler := NewQuestionHandler(cfg.Questions, cfg.Votes, views, cfg.CookieSecure)
	voteHandler := NewVoteHandler(cfg.Votes, cfg.CookieSecure)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz(cfg.DB))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.Authenticate)

		r.Get("/", questionHandler.Index)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", questionHandler.Detail)
			r.Get("/results/", questionHandler.Results)
			r.With(cfg.Auth.RequireUser).Post("/vote/", voteHandler.Vote)
		})
	})

	return r, nil
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logrus.WithError(err).Warn("health check failed")
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}
