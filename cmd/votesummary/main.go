package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

func main() {
	var (
		format  string
		timeout time.Duration
	)
	flag.StringVar(&format, "format", "text", "Output format: text or json")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum time the job may run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.SetupLogger(); err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		logrus.Fatal(err)
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer db.Close()

	summaryService := services.NewSummaryService(
		postgres.NewQuestionRepository(db),
		postgres.NewVoteRepository(db),
		time.Now,
	)

	logrus.Info("Starting vote summarization job...")

	reports, err := summaryService.SummarizeAll(ctx)
	if err != nil {
		logrus.Fatalf("Error summarizing votes: %v", err)
	}

	switch format {
	case "json":
		err = json.NewEncoder(os.Stdout).Encode(reports)
	case "text":
		err = writeText(os.Stdout, reports)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		logrus.Fatal(err)
	}

	logrus.WithField("questions", len(reports)).Info("Vote summarization completed successfully.")
}

func writeText(out io.Writer, reports []*domain.QuestionResults) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%d votes\n", r.Question.ID, r.Question.Text, r.TotalVotes)
		for _, t := range r.Tallies {
			fmt.Fprintf(w, "\t%s\t%d\t%s\n", t.Choice.Text, t.Votes, t.Percent)
		}
	}
	return w.Flush()
}
