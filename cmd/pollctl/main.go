package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

const usage = `usage: pollctl <command> [flags]

commands:
  create  -text TEXT -choice A -choice B [-pub RFC3339] [-end RFC3339]
  delete  -id ID
  list
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer db.Close()

	service := services.NewQuestionService(postgres.NewQuestionRepository(db), postgres.NewVoteRepository(db), time.Now)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "create":
		err = create(ctx, service, args)
	case "delete":
		err = remove(ctx, service, args)
	case "list":
		err = list(ctx, service)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logrus.Fatal(err)
	}
}

func create(ctx context.Context, service ports.QuestionService, args []string) error {
	var (
		input    ports.CreateQuestionInput
		pub, end string
	)
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	fs.StringVar(&input.Text, "text", "", "Question text")
	fs.StringVar(&pub, "pub", "", "Publish time (RFC3339), defaults to now")
	fs.StringVar(&end, "end", "", "Voting end time (RFC3339), open-ended when empty")
	fs.Func("choice", "Choice text, repeat for each choice", func(s string) error {
		input.Choices = append(input.Choices, s)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if input.PubDate, err = parseTime(pub); err != nil {
		return fmt.Errorf("invalid -pub: %w", err)
	}
	if input.EndDate, err = parseTime(end); err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	question, err := service.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Println(question.ID)
	return nil
}

func remove(ctx context.Context, service ports.QuestionService, args []string) error {
	var id string
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	fs.StringVar(&id, "id", "", "Question id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return service.Delete(ctx, id)
}

func list(ctx context.Context, service ports.QuestionService) error {
	questions, err := service.ListQuestions(ctx)
	if err != nil {
		return err
	}
	for _, q := range questions {
		fmt.Printf("%s\t%s\t%s\n", q.ID, q.PubDate.Format(time.RFC3339), q.Text)
	}
	return nil
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
