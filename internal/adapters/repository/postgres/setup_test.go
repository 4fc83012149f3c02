package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

// setupTestDB starts a migrated database for one test.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, dsn, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	require.NoError(t, Migrate(dsn))

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

var testNow = time.Now().UTC().Truncate(time.Second)

func newTestQuestion(text string, pubOffset time.Duration, endOffset *time.Duration, choices ...string) *domain.Question {
	q := &domain.Question{
		ID:      uuid.New(),
		Text:    text,
		PubDate: testNow.Add(pubOffset),
	}
	if endOffset != nil {
		end := testNow.Add(*endOffset)
		q.EndDate = &end
	}
	for i, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: c, Position: i})
	}
	return q
}

func durationPtr(d time.Duration) *time.Duration { return &d }

const day = 24 * time.Hour
