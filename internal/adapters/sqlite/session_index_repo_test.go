package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/recall/internal/adapters/sqlite"
	"github.com/example/recall/internal/db"
	"github.com/example/recall/internal/models"
)

func setupIndexTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := database.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to load schema: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

func sessionFixture(id, project string, date time.Time) *models.SessionSummary {
	return &models.SessionSummary{
		SessionID:    id,
		Project:      project,
		Date:         date,
		Summary:      "Fix auth bug in " + id,
		MessageCount: 3,
		CommandCount: 7,
		FailureCount: 1,
		SkillCount:   1,
		Topics:       []string{"auth", "login"},
	}
}

func TestSessionIndexRepository_UpsertAndList(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"s1", "s2", "s3"} {
		s := sessionFixture(id, "proj-a", base.Add(time.Duration(i)*time.Minute))
		if err := repo.UpsertSession(ctx, s); err != nil {
			t.Fatalf("UpsertSession(%s) error: %v", id, err)
		}
	}

	sessions, err := repo.ListSessions(ctx, "proj-a", 10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("len(sessions) = %d, want 3", len(sessions))
	}
	// Newest first.
	if sessions[0].SessionID != "s3" {
		t.Errorf("sessions[0] = %s, want s3", sessions[0].SessionID)
	}
	if len(sessions[0].Topics) != 2 {
		t.Errorf("Topics = %v, want round-tripped topics", sessions[0].Topics)
	}
}

func TestSessionIndexRepository_UpsertReplacesRow(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	s := sessionFixture("s1", "proj-a", time.Now())
	if err := repo.UpsertSession(ctx, s); err != nil {
		t.Fatalf("UpsertSession() error: %v", err)
	}

	s.Summary = "updated summary"
	s.CommandCount = 99
	if err := repo.UpsertSession(ctx, s); err != nil {
		t.Fatalf("second UpsertSession() error: %v", err)
	}

	sessions, err := repo.ListSessions(ctx, "proj-a", 10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1 (upsert, not insert)", len(sessions))
	}
	if sessions[0].Summary != "updated summary" || sessions[0].CommandCount != 99 {
		t.Errorf("row = %+v, want updated values", sessions[0])
	}
}

func TestSessionIndexRepository_ListIsProjectScoped(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	if err := repo.UpsertSession(ctx, sessionFixture("s1", "proj-a", time.Now())); err != nil {
		t.Fatalf("UpsertSession() error: %v", err)
	}
	if err := repo.UpsertSession(ctx, sessionFixture("s2", "proj-b", time.Now())); err != nil {
		t.Fatalf("UpsertSession() error: %v", err)
	}

	sessions, err := repo.ListSessions(ctx, "proj-a", 10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Project != "proj-a" {
		t.Errorf("sessions = %+v, want only proj-a", sessions)
	}
}

func TestSessionIndexRepository_SearchSessions(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	s := sessionFixture("s1", "proj-a", time.Now())
	s.Summary = "Migrate the billing service to Postgres"
	s.Topics = []string{"billing", "postgres"}
	if err := repo.UpsertSession(ctx, s); err != nil {
		t.Fatalf("UpsertSession() error: %v", err)
	}

	t.Run("matches summary case-insensitively", func(t *testing.T) {
		got, err := repo.SearchSessions(ctx, "proj-a", "POSTGRES")
		if err != nil {
			t.Fatalf("SearchSessions() error: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("len(got) = %d, want 1", len(got))
		}
	})

	t.Run("no match", func(t *testing.T) {
		got, err := repo.SearchSessions(ctx, "proj-a", "kubernetes")
		if err != nil {
			t.Fatalf("SearchSessions() error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(got) = %d, want 0", len(got))
		}
	})
}

func failureFixture(project, command string) *models.FailureOccurrence {
	return &models.FailureOccurrence{
		SessionID: "s1",
		Project:   project,
		Category:  "permission_denied",
		Command:   command,
		Error:     "bash: permission denied",
		Date:      time.Now(),
	}
}

func TestSessionIndexRepository_RecordFailureDedupsByPrefix(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	// Same 50-char prefix, different tails.
	long := "./scripts/very/long/path/to/the/deploy-script.sh --flag"
	if err := repo.RecordFailure(ctx, failureFixture("proj-a", long+" one")); err != nil {
		t.Fatalf("RecordFailure() error: %v", err)
	}
	if err := repo.RecordFailure(ctx, failureFixture("proj-a", long+" two")); err != nil {
		t.Fatalf("second RecordFailure() error: %v", err)
	}

	failures, err := repo.ListFailures(ctx, "proj-a")
	if err != nil {
		t.Fatalf("ListFailures() error: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("len(failures) = %d, want 1 (deduplicated)", len(failures))
	}
	if failures[0].Count != 2 {
		t.Errorf("Count = %d, want 2", failures[0].Count)
	}
}

func TestSessionIndexRepository_RecordFailureKeepsDistinctCommands(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	if err := repo.RecordFailure(ctx, failureFixture("proj-a", "npm run build")); err != nil {
		t.Fatalf("RecordFailure() error: %v", err)
	}
	if err := repo.RecordFailure(ctx, failureFixture("proj-a", "make test")); err != nil {
		t.Fatalf("RecordFailure() error: %v", err)
	}

	failures, err := repo.ListFailures(ctx, "proj-a")
	if err != nil {
		t.Fatalf("ListFailures() error: %v", err)
	}
	if len(failures) != 2 {
		t.Errorf("len(failures) = %d, want 2", len(failures))
	}
}

func TestSessionIndexRepository_SearchFailures(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	if err := repo.RecordFailure(ctx, failureFixture("proj-a", "terraform apply")); err != nil {
		t.Fatalf("RecordFailure() error: %v", err)
	}

	got, err := repo.SearchFailures(ctx, "proj-a", "terraform")
	if err != nil {
		t.Fatalf("SearchFailures() error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(got) = %d, want 1", len(got))
	}
}

func TestSessionIndexRepository_PruneSessions(t *testing.T) {
	repo := sqlite.NewSessionIndexRepository(setupIndexTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		s := sessionFixture("sess-"+id, "proj-a", base.Add(time.Duration(i)*time.Minute))
		if err := repo.UpsertSession(ctx, s); err != nil {
			t.Fatalf("UpsertSession() error: %v", err)
		}
	}

	if err := repo.PruneSessions(ctx, "proj-a", 2); err != nil {
		t.Fatalf("PruneSessions() error: %v", err)
	}

	sessions, err := repo.ListSessions(ctx, "proj-a", 10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d after prune, want 2", len(sessions))
	}
	// The two newest survive.
	if sessions[0].SessionID != "sess-e" || sessions[1].SessionID != "sess-d" {
		t.Errorf("kept = [%s %s], want [sess-e sess-d]",
			sessions[0].SessionID, sessions[1].SessionID)
	}
}
