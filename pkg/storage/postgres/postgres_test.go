package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/storage"
)

func init() {
	// Configure testcontainers to use podman.
	// Detect the podman socket from `podman machine inspect`.
	if os.Getenv("DOCKER_HOST") == "" {
		out, err := exec.Command("podman", "machine", "inspect", "--format", "{{.ConnectionInfo.PodmanSocket.Path}}").Output()
		if err == nil {
			sock := strings.TrimSpace(string(out))
			if sock != "" {
				os.Setenv("DOCKER_HOST", "unix://"+sock)
			}
		}
	}
	// Ryuk needs privileged mode with podman.
	if os.Getenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED", "true")
	}
}

// setupTestDB starts a PostgreSQL container and returns a connected Store.
// Tests are skipped if no container runtime is available.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	if _, err := exec.LookPath("podman"); err != nil {
		t.Skip("podman not found, skipping integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("plauder_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container (is podman running?): %v", err)
	}

	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	store, err := New(ctx, Config{
		DSN:            connStr,
		MaxConns:       5,
		MinConns:       1,
		MigrateOnStart: true,
	})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func makeTestSession(id string) *storage.Session {
	return &storage.Session{
		ID:     id,
		Model:  "llama3.2",
		System: "be brief",
		Messages: []api.Message{
			api.SystemMessage("be brief"),
			api.UserMessage("hello", nil),
			{Role: api.RoleAssistant, Content: "hi there"},
		},
	}
}

func TestPostgres_SaveAndGet(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	session := makeTestSession(fmt.Sprintf("sess_%d", time.Now().UnixNano()))
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Model != "llama3.2" || got.System != "be brief" {
		t.Errorf("session = %+v", got)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(got.Messages))
	}
	if got.Messages[2].Role != api.RoleAssistant || got.Messages[2].Content != "hi there" {
		t.Errorf("last message = %+v", got.Messages[2])
	}
}

func TestPostgres_GetNotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestPostgres_Upsert(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	session := makeTestSession("sess_upsert")
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, _ := store.Get(ctx, session.ID)

	session.Messages = append(session.Messages, api.UserMessage("more", nil))
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Messages) != 4 {
		t.Errorf("messages = %d, want 4 after upsert", len(got.Messages))
	}
	if !got.UpdatedAt.After(first.UpdatedAt) && !got.UpdatedAt.Equal(first.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}
}

func TestPostgres_ListAndDelete(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	store.Save(ctx, makeTestSession("sess_a"))
	time.Sleep(10 * time.Millisecond)
	store.Save(ctx, makeTestSession("sess_b"))

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "sess_b" {
		t.Errorf("first session = %s, want most recently updated", sessions[0].ID)
	}

	if err := store.Delete(ctx, "sess_a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "sess_a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}

	sessions, _ = store.List(ctx)
	if len(sessions) != 1 {
		t.Errorf("got %d sessions after delete, want 1", len(sessions))
	}
}

func TestPostgres_HealthCheck(t *testing.T) {
	store := setupTestDB(t)

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}
