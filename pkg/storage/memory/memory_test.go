package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/storage"
)

func makeSession(id string) *storage.Session {
	return &storage.Session{
		ID:     id,
		Model:  "llama3.2",
		System: "be brief",
		Messages: []api.Message{
			api.SystemMessage("be brief"),
			api.UserMessage("hello", nil),
			{Role: api.RoleAssistant, Content: "hi"},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	store := New(0)
	ctx := context.Background()

	if err := store.Save(ctx, makeSession("s1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Model != "llama3.2" || len(got.Messages) != 3 {
		t.Errorf("session = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set by the store")
	}
}

func TestGet_NotFound(t *testing.T) {
	store := New(0)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSave_UpsertKeepsCreatedAt(t *testing.T) {
	store := New(0)
	ctx := context.Background()

	if err := store.Save(ctx, makeSession("s1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, _ := store.Get(ctx, "s1")

	updated := makeSession("s1")
	updated.Messages = append(updated.Messages, api.UserMessage("more", nil))
	if err := store.Save(ctx, updated); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Messages) != 4 {
		t.Errorf("messages = %d, want 4 after upsert", len(got.Messages))
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Error("CreatedAt should survive upserts")
	}
}

func TestDelete(t *testing.T) {
	store := New(0)
	ctx := context.Background()

	store.Save(ctx, makeSession("s1"))
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestLRUEviction(t *testing.T) {
	store := New(2)
	ctx := context.Background()

	store.Save(ctx, makeSession("s1"))
	store.Save(ctx, makeSession("s2"))
	// Touch s1 so s2 becomes the eviction candidate.
	store.Save(ctx, makeSession("s1"))
	store.Save(ctx, makeSession("s3"))

	if _, err := store.Get(ctx, "s2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("s2 should have been evicted, got %v", err)
	}
	if _, err := store.Get(ctx, "s1"); err != nil {
		t.Errorf("s1 should survive: %v", err)
	}
	if _, err := store.Get(ctx, "s3"); err != nil {
		t.Errorf("s3 should be present: %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	store := New(0)
	ctx := context.Background()

	store.Save(ctx, makeSession("older"))
	store.Save(ctx, makeSession("newer"))

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].UpdatedAt.Before(sessions[1].UpdatedAt) {
		t.Errorf("sessions out of order: %s before %s", sessions[0].ID, sessions[1].ID)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	store := New(0)
	ctx := context.Background()

	store.Save(ctx, makeSession("s1"))
	got, _ := store.Get(ctx, "s1")
	got.Messages[0].Content = "mutated"

	again, _ := store.Get(ctx, "s1")
	if again.Messages[0].Content != "be brief" {
		t.Error("stored session was mutated through a returned copy")
	}
}
