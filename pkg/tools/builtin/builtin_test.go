package builtin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		tool, err := ByName(name)
		if err != nil {
			t.Errorf("ByName(%q) failed: %v", name, err)
			continue
		}
		if tool.Definition.Name != name {
			t.Errorf("definition name = %q, want %q", tool.Definition.Name, name)
		}
		if tool.Invoke == nil {
			t.Errorf("tool %q has no invoker", name)
		}
	}

	if _, err := ByName("nope"); err == nil {
		t.Error("expected error for unknown builtin")
	}
}

func TestDateTime(t *testing.T) {
	tool := DateTime()

	out, err := tool.Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if _, perr := time.Parse(time.RFC3339, out); perr != nil {
		t.Errorf("output %q is not RFC 3339: %v", out, perr)
	}
}

func TestShell(t *testing.T) {
	tool := Shell()

	out, err := tool.Invoke(context.Background(), map[string]any{"command": "echo hello"})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("output = %q, want hello", out)
	}
}

func TestShell_MissingCommand(t *testing.T) {
	tool := Shell()

	if _, err := tool.Invoke(context.Background(), nil); err == nil {
		t.Error("expected error for missing command")
	}
}

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page content"))
	}))
	defer srv.Close()

	tool := FetchURL()

	out, err := tool.Invoke(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if out != "page content" {
		t.Errorf("output = %q, want page content", out)
	}
}

func TestFetchURL_RejectsBadScheme(t *testing.T) {
	tool := FetchURL()

	if _, err := tool.Invoke(context.Background(), map[string]any{"url": "file:///etc/passwd"}); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestFetchURL_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	tool := FetchURL()

	if _, err := tool.Invoke(context.Background(), map[string]any{"url": srv.URL}); err == nil {
		t.Error("expected error for 404 response")
	}
}
