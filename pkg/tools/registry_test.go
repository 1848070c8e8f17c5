package tools

import (
	"context"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tool, ok := r.Get("echo")
	if !ok {
		t.Fatal("expected echo to be registered")
	}
	if tool.Definition.Name != "echo" {
		t.Errorf("name = %q, want echo", tool.Definition.Name)
	}
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Tool{Definition: Definition{Name: ""}}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := r.Register(Tool{Definition: Definition{Name: "noimpl"}}); err == nil {
		t.Error("expected error for nil invoker")
	}
}

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	r := NewRegistry()

	first := Tool{
		Definition: Definition{Name: "dup"},
		Invoke: func(_ context.Context, _ map[string]any) (string, error) {
			return "first", nil
		},
	}
	second := Tool{
		Definition: Definition{Name: "dup"},
		Invoke: func(_ context.Context, _ map[string]any) (string, error) {
			return "second", nil
		},
	}

	if err := r.Register(first); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register(second); err != nil {
		t.Fatalf("duplicate register should not error: %v", err)
	}

	tool, _ := r.Get("dup")
	out, _ := tool.Invoke(context.Background(), nil)
	if out != "first" {
		t.Errorf("duplicate registration replaced the original, got %q", out)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestRegistry_OrderPreserved(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		if err := r.Register(echoTool(name)); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	toolset := r.Tools()
	got := []string{toolset[0].Definition.Name, toolset[1].Definition.Name, toolset[2].Definition.Name}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
