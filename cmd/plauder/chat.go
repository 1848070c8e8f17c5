package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/engine"
	"github.com/plauder-dev/plauder/pkg/storage"
)

// chatLoop reads prompts from stdin and prints answers. Streaming is
// used when no tools are configured; with tools the blocking completion
// path runs the tool-call rounds.
type chatLoop struct {
	engine    *engine.Engine
	store     storage.Store
	sessionID string
	model     string
	system    string
	streaming bool
}

func (c *chatLoop) run(ctx context.Context) error {
	fmt.Printf("chatting with %s (ctrl-d to quit)\n", c.model)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "/quit" || prompt == "/exit" {
			return nil
		}

		var err error
		if c.streaming {
			err = c.streamTurn(ctx, prompt)
		} else {
			err = c.completeTurn(ctx, prompt)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Surface the error and keep the session alive.
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		c.persist(ctx)
	}
}

func (c *chatLoop) completeTurn(ctx context.Context, prompt string) error {
	answer, err := c.engine.Complete(ctx, prompt, nil)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

// streamTurn prints the answer as it arrives. The engine yields
// cumulative text, so only the unseen suffix is written.
func (c *chatLoop) streamTurn(ctx context.Context, prompt string) error {
	seq, err := c.engine.Stream(ctx, prompt, nil, nil)
	if err != nil {
		return err
	}

	var printed int
	for text, err := range seq {
		if err != nil {
			fmt.Println()
			return err
		}
		fmt.Print(text[printed:])
		printed = len(text)
	}
	fmt.Println()
	return nil
}

func (c *chatLoop) persist(ctx context.Context) {
	err := c.store.Save(ctx, &storage.Session{
		ID:       c.sessionID,
		Model:    c.model,
		System:   c.system,
		Messages: c.engine.History(),
	})
	if err != nil {
		slog.Warn("failed to persist session", "session", c.sessionID, "error", err.Error())
	}
}

// historyPreview renders a short transcript summary, used when resuming.
func historyPreview(messages []api.Message, max int) string {
	var b strings.Builder
	start := 0
	if len(messages) > max {
		start = len(messages) - max
	}
	for _, m := range messages[start:] {
		line := m.Content
		if len(line) > 60 {
			line = line[:57] + "..."
		}
		fmt.Fprintf(&b, "%s: %s\n", m.Role, line)
	}
	return b.String()
}
