package engine

import (
	"context"
	"iter"

	"github.com/plauder-dev/plauder/pkg/observability"
	"github.com/plauder-dev/plauder/pkg/provider"
)

// ListModels returns the models available on the server. It does not
// touch the conversation history.
func (e *Engine) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return e.transport.List(ctx)
}

// ShowModel returns details for a single model.
func (e *Engine) ShowModel(ctx context.Context, name string) (*provider.ShowResponse, error) {
	return e.transport.Show(ctx, name)
}

// PullModel downloads a model, yielding progress events until the pull
// completes. A failed pull yields its error as the final element.
func (e *Engine) PullModel(ctx context.Context, name string) iter.Seq2[provider.ProgressEvent, error] {
	return func(yield func(provider.ProgressEvent, error) bool) {
		ch, err := e.transport.Pull(ctx, name)
		if err != nil {
			yield(provider.ProgressEvent{}, err)
			return
		}

		// completed counts are cumulative per layer; track the high
		// water mark per digest so the counter only receives deltas.
		seen := make(map[string]int64)

		for ev := range ch {
			if ev.Err != nil {
				yield(provider.ProgressEvent{}, ev.Err)
				return
			}

			if ev.Digest != "" && ev.Completed > seen[ev.Digest] {
				observability.PullBytesTotal.WithLabelValues(name).Add(float64(ev.Completed - seen[ev.Digest]))
				seen[ev.Digest] = ev.Completed
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}
