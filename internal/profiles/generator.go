package profiles

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/events"
)

// ProfileBackend triggers detailed profile extraction for one candidate.
type ProfileBackend interface {
	GenerateProfile(ctx context.Context, candidateID string) error
}

// Summary aggregates a batch run. Per-candidate failures are counted, not
// retried.
type Summary struct {
	Requested int `json:"requested"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Generator processes candidate profile generation in small fixed-size
// batches with a pause between them, to bound load on the backend after a CV
// intake.
type Generator struct {
	backend    ProfileBackend
	publisher  events.EventPublisher
	logger     *slog.Logger
	batchSize  int
	batchDelay time.Duration
}

// NewGenerator creates a generator with the standard batch shape of 2
// concurrent requests and a 1 second pause between batches.
func NewGenerator(backend ProfileBackend, publisher events.EventPublisher, logger *slog.Logger) *Generator {
	return &Generator{
		backend:    backend,
		publisher:  publisher,
		logger:     logger,
		batchSize:  2,
		batchDelay: time.Second,
	}
}

// GenerateAll runs profile generation for every candidate ID, batch by
// batch. It stops early only if the context is cancelled; individual
// failures are logged and counted.
func (g *Generator) GenerateAll(ctx context.Context, candidateIDs []string) (*Summary, error) {
	summary := &Summary{Requested: len(candidateIDs)}

	for start := 0; start < len(candidateIDs); start += g.batchSize {
		end := start + g.batchSize
		if end > len(candidateIDs) {
			end = len(candidateIDs)
		}
		batch := candidateIDs[start:end]

		var wg sync.WaitGroup
		results := make([]error, len(batch))
		for i, candidateID := range batch {
			wg.Add(1)
			go func(i int, candidateID string) {
				defer wg.Done()
				results[i] = g.backend.GenerateProfile(ctx, candidateID)
			}(i, candidateID)
		}
		wg.Wait()

		for i, err := range results {
			if err != nil {
				summary.Failed++
				g.logger.Warn("profile generation failed",
					"candidate_id", batch[i], "error", err)
				continue
			}
			summary.Processed++
		}

		if end < len(candidateIDs) {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(g.batchDelay):
			}
		}
	}

	g.logger.Info("profile generation batch run finished",
		"requested", summary.Requested,
		"processed", summary.Processed,
		"failed", summary.Failed,
	)

	if g.publisher != nil {
		event := events.NewEvent(events.EventProfilesGenerated, events.ProfilesGeneratedEvent{
			Requested: summary.Requested,
			Processed: summary.Processed,
			Failed:    summary.Failed,
		})
		if err := g.publisher.Publish(ctx, events.TopicEditorEvents, event); err != nil {
			g.logger.Warn("failed to publish profiles event", "error", err)
		}
	}

	return summary, nil
}
