package profiles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/events"
)

type stubProfileBackend struct {
	mu         sync.Mutex
	calls      []string
	concurrent int
	peak       int
	failFor    map[string]bool
}

func (b *stubProfileBackend) GenerateProfile(ctx context.Context, candidateID string) error {
	b.mu.Lock()
	b.calls = append(b.calls, candidateID)
	b.concurrent++
	if b.concurrent > b.peak {
		b.peak = b.concurrent
	}
	b.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	b.mu.Lock()
	b.concurrent--
	fail := b.failFor[candidateID]
	b.mu.Unlock()

	if fail {
		return errors.New("extraction failed")
	}
	return nil
}

func newTestGenerator(backend ProfileBackend) (*Generator, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	generator := NewGenerator(backend, publisher, logger)
	generator.batchDelay = 10 * time.Millisecond
	return generator, publisher
}

func TestGenerateAll(t *testing.T) {
	t.Run("processes every candidate in pairs", func(t *testing.T) {
		backend := &stubProfileBackend{}
		generator, publisher := newTestGenerator(backend)

		summary, err := generator.GenerateAll(context.Background(),
			[]string{"cand-1", "cand-2", "cand-3", "cand-4", "cand-5"})
		if err != nil {
			t.Fatalf("generate all failed: %v", err)
		}

		if summary.Requested != 5 || summary.Processed != 5 || summary.Failed != 0 {
			t.Errorf("unexpected summary: %+v", summary)
		}
		if len(backend.calls) != 5 {
			t.Errorf("expected 5 backend calls, got %d", len(backend.calls))
		}
		if backend.peak > 2 {
			t.Errorf("expected at most 2 concurrent requests, saw %d", backend.peak)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventProfilesGenerated {
			t.Fatalf("expected one %s event, got %v", events.EventProfilesGenerated, published)
		}
	})

	t.Run("failures are counted not retried", func(t *testing.T) {
		backend := &stubProfileBackend{failFor: map[string]bool{"cand-2": true, "cand-3": true}}
		generator, _ := newTestGenerator(backend)

		summary, err := generator.GenerateAll(context.Background(),
			[]string{"cand-1", "cand-2", "cand-3", "cand-4"})
		if err != nil {
			t.Fatalf("generate all failed: %v", err)
		}

		if summary.Processed != 2 || summary.Failed != 2 {
			t.Errorf("expected 2 processed and 2 failed, got %+v", summary)
		}
		if len(backend.calls) != 4 {
			t.Errorf("failed candidates must not be retried, got %d calls", len(backend.calls))
		}
	})

	t.Run("cancellation stops between batches", func(t *testing.T) {
		backend := &stubProfileBackend{}
		generator, _ := newTestGenerator(backend)
		generator.batchDelay = time.Minute

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		summary, err := generator.GenerateAll(ctx, []string{"cand-1", "cand-2", "cand-3"})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if summary.Processed != 2 {
			t.Errorf("expected the first batch processed, got %d", summary.Processed)
		}
	})

	t.Run("empty input publishes nothing to do", func(t *testing.T) {
		backend := &stubProfileBackend{}
		generator, _ := newTestGenerator(backend)

		summary, err := generator.GenerateAll(context.Background(), nil)
		if err != nil {
			t.Fatalf("generate all failed: %v", err)
		}
		if summary.Requested != 0 || summary.Processed != 0 {
			t.Errorf("expected empty summary, got %+v", summary)
		}
	})
}
