package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/events"
)

func newTestManager(backend Backend) *Manager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(backend, events.NewMockEventPublisher(logger), logger)
}

func TestManagerOpen(t *testing.T) {
	t.Run("verifies the job before opening", func(t *testing.T) {
		manager := newTestManager(newStubBackend())

		if _, err := manager.Open(context.Background(), "job-missing", "cand-1"); err == nil {
			t.Fatal("expected error for an unknown job")
		}
		if manager.Count() != 0 {
			t.Error("failed open must not register a session")
		}
	})

	t.Run("opened sessions are retrievable until closed", func(t *testing.T) {
		manager := newTestManager(newStubBackend())

		session, err := manager.Open(context.Background(), "job-1", "cand-1")
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if manager.Count() != 1 {
			t.Fatalf("expected 1 session, got %d", manager.Count())
		}

		got, err := manager.Get(session.ID)
		if err != nil || got != session {
			t.Fatalf("expected the opened session back, got %v/%v", got, err)
		}

		if err := manager.Close(session.ID); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if _, err := manager.Get(session.ID); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after close, got %v", err)
		}
		if err := manager.Close(session.ID); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("closing twice should fail, got %v", err)
		}
	})
}
