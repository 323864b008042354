package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/events"
)

// Manager owns the live editing sessions. Each session corresponds to one
// recruiter working on one job's question sets.
type Manager struct {
	backend   Backend
	publisher events.EventPublisher
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(backend Backend, publisher events.EventPublisher, logger *slog.Logger) *Manager {
	return &Manager{
		backend:   backend,
		publisher: publisher,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Open verifies the job exists, creates a session and loads the candidate's
// question set into it.
func (m *Manager) Open(ctx context.Context, jobID, candidateID string) (*Session, error) {
	if _, err := m.backend.GetJob(ctx, jobID); err != nil {
		return nil, fmt.Errorf("failed to fetch job: %w", err)
	}

	session := newSession(jobID, m.backend, m.publisher, m.logger)
	if err := session.Load(ctx, candidateID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("editing session opened",
		"session_id", session.ID,
		"job_id", jobID,
		"candidate_id", candidateID,
	)
	return session, nil
}

// Get returns a live session by ID.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close drops a session. Unsaved changes are discarded; the durable state
// lives in the backend.
func (m *Manager) Close(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
