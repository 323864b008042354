package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/events"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/models"
)

type stubBackend struct {
	mu sync.Mutex

	jobs        map[string]*models.Job
	sets        map[string]*models.QuestionSet
	applicants  []*models.Applicant
	generated   *models.GeneratedSections
	generatedQ  *models.GeneratedQuestion
	applyResult *models.ApplyToAllResult

	generateErr error
	saveCalls   int
	savedSets   []*models.QuestionSet
	deleted     []string
	finalized   chan string
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		jobs:      map[string]*models.Job{"job-1": {JobID: "job-1", JobTitle: "Backend Engineer"}},
		sets:      make(map[string]*models.QuestionSet),
		finalized: make(chan string, 4),
	}
}

func (b *stubBackend) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, ok := b.jobs[jobID]
	if !ok {
		return nil, errors.New("job not found")
	}
	return job, nil
}

func (b *stubBackend) GetApplicants(ctx context.Context, jobID string) ([]*models.Applicant, error) {
	return b.applicants, nil
}

func (b *stubBackend) GetQuestionSet(ctx context.Context, candidateID string) (*models.QuestionSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sets[candidateID], nil
}

func (b *stubBackend) SaveQuestionSet(ctx context.Context, set *models.QuestionSet) (*models.QuestionSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveCalls++
	b.savedSets = append(b.savedSets, set)
	saved := set.Clone()
	if saved.QuestionSetID == "" {
		saved.QuestionSetID = fmt.Sprintf("qs-%d", b.saveCalls)
	}
	b.sets[set.CandidateID] = saved
	return saved, nil
}

func (b *stubBackend) DeleteQuestionSet(ctx context.Context, candidateID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, candidateID)
	delete(b.sets, candidateID)
	return nil
}

func (b *stubBackend) ApplyToAll(ctx context.Context, req *models.ApplyToAllRequest) (*models.ApplyToAllResult, error) {
	return b.applyResult, nil
}

func (b *stubBackend) GenerateSections(ctx context.Context, jobID, candidateID string) (*models.GeneratedSections, error) {
	if b.generateErr != nil {
		return nil, b.generateErr
	}
	return b.generated, nil
}

func (b *stubBackend) GenerateQuestion(ctx context.Context, jobID, candidateID, sectionTitle string) (*models.GeneratedQuestion, error) {
	return b.generatedQ, nil
}

func (b *stubBackend) FinalizeQuestions(ctx context.Context, candidateID string) error {
	b.finalized <- candidateID
	return nil
}

func newTestSession(t *testing.T, backend Backend) (*Session, *events.MockEventPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	return newSession("job-1", backend, publisher, logger), publisher
}

// savableDocument holds 5 compulsory questions at 60 seconds each, exactly
// the 5 minute floor.
func savableDocument(session *Session, t *testing.T) {
	t.Helper()
	section, err := session.AddSection("Technical")
	if err != nil {
		t.Fatalf("add section failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		question, err := session.AddQuestion(section.Key)
		if err != nil {
			t.Fatalf("add question failed: %v", err)
		}
		text := fmt.Sprintf("question %d", i+1)
		if err := session.UpdateQuestion(section.Key, question.Key, &text, nil, nil); err != nil {
			t.Fatalf("update question failed: %v", err)
		}
	}
}

func TestSessionLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing set yields an empty document", func(t *testing.T) {
		session, _ := newTestSession(t, newStubBackend())

		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		view := session.Snapshot()
		if len(view.Sections) != 0 {
			t.Errorf("expected empty document, got %d sections", len(view.Sections))
		}
		if view.Dirty {
			t.Error("fresh document should not be dirty")
		}
	})

	t.Run("existing set seeds the AI quota", func(t *testing.T) {
		backend := newStubBackend()
		backend.sets["cand-1"] = &models.QuestionSet{
			QuestionSetID:    "qs-1",
			CandidateID:      "cand-1",
			JobID:            "job-1",
			AIGenerationUsed: true,
			Sections: []*models.Section{{
				SectionID: "sect-1",
				Title:     "Technical",
				Questions: []*models.Question{
					{QuestionID: "ques-1", Text: "tell me about yourself", TimeLimit: 60, IsCompulsory: true},
				},
			}},
		}
		session, _ := newTestSession(t, backend)

		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		err := session.GenerateSections(ctx)
		var quotaErr *QuotaError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("expected QuotaError after loading a consumed set, got %v", err)
		}
	})
}

func TestSessionSave(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns identifiers and re-baselines", func(t *testing.T) {
		backend := newStubBackend()
		session, publisher := newTestSession(t, backend)
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		savableDocument(session, t)

		if !session.Dirty() {
			t.Fatal("document with local edits should be dirty")
		}

		result, err := session.Save(ctx)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if result.QuestionSetID == "" {
			t.Error("save should adopt the backend's question set ID")
		}
		if session.Dirty() {
			t.Error("saved document should match its baseline")
		}

		saved := backend.savedSets[0]
		for _, s := range saved.Sections {
			if !strings.HasPrefix(s.SectionID, "sect-") {
				t.Errorf("section ID %q missing sect- prefix", s.SectionID)
			}
			for _, q := range s.Questions {
				if !strings.HasPrefix(q.QuestionID, "ques-") {
					t.Errorf("question ID %q missing ques- prefix", q.QuestionID)
				}
				if q.OriginalText == nil {
					t.Error("save should backfill question baselines")
				}
			}
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventQuestionSetSaved {
			t.Fatalf("expected one %s event, got %v", events.EventQuestionSetSaved, published)
		}

		select {
		case candidateID := <-backend.finalized:
			if candidateID != "cand-1" {
				t.Errorf("finalization requested for %s", candidateID)
			}
		case <-time.After(2 * time.Second):
			t.Error("expected post-save finalization call")
		}
	})

	t.Run("rejects a document below the time floor", func(t *testing.T) {
		backend := newStubBackend()
		session, _ := newTestSession(t, backend)
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		section, _ := session.AddSection("Technical")
		question, _ := session.AddQuestion(section.Key)
		text := "only one short question"
		if err := session.UpdateQuestion(section.Key, question.Key, &text, nil, nil); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		_, err := session.Save(ctx)
		assertValidationError(t, err, "at least 5 minutes")
		if backend.saveCalls != 0 {
			t.Error("invalid document must not reach the backend")
		}
	})

	t.Run("adopts an existing set ID found by probing", func(t *testing.T) {
		backend := newStubBackend()
		session, _ := newTestSession(t, backend)
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		// The set appears after load, as happens when another editor saves
		// first. The pre-save probe must pick up its ID.
		backend.mu.Lock()
		backend.sets["cand-1"] = &models.QuestionSet{QuestionSetID: "qs-existing", CandidateID: "cand-1"}
		backend.mu.Unlock()
		savableDocument(session, t)

		result, err := session.Save(ctx)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if result.QuestionSetID != "qs-existing" {
			t.Errorf("expected existing ID qs-existing, got %s", result.QuestionSetID)
		}
	})
}

func TestSessionSwitchCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("dirty document blocks the switch", func(t *testing.T) {
		session, _ := newTestSession(t, newStubBackend())
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if _, err := session.AddSection("Draft"); err != nil {
			t.Fatalf("add section failed: %v", err)
		}

		if err := session.SwitchCandidate(ctx, "cand-2", false); !errors.Is(err, ErrUnsavedChanges) {
			t.Fatalf("expected ErrUnsavedChanges, got %v", err)
		}
		if session.CandidateID() != "cand-1" {
			t.Error("blocked switch must keep the current candidate")
		}
	})

	t.Run("explicit discard allows the switch", func(t *testing.T) {
		session, _ := newTestSession(t, newStubBackend())
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if _, err := session.AddSection("Draft"); err != nil {
			t.Fatalf("add section failed: %v", err)
		}

		if err := session.SwitchCandidate(ctx, "cand-2", true); err != nil {
			t.Fatalf("switch with discard failed: %v", err)
		}
		if session.CandidateID() != "cand-2" {
			t.Errorf("expected cand-2, got %s", session.CandidateID())
		}
		if session.Dirty() {
			t.Error("discarded edits should be gone after the switch")
		}
	})
}

func TestSessionApplyToAll(t *testing.T) {
	ctx := context.Background()

	backend := newStubBackend()
	backend.applicants = []*models.Applicant{
		{CandidateID: "cand-1"}, {CandidateID: "cand-2"}, {CandidateID: "cand-3"},
		{CandidateID: "cand-4"}, {CandidateID: "cand-5"},
	}
	backend.applyResult = &models.ApplyToAllResult{
		Successful: []models.AppliedCandidate{
			{CandidateID: "cand-1", QuestionSetID: "qs-1"},
			{CandidateID: "cand-2", QuestionSetID: "qs-2"},
			{CandidateID: "cand-3", QuestionSetID: "qs-3"},
		},
		Skipped: []string{"cand-4", "cand-5"},
	}

	session, publisher := newTestSession(t, backend)
	if err := session.Load(ctx, AllCandidates); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	savableDocument(session, t)

	result, err := session.ApplyToAll(ctx, false, false)
	if err != nil {
		t.Fatalf("apply-to-all failed: %v", err)
	}

	if result.RosterTotal != 5 {
		t.Errorf("expected roster total 5, got %d", result.RosterTotal)
	}
	if len(result.Successful) != 3 || len(result.Skipped) != 2 || len(result.Failed) != 0 {
		t.Errorf("unexpected buckets: %d successful, %d failed, %d skipped",
			len(result.Successful), len(result.Failed), len(result.Skipped))
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventRolloutCompleted {
		t.Fatalf("expected one %s event, got %v", events.EventRolloutCompleted, published)
	}
}

func TestSessionReset(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing stored means nothing to reset", func(t *testing.T) {
		session, _ := newTestSession(t, newStubBackend())
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if err := session.Reset(ctx); !errors.Is(err, ErrNothingToReset) {
			t.Fatalf("expected ErrNothingToReset, got %v", err)
		}
	})

	t.Run("reset deletes the set and reopens the quota", func(t *testing.T) {
		backend := newStubBackend()
		backend.sets["cand-1"] = &models.QuestionSet{
			QuestionSetID:    "qs-1",
			CandidateID:      "cand-1",
			AIGenerationUsed: true,
			Sections: []*models.Section{{
				SectionID: "sect-1",
				Title:     "Technical",
				Questions: []*models.Question{
					{QuestionID: "ques-1", Text: "q", TimeLimit: 60, IsCompulsory: true},
				},
			}},
		}
		backend.generated = &models.GeneratedSections{
			Sections: []*models.Section{{
				Title: "Generated",
				Questions: []*models.Question{
					{Text: "generated question", TimeLimit: 60, IsCompulsory: true},
				},
			}},
		}
		session, publisher := newTestSession(t, backend)
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if err := session.Reset(ctx); err != nil {
			t.Fatalf("reset failed: %v", err)
		}

		if len(backend.deleted) != 1 || backend.deleted[0] != "cand-1" {
			t.Errorf("expected cand-1 deleted, got %v", backend.deleted)
		}
		if len(session.Snapshot().Sections) != 0 {
			t.Error("reset should clear the working document")
		}
		if err := session.GenerateSections(ctx); err != nil {
			t.Errorf("reset should reopen the AI quota: %v", err)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventQuestionSetReset {
			t.Fatalf("expected one %s event, got %v", events.EventQuestionSetReset, published)
		}
	})
}

func TestSessionGenerateSections(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and reconciles generated sections", func(t *testing.T) {
		backend := newStubBackend()
		backend.generated = &models.GeneratedSections{
			AIGenerationUsed: true,
			Sections: []*models.Section{{
				Title: "Technical",
				Questions: []*models.Question{
					{Text: "compulsory one", TimeLimit: 10, IsCompulsory: true},
					{Text: "optional one", TimeLimit: 400},
					{Text: "optional two", TimeLimit: 90},
				},
			}},
		}
		session, _ := newTestSession(t, backend)
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if err := session.GenerateSections(ctx); err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		view := session.Snapshot()
		if len(view.Sections) != 1 {
			t.Fatalf("expected 1 section, got %d", len(view.Sections))
		}
		section := view.Sections[0]
		if section.Questions[0].TimeLimit != 30 {
			t.Errorf("expected low time clamped to 30, got %d", section.Questions[0].TimeLimit)
		}
		if section.Questions[1].TimeLimit != 180 {
			t.Errorf("expected high time clamped to 180, got %d", section.Questions[1].TimeLimit)
		}
		if !section.Random.Enabled || section.Random.Count != 1 {
			t.Errorf("expected random selection enabled with count 1, got %+v", section.Random)
		}
		if !view.AIGenerationUsed {
			t.Error("generation should mark the document's quota flag")
		}

		if err := session.GenerateSections(ctx); err == nil {
			t.Fatal("second bulk generation should be refused")
		}
	})

	t.Run("backend failure reopens the quota", func(t *testing.T) {
		backend := newStubBackend()
		backend.generateErr = errors.New("model unavailable")
		session, _ := newTestSession(t, backend)
		if err := session.Load(ctx, "cand-1"); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if err := session.GenerateSections(ctx); err == nil {
			t.Fatal("expected generation failure")
		}

		backend.generateErr = nil
		backend.generated = &models.GeneratedSections{}
		if err := session.GenerateSections(ctx); err != nil {
			t.Errorf("retry after failure should be allowed: %v", err)
		}
	})
}

func TestSessionGenerateQuestion(t *testing.T) {
	ctx := context.Background()

	backend := newStubBackend()
	backend.generatedQ = &models.GeneratedQuestion{Text: "follow-up question", TimeLimit: 60}
	session, _ := newTestSession(t, backend)
	if err := session.Load(ctx, "cand-1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	section, err := session.AddSection("Technical")
	if err != nil {
		t.Fatalf("add section failed: %v", err)
	}

	// Single-question generation is not quota gated; repeat it.
	for i := 0; i < 3; i++ {
		question, err := session.GenerateQuestion(ctx, section.Key)
		if err != nil {
			t.Fatalf("generate question %d failed: %v", i, err)
		}
		if !question.IsAIGenerated {
			t.Error("generated question should be marked AI generated")
		}
		if question.OriginalText == nil || *question.OriginalText != "follow-up question" {
			t.Error("generated question should carry its generation baseline")
		}
	}

	view := session.Snapshot()
	if got := len(view.Sections[0].Questions); got != 3 {
		t.Errorf("expected 3 questions, got %d", got)
	}
}

// Exercised with -race: snapshots must stay consistent while a save is
// rewriting identifiers and baselines on the same document.
func TestSessionSnapshotDuringSave(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	session, _ := newTestSession(t, backend)
	if err := session.Load(ctx, "cand-1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	savableDocument(session, t)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				view := session.Snapshot()
				if len(view.Sections) != 1 {
					t.Errorf("expected 1 section in snapshot, got %d", len(view.Sections))
					return
				}
				if got := len(view.Sections[0].Questions); got != 5 {
					t.Errorf("expected 5 questions in snapshot, got %d", got)
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if _, err := session.Save(ctx); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		select {
		case <-backend.finalized:
		case <-time.After(2 * time.Second):
			t.Fatal("finalize call not observed")
		}
	}
	close(done)
	wg.Wait()
}
