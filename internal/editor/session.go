package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/events"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/models"
)

// State is the session's current persistence phase. Exactly one backend
// operation may run at a time; edits are rejected while one is in flight.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateSaving     State = "saving"
	StateApplying   State = "applying"
	StateResetting  State = "resetting"
	StateGenerating State = "generating"
	StateRefreshing State = "refreshing"
)

// AI-generated questions are normalized into this answering time window.
const (
	minAITimeLimit = 30
	maxAITimeLimit = 180
)

// Backend is the slice of the recruiting platform API the editor consumes.
type Backend interface {
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	GetApplicants(ctx context.Context, jobID string) ([]*models.Applicant, error)
	GetQuestionSet(ctx context.Context, candidateID string) (*models.QuestionSet, error)
	SaveQuestionSet(ctx context.Context, set *models.QuestionSet) (*models.QuestionSet, error)
	DeleteQuestionSet(ctx context.Context, candidateID string) error
	ApplyToAll(ctx context.Context, req *models.ApplyToAllRequest) (*models.ApplyToAllResult, error)
	GenerateSections(ctx context.Context, jobID, candidateID string) (*models.GeneratedSections, error)
	GenerateQuestion(ctx context.Context, jobID, candidateID, sectionTitle string) (*models.GeneratedQuestion, error)
	FinalizeQuestions(ctx context.Context, candidateID string) error
}

// Session is one editing session over a job's question sets. It owns the
// working document, the baseline snapshot used for dirty detection, and the
// per-candidate AI quota store.
type Session struct {
	ID    string
	JobID string

	backend   Backend
	quota     *AIQuotaGate
	publisher events.EventPublisher
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	doc      *Document
	baseline *Document
}

// SaveResult reports the outcome of a successful save.
type SaveResult struct {
	QuestionSetID string     `json:"questionSetId"`
	TimeBudget    TimeBudget `json:"timeBudget"`
}

// RolloutResult pairs the backend's apply-to-all buckets with the roster
// size they were computed against.
type RolloutResult struct {
	RosterTotal int                       `json:"rosterTotal"`
	Successful  []models.AppliedCandidate `json:"successful"`
	Failed      []string                  `json:"failed"`
	Skipped     []string                  `json:"skipped"`
}

func newSession(jobID string, backend Backend, publisher events.EventPublisher, logger *slog.Logger) *Session {
	return &Session{
		ID:        uuid.New().String(),
		JobID:     jobID,
		backend:   backend,
		quota:     NewAIQuotaGate(),
		publisher: publisher,
		logger:    logger,
		state:     StateIdle,
	}
}

// begin transitions idle → next, rejecting overlap with a running operation.
func (s *Session) begin(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrOperationInProgress
	}
	s.state = next
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}

// State returns the session's current persistence phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CandidateID returns the selection key currently being edited.
func (s *Session) CandidateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.CandidateID
}

// Dirty reports whether the document diverges from its loaded baseline.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

func (s *Session) dirtyLocked() bool {
	if s.doc == nil {
		return false
	}
	return !s.doc.Equal(s.baseline)
}

// Load fetches the candidate's stored question set. A 404 from the backend
// means "no set yet" and yields an empty document.
func (s *Session) Load(ctx context.Context, candidateID string) error {
	return s.load(ctx, candidateID, StateLoading)
}

// Refresh re-fetches the current candidate's set from the backend, replacing
// local state with the server's view.
func (s *Session) Refresh(ctx context.Context) error {
	return s.load(ctx, s.CandidateID(), StateRefreshing)
}

func (s *Session) load(ctx context.Context, candidateID string, phase State) error {
	if err := s.begin(phase); err != nil {
		return err
	}
	defer s.end()

	set, err := s.backend.GetQuestionSet(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("failed to load question set: %w", err)
	}

	var doc *Document
	if set == nil {
		doc = NewDocument(s.JobID, candidateID)
	} else {
		doc = FromQuestionSet(set)
		if doc.JobID == "" {
			doc.JobID = s.JobID
		}
		s.quota.Seed(candidateID, set.AIGenerationUsed)
	}

	s.mu.Lock()
	s.doc = doc
	s.baseline = doc.Clone()
	s.mu.Unlock()

	s.logger.Info("question set loaded",
		"session_id", s.ID,
		"candidate_id", candidateID,
		"existing", set != nil,
	)
	return nil
}

// SwitchCandidate changes which candidate the session edits. Unsaved changes
// block the switch unless the caller explicitly discards them.
func (s *Session) SwitchCandidate(ctx context.Context, candidateID string, discard bool) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrOperationInProgress
	}
	if s.dirtyLocked() && !discard {
		s.mu.Unlock()
		return ErrUnsavedChanges
	}
	s.mu.Unlock()

	return s.Load(ctx, candidateID)
}

// Save validates the document, enforces the time budget floor, persists the
// set and re-baselines. A best-effort follow-up asks the backend to
// materialize the session-ready questions.
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	if err := s.begin(StateSaving); err != nil {
		return nil, err
	}
	defer s.end()

	// Snapshot reads the document under the lock, so every mutation here
	// must hold it too. The lock is dropped only around backend calls.
	s.mu.Lock()
	doc := s.doc

	if err := ValidateDocument(doc); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	budget := CalculateTimeBudget(doc)
	if !budget.MeetsMinimum() {
		s.mu.Unlock()
		return nil, NewValidationError("the interview must run at least %d minutes; current total is %dm %ds",
			MinInterviewMinutes, budget.Minutes, budget.Seconds)
	}

	assignIdentifiers(doc)
	BackfillBaselines(doc)

	set := doc.ToQuestionSet()
	candidateID := doc.CandidateID
	s.mu.Unlock()

	set.AIGenerationUsed = s.quota.Used(candidateID)

	if set.QuestionSetID == "" {
		existing, err := s.backend.GetQuestionSet(ctx, candidateID)
		if err != nil {
			s.logger.Warn("could not probe for existing question set, creating new",
				"candidate_id", candidateID, "error", err)
		} else if existing != nil {
			set.QuestionSetID = existing.QuestionSetID
		}
	}

	saved, err := s.backend.SaveQuestionSet(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("failed to save question set: %w", err)
	}

	s.mu.Lock()
	if saved.QuestionSetID != "" {
		doc.QuestionSetID = saved.QuestionSetID
	}
	doc.AIGenerationUsed = set.AIGenerationUsed
	s.baseline = doc.Clone()
	questionSetID := doc.QuestionSetID
	jobID := doc.JobID
	sectionCount := len(doc.Sections)
	questionCount := doc.QuestionCount()
	s.mu.Unlock()

	s.finalizeInBackground(ctx, candidateID)
	s.publish(ctx, events.NewEvent(events.EventQuestionSetSaved, events.QuestionSetSavedEvent{
		QuestionSetID: questionSetID,
		JobID:         jobID,
		CandidateID:   candidateID,
		SectionCount:  sectionCount,
		QuestionCount: questionCount,
	}))

	s.logger.Info("question set saved",
		"session_id", s.ID,
		"candidate_id", candidateID,
		"question_set_id", questionSetID,
	)

	return &SaveResult{QuestionSetID: questionSetID, TimeBudget: budget}, nil
}

// finalizeInBackground fires the post-save "generate actual questions" call.
// Its failure is logged, never surfaced.
func (s *Session) finalizeInBackground(ctx context.Context, candidateID string) {
	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 60*time.Second)
	go func() {
		defer cancel()
		if err := s.backend.FinalizeQuestions(bgCtx, candidateID); err != nil {
			s.logger.Warn("post-save question finalization failed",
				"candidate_id", candidateID, "error", err)
		}
	}()
}

// ApplyToAll validates the current document and rolls it out to every
// candidate on the job's roster in one backend call.
func (s *Session) ApplyToAll(ctx context.Context, overwriteExisting, forceOverwrite bool) (*RolloutResult, error) {
	if err := s.begin(StateApplying); err != nil {
		return nil, err
	}
	defer s.end()

	s.mu.Lock()
	doc := s.doc

	if err := ValidateDocument(doc); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	budget := CalculateTimeBudget(doc)
	if !budget.MeetsMinimum() {
		s.mu.Unlock()
		return nil, NewValidationError("the interview must run at least %d minutes; current total is %dm %ds",
			MinInterviewMinutes, budget.Minutes, budget.Seconds)
	}

	assignIdentifiers(doc)
	BackfillBaselines(doc)
	set := doc.ToQuestionSet()
	s.mu.Unlock()

	roster, err := s.backend.GetApplicants(ctx, s.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applicant roster: %w", err)
	}

	result, err := s.backend.ApplyToAll(ctx, &models.ApplyToAllRequest{
		JobID:             s.JobID,
		QuestionSet:       set,
		Candidates:        roster,
		OverwriteExisting: overwriteExisting,
		ForceOverwrite:    forceOverwrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply question set to all candidates: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventRolloutCompleted, events.RolloutCompletedEvent{
		JobID:      s.JobID,
		Successful: len(result.Successful),
		Failed:     len(result.Failed),
		Skipped:    len(result.Skipped),
	}))

	s.logger.Info("question set applied to all candidates",
		"session_id", s.ID,
		"job_id", s.JobID,
		"successful", len(result.Successful),
		"failed", len(result.Failed),
		"skipped", len(result.Skipped),
		"roster_total", len(roster),
	)

	return &RolloutResult{
		RosterTotal: len(roster),
		Successful:  result.Successful,
		Failed:      result.Failed,
		Skipped:     result.Skipped,
	}, nil
}

// Reset deletes the candidate's stored question set, clears the local
// document and re-opens the AI quota.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.begin(StateResetting); err != nil {
		return err
	}
	defer s.end()

	candidateID := s.doc.CandidateID

	existing, err := s.backend.GetQuestionSet(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("failed to check for existing question set: %w", err)
	}
	if existing == nil {
		return ErrNothingToReset
	}

	if err := s.backend.DeleteQuestionSet(ctx, candidateID); err != nil {
		return fmt.Errorf("failed to delete question set: %w", err)
	}

	s.mu.Lock()
	s.doc = NewDocument(s.JobID, candidateID)
	s.baseline = s.doc.Clone()
	s.mu.Unlock()
	s.quota.Clear(candidateID)

	s.publish(ctx, events.NewEvent(events.EventQuestionSetReset, events.QuestionSetResetEvent{
		JobID:       s.JobID,
		CandidateID: candidateID,
	}))

	s.logger.Info("question set reset", "session_id", s.ID, "candidate_id", candidateID)
	return nil
}

// GenerateSections runs the one-shot bulk AI generation, appending the
// returned sections to the document. It is refused once the candidate's
// quota is consumed.
func (s *Session) GenerateSections(ctx context.Context) error {
	if err := s.begin(StateGenerating); err != nil {
		return err
	}
	defer s.end()

	doc := s.doc
	candidateID := doc.CandidateID

	if err := s.quota.Consume(candidateID); err != nil {
		return err
	}

	generated, err := s.backend.GenerateSections(ctx, s.JobID, candidateID)
	if err != nil {
		s.quota.Clear(candidateID)
		return fmt.Errorf("failed to generate question sections: %w", err)
	}

	s.mu.Lock()
	for _, sm := range generated.Sections {
		section := sectionFromModel(sm)
		for _, q := range section.Questions {
			normalizeAIQuestion(q)
		}
		ReconcileRandomSettings(section)
		doc.Sections = append(doc.Sections, section)
		doc.SetExpanded(section.Key, true)
	}
	doc.AIGenerationUsed = true
	s.mu.Unlock()

	s.logger.Info("AI sections generated",
		"session_id", s.ID,
		"candidate_id", candidateID,
		"sections", len(generated.Sections),
	)
	return nil
}

// GenerateQuestion appends a single AI-drafted question to a section. Unlike
// bulk generation this is not quota gated and may be repeated freely.
func (s *Session) GenerateQuestion(ctx context.Context, sectionKey string) (*Question, error) {
	if err := s.begin(StateGenerating); err != nil {
		return nil, err
	}
	defer s.end()

	doc := s.doc
	section, err := doc.FindSection(sectionKey)
	if err != nil {
		return nil, err
	}

	generated, err := s.backend.GenerateQuestion(ctx, s.JobID, doc.CandidateID, section.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}

	question := &Question{
		Key:           uuid.New().String(),
		Text:          generated.Text,
		TimeLimit:     generated.TimeLimit,
		IsCompulsory:  generated.IsCompulsory,
		IsAIGenerated: true,
	}
	normalizeAIQuestion(question)

	s.mu.Lock()
	section.Questions = append(section.Questions, question)
	ReconcileRandomSettings(section)
	s.mu.Unlock()

	return question, nil
}

func (s *Session) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicEditorEvents, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.Type, "error", err)
	}
}

// assignIdentifiers gives backend identifiers to any section or question
// that does not have one yet.
func assignIdentifiers(doc *Document) {
	for _, section := range doc.Sections {
		if section.SectionID == "" {
			section.SectionID = "sect-" + uuid.New().String()
		}
		for _, q := range section.Questions {
			if q.QuestionID == "" {
				q.QuestionID = "ques-" + uuid.New().String()
			}
		}
	}
}

// normalizeAIQuestion clamps the answering time into the AI window and fixes
// the baseline triple to the generated values.
func normalizeAIQuestion(q *Question) {
	q.IsAIGenerated = true
	if q.TimeLimit == 0 {
		q.TimeLimit = DefaultTimeLimit
	}
	if q.TimeLimit < minAITimeLimit {
		q.TimeLimit = minAITimeLimit
	}
	if q.TimeLimit > maxAITimeLimit {
		q.TimeLimit = maxAITimeLimit
	}

	if q.OriginalText == nil {
		text := q.Text
		q.OriginalText = &text
	}
	if q.OriginalTimeLimit == nil {
		timeLimit := q.TimeLimit
		q.OriginalTimeLimit = &timeLimit
	}
	if q.OriginalCompulsory == nil {
		compulsory := q.IsCompulsory
		q.OriginalCompulsory = &compulsory
	}
	UpdateModificationStatus(q)
}
