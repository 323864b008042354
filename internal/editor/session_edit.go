package editor

import "github.com/RextonRZ/EqualLens-project-sub000/internal/models"

// Structural edits go through the session so they are serialized with the
// persistence operations: an edit is rejected while a backend call is in
// flight for the same document.

// editLocked runs fn under the session lock, refusing while an operation is
// in progress.
func (s *Session) editLocked(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrOperationInProgress
	}
	return fn(s.doc)
}

// AddSection appends a new titled section.
func (s *Session) AddSection(title string) (section *Section, err error) {
	err = s.editLocked(func(doc *Document) error {
		section, err = doc.AddSection(title)
		return err
	})
	return section, err
}

// RenameSection changes a section's title.
func (s *Session) RenameSection(sectionKey, title string) error {
	return s.editLocked(func(doc *Document) error {
		return doc.RenameSection(sectionKey, title)
	})
}

// RemoveSection deletes a section, requiring confirmation when it still has
// questions.
func (s *Session) RemoveSection(sectionKey string, confirmed bool) error {
	return s.editLocked(func(doc *Document) error {
		return doc.RemoveSection(sectionKey, confirmed)
	})
}

// MoveSection moves a section up or down one position.
func (s *Session) MoveSection(sectionKey, direction string) error {
	return s.editLocked(func(doc *Document) error {
		return doc.MoveSection(sectionKey, direction)
	})
}

// SetExpanded records a section's open/closed state in the editor.
func (s *Session) SetExpanded(sectionKey string, open bool) error {
	return s.editLocked(func(doc *Document) error {
		if _, err := doc.FindSection(sectionKey); err != nil {
			return err
		}
		doc.SetExpanded(sectionKey, open)
		return nil
	})
}

// AddQuestion appends a blank compulsory question to a section.
func (s *Session) AddQuestion(sectionKey string) (question *Question, err error) {
	err = s.editLocked(func(doc *Document) error {
		question, err = doc.AddQuestion(sectionKey)
		return err
	})
	return question, err
}

// RemoveQuestion deletes a question and reconciles random selection.
func (s *Session) RemoveQuestion(sectionKey, questionKey string) error {
	return s.editLocked(func(doc *Document) error {
		return doc.RemoveQuestion(sectionKey, questionKey)
	})
}

// UpdateQuestion applies any combination of text, time limit and compulsory
// edits to one question, keeping modification flags and random selection
// settings consistent.
func (s *Session) UpdateQuestion(sectionKey, questionKey string, text *string, timeLimit *int, compulsory *bool) error {
	return s.editLocked(func(doc *Document) error {
		section, err := doc.FindSection(sectionKey)
		if err != nil {
			return err
		}
		question, err := section.FindQuestion(questionKey)
		if err != nil {
			return err
		}

		if text != nil {
			SetQuestionText(question, *text)
		}
		if timeLimit != nil {
			SetQuestionTimeLimit(question, *timeLimit)
		}
		if compulsory != nil && *compulsory != question.IsCompulsory {
			SetQuestionCompulsory(question, *compulsory)
			ReconcileRandomSettings(section)
		}
		return nil
	})
}

// SetRandomSettings toggles random selection or adjusts the draw count for a
// section.
func (s *Session) SetRandomSettings(sectionKey string, enabled *bool, count *int) error {
	return s.editLocked(func(doc *Document) error {
		section, err := doc.FindSection(sectionKey)
		if err != nil {
			return err
		}
		if enabled != nil {
			if err := SetRandomEnabled(section, *enabled); err != nil {
				return err
			}
		}
		if count != nil {
			SetRandomCount(section, *count)
		}
		return nil
	})
}

// QuestionView is the API representation of one question.
type QuestionView struct {
	Key           string `json:"key"`
	QuestionID    string `json:"questionId,omitempty"`
	Text          string `json:"text"`
	TimeLimit     int    `json:"timeLimit"`
	IsCompulsory  bool   `json:"isCompulsory"`
	IsAIGenerated bool   `json:"isAIGenerated"`
	IsAIModified  bool   `json:"isAIModified"`
}

// SectionView is the API representation of one section.
type SectionView struct {
	Key        string                `json:"key"`
	SectionID  string                `json:"sectionId,omitempty"`
	Title      string                `json:"title"`
	Random     models.RandomSettings `json:"randomSettings"`
	CountValid bool                  `json:"countValid"`
	Expanded   bool                  `json:"expanded"`
	Questions  []QuestionView        `json:"questions"`
}

// DocumentView is the API representation of the session's working document.
type DocumentView struct {
	SessionID        string        `json:"sessionId"`
	State            State         `json:"state"`
	JobID            string        `json:"jobId"`
	CandidateID      string        `json:"candidateId"`
	QuestionSetID    string        `json:"questionSetId,omitempty"`
	AIGenerationUsed bool          `json:"aiGenerationUsed"`
	Dirty            bool          `json:"dirty"`
	Sections         []SectionView `json:"sections"`
	TimeBudget       TimeBudget    `json:"timeBudget"`
}

// Snapshot renders the current document for the API.
func (s *Session) Snapshot() *DocumentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc
	view := &DocumentView{
		SessionID:        s.ID,
		State:            s.state,
		JobID:            doc.JobID,
		CandidateID:      doc.CandidateID,
		QuestionSetID:    doc.QuestionSetID,
		AIGenerationUsed: doc.AIGenerationUsed,
		Dirty:            s.dirtyLocked(),
		Sections:         make([]SectionView, 0, len(doc.Sections)),
		TimeBudget:       CalculateTimeBudget(doc),
	}

	for _, section := range doc.Sections {
		sv := SectionView{
			Key:        section.Key,
			SectionID:  section.SectionID,
			Title:      section.Title,
			Random:     section.Random,
			CountValid: section.CountValid,
			Expanded:   doc.IsExpanded(section.Key),
			Questions:  make([]QuestionView, 0, len(section.Questions)),
		}
		for _, q := range section.Questions {
			sv.Questions = append(sv.Questions, QuestionView{
				Key:           q.Key,
				QuestionID:    q.QuestionID,
				Text:          q.Text,
				TimeLimit:     q.TimeLimit,
				IsCompulsory:  q.IsCompulsory,
				IsAIGenerated: q.IsAIGenerated,
				IsAIModified:  q.IsAIModified,
			})
		}
		view.Sections = append(view.Sections, sv)
	}

	return view
}
