package editor

import (
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/models"
)

// AllCandidates is the selection key of the candidate-agnostic question set
// used as the apply-to-all template.
const AllCandidates = "all"

// DefaultTimeLimit is the answering time assigned to a freshly added question.
const DefaultTimeLimit = 60

// Question is one interview question as held in the editor. Key is a local
// identifier that stays stable across reorders and saves; QuestionID is the
// backend identifier, empty until first save.
type Question struct {
	Key                string
	QuestionID         string
	Text               string
	TimeLimit          int
	IsCompulsory       bool
	IsAIGenerated      bool
	IsAIModified       bool
	OriginalText       *string
	OriginalTimeLimit  *int
	OriginalCompulsory *bool
}

// Section is one titled group of questions with random selection settings.
type Section struct {
	Key       string
	SectionID string
	Title     string
	Random    models.RandomSettings
	Questions []*Question

	// CountValid is false while the stored random count is outside the legal
	// window for the current question mix.
	CountValid bool
}

// Document is the in-memory question set being edited for one candidate.
type Document struct {
	CandidateID      string
	JobID            string
	QuestionSetID    string
	ApplicationID    string
	AIGenerationUsed bool
	Sections         []*Section

	expanded map[string]bool
}

// NewDocument creates an empty document for a candidate.
func NewDocument(jobID, candidateID string) *Document {
	return &Document{
		CandidateID: candidateID,
		JobID:       jobID,
		expanded:    make(map[string]bool),
	}
}

// FromQuestionSet builds a document from a stored question set, assigning
// fresh local keys.
func FromQuestionSet(set *models.QuestionSet) *Document {
	doc := &Document{
		CandidateID:      set.CandidateID,
		JobID:            set.JobID,
		QuestionSetID:    set.QuestionSetID,
		ApplicationID:    set.ApplicationID,
		AIGenerationUsed: set.AIGenerationUsed,
		expanded:         make(map[string]bool),
	}
	for _, s := range set.Sections {
		doc.Sections = append(doc.Sections, sectionFromModel(s))
	}
	return doc
}

func sectionFromModel(s *models.Section) *Section {
	section := &Section{
		Key:        uuid.New().String(),
		SectionID:  s.SectionID,
		Title:      s.Title,
		Random:     s.RandomSettings,
		CountValid: true,
	}
	for _, q := range s.Questions {
		section.Questions = append(section.Questions, questionFromModel(q))
	}
	return section
}

func questionFromModel(q *models.Question) *Question {
	clone := q.Clone()
	return &Question{
		Key:                uuid.New().String(),
		QuestionID:         clone.QuestionID,
		Text:               clone.Text,
		TimeLimit:          clone.TimeLimit,
		IsCompulsory:       clone.IsCompulsory,
		IsAIGenerated:      clone.IsAIGenerated,
		IsAIModified:       clone.IsAIModified,
		OriginalText:       clone.OriginalText,
		OriginalTimeLimit:  clone.OriginalTimeLimit,
		OriginalCompulsory: clone.OriginalCompulsory,
	}
}

// ToQuestionSet converts the document back to the wire representation.
func (d *Document) ToQuestionSet() *models.QuestionSet {
	set := &models.QuestionSet{
		QuestionSetID:    d.QuestionSetID,
		ApplicationID:    d.ApplicationID,
		CandidateID:      d.CandidateID,
		JobID:            d.JobID,
		AIGenerationUsed: d.AIGenerationUsed,
		Sections:         make([]*models.Section, 0, len(d.Sections)),
	}
	for _, s := range d.Sections {
		section := &models.Section{
			SectionID:      s.SectionID,
			Title:          s.Title,
			RandomSettings: s.Random,
			Questions:      make([]*models.Question, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			question := &models.Question{
				QuestionID:    q.QuestionID,
				Text:          q.Text,
				TimeLimit:     q.TimeLimit,
				IsCompulsory:  q.IsCompulsory,
				IsAIGenerated: q.IsAIGenerated,
				IsAIModified:  q.IsAIModified,
			}
			if q.OriginalText != nil {
				v := *q.OriginalText
				question.OriginalText = &v
			}
			if q.OriginalTimeLimit != nil {
				v := *q.OriginalTimeLimit
				question.OriginalTimeLimit = &v
			}
			if q.OriginalCompulsory != nil {
				v := *q.OriginalCompulsory
				question.OriginalCompulsory = &v
			}
			section.Questions = append(section.Questions, question)
		}
		set.Sections = append(set.Sections, section)
	}
	return set
}

// Clone returns a structural deep copy, preserving local keys and expansion
// state.
func (d *Document) Clone() *Document {
	clone := &Document{
		CandidateID:      d.CandidateID,
		JobID:            d.JobID,
		QuestionSetID:    d.QuestionSetID,
		ApplicationID:    d.ApplicationID,
		AIGenerationUsed: d.AIGenerationUsed,
		expanded:         make(map[string]bool, len(d.expanded)),
	}
	for key, open := range d.expanded {
		clone.expanded[key] = open
	}
	for _, s := range d.Sections {
		section := &Section{
			Key:        s.Key,
			SectionID:  s.SectionID,
			Title:      s.Title,
			Random:     s.Random,
			CountValid: s.CountValid,
		}
		for _, q := range s.Questions {
			qc := *q
			if q.OriginalText != nil {
				v := *q.OriginalText
				qc.OriginalText = &v
			}
			if q.OriginalTimeLimit != nil {
				v := *q.OriginalTimeLimit
				qc.OriginalTimeLimit = &v
			}
			if q.OriginalCompulsory != nil {
				v := *q.OriginalCompulsory
				qc.OriginalCompulsory = &v
			}
			section.Questions = append(section.Questions, &qc)
		}
		clone.Sections = append(clone.Sections, section)
	}
	return clone
}

// Equal reports whether two documents have the same persisted content. Local
// keys and expansion state are ignored.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return reflect.DeepEqual(d.ToQuestionSet(), other.ToQuestionSet())
}

// QuestionCount returns the total number of questions across all sections.
func (d *Document) QuestionCount() int {
	count := 0
	for _, s := range d.Sections {
		count += len(s.Questions)
	}
	return count
}

// FindSection returns the section with the given local key.
func (d *Document) FindSection(key string) (*Section, error) {
	for _, s := range d.Sections {
		if s.Key == key {
			return s, nil
		}
	}
	return nil, ErrSectionNotFound
}

// FindQuestion returns the question with the given local key.
func (s *Section) FindQuestion(key string) (*Question, error) {
	for _, q := range s.Questions {
		if q.Key == key {
			return q, nil
		}
	}
	return nil, ErrQuestionNotFound
}

// AddSection appends a new empty section with the given title and expands it.
func (d *Document) AddSection(title string) (*Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("section title cannot be empty")
	}
	section := &Section{
		Key:        uuid.New().String(),
		Title:      title,
		CountValid: true,
	}
	d.Sections = append(d.Sections, section)
	d.SetExpanded(section.Key, true)
	return section, nil
}

// RenameSection changes a section title. Empty titles are tolerated here and
// rejected at save time.
func (d *Document) RenameSection(key, title string) error {
	section, err := d.FindSection(key)
	if err != nil {
		return err
	}
	section.Title = title
	return nil
}

// RemoveSection deletes a section. A section that still holds questions
// requires confirmed to be true.
func (d *Document) RemoveSection(key string, confirmed bool) error {
	for i, s := range d.Sections {
		if s.Key != key {
			continue
		}
		if len(s.Questions) > 0 && !confirmed {
			return ErrConfirmationRequired
		}
		d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
		delete(d.expanded, key)
		return nil
	}
	return ErrSectionNotFound
}

// MoveSection swaps a section with its neighbor. Moves past either end are
// no-ops.
func (d *Document) MoveSection(key, direction string) error {
	for i, s := range d.Sections {
		if s.Key != key {
			continue
		}
		switch direction {
		case "up":
			if i > 0 {
				d.Sections[i-1], d.Sections[i] = d.Sections[i], d.Sections[i-1]
			}
		case "down":
			if i < len(d.Sections)-1 {
				d.Sections[i], d.Sections[i+1] = d.Sections[i+1], d.Sections[i]
			}
		default:
			return NewValidationError("direction must be up or down")
		}
		return nil
	}
	return ErrSectionNotFound
}

// SetExpanded records whether a section is open in the editor. The state is
// keyed by the section's local key, so it survives reorders and the ID
// assignment that happens on save.
func (d *Document) SetExpanded(key string, open bool) {
	if d.expanded == nil {
		d.expanded = make(map[string]bool)
	}
	d.expanded[key] = open
}

// IsExpanded reports whether a section is open in the editor.
func (d *Document) IsExpanded(key string) bool {
	return d.expanded[key]
}

// AddQuestion appends a blank compulsory question to a section.
func (d *Document) AddQuestion(sectionKey string) (*Question, error) {
	section, err := d.FindSection(sectionKey)
	if err != nil {
		return nil, err
	}
	question := &Question{
		Key:          uuid.New().String(),
		TimeLimit:    DefaultTimeLimit,
		IsCompulsory: true,
	}
	section.Questions = append(section.Questions, question)
	return question, nil
}

// RemoveQuestion deletes a question and reconciles the section's random
// selection settings with the new question mix.
func (d *Document) RemoveQuestion(sectionKey, questionKey string) error {
	section, err := d.FindSection(sectionKey)
	if err != nil {
		return err
	}
	for i, q := range section.Questions {
		if q.Key == questionKey {
			section.Questions = append(section.Questions[:i], section.Questions[i+1:]...)
			ReconcileRandomSettings(section)
			return nil
		}
	}
	return ErrQuestionNotFound
}
