package models

import "time"

// RandomSettings controls how many non-compulsory questions the interview
// runtime draws from a section.
type RandomSettings struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// Question is a single interview question as stored by the recruiting backend.
// The original* fields hold the baseline used to detect edits of AI-generated
// content; they are nil for questions that have never been saved.
type Question struct {
	QuestionID         string  `json:"questionId,omitempty"`
	Text               string  `json:"text"`
	TimeLimit          int     `json:"timeLimit"`
	IsCompulsory       bool    `json:"isCompulsory"`
	IsAIGenerated      bool    `json:"isAIGenerated"`
	IsAIModified       bool    `json:"isAIModified"`
	OriginalText       *string `json:"originalText,omitempty"`
	OriginalTimeLimit  *int    `json:"originalTimeLimit,omitempty"`
	OriginalCompulsory *bool   `json:"originalCompulsory,omitempty"`
}

// Section groups questions under a title with per-section random selection.
type Section struct {
	SectionID      string         `json:"sectionId,omitempty"`
	Title          string         `json:"title"`
	RandomSettings RandomSettings `json:"randomSettings"`
	Questions      []*Question    `json:"questions"`
}

// QuestionSet is the persisted interview question set for one candidate
// (or the candidate-agnostic template when CandidateID is "all").
type QuestionSet struct {
	QuestionSetID    string     `json:"questionSetId,omitempty"`
	ApplicationID    string     `json:"applicationId"`
	CandidateID      string     `json:"candidateId"`
	JobID            string     `json:"jobId,omitempty"`
	Sections         []*Section `json:"sections"`
	AIGenerationUsed bool       `json:"aiGenerationUsed"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy of the question.
func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	clone := *q
	if q.OriginalText != nil {
		v := *q.OriginalText
		clone.OriginalText = &v
	}
	if q.OriginalTimeLimit != nil {
		v := *q.OriginalTimeLimit
		clone.OriginalTimeLimit = &v
	}
	if q.OriginalCompulsory != nil {
		v := *q.OriginalCompulsory
		clone.OriginalCompulsory = &v
	}
	return &clone
}

// Clone returns a deep copy of the section and its questions.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Questions = make([]*Question, len(s.Questions))
	for i, q := range s.Questions {
		clone.Questions[i] = q.Clone()
	}
	return &clone
}

// Clone returns a deep copy of the question set.
func (qs *QuestionSet) Clone() *QuestionSet {
	if qs == nil {
		return nil
	}
	clone := *qs
	clone.Sections = make([]*Section, len(qs.Sections))
	for i, s := range qs.Sections {
		clone.Sections[i] = s.Clone()
	}
	if qs.CreatedAt != nil {
		t := *qs.CreatedAt
		clone.CreatedAt = &t
	}
	if qs.UpdatedAt != nil {
		t := *qs.UpdatedAt
		clone.UpdatedAt = &t
	}
	return &clone
}
