package validator

// OpenSessionRequest starts an editing session for one candidate of a job.
// CandidateID may be the literal "all" to edit the candidate-agnostic set.
type OpenSessionRequest struct {
	JobID       string `json:"jobId" validate:"required"`
	CandidateID string `json:"candidateId" validate:"required"`
}

// SwitchCandidateRequest changes the candidate a session is editing.
type SwitchCandidateRequest struct {
	CandidateID    string `json:"candidateId" validate:"required"`
	DiscardChanges bool   `json:"discardChanges"`
}

// AddSectionRequest creates a new section.
type AddSectionRequest struct {
	Title string `json:"title" validate:"required,section_title"`
}

// UpdateSectionRequest renames a section or toggles its expansion state.
type UpdateSectionRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Expanded *bool   `json:"expanded"`
}

// MoveSectionRequest moves a section one position up or down.
type MoveSectionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// RemoveSectionRequest deletes a section; Confirmed must be true when the
// section still contains questions.
type RemoveSectionRequest struct {
	Confirmed bool `json:"confirmed"`
}

// RandomSettingsRequest enables or disables random selection, or adjusts the
// drawn count, for one section.
type RandomSettingsRequest struct {
	Enabled *bool `json:"enabled"`
	Count   *int  `json:"count" validate:"omitempty,min=0"`
}

// UpdateQuestionRequest edits one or more fields of a question.
type UpdateQuestionRequest struct {
	Text         *string `json:"text" validate:"omitempty,question_text"`
	TimeLimit    *int    `json:"timeLimit" validate:"omitempty,question_time_limit"`
	IsCompulsory *bool   `json:"isCompulsory"`
}

// ApplyToAllRequest rolls the current question set out to every candidate of
// the job.
type ApplyToAllRequest struct {
	OverwriteExisting bool `json:"overwriteExisting"`
	ForceOverwrite    bool `json:"forceOverwrite"`
}

// ResetRequest deletes the candidate's persisted question set. Confirmed
// guards against accidental resets.
type ResetRequest struct {
	Confirmed bool `json:"confirmed"`
}

// GenerateProfilesRequest triggers background profile generation for a batch
// of candidates.
type GenerateProfilesRequest struct {
	CandidateIDs []string `json:"candidateIds" validate:"required,min=1,dive,required"`
}
