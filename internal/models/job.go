package models

// Job describes a job posting as returned by the recruiting backend.
type Job struct {
	JobID            string   `json:"jobId"`
	JobTitle         string   `json:"jobTitle"`
	JobDescription   string   `json:"jobDescription,omitempty"`
	Departments      []string `json:"departments,omitempty"`
	RequiredSkills   []string `json:"requiredSkills,omitempty"`
	MinimumCGPA      float64  `json:"minimumCGPA,omitempty"`
	ApplicationCount int      `json:"applicationCount,omitempty"`
}

// Applicant is one entry in a job's candidate roster.
type Applicant struct {
	CandidateID   string `json:"candidateId"`
	ApplicationID string `json:"applicationId"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Status        string `json:"status,omitempty"`
}

// GeneratedQuestion is a single AI-suggested question returned by the backend.
type GeneratedQuestion struct {
	Text         string `json:"text"`
	TimeLimit    int    `json:"timeLimit"`
	IsCompulsory bool   `json:"isCompulsory"`
}

// GeneratedSections is the result of a bulk AI generation call.
type GeneratedSections struct {
	Sections         []*Section `json:"sections"`
	AIGenerationUsed bool       `json:"aiGenerationUsed"`
}

// ApplyToAllRequest asks the backend to stamp one question set onto every
// candidate of a job.
type ApplyToAllRequest struct {
	JobID             string       `json:"jobId"`
	QuestionSet       *QuestionSet `json:"questionSet"`
	Candidates        []*Applicant `json:"candidates"`
	OverwriteExisting bool         `json:"overwriteExisting"`
	ForceOverwrite    bool         `json:"forceOverwrite"`
}

// AppliedCandidate records one successful per-candidate copy during a rollout.
type AppliedCandidate struct {
	CandidateID   string `json:"candidateId"`
	QuestionSetID string `json:"questionSetId"`
}

// ApplyToAllResult buckets every candidate of the roster into exactly one of
// successful, failed or skipped.
type ApplyToAllResult struct {
	Successful []AppliedCandidate `json:"successful"`
	Failed     []string           `json:"failed"`
	Skipped    []string           `json:"skipped"`
}
