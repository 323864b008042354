package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/models"
)

// APIError is a non-2xx response from the recruiting backend, carrying the
// backend-provided message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Client is a typed HTTP client for the recruiting platform backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a backend client. timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		userAgent:  "interview-editor-service/1.0",
	}
}

// GetJob fetches a job posting.
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := c.getJSON(ctx, "/api/jobs/"+url.PathEscape(jobID), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetApplicants fetches the candidate roster for a job.
func (c *Client) GetApplicants(ctx context.Context, jobID string) ([]*models.Applicant, error) {
	var applicants []*models.Applicant
	path := "/api/candidates/applicants?jobId=" + url.QueryEscape(jobID)
	if err := c.getJSON(ctx, path, &applicants); err != nil {
		return nil, err
	}
	return applicants, nil
}

// GetQuestionSet fetches the stored question set for a candidate. A missing
// set is not an error: the result is (nil, nil).
func (c *Client) GetQuestionSet(ctx context.Context, candidateID string) (*models.QuestionSet, error) {
	var set models.QuestionSet
	path := "/api/interview-questions/question-set/" + url.PathEscape(candidateID)
	err := c.getJSON(ctx, path, &set)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &set, nil
}

// SaveQuestionSet creates or updates a question set and returns the stored
// version with backend-assigned identifiers.
func (c *Client) SaveQuestionSet(ctx context.Context, set *models.QuestionSet) (*models.QuestionSet, error) {
	var saved models.QuestionSet
	if err := c.postJSON(ctx, "/api/interview-questions/question-set", set, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteQuestionSet removes a candidate's stored question set.
func (c *Client) DeleteQuestionSet(ctx context.Context, candidateID string) error {
	path := "/api/interview-questions/question-set/" + url.PathEscape(candidateID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ApplyToAll rolls one question set out to every candidate of a job.
func (c *Client) ApplyToAll(ctx context.Context, req *models.ApplyToAllRequest) (*models.ApplyToAllResult, error) {
	var result models.ApplyToAllResult
	if err := c.postJSON(ctx, "/api/interview-questions/apply-to-all", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateSections asks the backend's AI to draft a full question set.
func (c *Client) GenerateSections(ctx context.Context, jobID, candidateID string) (*models.GeneratedSections, error) {
	body := map[string]string{"jobId": jobID, "candidateId": candidateID}
	var generated models.GeneratedSections
	if err := c.postJSON(ctx, "/api/interview-questions/generate-questions", body, &generated); err != nil {
		return nil, err
	}
	return &generated, nil
}

// GenerateQuestion asks the backend's AI to draft a single question for a
// section.
func (c *Client) GenerateQuestion(ctx context.Context, jobID, candidateID, sectionTitle string) (*models.GeneratedQuestion, error) {
	body := map[string]string{
		"jobId":        jobID,
		"candidateId":  candidateID,
		"sectionTitle": sectionTitle,
	}
	var question models.GeneratedQuestion
	if err := c.postJSON(ctx, "/api/interview-questions/generate-question", body, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

// FinalizeQuestions asks the backend to materialize the concrete questions a
// candidate will be asked, applying each section's random draw.
func (c *Client) FinalizeQuestions(ctx context.Context, candidateID string) error {
	path := "/api/interview-questions/generate-actual-questions/" + url.PathEscape(candidateID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// GenerateProfile triggers detailed profile extraction for one candidate.
func (c *Client) GenerateProfile(ctx context.Context, candidateID string) error {
	path := "/api/candidates/detail/" + url.PathEscape(candidateID)
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		c.logger.Warn("backend error response",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// readErrorMessage extracts the human-readable message from an error body.
// The backend uses {"detail": ...}; older endpoints use {"error": ...}.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || len(data) == 0 {
		return "no error details provided"
	}

	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	return string(data)
}
