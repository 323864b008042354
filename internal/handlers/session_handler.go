package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/editor"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/export"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/utils"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/validator"
)

// SessionHandler exposes the question set editing sessions over HTTP. All
// state lives in the session manager; the handler only translates requests
// and errors.
type SessionHandler struct {
	BaseHandler
	sessions  *editor.Manager
	validator *validator.Validator
}

func NewSessionHandler(sessions *editor.Manager, v *validator.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
		validator:   v,
	}
}

func (h *SessionHandler) session(c *gin.Context) (*editor.Session, bool) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return session, true
}

// OpenSession starts an editing session for one candidate of a job and
// returns the loaded document.
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var req validator.OpenSessionRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	session, err := h.sessions.Open(c.Request.Context(), req.JobID, req.CandidateID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "session opened", "session_id", session.ID, "job_id", req.JobID, "candidate_id", req.CandidateID)
	c.JSON(http.StatusCreated, session.Snapshot())
}

// GetSession returns the current document of a session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// CloseSession discards a session. Unsaved changes are lost.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	if err := h.sessions.Close(c.Param("sessionId")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SwitchCandidate moves the session to a different candidate of the same
// job. With unsaved changes the client must explicitly discard them.
func (h *SessionHandler) SwitchCandidate(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.SwitchCandidateRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	if err := session.SwitchCandidate(c.Request.Context(), req.CandidateID, req.DiscardChanges); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "session switched candidate", "session_id", session.ID, "candidate_id", req.CandidateID)
	c.JSON(http.StatusOK, session.Snapshot())
}

// RefreshSession reloads the persisted question set, dropping local edits.
func (h *SessionHandler) RefreshSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.Refresh(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SaveSession validates and persists the working document.
func (h *SessionHandler) SaveSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	result, err := session.Save(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "question set saved", "session_id", session.ID, "question_set_id", result.QuestionSetID)
	c.JSON(http.StatusOK, gin.H{
		"result":   result,
		"document": session.Snapshot(),
	})
}

// ApplyToAll saves the working document and rolls it out to every candidate
// of the job in one backend call.
func (h *SessionHandler) ApplyToAll(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.ApplyToAllRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	result, err := session.ApplyToAll(c.Request.Context(), req.OverwriteExisting, req.ForceOverwrite)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "question set applied to roster", "session_id", session.ID,
		"successful", len(result.Successful), "failed", len(result.Failed), "skipped", len(result.Skipped))
	c.JSON(http.StatusOK, result)
}

// ResetSession deletes the candidate's persisted question set and clears the
// working document.
func (h *SessionHandler) ResetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.ResetRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}
	if !req.Confirmed {
		h.handleServiceError(c, editor.ErrConfirmationRequired)
		return
	}

	if err := session.Reset(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "question set reset", "session_id", session.ID, "candidate_id", session.CandidateID())
	c.JSON(http.StatusOK, session.Snapshot())
}

// GenerateSections asks the backend for a full AI question set. The first
// successful call consumes the candidate's generation quota.
func (h *SessionHandler) GenerateSections(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.GenerateSections(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "question set generated", "session_id", session.ID, "candidate_id", session.CandidateID())
	c.JSON(http.StatusOK, session.Snapshot())
}

// AddSection appends a new section.
func (h *SessionHandler) AddSection(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.AddSectionRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	section, err := session.AddSection(req.Title)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sectionKey": section.Key,
		"document":   session.Snapshot(),
	})
}

// UpdateSection renames a section or records its expansion state.
func (h *SessionHandler) UpdateSection(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.UpdateSectionRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	sectionKey := c.Param("sectionKey")
	if req.Title != nil {
		if err := session.RenameSection(sectionKey, *req.Title); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}
	if req.Expanded != nil {
		if err := session.SetExpanded(sectionKey, *req.Expanded); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// MoveSection moves a section one position up or down.
func (h *SessionHandler) MoveSection(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.MoveSectionRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	if err := session.MoveSection(c.Param("sectionKey"), req.Direction); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// RemoveSection deletes a section. Removing a section that still has
// questions requires confirmed=true in the request body.
func (h *SessionHandler) RemoveSection(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.RemoveSectionRequest
	if c.Request.ContentLength > 0 {
		if !h.bindJSON(c, h.validator, &req) {
			return
		}
	}

	if err := session.RemoveSection(c.Param("sectionKey"), req.Confirmed); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// SetRandomSettings enables or disables random selection for a section, or
// adjusts the number of questions drawn.
func (h *SessionHandler) SetRandomSettings(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.RandomSettingsRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	if err := session.SetRandomSettings(c.Param("sectionKey"), req.Enabled, req.Count); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// AddQuestion appends a blank compulsory question to a section.
func (h *SessionHandler) AddQuestion(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	question, err := session.AddQuestion(c.Param("sectionKey"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"questionKey": question.Key,
		"document":    session.Snapshot(),
	})
}

// UpdateQuestion edits the text, time limit or compulsory flag of a question.
func (h *SessionHandler) UpdateQuestion(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req validator.UpdateQuestionRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	err := session.UpdateQuestion(c.Param("sectionKey"), c.Param("questionKey"), req.Text, req.TimeLimit, req.IsCompulsory)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// RemoveQuestion deletes a question from a section.
func (h *SessionHandler) RemoveQuestion(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.RemoveQuestion(c.Param("sectionKey"), c.Param("questionKey")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// GenerateQuestion asks the backend for one AI question for a section. This
// does not consume the candidate's generation quota.
func (h *SessionHandler) GenerateQuestion(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	question, err := session.GenerateQuestion(c.Request.Context(), c.Param("sectionKey"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"questionKey": question.Key,
		"document":    session.Snapshot(),
	})
}

// ExportSession streams the working document as an Excel workbook.
func (h *SessionHandler) ExportSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	view := session.Snapshot()
	workbook, err := export.QuestionSetWorkbook(view)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("interview-questions-%s-%s.xlsx", view.CandidateID, time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("excel export failed", "session_id", session.ID, "error", err)
	}
}
