package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/models"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/utils"
)

// JobDirectory is the slice of the backend the job endpoints need.
type JobDirectory interface {
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	GetApplicants(ctx context.Context, jobID string) ([]*models.Applicant, error)
}

// JobHandler serves read-only job and roster lookups used by the editor UI
// to populate the candidate selector.
type JobHandler struct {
	BaseHandler
	directory JobDirectory
}

func NewJobHandler(directory JobDirectory, logger utils.Logger) *JobHandler {
	return &JobHandler{
		BaseHandler: NewBaseHandler(logger),
		directory:   directory,
	}
}

// GetJob returns one job by ID.
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.directory.GetJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetApplicants returns the candidate roster of a job.
func (h *JobHandler) GetApplicants(c *gin.Context) {
	applicants, err := h.directory.GetApplicants(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobId":      c.Param("jobId"),
		"applicants": applicants,
		"total":      len(applicants),
	})
}
