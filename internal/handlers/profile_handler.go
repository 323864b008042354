package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/profiles"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/utils"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/validator"
)

// ProfileHandler triggers candidate profile generation after a CV intake.
type ProfileHandler struct {
	BaseHandler
	generator *profiles.Generator
	validator *validator.Validator
}

func NewProfileHandler(generator *profiles.Generator, v *validator.Validator, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(logger),
		generator:   generator,
		validator:   v,
	}
}

// GenerateProfiles runs profile generation for a batch of candidates and
// reports how many were processed. Failures are counted, not retried.
func (h *ProfileHandler) GenerateProfiles(c *gin.Context) {
	var req validator.GenerateProfilesRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	summary, err := h.generator.GenerateAll(c.Request.Context(), req.CandidateIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "candidate profiles generated",
		"requested", summary.Requested, "processed", summary.Processed, "failed", summary.Failed)
	c.JSON(http.StatusOK, summary)
}
