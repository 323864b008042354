package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/backend"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/editor"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/utils"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/validator"
)

// ErrorResponse is the uniform error body returned by the API.
type ErrorResponse struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides logging and error translation shared by all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs with the request-scoped logger when available.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// bindJSON parses the request body and validates it, answering 400 itself on
// failure.
func (h *BaseHandler) bindJSON(c *gin.Context, v *validator.Validator, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	if err := v.Validate(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Validation failed",
				Details: fieldErrors,
			})
			return false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return false
	}
	return true
}

// handleServiceError maps editor and backend errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErr *editor.ValidationError
	var quotaErr *editor.QuotaError
	var apiErr *backend.APIError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: validationErr.Message,
		})
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "quota_exhausted",
			Message: quotaErr.Error(),
		})
	case errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, editor.ErrSectionNotFound),
		errors.Is(err, editor.ErrQuestionNotFound),
		errors.Is(err, editor.ErrNothingToReset):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, editor.ErrOperationInProgress),
		errors.Is(err, editor.ErrUnsavedChanges):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, editor.ErrConfirmationRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "confirmation_required",
			Message: err.Error(),
		})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "backend_error",
			Message: apiErr.Message,
		})
	default:
		h.logger.Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}
