package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/backend"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/config"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/editor"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/profiles"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/utils"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/validator"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	jobHandler     *JobHandler
	profileHandler *ProfileHandler
	authMiddleware *CasdoorAuthMiddleware
}

func NewHandlerManager(
	sessions *editor.Manager,
	directory *backend.CachedClient,
	generator *profiles.Generator,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(sessions, validator, logger),
		jobHandler:     NewJobHandler(directory, logger),
		profileHandler: NewProfileHandler(generator, validator, logger),
		authMiddleware: NewCasdoorAuthMiddleware(casdoorConfig),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware()) // Apply authentication to all API routes
	{
		// Job and roster lookups - all authenticated users
		jobs := v1.Group("/jobs")
		{
			jobs.GET("/:jobId", hm.jobHandler.GetJob)
			jobs.GET("/:jobId/applicants", hm.jobHandler.GetApplicants)
		}

		// Editing sessions - Recruiters and Admins only
		sessions := v1.Group("/sessions")
		sessions.Use(hm.authMiddleware.RequireRoleMiddleware(RoleRecruiter, RoleHiringManager))
		{
			sessions.POST("", hm.sessionHandler.OpenSession)
			sessions.GET("/:sessionId", hm.sessionHandler.GetSession)
			sessions.DELETE("/:sessionId", hm.sessionHandler.CloseSession)
			sessions.POST("/:sessionId/switch-candidate", hm.sessionHandler.SwitchCandidate)
			sessions.POST("/:sessionId/refresh", hm.sessionHandler.RefreshSession)
			sessions.POST("/:sessionId/save", hm.sessionHandler.SaveSession)
			sessions.POST("/:sessionId/apply-to-all", hm.sessionHandler.ApplyToAll)
			sessions.POST("/:sessionId/reset", hm.sessionHandler.ResetSession)
			sessions.POST("/:sessionId/generate", hm.sessionHandler.GenerateSections)
			sessions.GET("/:sessionId/export", hm.sessionHandler.ExportSession)

			// Section management
			sessions.POST("/:sessionId/sections", hm.sessionHandler.AddSection)
			sessions.PATCH("/:sessionId/sections/:sectionKey", hm.sessionHandler.UpdateSection)
			sessions.POST("/:sessionId/sections/:sectionKey/move", hm.sessionHandler.MoveSection)
			sessions.DELETE("/:sessionId/sections/:sectionKey", hm.sessionHandler.RemoveSection)
			sessions.PUT("/:sessionId/sections/:sectionKey/random-settings", hm.sessionHandler.SetRandomSettings)

			// Question management
			sessions.POST("/:sessionId/sections/:sectionKey/questions", hm.sessionHandler.AddQuestion)
			sessions.PATCH("/:sessionId/sections/:sectionKey/questions/:questionKey", hm.sessionHandler.UpdateQuestion)
			sessions.DELETE("/:sessionId/sections/:sectionKey/questions/:questionKey", hm.sessionHandler.RemoveQuestion)
			sessions.POST("/:sessionId/sections/:sectionKey/generate-question", hm.sessionHandler.GenerateQuestion)
		}

		// Candidate profile generation - Recruiters and Admins only
		candidates := v1.Group("/candidates")
		candidates.Use(hm.authMiddleware.RequireRoleMiddleware(RoleRecruiter))
		{
			candidates.POST("/generate-profiles", hm.profileHandler.GenerateProfiles)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "interview-editor-service",
		})
	})
}
