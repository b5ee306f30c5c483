package loans

import "github.com/gin-gonic/gin"

// SetupLoanRoutes configures the loan wizard routes
func SetupLoanRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/loan-types", controller.ListLoanTypes) // GET /api/v1/loan-types

	sessions := rg.Group("/loan-sessions")
	{
		sessions.POST("", controller.CreateSession)
		sessions.GET("/:id", controller.GetSession)
		sessions.DELETE("/:id", controller.CloseSession)
		sessions.PUT("/:id/language", controller.SetLanguage)

		// Navigation
		sessions.POST("/:id/loan-type", controller.SelectLoanType)
		sessions.POST("/:id/back", controller.Back)
		sessions.POST("/:id/forward", controller.Forward)

		// Stages
		sessions.POST("/:id/intro/toggle", controller.ToggleIntro)
		sessions.DELETE("/:id/documents/error", controller.DismissDocumentError)
		sessions.PUT("/:id/documents/:type", controller.UploadDocument)

		recording := sessions.Group("/:id/recording")
		{
			recording.POST("/start", controller.StartRecording)
			recording.POST("/chunks", controller.PushChunk)
			recording.POST("/failure", controller.ReportFailure)
			recording.POST("/stop", controller.StopRecording)
			recording.POST("/retake", controller.RetakeRecording)
			recording.POST("/submit", controller.SubmitRecording)
		}
	}
}

// Route definitions for reference:
//
// SESSIONS
// POST   /api/v1/loan-sessions                          - Start a wizard ({ "language": "hindi" } optional)
// GET    /api/v1/loan-sessions/:id                      - Current step and stage state
// DELETE /api/v1/loan-sessions/:id                      - End the session, releasing any capture
// PUT    /api/v1/loan-sessions/:id/language             - { "language": "tamil" }
//
// NAVIGATION
// POST   /api/v1/loan-sessions/:id/loan-type            - { "loan_type": "home" }
// POST   /api/v1/loan-sessions/:id/back
// POST   /api/v1/loan-sessions/:id/forward
//
// STAGES
// POST   /api/v1/loan-sessions/:id/intro/toggle         - Play or pause the intro
// PUT    /api/v1/loan-sessions/:id/documents/:type      - multipart "file"; type is aadhaar, pan, incomeProof or bankStatements
// DELETE /api/v1/loan-sessions/:id/documents/error      - Dismiss the upload error
// POST   /api/v1/loan-sessions/:id/recording/start      - 3 second countdown, then capture
// POST   /api/v1/loan-sessions/:id/recording/chunks     - Raw body, one chunk per request
// POST   /api/v1/loan-sessions/:id/recording/failure    - { "reason": "permission denied" }
// POST   /api/v1/loan-sessions/:id/recording/stop
// POST   /api/v1/loan-sessions/:id/recording/retake
// POST   /api/v1/loan-sessions/:id/recording/submit
