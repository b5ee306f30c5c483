package loans

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"branchdesk/internal/shared/config"
	"branchdesk/internal/shared/i18n"
	"branchdesk/internal/shared/middleware"
	"branchdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	upload  config.UploadConfig
}

func NewController(service Service, upload config.UploadConfig) *Controller {
	return &Controller{service: service, upload: upload}
}

// ListLoanTypes handles GET /api/v1/loan-types
func (c *Controller) ListLoanTypes(ctx *gin.Context) {
	lang := middleware.GetLanguage(ctx)
	response.Success(ctx, http.StatusOK, "Loan types retrieved successfully", gin.H{
		"language":   lang,
		"loan_types": LoanTypeViews(lang),
	})
}

// CreateSession handles POST /api/v1/loan-sessions
func (c *Controller) CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
	}
	view, err := c.service.Create(ctx.Request.Context(), languageOf(ctx, req.Language).String())
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Loan session started", view)
}

// GetSession handles GET /api/v1/loan-sessions/:id
func (c *Controller) GetSession(ctx *gin.Context) {
	view, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Loan session retrieved successfully")
}

// CloseSession handles DELETE /api/v1/loan-sessions/:id
func (c *Controller) CloseSession(ctx *gin.Context) {
	if err := c.service.Close(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Loan session closed", nil)
}

// SetLanguage handles PUT /api/v1/loan-sessions/:id/language
func (c *Controller) SetLanguage(ctx *gin.Context) {
	var req SetLanguageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	view, err := c.service.SetLanguage(ctx.Request.Context(), ctx.Param("id"), req.Language)
	c.respond(ctx, view, err, "Language updated")
}

// SelectLoanType handles POST /api/v1/loan-sessions/:id/loan-type
func (c *Controller) SelectLoanType(ctx *gin.Context) {
	var req SelectLoanTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	view, err := c.service.SelectLoanType(ctx.Request.Context(), ctx.Param("id"), LoanType(req.LoanType))
	c.respond(ctx, view, err, "Loan type selected")
}

// Back handles POST /api/v1/loan-sessions/:id/back
func (c *Controller) Back(ctx *gin.Context) {
	view, err := c.service.Back(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Moved to previous step")
}

// Forward handles POST /api/v1/loan-sessions/:id/forward
func (c *Controller) Forward(ctx *gin.Context) {
	view, err := c.service.Forward(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Moved to next step")
}

// ToggleIntro handles POST /api/v1/loan-sessions/:id/intro/toggle
func (c *Controller) ToggleIntro(ctx *gin.Context) {
	view, err := c.service.ToggleIntro(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Intro toggled")
}

// UploadDocument handles PUT /api/v1/loan-sessions/:id/documents/:type
// with the file in the multipart field "file".
func (c *Controller) UploadDocument(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "File is required", err.Error())
		return
	}
	if c.upload.MaxDocumentSize > 0 && header.Size > c.upload.MaxDocumentSize {
		response.Error(ctx, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d byte limit", c.upload.MaxDocumentSize), nil)
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to read file", err.Error())
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to read file", err.Error())
		return
	}

	file := File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}
	view, err := c.service.UploadDocument(ctx.Request.Context(), ctx.Param("id"), DocumentType(ctx.Param("type")), file)
	c.respond(ctx, view, err, "Document uploaded")
}

// DismissDocumentError handles DELETE /api/v1/loan-sessions/:id/documents/error
func (c *Controller) DismissDocumentError(ctx *gin.Context) {
	view, err := c.service.DismissDocumentError(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Error dismissed")
}

// StartRecording handles POST /api/v1/loan-sessions/:id/recording/start
func (c *Controller) StartRecording(ctx *gin.Context) {
	view, err := c.service.StartRecording(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Countdown started")
}

// PushChunk handles POST /api/v1/loan-sessions/:id/recording/chunks. The
// body is the raw chunk.
func (c *Controller) PushChunk(ctx *gin.Context) {
	body := ctx.Request.Body
	if c.upload.MaxChunkSize > 0 {
		body = http.MaxBytesReader(ctx.Writer, body, c.upload.MaxChunkSize)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(ctx, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Chunk exceeds the %d byte limit", tooLarge.Limit), nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to read chunk", err.Error())
		return
	}

	view, err := c.service.PushChunk(ctx.Request.Context(), ctx.Param("id"), data)
	c.respond(ctx, view, err, "Chunk received")
}

// ReportFailure handles POST /api/v1/loan-sessions/:id/recording/failure
func (c *Controller) ReportFailure(ctx *gin.Context) {
	var req RecordingFailureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	view, err := c.service.ReportCaptureFailure(ctx.Request.Context(), ctx.Param("id"), req.Reason)
	c.respond(ctx, view, err, "Capture failure recorded")
}

// StopRecording handles POST /api/v1/loan-sessions/:id/recording/stop
func (c *Controller) StopRecording(ctx *gin.Context) {
	view, err := c.service.StopRecording(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Recording stopped")
}

// RetakeRecording handles POST /api/v1/loan-sessions/:id/recording/retake
func (c *Controller) RetakeRecording(ctx *gin.Context) {
	view, err := c.service.RetakeRecording(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Recording discarded")
}

// SubmitRecording handles POST /api/v1/loan-sessions/:id/recording/submit
func (c *Controller) SubmitRecording(ctx *gin.Context) {
	view, err := c.service.SubmitRecording(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, view, err, "Recording submitted")
}

func (c *Controller) respond(ctx *gin.Context, view *SessionView, err error, message string) {
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, message, view)
}

func (c *Controller) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(ctx, http.StatusNotFound, ErrSessionNotFound.Error(), nil)
	case errors.Is(err, ErrNotImage):
		response.Error(ctx, http.StatusBadRequest, err.Error(), []response.FieldError{
			{Field: "file", Message: err.Error()},
		})
	case errors.Is(err, ErrUnknownLoanType),
		errors.Is(err, ErrUnknownDocumentType),
		errors.Is(err, ErrNoRecording):
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrRecorderState),
		errors.Is(err, ErrRecorderClosed),
		errors.Is(err, ErrNotRecording):
		response.Error(ctx, http.StatusConflict, err.Error(), nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to process loan session", err.Error())
	}
}

// languageOf prefers a language named in the body over the request's
func languageOf(ctx *gin.Context, raw string) i18n.Language {
	if raw != "" {
		return i18n.ParseLanguage(raw)
	}
	return middleware.GetLanguage(ctx)
}
