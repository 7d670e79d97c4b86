package v1

import (
	"context"
	"errors"
	"go-job-intake/config"
	"go-job-intake/internal/delivery/http/middleware"
	"go-job-intake/internal/delivery/http/response"
	"go-job-intake/internal/domain"
	"go-job-intake/pkg/apperror"
	"go-job-intake/pkg/auth"
	"go-job-intake/pkg/logger"
	"go-job-intake/pkg/security"
	"go-job-intake/pkg/security/antivirus"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type IntakeHandler struct {
	intakeUC         domain.IntakeUsecase
	scanner          antivirus.Scanner
	quota            UploadLimiter
	maxDocumentBytes int64
}

// UploadLimiter is satisfied by *security.UploadQuota
type UploadLimiter interface {
	Allow(ctx context.Context, sessionID string) (bool, time.Duration, error)
}

// DocumentGuards are the checks an upload passes before it reaches the form
type DocumentGuards struct {
	Scanner antivirus.Scanner
	Quota   UploadLimiter
}

// NewIntakeHandler registers the intake routes. Everything below /intake/session
// requires the session token issued by POST /intake/sessions.
func NewIntakeHandler(public *gin.RouterGroup, intakeUC domain.IntakeUsecase, tokens *auth.SessionTokens, guards DocumentGuards, cfg *config.Config) {
	handler := &IntakeHandler{
		intakeUC:         intakeUC,
		scanner:          guards.Scanner,
		quota:            guards.Quota,
		maxDocumentBytes: cfg.MaxDocumentBytes(),
	}
	if handler.scanner == nil {
		handler.scanner = antivirus.NoOpScanner{}
	}

	intake := public.Group("/intake")
	intake.GET("/positions", handler.ListPositions)
	intake.POST("/sessions", middleware.RateLimitMiddleware(middleware.SessionStartRateLimitConfig()), handler.StartSession)

	session := intake.Group("/session")
	session.Use(middleware.IntakeSession(tokens))
	{
		session.GET("", handler.GetView)
		session.PATCH("/fields", handler.UpdateFields)

		session.POST("/experiences", handler.AddExperience)
		session.PATCH("/experiences/:id", handler.UpdateExperience)
		session.PUT("/experiences/:id/current", handler.SetExperienceCurrent)
		session.DELETE("/experiences/:id", handler.RemoveExperience)

		session.POST("/education", handler.AddEducation)
		session.PATCH("/education/:id", handler.UpdateEducation)
		session.DELETE("/education/:id", handler.RemoveEducation)

		session.POST("/skills/:kind", handler.AddSkill)
		session.DELETE("/skills/:kind", handler.RemoveSkill)
		session.POST("/languages", handler.AddLanguage)
		session.DELETE("/languages", handler.RemoveLanguage)

		upload := middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(cfg.UploadRateLimitPerMinute))
		session.PUT("/documents/:kind", upload, handler.AttachDocument)
		session.DELETE("/documents/:kind", handler.RemoveDocument)

		session.POST("/next", handler.Next)
		session.POST("/previous", handler.Previous)

		submit := middleware.RateLimitMiddleware(middleware.SubmitRateLimitConfig(cfg.SubmitRateLimitPerMinute))
		session.POST("/submit", submit, handler.Submit)
		session.POST("/restart", handler.Restart)
	}
}

// ListPositions godoc
// @Summary      List open positions
// @Tags         intake
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /intake/positions [get]
func (h *IntakeHandler) ListPositions(c *gin.Context) {
	response.Success(c, http.StatusOK, "Open positions", domain.PositionCatalog)
}

// StartSession godoc
// @Summary      Start an application form session
// @Description  Returns the session token to send as X-Intake-Session plus the initial form view
// @Tags         intake
// @Produce      json
// @Success      201  {object}  response.Response{data=domain.SessionView}
// @Failure      429  {object}  response.Response
// @Router       /intake/sessions [post]
func (h *IntakeHandler) StartSession(c *gin.Context) {
	session, err := h.intakeUC.StartSession(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Session started", session)
}

// GetView godoc
// @Summary      Current form view
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /intake/session [get]
func (h *IntakeHandler) GetView(c *gin.Context) {
	view, err := h.intakeUC.GetView(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Form view")
}

// UpdateFields godoc
// @Summary      Update scalar form fields
// @Description  Omitted fields are left untouched; an empty string clears a field
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string                      true  "Session token"
// @Param        fields            body      domain.UpdateFieldsRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /intake/session/fields [patch]
func (h *IntakeHandler) UpdateFields(c *gin.Context) {
	var req domain.UpdateFieldsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Empty() {
		c.Error(apperror.BadRequest("No fields to update"))
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	view, err := h.intakeUC.UpdateFields(c.Request.Context(), sessionID(c), patch)
	h.respond(c, view, err, "Fields updated")
}

// AddExperience godoc
// @Summary      Add a blank work experience entry
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/experiences [post]
func (h *IntakeHandler) AddExperience(c *gin.Context) {
	view, err := h.intakeUC.AddExperience(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Experience added")
}

// UpdateExperience godoc
// @Summary      Update a work experience entry
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string                          true  "Session token"
// @Param        id                path      string                          true  "Entry ID"
// @Param        entry             body      domain.UpdateExperienceRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Failure      404  {object}  response.Response
// @Router       /intake/session/experiences/{id} [patch]
func (h *IntakeHandler) UpdateExperience(c *gin.Context) {
	var req domain.UpdateExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.intakeUC.UpdateExperience(c.Request.Context(), sessionID(c), c.Param("id"), req.ToChanges())
	h.respond(c, view, err, "Experience updated")
}

// SetExperienceCurrent godoc
// @Summary      Mark a work experience entry as the current position
// @Description  Setting current clears the end date
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string                    true  "Session token"
// @Param        id                path      string                    true  "Entry ID"
// @Param        current           body      domain.SetCurrentRequest  true  "Current flag"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/experiences/{id}/current [put]
func (h *IntakeHandler) SetExperienceCurrent(c *gin.Context) {
	var req domain.SetCurrentRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.intakeUC.SetExperienceCurrent(c.Request.Context(), sessionID(c), c.Param("id"), *req.Current)
	h.respond(c, view, err, "Experience updated")
}

// RemoveExperience godoc
// @Summary      Remove a work experience entry
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Param        id                path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/experiences/{id} [delete]
func (h *IntakeHandler) RemoveExperience(c *gin.Context) {
	view, err := h.intakeUC.RemoveExperience(c.Request.Context(), sessionID(c), c.Param("id"))
	h.respond(c, view, err, "Experience removed")
}

// AddEducation godoc
// @Summary      Add a blank education entry
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/education [post]
func (h *IntakeHandler) AddEducation(c *gin.Context) {
	view, err := h.intakeUC.AddEducation(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Education added")
}

// UpdateEducation godoc
// @Summary      Update an education entry
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string                         true  "Session token"
// @Param        id                path      string                         true  "Entry ID"
// @Param        entry             body      domain.UpdateEducationRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/education/{id} [patch]
func (h *IntakeHandler) UpdateEducation(c *gin.Context) {
	var req domain.UpdateEducationRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.intakeUC.UpdateEducation(c.Request.Context(), sessionID(c), c.Param("id"), req.ToChanges())
	h.respond(c, view, err, "Education updated")
}

// RemoveEducation godoc
// @Summary      Remove an education entry
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Param        id                path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/education/{id} [delete]
func (h *IntakeHandler) RemoveEducation(c *gin.Context) {
	view, err := h.intakeUC.RemoveEducation(c.Request.Context(), sessionID(c), c.Param("id"))
	h.respond(c, view, err, "Education removed")
}

// AddSkill godoc
// @Summary      Add a technical or soft skill
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string               true  "Session token"
// @Param        kind              path      string               true  "technical or soft"
// @Param        skill             body      domain.SkillRequest  true  "Skill"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Failure      409  {object}  response.Response
// @Router       /intake/session/skills/{kind} [post]
func (h *IntakeHandler) AddSkill(c *gin.Context) {
	var req domain.SkillRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.intakeUC.AddSkill(c.Request.Context(), sessionID(c), domain.SkillKind(c.Param("kind")), req.Skill)
	h.respond(c, view, err, "Skill added")
}

// RemoveSkill godoc
// @Summary      Remove a technical or soft skill
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string               true  "Session token"
// @Param        kind              path      string               true  "technical or soft"
// @Param        skill             body      domain.SkillRequest  true  "Skill"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/skills/{kind} [delete]
func (h *IntakeHandler) RemoveSkill(c *gin.Context) {
	var req domain.SkillRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.intakeUC.RemoveSkill(c.Request.Context(), sessionID(c), domain.SkillKind(c.Param("kind")), req.Skill)
	h.respond(c, view, err, "Skill removed")
}

// AddLanguage godoc
// @Summary      Add a language with proficiency
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string                  true  "Session token"
// @Param        language          body      domain.LanguageRequest  true  "Language"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Failure      409  {object}  response.Response
// @Router       /intake/session/languages [post]
func (h *IntakeHandler) AddLanguage(c *gin.Context) {
	var req domain.LanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.intakeUC.AddLanguage(c.Request.Context(), sessionID(c), req.Language, domain.Proficiency(req.Proficiency))
	h.respond(c, view, err, "Language added")
}

// RemoveLanguage godoc
// @Summary      Remove a language
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        X-Intake-Session  header    string                        true  "Session token"
// @Param        language          body      domain.RemoveLanguageRequest  true  "Language"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/languages [delete]
func (h *IntakeHandler) RemoveLanguage(c *gin.Context) {
	var req domain.RemoveLanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.intakeUC.RemoveLanguage(c.Request.Context(), sessionID(c), req.Language)
	h.respond(c, view, err, "Language removed")
}

// AttachDocument godoc
// @Summary      Attach the resume or cover letter
// @Description  Accepts PDF, DOC or DOCX. The file is validated by extension and content, then malware scanned.
// @Tags         intake
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Param        kind              path      string  true  "resume or cover_letter"
// @Param        file              formData  file    true  "Document"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Failure      400  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /intake/session/documents/{kind} [put]
func (h *IntakeHandler) AttachDocument(c *gin.Context) {
	kind := domain.DocumentKind(c.Param("kind"))
	if !kind.Valid() {
		c.Error(apperror.BadRequest("Document kind must be resume or cover_letter"))
		return
	}

	// multipart overhead on top of the document itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxDocumentBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, "File is too large", err))
			return
		}
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}
	if fileHeader.Size > h.maxDocumentBytes {
		c.Error(apperror.New(http.StatusRequestEntityTooLarge, "File is too large", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxDocumentBytes+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if int64(len(data)) > h.maxDocumentBytes {
		c.Error(apperror.New(http.StatusRequestEntityTooLarge, "File is too large", nil))
		return
	}

	name := filepath.Base(fileHeader.Filename)
	check := security.ValidateDocument(name, data)
	if !check.Valid {
		c.Error(apperror.BadRequest(check.Error))
		return
	}

	// only well-formed documents count against the quota
	if h.quota != nil {
		allowed, retryAfter, err := h.quota.Allow(c.Request.Context(), sessionID(c))
		if err != nil {
			logger.Log.Warn("upload quota unavailable", zap.Error(err))
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.Error(apperror.TooManyRequests("Upload limit reached for this application, try again later"))
			return
		}
	}

	scan := h.scanner.Scan(c.Request.Context(), name, data)
	if scan.Error != nil {
		logger.Log.Error("document scan failed",
			zap.String("scanner", scan.ScannerName),
			zap.Error(scan.Error),
		)
		c.Error(apperror.New(http.StatusServiceUnavailable, "Document scanning is unavailable, try again later", scan.Error))
		return
	}
	if scan.Infected {
		logger.Log.Warn("infected document rejected",
			zap.String("scanner", scan.ScannerName),
			zap.String("threat", scan.ThreatName),
		)
		c.Error(apperror.Unprocessable("File failed the malware scan", nil))
		return
	}

	doc := &domain.Document{
		Name:     name,
		Size:     int64(len(data)),
		MIMEType: check.DetectedMIME,
		Content:  data,
	}
	view, err := h.intakeUC.AttachDocument(c.Request.Context(), sessionID(c), kind, doc)
	h.respond(c, view, err, kind.Label()+" attached")
}

// RemoveDocument godoc
// @Summary      Remove the resume or cover letter
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Param        kind              path      string  true  "resume or cover_letter"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/documents/{kind} [delete]
func (h *IntakeHandler) RemoveDocument(c *gin.Context) {
	kind := domain.DocumentKind(c.Param("kind"))
	view, err := h.intakeUC.RemoveDocument(c.Request.Context(), sessionID(c), kind)
	h.respond(c, view, err, "Document removed")
}

// Next godoc
// @Summary      Advance to the next step
// @Description  Stays on the current step when it is incomplete; check step_valid in the view
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/next [post]
func (h *IntakeHandler) Next(c *gin.Context) {
	view, err := h.intakeUC.Next(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Step changed")
}

// Previous godoc
// @Summary      Go back one step
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/previous [post]
func (h *IntakeHandler) Previous(c *gin.Context) {
	view, err := h.intakeUC.Previous(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Step changed")
}

// Submit godoc
// @Summary      Submit the application
// @Description  Starts the submission in the background. Poll GET /intake/session for status.
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Success      202  {object}  response.Response{data=domain.FormView}
// @Failure      409  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /intake/session/submit [post]
func (h *IntakeHandler) Submit(c *gin.Context) {
	view, err := h.intakeUC.Submit(c.Request.Context(), sessionID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusAccepted, "Submission started", view)
}

// Restart godoc
// @Summary      Start a new application after a successful submission
// @Tags         intake
// @Produce      json
// @Param        X-Intake-Session  header    string  true  "Session token"
// @Success      200  {object}  response.Response{data=domain.FormView}
// @Router       /intake/session/restart [post]
func (h *IntakeHandler) Restart(c *gin.Context) {
	view, err := h.intakeUC.Restart(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Form restarted")
}

func (h *IntakeHandler) respond(c *gin.Context, view *domain.FormView, err error, message string) {
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, view)
}

func sessionID(c *gin.Context) string {
	return c.GetString(string(domain.KeySessionID))
}

// bindJSON binds the body; validator failures are formatted by the error middleware
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.Error(err)
			return false
		}
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}
