package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportmitra/admin-hub/internal/auth"
	"github.com/reportmitra/admin-hub/internal/services"
	"github.com/reportmitra/admin-hub/pkg/report"
	"github.com/reportmitra/admin-hub/pkg/storage"
	"github.com/reportmitra/admin-hub/pkg/utils"
)

// IssueHandler serves the issue workflow endpoints.
type IssueHandler struct {
	service       services.IssueService
	portalBaseURL string // admin portal base for QR links in briefing PDFs
}

// NewIssueHandler creates a new IssueHandler instance.
func NewIssueHandler(service services.IssueService, portalBaseURL string) *IssueHandler {
	return &IssueHandler{service: service, portalBaseURL: portalBaseURL}
}

// respondIssueError maps service errors onto HTTP statuses.
func respondIssueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIssueNotFound):
		utils.RespondNotFoundError(c, "Issue")
	case errors.Is(err, services.ErrAccessDenied):
		utils.RespondForbiddenError(c, "You do not have access to this issue")
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrAlreadyResolved),
		errors.Is(err, services.ErrCompletionKeyRequired):
		utils.RespondAPIError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrStatusConflict):
		utils.RespondConflictError(c, services.ErrStatusConflict.Error())
	case errors.Is(err, storage.ErrNotConfigured):
		utils.RespondInternalServerError(c, storage.ErrNotConfigured.Error())
	case errors.Is(err, storage.ErrSigningFailed):
		utils.RespondInternalServerError(c, "Could not sign storage URL", err.Error())
	default:
		utils.RespondInternalServerError(c, "Unexpected error", err.Error())
	}
}

// ListIssues godoc
// @Summary List the department's issues
// @Description Returns issues for the caller's department, newest report first. Without an explicit status filter only pending and in_progress issues are shown.
// @Tags Issues
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter (pending, in_progress, escalated, resolved)"
// @Success 200 {object} utils.SuccessResponse{data=[]models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "Unknown status value"
// @Failure 401 {object} utils.APIErrorResponse "Not authenticated"
// @Router /issues [get]
func (h *IssueHandler) ListIssues(c *gin.Context) {
	principal := auth.PrincipalFromContext(c)

	issues, err := h.service.ListIssues(c.Request.Context(), principal, c.Query("status"))
	if err != nil {
		respondIssueError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, issues, "")
}

// GetIssue godoc
// @Summary Issue detail
// @Description Returns one issue with its evidence references resolved to presigned GET URLs.
// @Tags Issues
// @Security BearerAuth
// @Produce json
// @Param tracking_id path string true "Issue tracking id"
// @Success 200 {object} utils.SuccessResponse{data=services.IssueDetail}
// @Failure 403 {object} utils.APIErrorResponse "Issue belongs to another department"
// @Failure 404 {object} utils.APIErrorResponse "Issue not found"
// @Router /issues/{tracking_id} [get]
func (h *IssueHandler) GetIssue(c *gin.Context) {
	principal := auth.PrincipalFromContext(c)

	detail, err := h.service.GetIssue(c.Request.Context(), principal, c.Param("tracking_id"))
	if err != nil {
		respondIssueError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, detail, "")
}

type UpdateStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Change an issue's status
// @Description Applies one step of the issue lifecycle: pending → in_progress (allocates the issue to the caller), in_progress → escalated or resolved. Escalated and resolved issues cannot change status here.
// @Tags Issues
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tracking_id path string true "Issue tracking id"
// @Param payload body UpdateStatusPayload true "Requested status"
// @Success 200 {object} utils.SuccessResponse{data=models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "Unknown status or illegal transition"
// @Failure 403 {object} utils.APIErrorResponse "No permission to change this issue"
// @Failure 404 {object} utils.APIErrorResponse "Issue not found"
// @Failure 409 {object} utils.APIErrorResponse "Issue was updated concurrently"
// @Router /issues/{tracking_id}/status [patch]
func (h *IssueHandler) UpdateStatus(c *gin.Context) {
	var payload UpdateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	principal := auth.PrincipalFromContext(c)
	issue, err := h.service.UpdateStatus(c.Request.Context(), principal, c.Param("tracking_id"), payload.Status, c.ClientIP())
	if err != nil {
		respondIssueError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, issue, "Status updated")
}

type ResolvePayload struct {
	CompletionKey string `json:"completionKey" binding:"required"`
}

// ResolveIssue godoc
// @Summary Resolve an issue with completion evidence
// @Description Marks the issue resolved and attaches the uploaded completion evidence key. Allowed from any state except resolved.
// @Tags Issues
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tracking_id path string true "Issue tracking id"
// @Param payload body ResolvePayload true "Completion evidence key"
// @Success 200 {object} utils.SuccessResponse{data=models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "Already resolved or missing completion key"
// @Failure 403 {object} utils.APIErrorResponse "No permission to change this issue"
// @Failure 404 {object} utils.APIErrorResponse "Issue not found"
// @Failure 409 {object} utils.APIErrorResponse "Issue was updated concurrently"
// @Failure 500 {object} utils.APIErrorResponse "Storage not configured"
// @Router /issues/{tracking_id}/resolve [patch]
func (h *IssueHandler) ResolveIssue(c *gin.Context) {
	var payload ResolvePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	principal := auth.PrincipalFromContext(c)
	issue, err := h.service.ResolveIssue(c.Request.Context(), principal, c.Param("tracking_id"), payload.CompletionKey, c.ClientIP())
	if err != nil {
		respondIssueError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, issue, "Issue resolved successfully")
}

// ExportBriefing godoc
// @Summary Field briefing PDF
// @Description Generates the printable on-site briefing document for an issue.
// @Tags Issues
// @Security BearerAuth
// @Produce application/pdf
// @Param tracking_id path string true "Issue tracking id"
// @Success 200 {file} binary
// @Failure 403 {object} utils.APIErrorResponse "Issue belongs to another department"
// @Failure 404 {object} utils.APIErrorResponse "Issue not found"
// @Router /issues/{tracking_id}/pdf [get]
func (h *IssueHandler) ExportBriefing(c *gin.Context) {
	principal := auth.PrincipalFromContext(c)

	detail, err := h.service.GetIssue(c.Request.Context(), principal, c.Param("tracking_id"))
	if err != nil {
		respondIssueError(c, err)
		return
	}

	pdf, err := report.BuildBriefing(report.Briefing{
		TrackingID:  detail.TrackingID,
		Status:      string(detail.Status),
		Department:  detail.Department,
		Location:    detail.Location,
		Title:       detail.Title,
		Description: detail.Description,
		ReportedAt:  detail.IssueDate,
		ImageURL:    detail.ImagePresignedURL,
		AdminURL:    fmt.Sprintf("%s/admin/issues/%s", h.portalBaseURL, detail.TrackingID),
	})
	if err != nil {
		utils.RespondInternalServerError(c, "Could not generate briefing PDF", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="issue_%s.pdf"`, detail.TrackingID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
