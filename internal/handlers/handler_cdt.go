package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/cdt_management_app/internal/core/ports/services"
	"github.com/SscSPs/cdt_management_app/internal/dto"
	"github.com/SscSPs/cdt_management_app/internal/middleware"
)

// cdtHandler handles the certificate routes available to regular users.
type cdtHandler struct {
	cdtService portssvc.CDTSvcFacade
}

func newCDTHandler(cdtService portssvc.CDTSvcFacade) *cdtHandler {
	return &cdtHandler{cdtService: cdtService}
}

// registerCDTRoutes registers the owner-facing certificate routes.
func registerCDTRoutes(rg *gin.RouterGroup, cdtService portssvc.CDTSvcFacade) {
	h := newCDTHandler(cdtService)

	cdts := rg.Group("/cdts")
	{
		cdts.POST("", h.createCDT)
		cdts.GET("", h.listMyCDTs)
		cdts.GET("/:id", h.getCDT)
		cdts.POST("/:id/submit", h.submitCDT)
		cdts.POST("/:id/cancel", h.cancelCDT)
		cdts.GET("/:id/audit", h.getAuditTrail)
	}
}

// createCDT godoc
// @Summary Open a new certificate in DRAFT
// @Tags cdts
// @Accept json
// @Produce json
// @Param cdt body dto.CreateCDTRequest true "Certificate details"
// @Success 201 {object} dto.CDTResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /cdts [post]
func (h *cdtHandler) createCDT(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCDTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCDT", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cdt, err := h.cdtService.CreateCDT(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("CDT created", slog.String("cdt_id", cdt.CDTID), slog.String("user_id", userID))
	c.JSON(http.StatusCreated, dto.ToCDTResponse(cdt))
}

// listMyCDTs godoc
// @Summary List the caller's certificates
// @Tags cdts
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListCDTsResponse
// @Security BearerAuth
// @Router /cdts [get]
func (h *cdtHandler) listMyCDTs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCDTsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listMyCDTs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.cdtService.ListCDTsByUser(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getCDT godoc
// @Summary Get one certificate by ID
// @Tags cdts
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} dto.CDTResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /cdts/{id} [get]
func (h *cdtHandler) getCDT(c *gin.Context) {
	cdtID := c.Param("id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	role := middleware.GetUserRoleFromContext(c)

	cdt, err := h.cdtService.GetCDTByID(c.Request.Context(), cdtID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCDTResponse(cdt))
}

// submitCDT godoc
// @Summary Submit a DRAFT certificate for review
// @Tags cdts
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} dto.CDTResponse
// @Failure 422 {object} map[string]string "Not in DRAFT"
// @Security BearerAuth
// @Router /cdts/{id}/submit [post]
func (h *cdtHandler) submitCDT(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cdtID := c.Param("id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cdt, err := h.cdtService.SubmitForReview(c.Request.Context(), cdtID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("CDT submitted for review", slog.String("cdt_id", cdtID))
	c.JSON(http.StatusOK, dto.ToCDTResponse(cdt))
}

// cancelCDT godoc
// @Summary Cancel a certificate
// @Tags cdts
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID"
// @Param body body dto.CancelCDTRequest true "Cancellation reason"
// @Success 200 {object} dto.CDTResponse
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 422 {object} map[string]string "Not cancellable in its current status"
// @Security BearerAuth
// @Router /cdts/{id}/cancel [post]
func (h *cdtHandler) cancelCDT(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelCDTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for cancelCDT", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cdtID := c.Param("id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	role := middleware.GetUserRoleFromContext(c)

	cdt, err := h.cdtService.Cancel(c.Request.Context(), cdtID, userID, role, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("CDT cancelled", slog.String("cdt_id", cdtID), slog.String("actor_id", userID))
	c.JSON(http.StatusOK, dto.ToCDTResponse(cdt))
}

// getAuditTrail godoc
// @Summary List the audit entries of a certificate, oldest first
// @Tags cdts
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {array} dto.AuditLogResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Security BearerAuth
// @Router /cdts/{id}/audit [get]
func (h *cdtHandler) getAuditTrail(c *gin.Context) {
	cdtID := c.Param("id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	role := middleware.GetUserRoleFromContext(c)

	entries, err := h.cdtService.ListAuditTrail(c.Request.Context(), cdtID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditLogResponses(entries))
}
