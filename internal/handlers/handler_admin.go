package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/cdt_management_app/internal/core/ports/services"
	"github.com/SscSPs/cdt_management_app/internal/dto"
	"github.com/SscSPs/cdt_management_app/internal/middleware"
)

// adminHandler handles the review and reporting routes restricted to admins.
type adminHandler struct {
	cdtService portssvc.CDTSvcFacade
}

func newAdminHandler(cdtService portssvc.CDTSvcFacade) *adminHandler {
	return &adminHandler{cdtService: cdtService}
}

// registerAdminRoutes registers the admin-only certificate routes. The group
// passed in must already carry the admin gate.
func registerAdminRoutes(rg *gin.RouterGroup, cdtService portssvc.CDTSvcFacade) {
	h := newAdminHandler(cdtService)

	admin := rg.Group("/admin")
	{
		admin.GET("/cdts", h.listAllCDTs)
		admin.GET("/cdts/pending", h.listPendingCDTs)
		admin.POST("/cdts/:id/approve", h.approveCDT)
		admin.POST("/cdts/:id/reject", h.rejectCDT)
		admin.POST("/cdts/:id/complete", h.completeCDT)
		admin.PATCH("/cdts/:id/status", h.changeCDTStatus)
		admin.GET("/stats", h.getStats)
	}
}

// listAllCDTs godoc
// @Summary List certificates across all users
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param userID query string false "Filter by owner"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListCDTsResponse
// @Security BearerAuth
// @Router /admin/cdts [get]
func (h *adminHandler) listAllCDTs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCDTsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listAllCDTs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.cdtService.ListCDTs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listPendingCDTs godoc
// @Summary List certificates awaiting review
// @Tags admin
// @Produce json
// @Success 200 {array} dto.CDTResponse
// @Security BearerAuth
// @Router /admin/cdts/pending [get]
func (h *adminHandler) listPendingCDTs(c *gin.Context) {
	cdts, err := h.cdtService.GetPendingCDTs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCDTResponses(cdts))
}

// approveCDT godoc
// @Summary Approve a PENDING certificate
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID"
// @Param body body dto.ApproveCDTRequest false "Optional review notes"
// @Success 200 {object} dto.CDTResponse
// @Failure 409 {object} map[string]string "Another reviewer acted first"
// @Failure 422 {object} map[string]string "Not in PENDING"
// @Security BearerAuth
// @Router /admin/cdts/{id}/approve [post]
func (h *adminHandler) approveCDT(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApproveCDTRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for approveCDT", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	cdtID := c.Param("id")
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cdt, err := h.cdtService.Approve(c.Request.Context(), cdtID, adminID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("CDT approved", slog.String("cdt_id", cdtID), slog.String("admin_id", adminID))
	c.JSON(http.StatusOK, dto.ToCDTResponse(cdt))
}

// rejectCDT godoc
// @Summary Reject a PENDING certificate
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID"
// @Param body body dto.RejectCDTRequest true "Rejection reason"
// @Success 200 {object} dto.CDTResponse
// @Failure 422 {object} map[string]string "Missing reason or not in PENDING"
// @Security BearerAuth
// @Router /admin/cdts/{id}/reject [post]
func (h *adminHandler) rejectCDT(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RejectCDTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for rejectCDT", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cdtID := c.Param("id")
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cdt, err := h.cdtService.Reject(c.Request.Context(), cdtID, adminID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("CDT rejected", slog.String("cdt_id", cdtID), slog.String("admin_id", adminID))
	c.JSON(http.StatusOK, dto.ToCDTResponse(cdt))
}

// completeCDT godoc
// @Summary Complete an ACTIVE certificate at term end
// @Tags admin
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} dto.CDTResponse
// @Failure 422 {object} map[string]string "Not in ACTIVE"
// @Security BearerAuth
// @Router /admin/cdts/{id}/complete [post]
func (h *adminHandler) completeCDT(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cdtID := c.Param("id")
	cdt, err := h.cdtService.Complete(c.Request.Context(), cdtID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("CDT completed", slog.String("cdt_id", cdtID))
	c.JSON(http.StatusOK, dto.ToCDTResponse(cdt))
}

// changeCDTStatus godoc
// @Summary Move a certificate to an arbitrary valid next status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID"
// @Param body body dto.ChangeStatusRequest true "Target status"
// @Success 200 {object} dto.CDTResponse
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /admin/cdts/{id}/status [patch]
func (h *adminHandler) changeCDTStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for changeCDTStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cdtID := c.Param("id")
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target := domain.CDTStatus(strings.ToUpper(req.Status))
	cdt, err := h.cdtService.ChangeStatus(c.Request.Context(), cdtID, target, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("CDT status changed", slog.String("cdt_id", cdtID), slog.String("status", string(target)))
	c.JSON(http.StatusOK, dto.ToCDTResponse(cdt))
}

// getStats godoc
// @Summary Aggregate certificate counts and financial totals
// @Tags admin
// @Produce json
// @Success 200 {object} domain.AdminStats
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *adminHandler) getStats(c *gin.Context) {
	stats, err := h.cdtService.GetAdminStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
