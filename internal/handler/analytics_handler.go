package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
)

// AnalyticsHandler serves the analytics screens.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Summary godoc
// GET /api/v1/admin/analytics/summary?hackathonId=
// Registration bars, cumulative timeline and demographics. Demographics
// cover the active hackathon unless hackathonId is given.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	page, st, err := h.analyticsService.Summary(c.Request.Context(), c.Query("hackathonId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.Success(c, http.StatusOK, page)
}

// EventScans godoc
// GET /api/v1/admin/analytics/events
func (h *AnalyticsHandler) EventScans(c *gin.Context) {
	servePage(c, h.analyticsService.Events)
}

// ExportEventScans godoc
// GET /api/v1/admin/analytics/events/export
func (h *AnalyticsHandler) ExportEventScans(c *gin.Context) {
	serveExport(c, h.analyticsService.Events)
}

// OrganizerScans godoc
// GET /api/v1/admin/analytics/organizers
func (h *AnalyticsHandler) OrganizerScans(c *gin.Context) {
	servePage(c, h.analyticsService.Organizers)
}

// ExportOrganizerScans godoc
// GET /api/v1/admin/analytics/organizers/export
func (h *AnalyticsHandler) ExportOrganizerScans(c *gin.Context) {
	serveExport(c, h.analyticsService.Organizers)
}
