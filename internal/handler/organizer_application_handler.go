package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
)

// OrganizerApplicationHandler serves the organizer applications screen.
type OrganizerApplicationHandler struct {
	applicationService *service.OrganizerApplicationService
}

func NewOrganizerApplicationHandler(applicationService *service.OrganizerApplicationService) *OrganizerApplicationHandler {
	return &OrganizerApplicationHandler{applicationService: applicationService}
}

// ListApplications godoc
// GET /api/v1/admin/organizer-applications
func (h *OrganizerApplicationHandler) ListApplications(c *gin.Context) {
	servePage(c, h.applicationService)
}

// ExportApplications godoc
// GET /api/v1/admin/organizer-applications/export
func (h *OrganizerApplicationHandler) ExportApplications(c *gin.Context) {
	serveExport(c, h.applicationService)
}

// ApplicationsByTeam godoc
// GET /api/v1/admin/organizer-applications/teams/:team
func (h *OrganizerApplicationHandler) ApplicationsByTeam(c *gin.Context) {
	apps, st, err := h.applicationService.ByTeam(c.Request.Context(), c.Param("team"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.Success(c, http.StatusOK, apps)
}

// GetApplication godoc
// GET /api/v1/admin/organizer-applications/:id
func (h *OrganizerApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	app, st, err := h.applicationService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.Success(c, http.StatusOK, gin.H{"application": app})
}

// AcceptApplication godoc
// POST /api/v1/admin/organizer-applications/:id/accept
// Body: {"team": "..."}
func (h *OrganizerApplicationHandler) AcceptApplication(c *gin.Context) {
	h.decide(c, h.applicationService.Accept)
}

// RejectApplication godoc
// POST /api/v1/admin/organizer-applications/:id/reject
func (h *OrganizerApplicationHandler) RejectApplication(c *gin.Context) {
	h.decide(c, h.applicationService.Reject)
}

func (h *OrganizerApplicationHandler) decide(c *gin.Context, call func(context.Context, int, string) (model.OrganizerApplication, error)) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.ApplicationDecisionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	app, err := call(c.Request.Context(), id, req.Team)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}
