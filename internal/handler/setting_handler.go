package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
)

// SettingHandler serves the hackathon and feature flag settings tabs.
type SettingHandler struct {
	flagService      *service.FlagService
	hackathonService *service.HackathonService
}

func NewSettingHandler(flagService *service.FlagService, hackathonService *service.HackathonService) *SettingHandler {
	return &SettingHandler{flagService: flagService, hackathonService: hackathonService}
}

// ListFlags godoc
// GET /api/v1/admin/settings/flags
func (h *SettingHandler) ListFlags(c *gin.Context) {
	servePage(c, h.flagService)
}

// SaveFlags godoc
// PATCH /api/v1/admin/settings/flags
// Every flag is sent upstream in one request; the stored flags are returned.
func (h *SettingHandler) SaveFlags(c *gin.Context) {
	edits, ok := bindEdits(c)
	if !ok {
		return
	}
	flags, err := h.flagService.SaveEdits(c.Request.Context(), edits)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"flags": flags})
}

// ListHackathons godoc
// GET /api/v1/admin/settings/hackathons
func (h *SettingHandler) ListHackathons(c *gin.Context) {
	servePage(c, h.hackathonService)
}

// ActiveHackathon godoc
// GET /api/v1/admin/settings/hackathons/active
func (h *SettingHandler) ActiveHackathon(c *gin.Context) {
	hackathon, st, err := h.hackathonService.Active(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.Success(c, http.StatusOK, gin.H{"hackathon": hackathon})
}

// SaveHackathons godoc
// PATCH /api/v1/admin/settings/hackathons
// Rows are saved in order: name first, then activation for rows marked active.
func (h *SettingHandler) SaveHackathons(c *gin.Context) {
	edits, ok := bindEdits(c)
	if !ok {
		return
	}
	n, err := h.hackathonService.SaveEdits(c.Request.Context(), edits)
	respondBulk(c, "saved", n, err)
}
