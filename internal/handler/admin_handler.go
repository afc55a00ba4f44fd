package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/middleware"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
)

// AdminHandler serves the console shell: who is signed in, the sidebar and
// the audit trail.
type AdminHandler struct {
	auditService *service.AuditService
}

func NewAdminHandler(auditService *service.AuditService) *AdminHandler {
	return &AdminHandler{auditService: auditService}
}

// GetProfile godoc
// GET /api/v1/admin/me
func (h *AdminHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"actor": claims.Actor(),
		"email": claims.Email,
		"name":  claims.Name,
	})
}

// Navigation godoc
// GET /api/v1/admin/navigation?path=
// Sidebar entries with the section and tab matching path marked active.
func (h *AdminHandler) Navigation(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"items": service.Navigation(c.Query("path"))})
}

// RecentAudit godoc
// GET /api/v1/admin/audit?limit=
func (h *AdminHandler) RecentAudit(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"limit": "must be a positive number"})
			return
		}
		limit = n
	}

	entries, err := h.auditService.Recent(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}
