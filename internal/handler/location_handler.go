package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
)

// LocationHandler serves the locations screen.
type LocationHandler struct {
	locationService *service.LocationService
}

func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// ListLocations godoc
// GET /api/v1/admin/locations
func (h *LocationHandler) ListLocations(c *gin.Context) {
	servePage(c, h.locationService)
}

// LocationIDs godoc
// GET /api/v1/admin/locations/ids
func (h *LocationHandler) LocationIDs(c *gin.Context) {
	serveSelectAll(c, h.locationService)
}

// ExportLocations godoc
// GET /api/v1/admin/locations/export
func (h *LocationHandler) ExportLocations(c *gin.Context) {
	serveExport(c, h.locationService)
}

// CreateLocation godoc
// POST /api/v1/admin/locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req model.CreateLocationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	loc, err := h.locationService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"location": loc})
}

// SaveLocations godoc
// PATCH /api/v1/admin/locations
// Body: {"edits": [{"id", "column", "value"}]}. Only rows whose name or
// capacity changed are sent upstream.
func (h *LocationHandler) SaveLocations(c *gin.Context) {
	edits, ok := bindEdits(c)
	if !ok {
		return
	}
	n, err := h.locationService.SaveEdits(c.Request.Context(), edits)
	respondBulk(c, "saved", n, err)
}

// DeleteLocations godoc
// DELETE /api/v1/admin/locations
func (h *LocationHandler) DeleteLocations(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.locationService.Delete(c.Request.Context(), ids)
	respondBulk(c, "deleted", n, err)
}
