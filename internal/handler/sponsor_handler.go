package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
)

// SponsorHandler serves the sponsorship screen.
type SponsorHandler struct {
	sponsorService *service.SponsorService
}

func NewSponsorHandler(sponsorService *service.SponsorService) *SponsorHandler {
	return &SponsorHandler{sponsorService: sponsorService}
}

// ListSponsors godoc
// GET /api/v1/admin/sponsors
func (h *SponsorHandler) ListSponsors(c *gin.Context) {
	servePage(c, h.sponsorService)
}

// SponsorIDs godoc
// GET /api/v1/admin/sponsors/ids
func (h *SponsorHandler) SponsorIDs(c *gin.Context) {
	serveSelectAll(c, h.sponsorService)
}

// ExportSponsors godoc
// GET /api/v1/admin/sponsors/export
func (h *SponsorHandler) ExportSponsors(c *gin.Context) {
	serveExport(c, h.sponsorService)
}

// CreateSponsor godoc
// POST /api/v1/admin/sponsors
func (h *SponsorHandler) CreateSponsor(c *gin.Context) {
	var req model.CreateSponsorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sponsor, err := h.sponsorService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"sponsor": sponsor})
}

// UpdateSponsor godoc
// PATCH /api/v1/admin/sponsors/:id
func (h *SponsorHandler) UpdateSponsor(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateSponsorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sponsor, err := h.sponsorService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sponsor": sponsor})
}

// DeleteSponsors godoc
// DELETE /api/v1/admin/sponsors
func (h *SponsorHandler) DeleteSponsors(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.sponsorService.Delete(c.Request.Context(), ids)
	respondBulk(c, "deleted", n, err)
}
