package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/hackpsu/admin-console/internal/validator"
)

// ParticipantHandler serves the participant application review screens.
type ParticipantHandler struct {
	participantService *service.ParticipantService
}

func NewParticipantHandler(participantService *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// poolParam maps the screen slug to the score pool.
func poolParam(c *gin.Context) (model.ScorePool, bool) {
	switch c.Param("pool") {
	case "penn-state", string(model.ScorePoolPSU):
		return model.ScorePoolPSU, true
	case string(model.ScorePoolOther):
		return model.ScorePoolOther, true
	}
	response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	return "", false
}

// ReviewApplicants godoc
// GET /api/v1/admin/participant-applications/:pool
// Query: status, prioritized, academicYear, codingExperience, top plus the
// table parameters. Status defaults to pending.
func (h *ParticipantHandler) ReviewApplicants(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}

	var filter service.ReviewFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	page, st, err := h.participantService.Review(c.Request.Context(), pool, filter, table.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.SuccessWithPagination(c, http.StatusOK, page, paginationOf(page.Page))
}

// UpdateApplicationStatus godoc
// PATCH /api/v1/admin/registrations/:id/status
func (h *ParticipantHandler) UpdateApplicationStatus(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateApplicationStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reg, err := h.participantService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"registration": reg})
}

// BulkUpdateApplicationStatus godoc
// PATCH /api/v1/admin/participant-applications/:pool/status
// Query: the same filters as ReviewApplicants. Refused with ACTION_FORBIDDEN
// unless every selected applicant is in the filtered list and pending.
func (h *ParticipantHandler) BulkUpdateApplicationStatus(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}

	var filter service.ReviewFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var req model.BulkApplicationStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.participantService.UpdateStatusBulk(c.Request.Context(), pool, filter, req.UserIDs, req.Status); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": len(req.UserIDs)})
}
