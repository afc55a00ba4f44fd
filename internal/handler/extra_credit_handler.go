package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
)

// ExtraCreditHandler serves the extra credit classes and assignments tabs.
type ExtraCreditHandler struct {
	extraCreditService *service.ExtraCreditService
}

func NewExtraCreditHandler(extraCreditService *service.ExtraCreditService) *ExtraCreditHandler {
	return &ExtraCreditHandler{extraCreditService: extraCreditService}
}

// ListClasses godoc
// GET /api/v1/admin/extra-credit/classes
// Each class carries the number of hackers assigned to it.
func (h *ExtraCreditHandler) ListClasses(c *gin.Context) {
	servePage(c, h.extraCreditService.Classes)
}

// ClassIDs godoc
// GET /api/v1/admin/extra-credit/classes/ids
func (h *ExtraCreditHandler) ClassIDs(c *gin.Context) {
	serveSelectAll(c, h.extraCreditService.Classes)
}

// ExportClasses godoc
// GET /api/v1/admin/extra-credit/classes/export
func (h *ExtraCreditHandler) ExportClasses(c *gin.Context) {
	serveExport(c, h.extraCreditService.Classes)
}

// ListAssignments godoc
// GET /api/v1/admin/extra-credit/assignments
func (h *ExtraCreditHandler) ListAssignments(c *gin.Context) {
	servePage(c, h.extraCreditService.Assignments)
}

// ExportAssignments godoc
// GET /api/v1/admin/extra-credit/assignments/export
func (h *ExtraCreditHandler) ExportAssignments(c *gin.Context) {
	serveExport(c, h.extraCreditService.Assignments)
}

// CreateClass godoc
// POST /api/v1/admin/extra-credit/classes
func (h *ExtraCreditHandler) CreateClass(c *gin.Context) {
	var req model.CreateExtraCreditClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.extraCreditService.CreateClass(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// RenameClass godoc
// PATCH /api/v1/admin/extra-credit/classes/:id
func (h *ExtraCreditHandler) RenameClass(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateExtraCreditClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.extraCreditService.RenameClass(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClasses godoc
// DELETE /api/v1/admin/extra-credit/classes
func (h *ExtraCreditHandler) DeleteClasses(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.extraCreditService.DeleteClasses(c.Request.Context(), ids)
	respondBulk(c, "deleted", n, err)
}
