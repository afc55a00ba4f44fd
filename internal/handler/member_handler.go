package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
)

// MemberHandler serves the organizer members settings screen.
type MemberHandler struct {
	memberService *service.MemberService
}

func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// ListMembers godoc
// GET /api/v1/admin/settings/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	servePage(c, h.memberService)
}

// MemberDirectory godoc
// GET /api/v1/admin/settings/members/directory?search=
// Members whose name or email contains search, grouped by role.
func (h *MemberHandler) MemberDirectory(c *gin.Context) {
	dir, st, err := h.memberService.Directory(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.Success(c, http.StatusOK, dir)
}

// MemberOptions godoc
// GET /api/v1/admin/settings/members/options
func (h *MemberHandler) MemberOptions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.memberService.Options())
}

// ExportMembers godoc
// GET /api/v1/admin/settings/members/export
func (h *MemberHandler) ExportMembers(c *gin.Context) {
	serveExport(c, h.memberService)
}

// CreateMember godoc
// POST /api/v1/admin/settings/members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req model.CreateOrganizerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"member": member})
}

// SaveMembers godoc
// PATCH /api/v1/admin/settings/members
// Only privilege edits are accepted; unchanged rows are skipped.
func (h *MemberHandler) SaveMembers(c *gin.Context) {
	edits, ok := bindEdits(c)
	if !ok {
		return
	}
	n, err := h.memberService.SaveEdits(c.Request.Context(), edits)
	respondBulk(c, "saved", n, err)
}

// DeleteMembers godoc
// DELETE /api/v1/admin/settings/members
func (h *MemberHandler) DeleteMembers(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.memberService.Delete(c.Request.Context(), ids)
	respondBulk(c, "deleted", n, err)
}
