package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
	"github.com/rs/zerolog"
)

// HackerHandler serves the hackers screen.
type HackerHandler struct {
	hackerService *service.HackerService
	log           zerolog.Logger
}

func NewHackerHandler(hackerService *service.HackerService, log zerolog.Logger) *HackerHandler {
	return &HackerHandler{
		hackerService: hackerService,
		log:           log.With().Str("component", "hacker_handler").Logger(),
	}
}

// ListHackers godoc
// GET /api/v1/admin/hackers
func (h *HackerHandler) ListHackers(c *gin.Context) {
	servePage(c, h.hackerService)
}

// HackerIDs godoc
// GET /api/v1/admin/hackers/ids
func (h *HackerHandler) HackerIDs(c *gin.Context) {
	serveSelectAll(c, h.hackerService)
}

// ExportHackers godoc
// GET /api/v1/admin/hackers/export?format=csv|xlsx
func (h *HackerHandler) ExportHackers(c *gin.Context) {
	serveExport(c, h.hackerService)
}

// GetHacker godoc
// GET /api/v1/admin/hackers/:id
func (h *HackerHandler) GetHacker(c *gin.Context) {
	user, st, err := h.hackerService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.Success(c, http.StatusOK, gin.H{"hacker": user})
}

// UpdateHacker godoc
// PATCH /api/v1/admin/hackers/:id
func (h *HackerHandler) UpdateHacker(c *gin.Context) {
	var req model.UpdateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.hackerService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hacker": user})
}

// DeleteHackers godoc
// DELETE /api/v1/admin/hackers
// Body: {"ids": [...]}. Every id is attempted; the count of deleted rows is
// returned even when some fail.
func (h *HackerHandler) DeleteHackers(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.hackerService.Delete(c.Request.Context(), ids)
	respondBulk(c, "deleted", n, err)
}

// DownloadResume godoc
// GET /api/v1/admin/hackers/:id/resume
func (h *HackerHandler) DownloadResume(c *gin.Context) {
	d, err := h.hackerService.Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.stream(c, d, "resume-"+c.Param("id")+".pdf")
}

// DownloadAllResumes godoc
// GET /api/v1/admin/hackers/resumes
func (h *HackerHandler) DownloadAllResumes(c *gin.Context) {
	d, err := h.hackerService.AllResumes(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.stream(c, d, "resumes.zip")
}

// stream relays an upstream download without buffering it.
func (h *HackerHandler) stream(c *gin.Context, d *apiclient.Download, fallbackName string) {
	defer d.Body.Close()

	name := d.Filename
	if name == "" {
		name = fallbackName
	}
	contentType := d.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", contentType)
	if d.ContentLength > 0 {
		c.Header("Content-Length", fmt.Sprint(d.ContentLength))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, d.Body); err != nil {
		h.log.Warn().Err(err).Str("file", name).Msg("Download interrupted")
	}
}
