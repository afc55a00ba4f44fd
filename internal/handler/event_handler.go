package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
)

// EventHandler serves the events screen.
type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents godoc
// GET /api/v1/admin/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	servePage(c, h.eventService)
}

// EventIDs godoc
// GET /api/v1/admin/events/ids
func (h *EventHandler) EventIDs(c *gin.Context) {
	serveSelectAll(c, h.eventService)
}

// ExportEvents godoc
// GET /api/v1/admin/events/export
func (h *EventHandler) ExportEvents(c *gin.Context) {
	serveExport(c, h.eventService)
}

// GetEvent godoc
// GET /api/v1/admin/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, st, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// CreateEvent godoc
// POST /api/v1/admin/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": event})
}

// UpdateEvent godoc
// PATCH /api/v1/admin/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req model.UpdateEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// DeleteEvents godoc
// DELETE /api/v1/admin/events
func (h *EventHandler) DeleteEvents(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.eventService.Delete(c.Request.Context(), ids)
	respondBulk(c, "deleted", n, err)
}
