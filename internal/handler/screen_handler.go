package handler

import "github.com/gin-gonic/gin"

// ScreenHandler serves the routes every table screen shares beyond its
// list, ids and export endpoints.
type ScreenHandler struct {
	path   string
	screen TableScreen
}

// NewScreenHandler mounts screen under path, relative to the admin group.
func NewScreenHandler(path string, screen TableScreen) *ScreenHandler {
	return &ScreenHandler{path: path, screen: screen}
}

// Path is where the screen is mounted, e.g. "/hackers".
func (h *ScreenHandler) Path() string {
	return h.path
}

// Columns godoc
// GET /api/v1/admin/<screen>/columns
func (h *ScreenHandler) Columns(c *gin.Context) {
	serveColumns(c, h.screen)
}

// Selection godoc
// POST /api/v1/admin/<screen>/selection
func (h *ScreenHandler) Selection(c *gin.Context) {
	serveSelection(c, h.screen)
}

// Refresh godoc
// POST /api/v1/admin/<screen>/refresh
func (h *ScreenHandler) Refresh(c *gin.Context) {
	serveRefresh(c, h.screen)
}
