package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/hackpsu/admin-console/internal/validator"
)

// TableScreen is a list screen served through the table engine. Every
// service.Screen satisfies it.
type TableScreen interface {
	Page(ctx context.Context, q table.Query) (table.Page, querycache.Status, error)
	SelectAll(ctx context.Context, q table.Query) ([]string, error)
	Export(ctx context.Context, q table.Query, f table.Format, w io.Writer) error
	ExportName() string
	Columns() []table.Header
	Refresh(ctx context.Context) error
}

// setCacheStatus exposes how a read was served in the response metadata.
func setCacheStatus(c *gin.Context, st querycache.Status) {
	if st.FetchedAt.IsZero() {
		return
	}
	response.SetCache(c, st.Hit, st.Shared, st.FetchedAt)
}

func paginationOf(p table.Page) *response.Pagination {
	return &response.Pagination{
		Page:       p.Page,
		PerPage:    p.PageSize,
		TotalItems: p.Total,
		TotalPages: p.PageCount,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
	}
}

// servePage answers GET /<screen> with one table page.
func servePage(c *gin.Context, screen TableScreen) {
	page, st, err := screen.Page(c.Request.Context(), table.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		response.FromError(c, err)
		return
	}
	setCacheStatus(c, st)
	response.SuccessWithPagination(c, http.StatusOK, page, paginationOf(page))
}

// serveSelectAll answers GET /<screen>/ids with every row id matching the
// current filters, for "select all" across pages.
func serveSelectAll(c *gin.Context, screen TableScreen) {
	ids, err := screen.SelectAll(c.Request.Context(), table.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ids": ids, "total": len(ids)})
}

// serveColumns answers GET /<screen>/columns.
func serveColumns(c *gin.Context, screen TableScreen) {
	response.Success(c, http.StatusOK, gin.H{"columns": screen.Columns()})
}

// serveSelection answers POST /<screen>/selection. Toggling all flips the
// rows on the requested page, or every filtered row with across_pages.
func serveSelection(c *gin.Context, screen TableScreen) {
	var req model.SelectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx := c.Request.Context()
	q := table.ParseQuery(c.Request.URL.Query())
	var visible []string
	if req.AcrossPages {
		ids, err := screen.SelectAll(ctx, q)
		if err != nil {
			response.FromError(c, err)
			return
		}
		visible = ids
	} else {
		page, _, err := screen.Page(ctx, q)
		if err != nil {
			response.FromError(c, err)
			return
		}
		for _, row := range page.Rows {
			visible = append(visible, row.ID)
		}
	}

	sel := table.NewSelection(req.Selected...)
	if req.ToggleAll {
		sel.ToggleAll(visible)
	} else {
		sel.Toggle(req.Toggle)
	}
	response.Success(c, http.StatusOK, model.SelectionResponse{
		IDs:         sel.IDs(),
		Count:       sel.Len(),
		AllSelected: sel.AllSelected(visible),
	})
}

// serveRefresh answers POST /<screen>/refresh by dropping the cached rows,
// which also tells open dashboards to refetch.
func serveRefresh(c *gin.Context, screen TableScreen) {
	if err := screen.Refresh(c.Request.Context()); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"refreshed": screen.ExportName()})
}

// serveExport answers GET /<screen>/export?format=csv|xlsx with every row
// matching the filters, as a download.
func serveExport(c *gin.Context, screen TableScreen) {
	f, err := table.ParseFormat(c.Query("format"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := screen.Export(c.Request.Context(), table.ParseQuery(c.Request.URL.Query()), f, &buf); err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename(screen.ExportName())))
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}

// bindEdits decodes a save-edits body. It writes the error response and
// returns false on failure.
func bindEdits(c *gin.Context) ([]table.Edit, bool) {
	var req model.SaveEditsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return nil, false
	}
	edits, err := table.EditsFromRequest(req.Edits)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return edits, true
}

// bindIDs decodes a bulk-delete body.
func bindIDs(c *gin.Context) ([]string, bool) {
	var req model.BulkDeleteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return nil, false
	}
	return req.IDs, true
}

// respondBulk reports a bulk action. A partial failure still reports how
// many rows were done, alongside the error.
func respondBulk(c *gin.Context, key string, n int, err error) {
	if err != nil {
		status, code := response.Classify(err)
		_ = c.Error(err)
		response.FailWithFields(c, status, code, map[string]string{
			key:      strconv.Itoa(n),
			"detail": err.Error(),
		})
		return
	}
	response.Success(c, http.StatusOK, gin.H{key: n})
}

// intParam parses a numeric path parameter.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
