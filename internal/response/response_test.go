package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess_CarriesRequestIDAndCache(t *testing.T) {
	c, w := newTestContext()
	c.Set(ContextKeyRequestID, "req-1")
	SetCache(c, true, false, time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC))

	Success(c, http.StatusOK, gin.H{"ok": true})

	resp := decode(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Metadata.RequestID)
	require.NotNil(t, resp.Metadata.Cache)
	assert.True(t, resp.Metadata.Cache.Hit)
	assert.False(t, resp.Metadata.Cache.Shared)
	assert.Equal(t, "2025-02-01T12:00:00Z", resp.Metadata.Cache.FetchedAt)
}

func TestSuccessWithPagination(t *testing.T) {
	c, w := newTestContext()

	SuccessWithPagination(c, http.StatusOK, []string{"a"}, &Pagination{Page: 2, PerPage: 10, TotalItems: 25, TotalPages: 3, HasPrev: true, HasNext: true})

	resp := decode(t, w)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasPrev)
	assert.True(t, resp.Pagination.HasNext)
}

func TestFailWithFields(t *testing.T) {
	c, w := newTestContext()

	FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"name": "name is required"})

	resp := decode(t, w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrValidation, resp.Error.Code)
	assert.Equal(t, GetMessage(ErrValidation), resp.Error.Message)
	assert.Equal(t, "name is required", resp.Error.Fields["name"])
	assert.NotEmpty(t, resp.Metadata.RequestID)
	assert.Nil(t, resp.Metadata.Cache)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   ErrCode
	}{
		{"upstream 404", &apiclient.APIError{Status: 404}, http.StatusNotFound, ErrNotFound},
		{"upstream 409", fmt.Errorf("create: %w", &apiclient.APIError{Status: 409}), http.StatusConflict, ErrConflict},
		{"upstream 403", &apiclient.APIError{Status: 403}, http.StatusForbidden, ErrForbidden},
		{"upstream 400", &apiclient.APIError{Status: 400}, http.StatusUnprocessableEntity, ErrUpstreamError},
		{"upstream 503", &apiclient.APIError{Status: 503}, http.StatusBadGateway, ErrUpstreamUnavailable},
		{"transport", fmt.Errorf("%w: dial", apiclient.ErrUnavailable), http.StatusBadGateway, ErrUpstreamUnavailable},
		{"unknown column", fmt.Errorf("%w: x", table.ErrUnknownColumn), http.StatusBadRequest, ErrUnknownColumn},
		{"bad cell", table.ErrInvalidValue, http.StatusBadRequest, ErrInvalidCellValue},
		{"export format", table.ErrUnsupportedFormat, http.StatusBadRequest, ErrInvalidFormat},
		{"domain", fmt.Errorf("%w: already reviewed", ErrDomain), http.StatusUnprocessableEntity, ErrActionForbidden},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestFromError_TableErrorsCarryDetail(t *testing.T) {
	c, w := newTestContext()

	FromError(c, fmt.Errorf("%w: \"floor\"", table.ErrUnknownColumn))

	resp := decode(t, w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrUnknownColumn, resp.Error.Code)
	assert.Contains(t, resp.Error.Fields["detail"], "floor")
}
