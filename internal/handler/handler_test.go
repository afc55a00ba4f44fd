package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/hackpsu/admin-console/internal/validator"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   response.ErrCode  `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// locationsAPI serves three locations. Deleting location 3 fails with 404.
func locationsAPI(t *testing.T, lists *atomic.Int32) *apiclient.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /locations", func(w http.ResponseWriter, r *http.Request) {
		lists.Add(1)
		writeJSON(w, []model.Location{
			{ID: 1, Name: "ECORE", Capacity: 40},
			{ID: 2, Name: "HUB", Capacity: 300},
			{ID: 3, Name: "Business Building", Capacity: 120},
		})
	})
	mux.HandleFunc("DELETE /locations/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "3" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return apiclient.New(&config.Config{APIBaseURL: srv.URL, APITimeout: 2 * time.Second}, zerolog.Nop())
}

func newLocationsRouter(t *testing.T, lists *atomic.Int32) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, zerolog.Nop())
	audit := service.NewAuditService(nil, nil, zerolog.Nop())
	svc := service.NewLocationService(locationsAPI(t, lists), cache, audit, zerolog.Nop())
	h := NewLocationHandler(svc)
	screen := NewScreenHandler("/locations", svc)

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/locations", h.ListLocations)
	r.GET("/locations/export", h.ExportLocations)
	r.PATCH("/locations", h.SaveLocations)
	r.DELETE("/locations", h.DeleteLocations)
	r.GET("/locations/columns", screen.Columns)
	r.POST("/locations/selection", screen.Selection)
	r.POST("/locations/refresh", screen.Refresh)
	return r
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDeleteLocations_PartialFailureReportsCount(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	w := send(r, http.MethodDelete, "/locations", model.BulkDeleteRequest{IDs: []string{"1", "2", "3"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrNotFound, env.Error.Code)
	assert.Equal(t, "2", env.Error.Fields["deleted"])
	assert.Contains(t, env.Error.Fields["detail"], "3")
}

func TestDeleteLocations_AllSucceed(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	w := send(r, http.MethodDelete, "/locations", model.BulkDeleteRequest{IDs: []string{"1", "2"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, string(decode(t, w).Data))
}

func TestExportLocations_XLSXDownload(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	w := send(r, http.MethodGet, "/locations/export?format=xlsx", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, table.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="locations.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
}

func TestExportLocations_UnknownFormat(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	w := send(r, http.MethodGet, "/locations/export?format=pdf", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidFormat, decode(t, w).Error.Code)
}

func TestSaveLocations_InvalidCellValue(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	w := send(r, http.MethodPatch, "/locations", map[string]any{
		"edits": []map[string]any{{"id": "1", "column": "capacity", "value": -5}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrInvalidCellValue, env.Error.Code)
	assert.Equal(t, "0", env.Error.Fields["saved"])
}

func TestSaveLocations_EmptyEditsIsValidationError(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	w := send(r, http.MethodPatch, "/locations", map[string]any{"edits": []any{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, decode(t, w).Error.Code)
	assert.Zero(t, lists.Load())
}

func TestLocationColumns(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	w := send(r, http.MethodGet, "/locations/columns", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"capacity"`)
	assert.Zero(t, lists.Load())
}

func TestLocationSelection(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	selection := func(t *testing.T, path string, req model.SelectionRequest) model.SelectionResponse {
		t.Helper()
		w := send(r, http.MethodPost, path, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out model.SelectionResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &out))
		return out
	}

	t.Run("toggle one", func(t *testing.T) {
		got := selection(t, "/locations/selection", model.SelectionRequest{Selected: []string{"1"}, Toggle: "2"})
		assert.Equal(t, []string{"1", "2"}, got.IDs)
		assert.False(t, got.AllSelected)
	})

	t.Run("toggle all on the page", func(t *testing.T) {
		got := selection(t, "/locations/selection", model.SelectionRequest{ToggleAll: true})
		assert.Equal(t, []string{"1", "2", "3"}, got.IDs)
		assert.Equal(t, 3, got.Count)
		assert.True(t, got.AllSelected)
	})

	t.Run("toggle all again clears the filtered page", func(t *testing.T) {
		got := selection(t, "/locations/selection?q=ECORE", model.SelectionRequest{Selected: []string{"1", "2"}, ToggleAll: true})
		assert.Equal(t, []string{"2"}, got.IDs)
		assert.False(t, got.AllSelected)
	})

	t.Run("across pages", func(t *testing.T) {
		got := selection(t, "/locations/selection?q=HUB", model.SelectionRequest{Selected: []string{"1"}, ToggleAll: true, AcrossPages: true})
		assert.Equal(t, []string{"1", "2"}, got.IDs)
		assert.True(t, got.AllSelected)
	})

	t.Run("nothing to toggle", func(t *testing.T) {
		w := send(r, http.MethodPost, "/locations/selection", model.SelectionRequest{Selected: []string{"1"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.Equal(t, int32(1), lists.Load())
}

func TestLocationRefresh_RefetchesUpstream(t *testing.T) {
	var lists atomic.Int32
	r := newLocationsRouter(t, &lists)

	require.Equal(t, http.StatusOK, send(r, http.MethodGet, "/locations", nil).Code)
	require.Equal(t, http.StatusOK, send(r, http.MethodGet, "/locations", nil).Code)
	require.Equal(t, int32(1), lists.Load())

	w := send(r, http.MethodPost, "/locations/refresh", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"refreshed":"locations"}`, string(decode(t, w).Data))

	require.Equal(t, http.StatusOK, send(r, http.MethodGet, "/locations", nil).Code)
	assert.Equal(t, int32(2), lists.Load())
}

func TestGetApplication_NonNumericID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, zerolog.Nop())
	api := apiclient.New(&config.Config{APIBaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	svc := service.NewOrganizerApplicationService(api, cache, service.NewAuditService(nil, nil, zerolog.Nop()), zerolog.Nop())
	h := NewOrganizerApplicationHandler(svc)

	r := gin.New()
	r.GET("/organizer-applications/:id", h.GetApplication)
	w := send(r, http.MethodGet, "/organizer-applications/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidID, decode(t, w).Error.Code)
}
