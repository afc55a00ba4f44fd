package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.Config{APIBaseURL: srv.URL + "/", APITimeout: 2 * time.Second, APIMaxRetries: 2}
	return New(cfg, zerolog.Nop(), WithRetryInterval(time.Millisecond)), srv
}

func TestListUsers_ForwardsTokenAndQuery(t *testing.T) {
	var gotAuth, gotReqID, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/users", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]model.User{{ID: "u1", FirstName: "Nittany", LastName: "Lion"}})
	}))

	ctx := WithRequestID(WithToken(context.Background(), "tok"), "req-9")
	active := true
	users, err := c.ListUsers(ctx, &active)

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Nittany Lion", users[0].FullName())
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "req-9", gotReqID)
	assert.Equal(t, "active=true", gotQuery)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"ECORE","capacity":40}]`))
	}))

	locs, err := c.ListLocations(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []model.Location{{ID: 1, Name: "ECORE", Capacity: 40}}, locs)
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.ListFlags(context.Background())

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such user", http.StatusNotFound)
	}))

	_, err := c.GetUser(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "/users/missing", apiErr.Path)
	assert.Equal(t, "no such user", apiErr.Body)
}

func TestMutation_NeverRetries(t *testing.T) {
	var calls atomic.Int32
	var body map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.UpdateApplicationStatusBulk(context.Background(), []string{"a", "b"}, "accepted")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, []any{"a", "b"}, body["userIds"])
}

func TestDelete_NoContent(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/ev%201", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteEvent(context.Background(), "ev 1"))
}

func TestTransportError_IsUnavailable(t *testing.T) {
	c, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()

	_, err := c.ListSponsors(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUserResume_Streams(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/resume", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="lion.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))

	d, err := c.UserResume(context.Background(), "u1")
	require.NoError(t, err)
	defer d.Body.Close()

	data, err := io.ReadAll(d.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, "lion.pdf", d.Filename)
}

func TestRegistrationDecode_NormalizesSeconds(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all=true", r.URL.RawQuery)
		_, _ = w.Write([]byte(`[{"id":7,"userId":"u1","hackathonId":"h1","time":1700000000,"travelReimbursement":true}]`))
	}))

	regs, err := c.ListRegistrations(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, model.Millis(1700000000000), regs[0].Time)
	assert.True(t, regs[0].RequestsReimbursement())
}
