package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hackpsu/admin-console/internal/model"
)

// ListRegistrations returns registrations for the active hackathon, or for
// every hackathon when all is set.
func (c *Client) ListRegistrations(ctx context.Context, all bool) ([]model.Registration, error) {
	var q url.Values
	if all {
		q = url.Values{"all": {"true"}}
	}
	return getJSON[[]model.Registration](ctx, c, "/registrations", q)
}

func (c *Client) GetRegistration(ctx context.Context, id int) (model.Registration, error) {
	return getJSON[model.Registration](ctx, c, "/registrations/"+strconv.Itoa(id), nil)
}

func (c *Client) CreateRegistration(ctx context.Context, reg model.Registration) (model.Registration, error) {
	return sendJSON[model.Registration](ctx, c, http.MethodPost, "/registrations", reg)
}

// UpdateRegistration sends a partial update. fields holds only the keys to change.
func (c *Client) UpdateRegistration(ctx context.Context, id int, fields map[string]any) (model.Registration, error) {
	return sendJSON[model.Registration](ctx, c, http.MethodPatch, "/registrations/"+strconv.Itoa(id), fields)
}

func (c *Client) ReplaceRegistration(ctx context.Context, id int, reg model.Registration) (model.Registration, error) {
	return sendJSON[model.Registration](ctx, c, http.MethodPut, "/registrations/"+strconv.Itoa(id), reg)
}

func (c *Client) DeleteRegistration(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, "/registrations/"+strconv.Itoa(id), nil)
}

// RegistrationScores returns ranked applicants for one pool.
func (c *Client) RegistrationScores(ctx context.Context, pool model.ScorePool) ([]model.RegistrationScore, error) {
	return getJSON[[]model.RegistrationScore](ctx, c, "/registrations/scores/"+string(pool), nil)
}

// UpdateApplicationStatus sets the review status of one registration.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id int, status string) (model.Registration, error) {
	body := model.UpdateApplicationStatusRequest{Status: status}
	return sendJSON[model.Registration](ctx, c, http.MethodPatch,
		"/registrations/"+strconv.Itoa(id)+"/application-status", body)
}

// UpdateApplicationStatusBulk sets the same status for several hackers at once.
func (c *Client) UpdateApplicationStatusBulk(ctx context.Context, userIDs []string, status string) error {
	body := model.BulkApplicationStatusRequest{UserIDs: userIDs, Status: status}
	return c.send(ctx, http.MethodPatch, "/registrations/application-status-bulk", body)
}
