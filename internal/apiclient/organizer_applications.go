package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hackpsu/admin-console/internal/model"
)

const organizerApplicationsPath = "/organizer-applications"

// ListOrganizerApplications returns every application. Exec only upstream.
func (c *Client) ListOrganizerApplications(ctx context.Context) ([]model.OrganizerApplication, error) {
	return getJSON[[]model.OrganizerApplication](ctx, c, organizerApplicationsPath, nil)
}

// OrganizerApplicationsByTeam returns the applications naming team as a choice.
func (c *Client) OrganizerApplicationsByTeam(ctx context.Context, team string) (model.ApplicationsByTeam, error) {
	return getJSON[model.ApplicationsByTeam](ctx, c, organizerApplicationsPath+"/by-team/"+escape(team), nil)
}

func (c *Client) GetOrganizerApplication(ctx context.Context, id int) (model.OrganizerApplication, error) {
	return getJSON[model.OrganizerApplication](ctx, c, organizerApplicationsPath+"/"+strconv.Itoa(id), nil)
}

func (c *Client) AcceptOrganizerApplication(ctx context.Context, id int, team string) (model.OrganizerApplication, error) {
	body := model.ApplicationDecisionRequest{Team: team}
	return sendJSON[model.OrganizerApplication](ctx, c, http.MethodPatch,
		organizerApplicationsPath+"/"+strconv.Itoa(id)+"/accept", body)
}

func (c *Client) RejectOrganizerApplication(ctx context.Context, id int, team string) (model.OrganizerApplication, error) {
	body := model.ApplicationDecisionRequest{Team: team}
	return sendJSON[model.OrganizerApplication](ctx, c, http.MethodPatch,
		organizerApplicationsPath+"/"+strconv.Itoa(id)+"/reject", body)
}
