package apiclient

import (
	"context"
	"net/http"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) ListOrganizers(ctx context.Context) ([]model.Organizer, error) {
	return getJSON[[]model.Organizer](ctx, c, "/organizers", nil)
}

func (c *Client) CreateOrganizer(ctx context.Context, req model.CreateOrganizerRequest) (model.Organizer, error) {
	return sendJSON[model.Organizer](ctx, c, http.MethodPost, "/organizers", req)
}

func (c *Client) UpdateOrganizer(ctx context.Context, id string, req model.UpdateOrganizerRequest) (model.Organizer, error) {
	return sendJSON[model.Organizer](ctx, c, http.MethodPatch, "/organizers/"+escape(id), req)
}

func (c *Client) DeleteOrganizer(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/organizers/"+escape(id), nil)
}
