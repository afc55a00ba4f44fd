package apiclient

import (
	"context"
	"net/http"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) ListHackathons(ctx context.Context) ([]model.Hackathon, error) {
	return getJSON[[]model.Hackathon](ctx, c, "/hackathons", nil)
}

func (c *Client) GetHackathon(ctx context.Context, id string) (model.Hackathon, error) {
	return getJSON[model.Hackathon](ctx, c, "/hackathons/"+escape(id), nil)
}

func (c *Client) UpdateHackathon(ctx context.Context, id string, req model.UpdateHackathonRequest) (model.Hackathon, error) {
	return sendJSON[model.Hackathon](ctx, c, http.MethodPatch, "/hackathons/"+escape(id), req)
}

// MarkActiveHackathon makes id the current hackathon. The API deactivates the others.
func (c *Client) MarkActiveHackathon(ctx context.Context, id string) (model.Hackathon, error) {
	return sendJSON[model.Hackathon](ctx, c, http.MethodPatch, "/hackathons/"+escape(id)+"/active", nil)
}

// ActiveHackathon returns the current hackathon without its nested relations.
func (c *Client) ActiveHackathon(ctx context.Context) (model.Hackathon, error) {
	return getJSON[model.Hackathon](ctx, c, "/hackathons/active/static", nil)
}
