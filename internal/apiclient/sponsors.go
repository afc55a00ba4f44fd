package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) ListSponsors(ctx context.Context) ([]model.Sponsor, error) {
	return getJSON[[]model.Sponsor](ctx, c, "/sponsors", nil)
}

func (c *Client) CreateSponsor(ctx context.Context, req model.CreateSponsorRequest) (model.Sponsor, error) {
	return sendJSON[model.Sponsor](ctx, c, http.MethodPost, "/sponsors", req)
}

func (c *Client) UpdateSponsor(ctx context.Context, id int, req model.UpdateSponsorRequest) (model.Sponsor, error) {
	return sendJSON[model.Sponsor](ctx, c, http.MethodPatch, "/sponsors/"+strconv.Itoa(id), req)
}

func (c *Client) DeleteSponsor(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, "/sponsors/"+strconv.Itoa(id), nil)
}
