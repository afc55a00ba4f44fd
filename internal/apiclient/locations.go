package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) ListLocations(ctx context.Context) ([]model.Location, error) {
	return getJSON[[]model.Location](ctx, c, "/locations", nil)
}

func (c *Client) CreateLocation(ctx context.Context, name string, capacity int) (model.Location, error) {
	body := model.UpdateLocationRequest{Name: name, Capacity: capacity}
	return sendJSON[model.Location](ctx, c, http.MethodPost, "/locations", body)
}

func (c *Client) UpdateLocation(ctx context.Context, id int, req model.UpdateLocationRequest) (model.Location, error) {
	return sendJSON[model.Location](ctx, c, http.MethodPatch, "/locations/"+strconv.Itoa(id), req)
}

func (c *Client) DeleteLocation(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, "/locations/"+strconv.Itoa(id), nil)
}
