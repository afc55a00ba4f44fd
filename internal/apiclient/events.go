package apiclient

import (
	"context"
	"net/http"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	return getJSON[[]model.Event](ctx, c, "/events", nil)
}

func (c *Client) GetEvent(ctx context.Context, id string) (model.Event, error) {
	return getJSON[model.Event](ctx, c, "/events/"+escape(id), nil)
}

func (c *Client) CreateEvent(ctx context.Context, req model.CreateEventRequest) (model.Event, error) {
	return sendJSON[model.Event](ctx, c, http.MethodPost, "/events", req)
}

func (c *Client) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (model.Event, error) {
	return sendJSON[model.Event](ctx, c, http.MethodPatch, "/events/"+escape(id), req)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/events/"+escape(id), nil)
}
