package apiclient

import (
	"context"
	"net/http"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) ListFlags(ctx context.Context) ([]model.Flag, error) {
	return getJSON[[]model.Flag](ctx, c, "/flags", nil)
}

// PatchFlags sets every listed flag in a single request.
func (c *Client) PatchFlags(ctx context.Context, flags []model.FlagState) ([]model.Flag, error) {
	return sendJSON[[]model.Flag](ctx, c, http.MethodPatch, "/flags", model.PatchFlagsRequest{Flags: flags})
}
