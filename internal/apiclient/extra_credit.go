package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) ListExtraCreditClasses(ctx context.Context) ([]model.ExtraCreditClass, error) {
	return getJSON[[]model.ExtraCreditClass](ctx, c, "/extra-credit/classes", nil)
}

func (c *Client) CreateExtraCreditClass(ctx context.Context, req model.CreateExtraCreditClassRequest) (model.ExtraCreditClass, error) {
	return sendJSON[model.ExtraCreditClass](ctx, c, http.MethodPost, "/extra-credit/classes", req)
}

func (c *Client) UpdateExtraCreditClass(ctx context.Context, id int, req model.UpdateExtraCreditClassRequest) (model.ExtraCreditClass, error) {
	return sendJSON[model.ExtraCreditClass](ctx, c, http.MethodPatch, "/extra-credit/classes/"+strconv.Itoa(id), req)
}

func (c *Client) DeleteExtraCreditClass(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, "/extra-credit/classes/"+strconv.Itoa(id), nil)
}

// ListExtraCreditAssignments returns each class with the hackers assigned to it.
func (c *Client) ListExtraCreditAssignments(ctx context.Context) ([]model.ExtraCreditAssignment, error) {
	return getJSON[[]model.ExtraCreditAssignment](ctx, c, "/extra-credit/assignments", nil)
}
