package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hackpsu/admin-console/internal/model"
)

// ListUsers returns hackers, optionally filtered by active status.
func (c *Client) ListUsers(ctx context.Context, active *bool) ([]model.User, error) {
	var q url.Values
	if active != nil {
		q = url.Values{"active": {strconv.FormatBool(*active)}}
	}
	return getJSON[[]model.User](ctx, c, "/users", q)
}

func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	return getJSON[model.User](ctx, c, "/users/"+escape(id), nil)
}

func (c *Client) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return sendJSON[model.User](ctx, c, http.MethodPost, "/users", user)
}

// UpdateUser applies a partial update.
func (c *Client) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	return sendJSON[model.User](ctx, c, http.MethodPatch, "/users/"+escape(id), req)
}

// ReplaceUser overwrites every field of the user.
func (c *Client) ReplaceUser(ctx context.Context, id string, user model.User) (model.User, error) {
	return sendJSON[model.User](ctx, c, http.MethodPut, "/users/"+escape(id), user)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/users/"+escape(id), nil)
}

// UserResume streams a hacker's resume from storage through the API.
func (c *Client) UserResume(ctx context.Context, id string) (*Download, error) {
	return c.download(ctx, "/users/"+escape(id)+"/resume")
}

// AllResumes streams the archive of every resume for the current hackathon.
func (c *Client) AllResumes(ctx context.Context) (*Download, error) {
	return c.download(ctx, "/users/resumes")
}
