package service

import (
	"context"
	"fmt"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/rs/zerolog"
)

// HackerService backs the hackers screen.
type HackerService struct {
	*Screen[model.User]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewHackerService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *HackerService {
	key := querycache.NewKey(config.NamespaceUsers, config.CacheKey.UsersActive(nil))
	return &HackerService{
		Screen: newScreen("hackers", key, hackerTable(), cache, func(ctx context.Context) ([]model.User, error) {
			return api.ListUsers(ctx, nil)
		}),
		api:   api,
		cache: cache,
		audit: audit,
		log:   log.With().Str("component", "hacker_service").Logger(),
	}
}

func hackerTable() *table.Table[model.User] {
	return &table.Table[model.User]{
		ID: func(u model.User) string { return u.ID },
		Columns: []table.Column[model.User]{
			{
				Key:     "firstName",
				Header:  "Name",
				Get:     func(u model.User) any { return u.FirstName },
				Display: func(u model.User) string { return u.FullName() },
			},
			{Key: "email", Header: "Email", Get: func(u model.User) any { return u.Email }},
			{Key: "university", Header: "University", Get: func(u model.User) any { return u.University }},
		},
	}
}

// Get returns one hacker.
func (s *HackerService) Get(ctx context.Context, id string) (model.User, querycache.Status, error) {
	return querycache.Fetch(ctx, s.cache, querycache.NewKey(config.NamespaceUser, id), func(ctx context.Context) (model.User, error) {
		return s.api.GetUser(ctx, id)
	})
}

// Update patches a hacker's profile.
func (s *HackerService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	user, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.User, error) {
		return s.api.UpdateUser(ctx, id, req)
	}, querycache.NewKey(config.NamespaceUsers), querycache.NewKey(config.NamespaceUser, id))
	if err != nil {
		return model.User{}, fmt.Errorf("update hacker: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionUpdate, "user", id)
	return user, nil
}

// Delete removes every selected hacker and reports how many were removed.
func (s *HackerService) Delete(ctx context.Context, ids []string) (int, error) {
	return bulkDelete(ctx, s.cache, s.audit, "user", ids, s.api.DeleteUser,
		querycache.NewKey(config.NamespaceUsers), querycache.NewKey(config.NamespaceUser))
}

// Resume streams one hacker's resume.
func (s *HackerService) Resume(ctx context.Context, id string) (*apiclient.Download, error) {
	d, err := s.api.UserResume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("download resume: %w", err)
	}
	return d, nil
}

// AllResumes streams the archive of every resume.
func (s *HackerService) AllResumes(ctx context.Context) (*apiclient.Download, error) {
	d, err := s.api.AllResumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("download resumes: %w", err)
	}
	return d, nil
}
