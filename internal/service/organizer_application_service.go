package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/rs/zerolog"
)

// OrganizerApplicationService backs the organizer applications screen.
type OrganizerApplicationService struct {
	*Screen[model.OrganizerApplication]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewOrganizerApplicationService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *OrganizerApplicationService {
	key := querycache.NewKey(config.NamespaceOrganizerApplications, "all")
	return &OrganizerApplicationService{
		Screen: newScreen("organizer-applications", key, organizerApplicationTable(), cache, api.ListOrganizerApplications),
		api:    api,
		cache:  cache,
		audit:  audit,
		log:    log.With().Str("component", "organizer_application_service").Logger(),
	}
}

func organizerApplicationTable() *table.Table[model.OrganizerApplication] {
	text := func(key, header string, get func(model.OrganizerApplication) string) table.Column[model.OrganizerApplication] {
		return table.Column[model.OrganizerApplication]{
			Key:    key,
			Header: header,
			Get:    func(a model.OrganizerApplication) any { return get(a) },
		}
	}
	return &table.Table[model.OrganizerApplication]{
		ID: func(a model.OrganizerApplication) string { return strconv.Itoa(a.ID) },
		Columns: []table.Column[model.OrganizerApplication]{
			text("name", "Name", func(a model.OrganizerApplication) string { return a.Name }),
			text("email", "Email", func(a model.OrganizerApplication) string { return a.Email }),
			text("yearStanding", "Year Standing", func(a model.OrganizerApplication) string { return a.YearStanding }),
			text("major", "Major", func(a model.OrganizerApplication) string { return a.Major }),
			text("firstChoiceTeam", "First Choice Team", func(a model.OrganizerApplication) string { return a.FirstChoiceTeam }),
			text("firstChoiceStatus", "First Choice Status", func(a model.OrganizerApplication) string { return a.FirstChoiceStatus }),
			text("secondChoiceTeam", "Second Choice Team", func(a model.OrganizerApplication) string { return a.SecondChoiceTeam }),
			text("secondChoiceStatus", "Second Choice Status", func(a model.OrganizerApplication) string { return a.SecondChoiceStatus }),
			text("assignedTeam", "Assigned Team", func(a model.OrganizerApplication) string { return a.AssignedTeam }),
			{
				Key:     "createdAt",
				Header:  "Applied On",
				Type:    table.TypeTime,
				Get:     func(a model.OrganizerApplication) any { return a.CreatedAt },
				Display: func(a model.OrganizerApplication) string { return formatDate(a.CreatedAt) },
			},
		},
	}
}

func applicationKey(id int) querycache.Key {
	return querycache.NewKey(config.NamespaceOrganizerApplications, "detail", strconv.Itoa(id))
}

// ByTeam returns the applicants who chose team, split by choice.
func (s *OrganizerApplicationService) ByTeam(ctx context.Context, team string) (model.ApplicationsByTeam, querycache.Status, error) {
	key := querycache.NewKey(config.NamespaceOrganizerApplications, "team", team)
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (model.ApplicationsByTeam, error) {
		return s.api.OrganizerApplicationsByTeam(ctx, team)
	})
}

// Get returns one application.
func (s *OrganizerApplicationService) Get(ctx context.Context, id int) (model.OrganizerApplication, querycache.Status, error) {
	return querycache.Fetch(ctx, s.cache, applicationKey(id), func(ctx context.Context) (model.OrganizerApplication, error) {
		return s.api.GetOrganizerApplication(ctx, id)
	})
}

// Accept accepts the applicant onto team.
func (s *OrganizerApplicationService) Accept(ctx context.Context, id int, team string) (model.OrganizerApplication, error) {
	return s.decide(ctx, id, team, model.AuditActionAccept, s.api.AcceptOrganizerApplication)
}

// Reject rejects the applicant for team.
func (s *OrganizerApplicationService) Reject(ctx context.Context, id int, team string) (model.OrganizerApplication, error) {
	return s.decide(ctx, id, team, model.AuditActionReject, s.api.RejectOrganizerApplication)
}

func (s *OrganizerApplicationService) decide(ctx context.Context, id int, team, action string, call func(context.Context, int, string) (model.OrganizerApplication, error)) (model.OrganizerApplication, error) {
	app, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.OrganizerApplication, error) {
		return call(ctx, id, team)
	}, querycache.NewKey(config.NamespaceOrganizerApplications), applicationKey(id))
	if err != nil {
		return model.OrganizerApplication{}, fmt.Errorf("%s application: %w", action, err)
	}
	s.audit.Record(ctx, action, "organizer_application", strconv.Itoa(id))
	return app, nil
}
