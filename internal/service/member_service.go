package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/rs/zerolog"
)

// MemberGroup is every matching organizer holding one role.
type MemberGroup struct {
	Role    string            `json:"role"`
	Members []model.Organizer `json:"members"`
}

// MemberDirectory is the members settings page.
type MemberDirectory struct {
	Groups []MemberGroup `json:"groups"`
	IDs    []string      `json:"ids"`
	Total  int           `json:"total"`
}

// MemberOptions lists the choices of the add-member form.
type MemberOptions struct {
	Teams []string       `json:"teams"`
	Roles []table.Option `json:"roles"`
}

// MemberService backs the organizer members settings page.
type MemberService struct {
	*Screen[model.Organizer]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewMemberService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *MemberService {
	return &MemberService{
		Screen: newScreen("members", querycache.NewKey(config.NamespaceOrganizers, "all"), memberTable(), cache, api.ListOrganizers),
		api:    api,
		cache:  cache,
		audit:  audit,
		log:    log.With().Str("component", "member_service").Logger(),
	}
}

func roleOptions() []table.Option {
	out := make([]table.Option, 0, len(model.Roles))
	for _, r := range model.Roles {
		out = append(out, table.Option{Label: r.Label(), Value: r})
	}
	return out
}

func memberTable() *table.Table[model.Organizer] {
	return &table.Table[model.Organizer]{
		ID: func(o model.Organizer) string { return o.ID },
		Columns: []table.Column[model.Organizer]{
			{Key: "name", Header: "Name", Get: func(o model.Organizer) any { return o.FullName() }},
			{Key: "email", Header: "Email", Get: func(o model.Organizer) any { return o.Email }},
			{
				Key:      "privilege",
				Header:   "Permission",
				Type:     table.TypeSelect,
				Editable: true,
				Options:  roleOptions(),
				Get:      func(o model.Organizer) any { return o.Privilege },
				Set: func(o *model.Organizer, v any) error {
					o.Privilege = v.(model.Role)
					return nil
				},
			},
		},
	}
}

// Options returns the teams and roles offered when adding a member.
func (s *MemberService) Options() MemberOptions {
	return MemberOptions{Teams: model.Teams, Roles: roleOptions()}
}

// Directory returns the organizers whose name or email contains search,
// grouped by role label. Groups are ordered by label.
func (s *MemberService) Directory(ctx context.Context, search string) (MemberDirectory, querycache.Status, error) {
	rows, st, err := s.Rows(ctx)
	if err != nil {
		return MemberDirectory{}, st, err
	}
	matched := SearchMembers(rows, search)

	byRole := make(map[string][]model.Organizer)
	ids := make([]string, 0, len(matched))
	for _, o := range matched {
		label := o.Privilege.Label()
		byRole[label] = append(byRole[label], o)
		ids = append(ids, o.ID)
	}

	labels := make([]string, 0, len(byRole))
	for label := range byRole {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	groups := make([]MemberGroup, 0, len(labels))
	for _, label := range labels {
		groups = append(groups, MemberGroup{Role: label, Members: byRole[label]})
	}
	return MemberDirectory{Groups: groups, IDs: ids, Total: len(matched)}, st, nil
}

// SearchMembers keeps organizers whose full name or email contains search,
// ignoring case and surrounding whitespace.
func SearchMembers(rows []model.Organizer, search string) []model.Organizer {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return rows
	}
	out := make([]model.Organizer, 0, len(rows))
	for _, o := range rows {
		name := strings.ToLower(o.FirstName + " " + o.LastName)
		if strings.Contains(name, q) || strings.Contains(strings.ToLower(o.Email), q) {
			out = append(out, o)
		}
	}
	return out
}

// SaveEdits applies privilege edits and PATCHes only the organizers whose
// privilege changed.
func (s *MemberService) SaveEdits(ctx context.Context, edits []table.Edit) (int, error) {
	rows, _, err := s.Rows(ctx)
	if err != nil {
		return 0, err
	}
	edited, err := s.table.ApplyEdits(rows, edits)
	if err != nil {
		return 0, err
	}
	changed := s.table.Changed(rows, edited)
	if len(changed) == 0 {
		return 0, nil
	}

	privileges := make(map[string]model.Role, len(changed))
	ids := make([]string, 0, len(changed))
	for _, o := range changed {
		privileges[o.ID] = o.Privilege
		ids = append(ids, o.ID)
	}

	n, err := forEach(ctx, ids, func(ctx context.Context, id string) error {
		p := privileges[id]
		if _, err := s.api.UpdateOrganizer(ctx, id, model.UpdateOrganizerRequest{Privilege: &p}); err != nil {
			return err
		}
		s.audit.Record(ctx, model.AuditActionUpdate, "organizer", id)
		return nil
	})
	if n > 0 {
		_ = s.cache.Invalidate(ctx, querycache.NewKey(config.NamespaceOrganizers))
	}
	if err != nil {
		return n, fmt.Errorf("save privileges: %w", err)
	}
	return n, nil
}

// Create adds a member. Privilege defaults to Team Member.
func (s *MemberService) Create(ctx context.Context, req model.CreateOrganizerRequest) (model.Organizer, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Privilege == nil {
		role := model.RoleTeam
		req.Privilege = &role
	}
	o, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.Organizer, error) {
		return s.api.CreateOrganizer(ctx, req)
	}, querycache.NewKey(config.NamespaceOrganizers))
	if err != nil {
		return model.Organizer{}, fmt.Errorf("create member: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionCreate, "organizer", o.ID)
	return o, nil
}

// Delete removes every selected member.
func (s *MemberService) Delete(ctx context.Context, ids []string) (int, error) {
	return bulkDelete(ctx, s.cache, s.audit, "organizer", ids, s.api.DeleteOrganizer, querycache.NewKey(config.NamespaceOrganizers))
}
