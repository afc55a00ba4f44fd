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

// HackathonService backs the hackathon settings page and supplies the
// active hackathon to analytics.
type HackathonService struct {
	*Screen[model.Hackathon]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewHackathonService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *HackathonService {
	return &HackathonService{
		Screen: newScreen("hackathons", querycache.NewKey(config.NamespaceHackathons, "all"), hackathonTable(), cache, api.ListHackathons),
		api:    api,
		cache:  cache,
		audit:  audit,
		log:    log.With().Str("component", "hackathon_service").Logger(),
	}
}

func hackathonTable() *table.Table[model.Hackathon] {
	return &table.Table[model.Hackathon]{
		ID: func(h model.Hackathon) string { return h.ID },
		Columns: []table.Column[model.Hackathon]{
			{Key: "name", Header: "Name", Get: func(h model.Hackathon) any { return h.Name }},
			{
				Key:      "active",
				Header:   "Active",
				Type:     table.TypeBool,
				Editable: true,
				Get:      func(h model.Hackathon) any { return bool(h.Active) },
				Set: func(h *model.Hackathon, v any) error {
					h.Active = model.FlexBool(v.(bool))
					return nil
				},
			},
		},
	}
}

// Active returns the current hackathon.
func (s *HackathonService) Active(ctx context.Context) (model.Hackathon, querycache.Status, error) {
	return querycache.Fetch(ctx, s.cache, querycache.NewKey(config.NamespaceHackathons, "active"), s.api.ActiveHackathon)
}

// SaveEdits applies the edits, then for every row updates its name and,
// when the row is flagged active, marks it active. Rows are saved in order
// so the last active row wins.
func (s *HackathonService) SaveEdits(ctx context.Context, edits []table.Edit) (int, error) {
	rows, _, err := s.Rows(ctx)
	if err != nil {
		return 0, err
	}
	edited, err := s.table.ApplyEdits(rows, edits)
	if err != nil {
		return 0, err
	}

	saved, touched := 0, false
	defer func() {
		if touched {
			_ = s.cache.Invalidate(ctx, querycache.NewKey(config.NamespaceHackathons), querycache.NewKey(config.NamespaceAnalytics))
		}
	}()

	for _, h := range edited {
		name := h.Name
		if _, err := s.api.UpdateHackathon(ctx, h.ID, model.UpdateHackathonRequest{Name: &name}); err != nil {
			return saved, fmt.Errorf("update hackathon %s: %w", h.ID, err)
		}
		touched = true
		if h.Active {
			if _, err := s.api.MarkActiveHackathon(ctx, h.ID); err != nil {
				return saved, fmt.Errorf("activate hackathon %s: %w", h.ID, err)
			}
			s.audit.Record(ctx, model.AuditActionUpdate, "hackathon_active", h.ID)
		}
		s.audit.Record(ctx, model.AuditActionUpdate, "hackathon", h.ID)
		saved++
	}
	return saved, nil
}
