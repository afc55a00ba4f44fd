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

// FlagService backs the feature flags settings page.
type FlagService struct {
	*Screen[model.Flag]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewFlagService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *FlagService {
	return &FlagService{
		Screen: newScreen("flags", querycache.NewKey(config.NamespaceFlags, "all"), flagTable(), cache, api.ListFlags),
		api:    api,
		cache:  cache,
		audit:  audit,
		log:    log.With().Str("component", "flag_service").Logger(),
	}
}

func flagTable() *table.Table[model.Flag] {
	return &table.Table[model.Flag]{
		ID: func(f model.Flag) string { return f.Name },
		Columns: []table.Column[model.Flag]{
			{Key: "name", Header: "Flag Name", Get: func(f model.Flag) any { return f.Name }},
			{
				Key:      "isEnabled",
				Header:   "Enabled",
				Type:     table.TypeBool,
				Editable: true,
				Get:      func(f model.Flag) any { return bool(f.IsEnabled) },
				Set: func(f *model.Flag, v any) error {
					f.IsEnabled = model.FlexBool(v.(bool))
					return nil
				},
			},
			{Key: "description", Header: "Info", DisableSort: true, Get: func(f model.Flag) any { return f.Description }},
		},
	}
}

// SaveEdits applies the edits and sends every flag, changed or not, in one
// PATCH. It returns the flags as stored upstream.
func (s *FlagService) SaveEdits(ctx context.Context, edits []table.Edit) ([]model.Flag, error) {
	rows, _, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	edited, err := s.table.ApplyEdits(rows, edits)
	if err != nil {
		return nil, err
	}

	states := make([]model.FlagState, 0, len(edited))
	for _, f := range edited {
		states = append(states, model.FlagState{Name: f.Name, IsEnabled: bool(f.IsEnabled)})
	}
	saved, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) ([]model.Flag, error) {
		return s.api.PatchFlags(ctx, states)
	}, querycache.NewKey(config.NamespaceFlags))
	if err != nil {
		return nil, fmt.Errorf("save flags: %w", err)
	}
	for _, f := range s.table.Changed(rows, edited) {
		s.audit.Record(ctx, model.AuditActionUpdate, "flag", f.Name)
	}
	return saved, nil
}
