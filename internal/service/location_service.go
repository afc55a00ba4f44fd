package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/rs/zerolog"
)

// LocationService backs the locations screen.
type LocationService struct {
	*Screen[model.Location]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewLocationService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *LocationService {
	return &LocationService{
		Screen: newScreen("locations", querycache.NewKey(config.NamespaceLocations, "all"), locationTable(), cache, api.ListLocations),
		api:    api,
		cache:  cache,
		audit:  audit,
		log:    log.With().Str("component", "location_service").Logger(),
	}
}

func locationTable() *table.Table[model.Location] {
	return &table.Table[model.Location]{
		ID: func(l model.Location) string { return strconv.Itoa(l.ID) },
		Columns: []table.Column[model.Location]{
			{
				Key:      "name",
				Header:   "Name",
				Editable: true,
				Get:      func(l model.Location) any { return l.Name },
				Set: func(l *model.Location, v any) error {
					name := strings.TrimSpace(v.(string))
					if name == "" {
						return errors.New("name must not be blank")
					}
					l.Name = name
					return nil
				},
			},
			{
				Key:      "capacity",
				Header:   "Capacity",
				Type:     table.TypeNumber,
				Editable: true,
				Get:      func(l model.Location) any { return l.Capacity },
				Set: func(l *model.Location, v any) error {
					f := v.(float64)
					if f < 0 || f != math.Trunc(f) {
						return errors.New("capacity must be a non-negative whole number")
					}
					l.Capacity = int(f)
					return nil
				},
			},
		},
	}
}

// Create adds a location. The name is trimmed before it is sent.
func (s *LocationService) Create(ctx context.Context, req model.CreateLocationRequest) (model.Location, error) {
	name := strings.TrimSpace(req.Name)
	loc, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.Location, error) {
		return s.api.CreateLocation(ctx, name, *req.Capacity)
	}, querycache.NewKey(config.NamespaceLocations))
	if err != nil {
		return model.Location{}, fmt.Errorf("create location: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionCreate, "location", strconv.Itoa(loc.ID))
	return loc, nil
}

// SaveEdits applies inline edits and PATCHes only the rows whose name or
// capacity changed. It returns the number of rows saved.
func (s *LocationService) SaveEdits(ctx context.Context, edits []table.Edit) (int, error) {
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

	byID := make(map[string]model.Location, len(changed))
	ids := make([]string, 0, len(changed))
	for _, l := range changed {
		id := strconv.Itoa(l.ID)
		byID[id] = l
		ids = append(ids, id)
	}

	n, err := forEach(ctx, ids, func(ctx context.Context, id string) error {
		l := byID[id]
		if _, err := s.api.UpdateLocation(ctx, l.ID, model.UpdateLocationRequest{Name: l.Name, Capacity: l.Capacity}); err != nil {
			return err
		}
		s.audit.Record(ctx, model.AuditActionUpdate, "location", id)
		return nil
	})
	if n > 0 {
		_ = s.cache.Invalidate(ctx, querycache.NewKey(config.NamespaceLocations))
	}
	if err != nil {
		return n, fmt.Errorf("save locations: %w", err)
	}
	return n, nil
}

// Delete removes every selected location.
func (s *LocationService) Delete(ctx context.Context, ids []string) (int, error) {
	return bulkDelete(ctx, s.cache, s.audit, "location", ids, func(ctx context.Context, id string) error {
		n, err := parseID(id)
		if err != nil {
			return err
		}
		return s.api.DeleteLocation(ctx, n)
	}, querycache.NewKey(config.NamespaceLocations))
}
