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

// SponsorService backs the sponsorship screen.
type SponsorService struct {
	*Screen[model.Sponsor]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewSponsorService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *SponsorService {
	return &SponsorService{
		Screen: newScreen("sponsors", querycache.NewKey(config.NamespaceSponsors, "all"), sponsorTable(), cache, api.ListSponsors),
		api:    api,
		cache:  cache,
		audit:  audit,
		log:    log.With().Str("component", "sponsor_service").Logger(),
	}
}

func sponsorTable() *table.Table[model.Sponsor] {
	return &table.Table[model.Sponsor]{
		ID: func(s model.Sponsor) string { return strconv.Itoa(s.ID) },
		Columns: []table.Column[model.Sponsor]{
			{Key: "name", Header: "Name", Get: func(s model.Sponsor) any { return s.Name }},
			{Key: "level", Header: "Level", Get: func(s model.Sponsor) any { return s.Level }},
			{
				Key:     "sponsorType",
				Header:  "Type",
				Get:     func(s model.Sponsor) any { return s.SponsorType },
				Display: func(s model.Sponsor) string { return orNA(s.SponsorType) },
			},
			{
				Key:     "link",
				Header:  "Website",
				Get:     func(s model.Sponsor) any { return s.Link },
				Display: func(s model.Sponsor) string { return orNA(s.Link) },
			},
		},
	}
}

// Create adds a sponsor.
func (s *SponsorService) Create(ctx context.Context, req model.CreateSponsorRequest) (model.Sponsor, error) {
	sponsor, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.Sponsor, error) {
		return s.api.CreateSponsor(ctx, req)
	}, querycache.NewKey(config.NamespaceSponsors))
	if err != nil {
		return model.Sponsor{}, fmt.Errorf("create sponsor: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionCreate, "sponsor", strconv.Itoa(sponsor.ID))
	return sponsor, nil
}

// Update patches a sponsor.
func (s *SponsorService) Update(ctx context.Context, id int, req model.UpdateSponsorRequest) (model.Sponsor, error) {
	sponsor, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.Sponsor, error) {
		return s.api.UpdateSponsor(ctx, id, req)
	}, querycache.NewKey(config.NamespaceSponsors))
	if err != nil {
		return model.Sponsor{}, fmt.Errorf("update sponsor: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionUpdate, "sponsor", strconv.Itoa(id))
	return sponsor, nil
}

// Delete removes every selected sponsor.
func (s *SponsorService) Delete(ctx context.Context, ids []string) (int, error) {
	return bulkDelete(ctx, s.cache, s.audit, "sponsor", ids, func(ctx context.Context, id string) error {
		n, err := parseID(id)
		if err != nil {
			return err
		}
		return s.api.DeleteSponsor(ctx, n)
	}, querycache.NewKey(config.NamespaceSponsors))
}
