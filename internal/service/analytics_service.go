package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hackpsu/admin-console/internal/analytics"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/table"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SummaryPage is the analytics summary screen.
type SummaryPage struct {
	Bars         []analytics.Bar           `json:"bars"`
	Total        int                       `json:"total"`
	Timeline     []analytics.TimelinePoint `json:"timeline"`
	Hackathons   []model.Hackathon         `json:"hackathons"`
	HackathonID  string                    `json:"hackathonId"`
	Demographics analytics.Demographics    `json:"demographics"`
}

// AnalyticsService backs the analytics screens.
type AnalyticsService struct {
	Events     *Screen[analytics.EventScan]
	Organizers *Screen[analytics.OrganizerScan]
	api        *apiclient.Client
	cache      *querycache.Cache
	hackathons *HackathonService
	log        zerolog.Logger
}

func NewAnalyticsService(api *apiclient.Client, cache *querycache.Cache, hackathons *HackathonService, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		Events: newScreen("event-scans", querycache.NewKey(config.NamespaceAnalytics, "events"), eventScanTable(), cache,
			func(ctx context.Context) ([]analytics.EventScan, error) {
				rows, err := api.AnalyticsEvents(ctx)
				if err != nil {
					return nil, err
				}
				return analytics.EventScans(rows), nil
			}),
		Organizers: newScreen("organizer-scans", querycache.NewKey(config.NamespaceAnalytics, "scans"), organizerScanTable(), cache,
			func(ctx context.Context) ([]analytics.OrganizerScan, error) {
				rows, err := api.AnalyticsScans(ctx)
				if err != nil {
					return nil, err
				}
				return analytics.OrganizerScans(rows), nil
			}),
		api:        api,
		cache:      cache,
		hackathons: hackathons,
		log:        log.With().Str("component", "analytics_service").Logger(),
	}
}

func eventScanTable() *table.Table[analytics.EventScan] {
	return &table.Table[analytics.EventScan]{
		ID: func(e analytics.EventScan) string { return e.ID },
		Columns: []table.Column[analytics.EventScan]{
			{Key: "name", Header: "Name", Get: func(e analytics.EventScan) any { return e.Name }},
			{
				Key:     "type",
				Header:  "Type",
				Get:     func(e analytics.EventScan) any { return e.Type },
				Display: func(e analytics.EventScan) string { return e.TypeLabel },
			},
			{Key: "count", Header: "Scans", Type: table.TypeNumber, Get: func(e analytics.EventScan) any { return e.Count }},
		},
	}
}

func organizerScanTable() *table.Table[analytics.OrganizerScan] {
	return &table.Table[analytics.OrganizerScan]{
		ID: func(o analytics.OrganizerScan) string { return o.ID },
		Columns: []table.Column[analytics.OrganizerScan]{
			{Key: "name", Header: "Name", Get: func(o analytics.OrganizerScan) any { return o.Name }},
			{Key: "count", Header: "Scans", Type: table.TypeNumber, Get: func(o analytics.OrganizerScan) any { return o.Count }},
		},
	}
}

// Summary builds the summary screen. Demographics cover hackathonID, or
// the active hackathon when it is empty. When no hackathon is active they
// cover every registration.
func (s *AnalyticsService) Summary(ctx context.Context, hackathonID string) (SummaryPage, querycache.Status, error) {
	var (
		summary       model.AnalyticsSummary
		hackathons    []model.Hackathon
		registrations []model.Registration
		users         []model.User
		statuses      [4]querycache.Status
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, statuses[0], err = querycache.Fetch(gctx, s.cache, querycache.NewKey(config.NamespaceAnalytics, "summary"), s.api.AnalyticsSummary)
		return err
	})
	g.Go(func() (err error) {
		hackathons, statuses[1], err = s.hackathons.Rows(gctx)
		return err
	})
	g.Go(func() (err error) {
		key := querycache.NewKey(config.NamespaceRegistrations, config.CacheKey.RegistrationsScope(true))
		registrations, statuses[2], err = querycache.Fetch(gctx, s.cache, key, func(ctx context.Context) ([]model.Registration, error) {
			return s.api.ListRegistrations(ctx, true)
		})
		return err
	})
	g.Go(func() (err error) {
		key := querycache.NewKey(config.NamespaceUsers, config.CacheKey.UsersActive(nil))
		users, statuses[3], err = querycache.Fetch(gctx, s.cache, key, func(ctx context.Context) ([]model.User, error) {
			return s.api.ListUsers(ctx, nil)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return SummaryPage{}, querycache.Status{}, fmt.Errorf("load analytics summary: %w", err)
	}

	if hackathonID == "" {
		hackathonID = activeHackathonID(hackathons)
	}

	bars := analytics.RegistrationBars(summary.Registrations, hackathons)
	return SummaryPage{
		Bars:         bars,
		Total:        analytics.Total(bars),
		Timeline:     analytics.Timeline(registrations, hackathons),
		Hackathons:   analytics.SortHackathons(hackathons),
		HackathonID:  hackathonID,
		Demographics: analytics.BuildDemographics(registrations, users, hackathonID),
	}, oldest(statuses[:]), nil
}

func activeHackathonID(hackathons []model.Hackathon) string {
	for _, h := range hackathons {
		if h.Active {
			return h.ID
		}
	}
	return ""
}

// oldest combines the statuses of a multi-key read: a hit only when every
// part was, dated by the stalest part.
func oldest(statuses []querycache.Status) querycache.Status {
	out := querycache.Status{Key: config.NamespaceAnalytics, Hit: true}
	var at time.Time
	for _, st := range statuses {
		out.Hit = out.Hit && st.Hit
		if at.IsZero() || (!st.FetchedAt.IsZero() && st.FetchedAt.Before(at)) {
			at = st.FetchedAt
		}
	}
	out.FetchedAt = at
	return out
}
