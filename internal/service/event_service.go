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

// EventService backs the events screen and the event wizard.
type EventService struct {
	*Screen[model.Event]
	api   *apiclient.Client
	cache *querycache.Cache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewEventService(api *apiclient.Client, cache *querycache.Cache, audit AuditRecorder, log zerolog.Logger) *EventService {
	return &EventService{
		Screen: newScreen("events", querycache.NewKey(config.NamespaceEvents, "all"), eventTable(), cache, api.ListEvents),
		api:    api,
		cache:  cache,
		audit:  audit,
		log:    log.With().Str("component", "event_service").Logger(),
	}
}

func eventTable() *table.Table[model.Event] {
	return &table.Table[model.Event]{
		ID: func(e model.Event) string { return e.ID },
		Columns: []table.Column[model.Event]{
			{Key: "name", Header: "Name", Get: func(e model.Event) any { return e.Name }},
			{
				Key:     "location",
				Header:  "Location",
				Get:     func(e model.Event) any { return e.LocationName() },
				Display: func(e model.Event) string { return e.LocationName() },
			},
			{
				Key:     "startTime",
				Header:  "Start Time",
				Type:    table.TypeTime,
				Get:     func(e model.Event) any { return e.StartTime },
				Display: func(e model.Event) string { return formatDateTime(e.StartTime) },
			},
			{
				Key:     "endTime",
				Header:  "End Time",
				Type:    table.TypeTime,
				Get:     func(e model.Event) any { return e.EndTime },
				Display: func(e model.Event) string { return formatDateTime(e.EndTime) },
			},
			{
				Key:     "type",
				Header:  "Type",
				Get:     func(e model.Event) any { return string(e.Type) },
				Display: func(e model.Event) string { return e.Type.Label() },
			},
		},
	}
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (model.Event, querycache.Status, error) {
	return querycache.Fetch(ctx, s.cache, querycache.NewKey(config.NamespaceEvents, "detail", id), func(ctx context.Context) (model.Event, error) {
		return s.api.GetEvent(ctx, id)
	})
}

// Create schedules a new event.
func (s *EventService) Create(ctx context.Context, req model.CreateEventRequest) (model.Event, error) {
	event, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.Event, error) {
		return s.api.CreateEvent(ctx, req)
	}, querycache.NewKey(config.NamespaceEvents))
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionCreate, "event", event.ID)
	return event, nil
}

// Update patches an event.
func (s *EventService) Update(ctx context.Context, id string, req model.UpdateEventRequest) (model.Event, error) {
	event, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (model.Event, error) {
		return s.api.UpdateEvent(ctx, id, req)
	}, querycache.NewKey(config.NamespaceEvents))
	if err != nil {
		return model.Event{}, fmt.Errorf("update event: %w", err)
	}
	s.audit.Record(ctx, model.AuditActionUpdate, "event", id)
	return event, nil
}

// Delete removes every selected event.
func (s *EventService) Delete(ctx context.Context, ids []string) (int, error) {
	return bulkDelete(ctx, s.cache, s.audit, "event", ids, s.api.DeleteEvent, querycache.NewKey(config.NamespaceEvents))
}
