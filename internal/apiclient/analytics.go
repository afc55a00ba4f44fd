package apiclient

import (
	"context"

	"github.com/hackpsu/admin-console/internal/model"
)

func (c *Client) AnalyticsSummary(ctx context.Context) (model.AnalyticsSummary, error) {
	return getJSON[model.AnalyticsSummary](ctx, c, "/analytics/summary", nil)
}

// AnalyticsEvents returns check-in scan counts per event.
func (c *Client) AnalyticsEvents(ctx context.Context) ([]model.EventScanCount, error) {
	return getJSON[[]model.EventScanCount](ctx, c, "/analytics/events", nil)
}

// AnalyticsScans returns scan counts per organizer.
func (c *Client) AnalyticsScans(ctx context.Context) ([]model.OrganizerScanCount, error) {
	return getJSON[[]model.OrganizerScanCount](ctx, c, "/analytics/scans", nil)
}
