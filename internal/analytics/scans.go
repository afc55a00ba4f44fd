package analytics

import (
	"sort"

	"github.com/hackpsu/admin-console/internal/model"
)

// EventScan is one row of the event check-in chart.
type EventScan struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	TypeLabel string `json:"typeLabel"`
	Count     int    `json:"count"`
}

// EventScans labels event types and orders events by scan count, busiest first.
func EventScans(rows []model.EventScanCount) []EventScan {
	out := make([]EventScan, 0, len(rows))
	for _, r := range rows {
		out = append(out, EventScan{
			ID:        r.ID,
			Name:      r.Name,
			Type:      string(r.Type),
			TypeLabel: r.Type.Label(),
			Count:     r.Count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// OrganizerScan is one organizer's scan total.
type OrganizerScan struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OrganizerScans joins first and last names. Order is kept.
func OrganizerScans(rows []model.OrganizerScanCount) []OrganizerScan {
	out := make([]OrganizerScan, 0, len(rows))
	for _, r := range rows {
		out = append(out, OrganizerScan{
			ID:    r.ID,
			Name:  FormatLabel(r.FirstName + " " + r.LastName),
			Count: r.Count,
		})
	}
	return out
}
