package service

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/table"
)

const notAvailable = "N/A"

// displayZone is where every HackPSU event takes place.
var displayZone = loadZone("America/New_York")

func loadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func formatDateTime(m model.Millis) string {
	if m.IsZero() {
		return notAvailable
	}
	return m.Time().In(displayZone).Format("1/2/2006, 3:04:05 PM")
}

func formatDate(m model.Millis) string {
	if m.IsZero() {
		return notAvailable
	}
	return m.Time().In(displayZone).Format("1/2/2006")
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// parseID converts a numeric row id from the dashboard.
func parseID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not numeric", table.ErrRowNotFound, id)
	}
	return n, nil
}
