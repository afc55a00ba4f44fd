package analytics

import (
	"math"
	"sort"

	"github.com/hackpsu/admin-console/internal/model"
)

const dayMillis = int64(24 * 60 * 60 * 1000)

// Bar is one hackathon's registration total. Growth is the percent change
// against the previous bar; nil for the first bar or after a zero.
type Bar struct {
	Label  string   `json:"label"`
	Count  int      `json:"count"`
	Growth *float64 `json:"growth"`
}

// SortHackathons returns hackathons ordered by start time. Missing start
// times sort first.
func SortHackathons(hackathons []model.Hackathon) []model.Hackathon {
	out := append([]model.Hackathon(nil), hackathons...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// RegistrationBars orders the summary by hackathon start time. Entries for
// unknown hackathons follow in their original order. Without hackathons the
// summary order is kept.
func RegistrationBars(summary []model.RegistrationCount, hackathons []model.Hackathon) []Bar {
	if len(summary) == 0 {
		return []Bar{}
	}

	bars := make([]Bar, 0, len(summary))
	if len(hackathons) == 0 {
		for _, e := range summary {
			bars = append(bars, Bar{Label: FormatLabel(e.Name), Count: e.Count})
		}
		return withGrowth(bars)
	}

	byID := make(map[string]model.RegistrationCount, len(summary))
	for _, e := range summary {
		byID[e.ID] = e
	}
	known := make(map[string]bool, len(summary))
	for _, h := range SortHackathons(hackathons) {
		e, ok := byID[h.ID]
		if !ok {
			continue
		}
		known[e.ID] = true
		name := e.Name
		if name == "" {
			name = h.Name
		}
		bars = append(bars, Bar{Label: FormatLabel(name), Count: e.Count})
	}
	for _, e := range summary {
		if known[e.ID] {
			continue
		}
		bars = append(bars, Bar{Label: FormatLabel(e.Name), Count: e.Count})
	}
	return withGrowth(bars)
}

func withGrowth(bars []Bar) []Bar {
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Count
		if prev == 0 {
			continue
		}
		g := float64(bars[i].Count-prev) / float64(prev) * 100
		bars[i].Growth = &g
	}
	return bars
}

// Total sums every bar.
func Total(bars []Bar) int {
	n := 0
	for _, b := range bars {
		n += b.Count
	}
	return n
}

// TimelinePoint is the cumulative registration count Day days relative to
// the end of a hackathon (0 is the final day, negative is before).
type TimelinePoint struct {
	Day           int    `json:"day"`
	Count         int    `json:"count"`
	HackathonID   string `json:"hackathonId"`
	HackathonName string `json:"hackathonName"`
}

// Timeline builds cumulative registration curves, one per hackathon that has
// an end time and at least one timestamped registration. Days without new
// registrations carry the previous count forward.
func Timeline(registrations []model.Registration, hackathons []model.Hackathon) []TimelinePoint {
	out := []TimelinePoint{}
	if len(registrations) == 0 || len(hackathons) == 0 {
		return out
	}

	byHackathon := make(map[string][]int64)
	for _, r := range registrations {
		if r.Time.IsZero() {
			continue
		}
		byHackathon[r.HackathonID] = append(byHackathon[r.HackathonID], int64(r.Time))
	}

	for _, h := range hackathons {
		times := byHackathon[h.ID]
		if len(times) == 0 || h.EndTime.IsZero() {
			continue
		}
		end := int64(h.EndTime)
		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

		maxDays := int(math.Ceil(float64(end-times[0]) / float64(dayMillis)))

		counts := make(map[int]int)
		for i, t := range times {
			daysBefore := int(math.Floor(float64(end-t) / float64(dayMillis)))
			counts[-daysBefore] = i + 1
		}

		prev := 0
		for day := -maxDays; day <= 0; day++ {
			count, ok := counts[day]
			if !ok {
				count = prev
			}
			out = append(out, TimelinePoint{
				Day:           day,
				Count:         count,
				HackathonID:   h.ID,
				HackathonName: h.Name,
			})
			prev = count
		}
	}
	return out
}
