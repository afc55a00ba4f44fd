package analytics

import (
	"fmt"
	"testing"

	"github.com/hackpsu/admin-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolp(b bool) *bool { return &b }

func TestLabels(t *testing.T) {
	assert.Equal(t, "Unknown", FormatLabel("   "))
	assert.Equal(t, "Penn State", FormatLabel(" Penn State "))
	assert.Equal(t, "Not-Filled", FormatMissingLabel("NULL", "null"))
	assert.Equal(t, "Unknown", FormatMissingLabel("", "null"))
	assert.Equal(t, "Asian", FormatMissingLabel("Asian", "null"))
}

func TestTopSlices(t *testing.T) {
	counts := map[string]int{}
	for i := 0; i < 10; i++ {
		counts[fmt.Sprintf("School %d", i)] = 10 - i
	}

	slices := TopSlices(counts, MaxSchoolSlices, OtherSchoolsLabel)

	require.Len(t, slices, 9)
	assert.Equal(t, Slice{Label: "School 0", Value: 10}, slices[0])
	assert.Equal(t, Slice{Label: OtherSchoolsLabel, Value: 2 + 1}, slices[8])

	assert.Len(t, TopSlices(map[string]int{"a": 1}, 8, OtherMajorsLabel), 1)
}

func TestRegistrationBars_OrderedByStart(t *testing.T) {
	hackathons := []model.Hackathon{
		{ID: "s24", Name: "Spring 2024", StartTime: 1712000000000},
		{ID: "f23", Name: "Fall 2023", StartTime: 1698000000000},
	}
	summary := []model.RegistrationCount{
		{ID: "s24", Name: "", Count: 600},
		{ID: "legacy", Name: "HackPSU 2019", Count: 100},
		{ID: "f23", Name: "Fall 2023", Count: 400},
	}

	bars := RegistrationBars(summary, hackathons)

	require.Len(t, bars, 3)
	assert.Equal(t, "Fall 2023", bars[0].Label)
	assert.Nil(t, bars[0].Growth)
	assert.Equal(t, "Spring 2024", bars[1].Label, "falls back to the hackathon name")
	require.NotNil(t, bars[1].Growth)
	assert.InDelta(t, 50.0, *bars[1].Growth, 0.001)
	assert.Equal(t, "HackPSU 2019", bars[2].Label)
	assert.Equal(t, 1100, Total(bars))

	plain := RegistrationBars(summary, nil)
	assert.Equal(t, "Unknown", plain[0].Label)
	assert.Empty(t, RegistrationBars(nil, hackathons))
}

func TestTimeline_CumulativeWithCarryForward(t *testing.T) {
	const end = int64(1_700_000_000_000)
	day := dayMillis
	hackathons := []model.Hackathon{
		{ID: "h1", Name: "Fall", EndTime: model.Millis(end)},
		{ID: "h2", Name: "No end"},
		{ID: "h3", Name: "Empty", EndTime: model.Millis(end)},
	}
	regs := []model.Registration{
		{HackathonID: "h1", Time: model.Millis(end - day/2)},
		{HackathonID: "h1", Time: model.Millis(end - 5*day/2)},
		{HackathonID: "h1", Time: model.Millis(end - 11*day/5)},
		{HackathonID: "h1"},
		{HackathonID: "h2", Time: model.Millis(end - day)},
	}

	points := Timeline(regs, hackathons)

	got := make([][2]int, 0, len(points))
	for _, p := range points {
		assert.Equal(t, "h1", p.HackathonID)
		got = append(got, [2]int{p.Day, p.Count})
	}
	assert.Equal(t, [][2]int{{-3, 0}, {-2, 2}, {-1, 2}, {0, 3}}, got)
	assert.Empty(t, Timeline(nil, hackathons))
}

func TestBuildDemographics(t *testing.T) {
	users := []model.User{
		{ID: "u1", Gender: "Female", Race: "null", University: "Penn State", Major: "none", ShirtSize: "M"},
		{ID: "u2", Gender: "male", University: "Penn State", Major: "Computer Science"},
		{ID: "u3", Gender: "Female", University: "Pitt"},
	}
	regs := []model.Registration{
		{UserID: "u1", HackathonID: "h1", AcademicYear: "sophomore", CodingExperience: "none", TravelReimbursement: boolp(true)},
		{UserID: "u2", HackathonID: "h1", AcademicYear: "senior", TravelReimbursement: boolp(false)},
		{UserID: "u3", HackathonID: "h0", AcademicYear: "senior"},
	}

	d := BuildDemographics(regs, users, "h1")

	assert.Equal(t, []Slice{{"Female", 1}, {"male", 1}}, d.Gender)
	assert.Equal(t, []Slice{{"Not-Filled", 1}, {"Unknown", 1}}, d.Race)
	assert.Equal(t, []Slice{{"Penn State", 2}}, d.Schools)
	assert.Equal(t, []Slice{{"Computer Science", 1}, {"Not-Filled", 1}}, d.Majors)
	assert.Equal(t, []Slice{{"Not-Filled", 1}, {"Unknown", 1}}, d.CodingExperience)
	assert.Equal(t, []Slice{
		{LabelRequestingReimbursement, 1},
		{LabelNotRequestingReimbursement, 1},
	}, d.TravelReimbursement)

	all := BuildDemographics(regs, users, "")
	assert.Equal(t, []Slice{{"senior", 2}, {"sophomore", 1}}, all.AcademicYear)

	empty := BuildDemographics(nil, users, "h1")
	assert.NotNil(t, empty.Gender)
	assert.Empty(t, empty.Gender)
	assert.Empty(t, empty.TravelReimbursement)
}

func TestEventScans(t *testing.T) {
	rows := EventScans([]model.EventScanCount{
		{ID: "e1", Name: "Lunch", Type: model.EventTypeFood, Count: 80},
		{ID: "e2", Name: "Check-in", Type: model.EventTypeCheckIn, Count: 300},
		{ID: "e3", Name: "Closing", Type: "ceremony", Count: 80},
	})

	assert.Equal(t, "e2", rows[0].ID)
	assert.Equal(t, "Check-In", rows[0].TypeLabel)
	assert.Equal(t, "e1", rows[1].ID)
	assert.Equal(t, "ceremony", rows[2].TypeLabel)
}

func TestOrganizerScans(t *testing.T) {
	rows := OrganizerScans([]model.OrganizerScanCount{{ID: "o1", FirstName: "Ada", LastName: "Lovelace", Count: 3}, {ID: "o2"}})
	assert.Equal(t, "Ada Lovelace", rows[0].Name)
	assert.Equal(t, "Unknown", rows[1].Name)
}
