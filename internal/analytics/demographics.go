package analytics

import "github.com/hackpsu/admin-console/internal/model"

const (
	MaxSchoolSlices = 8
	MaxMajorSlices  = 8

	OtherSchoolsLabel = "Other schools"
	OtherMajorsLabel  = "Other majors"

	LabelRequestingReimbursement    = "Requesting Reimbursement"
	LabelNotRequestingReimbursement = "Not Requesting Reimbursement"
)

// Demographics holds every pie on the analytics summary page.
type Demographics struct {
	Gender              []Slice `json:"gender"`
	Race                []Slice `json:"race"`
	AcademicYear        []Slice `json:"academicYear"`
	CodingExperience    []Slice `json:"codingExperience"`
	ShirtSize           []Slice `json:"shirtSize"`
	Schools             []Slice `json:"schools"`
	Majors              []Slice `json:"majors"`
	TravelReimbursement []Slice `json:"travelReimbursement"`
}

// FilterRegistrations keeps registrations for hackathonID, or all of them
// when hackathonID is empty.
func FilterRegistrations(registrations []model.Registration, hackathonID string) []model.Registration {
	if hackathonID == "" {
		return registrations
	}
	out := make([]model.Registration, 0, len(registrations))
	for _, r := range registrations {
		if r.HackathonID == hackathonID {
			out = append(out, r)
		}
	}
	return out
}

// RegisteredUsers keeps users with at least one of the given registrations.
func RegisteredUsers(users []model.User, registrations []model.Registration) []model.User {
	if len(users) == 0 || len(registrations) == 0 {
		return nil
	}
	ids := make(map[string]struct{}, len(registrations))
	for _, r := range registrations {
		ids[r.UserID] = struct{}{}
	}
	out := make([]model.User, 0, len(ids))
	for _, u := range users {
		if _, ok := ids[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out
}

// BuildDemographics computes the pies for one hackathon (all when
// hackathonID is empty). User-based pies only count registered users.
func BuildDemographics(registrations []model.Registration, users []model.User, hackathonID string) Demographics {
	regs := FilterRegistrations(registrations, hackathonID)
	people := RegisteredUsers(users, regs)

	d := Demographics{
		Gender:              []Slice{},
		Race:                []Slice{},
		AcademicYear:        []Slice{},
		CodingExperience:    []Slice{},
		ShirtSize:           []Slice{},
		Schools:             []Slice{},
		Majors:              []Slice{},
		TravelReimbursement: []Slice{},
	}

	if len(people) > 0 {
		d.Gender = PieFromCounts(CountBy(people, func(u model.User) string {
			return FormatLabel(u.Gender)
		}))
		d.Race = PieFromCounts(CountBy(people, func(u model.User) string {
			return FormatMissingLabel(u.Race, "null")
		}))
		d.ShirtSize = PieFromCounts(CountBy(people, func(u model.User) string {
			return FormatLabel(u.ShirtSize)
		}))
		d.Schools = TopSlices(CountBy(people, func(u model.User) string {
			return FormatLabel(u.University)
		}), MaxSchoolSlices, OtherSchoolsLabel)
		d.Majors = TopSlices(CountBy(people, func(u model.User) string {
			return FormatMissingLabel(u.Major, "none", "null")
		}), MaxMajorSlices, OtherMajorsLabel)
	}

	if len(regs) > 0 {
		d.AcademicYear = PieFromCounts(CountBy(regs, func(r model.Registration) string {
			return FormatLabel(r.AcademicYear)
		}))
		d.CodingExperience = PieFromCounts(CountBy(regs, func(r model.Registration) string {
			return FormatMissingLabel(r.CodingExperience, "none")
		}))

		requesting := 0
		for _, r := range regs {
			if r.RequestsReimbursement() {
				requesting++
			}
		}
		d.TravelReimbursement = []Slice{
			{Label: LabelRequestingReimbursement, Value: requesting},
			{Label: LabelNotRequestingReimbursement, Value: len(regs) - requesting},
		}
	}
	return d
}
