package model

// Registration is a hacker's registration for one hackathon.
type Registration struct {
	ID                         int    `json:"id"`
	UserID                     string `json:"userId"`
	Age                        int    `json:"age"`
	ShareAddressSponsors       *bool  `json:"shareAddressSponsors,omitempty"`
	TravelReimbursement        *bool  `json:"travelReimbursement,omitempty"`
	ShareAddressMlh            *bool  `json:"shareAddressMlh,omitempty"`
	EducationalInstitutionType string `json:"educationalInstitutionType"`
	AcademicYear               string `json:"academicYear"`
	CodingExperience           string `json:"codingExperience,omitempty"`
	Expectations               string `json:"expectations,omitempty"`
	Driving                    *bool  `json:"driving,omitempty"`
	HackathonID                string `json:"hackathonId"`
	FirstHackathon             *bool  `json:"firstHackathon,omitempty"`
	MlhCoc                     bool   `json:"mlhCoc"`
	MlhDcp                     bool   `json:"mlhDcp"`
	Project                    string `json:"project,omitempty"`
	Referral                   string `json:"referral,omitempty"`
	ShareEmailMlh              *bool  `json:"shareEmailMlh,omitempty"`
	Time                       Millis `json:"time"`
	Veteran                    string `json:"veteran"`
}

// RequestsReimbursement reports whether the hacker asked for travel reimbursement.
func (r Registration) RequestsReimbursement() bool {
	return r.TravelReimbursement != nil && *r.TravelReimbursement
}

// RegistrationScore is a registration enriched with the reviewer ranking
// from GET /registrations/scores/{psu,other}.
type RegistrationScore struct {
	Registration
	Mu                float64  `json:"mu"`
	SigmaSquared      float64  `json:"sigmaSquared"`
	Prioritized       bool     `json:"prioritized"`
	FirstName         string   `json:"firstName,omitempty"`
	LastName          string   `json:"lastName,omitempty"`
	ApplicationStatus string   `json:"applicationStatus,omitempty"`
	Email             string   `json:"email,omitempty"`
	University        string   `json:"university,omitempty"`
	Major             string   `json:"major,omitempty"`
	TravelCost        *float64 `json:"travelCost,omitempty"`
}

// ScorePool selects which applicant pool to rank.
type ScorePool string

const (
	ScorePoolPSU   ScorePool = "psu"
	ScorePoolOther ScorePool = "other"
)

// Application statuses used by participant review.
const (
	ApplicationStatusPending    = "pending"
	ApplicationStatusAccepted   = "accepted"
	ApplicationStatusRejected   = "rejected"
	ApplicationStatusWaitlisted = "waitlisted"
	ApplicationStatusConfirmed  = "confirmed"
	ApplicationStatusDeclined   = "declined"
)

// UpdateApplicationStatusRequest sets the review status of one registration.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending accepted rejected waitlisted confirmed declined"`
}

// BulkApplicationStatusRequest sets the review status for several hackers.
type BulkApplicationStatusRequest struct {
	UserIDs []string `json:"userIds" binding:"required,min=1,dive,required"`
	Status  string   `json:"status" binding:"required,oneof=pending accepted rejected waitlisted confirmed declined"`
}
