package model

// OrganizerApplication is a submitted application to join the organizing team.
type OrganizerApplication struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	YearStanding       string `json:"yearStanding"`
	Major              string `json:"major"`
	FirstChoiceTeam    string `json:"firstChoiceTeam"`
	FirstChoiceStatus  string `json:"firstChoiceStatus"`
	SecondChoiceTeam   string `json:"secondChoiceTeam,omitempty"`
	SecondChoiceStatus string `json:"secondChoiceStatus,omitempty"`
	AssignedTeam       string `json:"assignedTeam,omitempty"`
	Resume             string `json:"resume,omitempty"`
	CreatedAt          Millis `json:"createdAt"`
}

// ApplicationsByTeam groups a team's applicants by which choice named it.
type ApplicationsByTeam struct {
	Team         string                 `json:"team"`
	FirstChoice  []OrganizerApplication `json:"firstChoice"`
	SecondChoice []OrganizerApplication `json:"secondChoice"`
}

// ApplicationDecisionRequest accepts or rejects an applicant for a team.
type ApplicationDecisionRequest struct {
	Team string `json:"team" binding:"required,max=100"`
}
