package model

// Hackathon is one HackPSU event season.
type Hackathon struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	StartTime Millis   `json:"startTime"`
	EndTime   Millis   `json:"endTime"`
	Active    FlexBool `json:"active"`
}

// UpdateHackathonRequest is forwarded as PATCH /hackathons/:id.
type UpdateHackathonRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,notblank,max=100"`
	StartTime *int64  `json:"startTime,omitempty" binding:"omitempty,gt=0"`
	EndTime   *int64  `json:"endTime,omitempty" binding:"omitempty,gt=0"`
}
