package model

// RegistrationCount is one hackathon's registration total from
// GET /analytics/summary.
type RegistrationCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsSummary is the backend's precomputed summary.
type AnalyticsSummary struct {
	Registrations []RegistrationCount `json:"registrations"`
}

// EventScanCount is the number of check-in scans for one event.
type EventScanCount struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Type  EventType `json:"type"`
	Count int       `json:"count"`
}

// OrganizerScanCount is the number of scans an organizer performed.
type OrganizerScanCount struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Count     int    `json:"count"`
}
