package model

// EventType classifies an event on the schedule.
type EventType string

const (
	EventTypeCheckIn  EventType = "checkIn"
	EventTypeActivity EventType = "activity"
	EventTypeWorkshop EventType = "workshop"
	EventTypeFood     EventType = "food"
)

// Label is the human-readable name shown on tables and charts. Unknown
// types are shown as-is.
func (t EventType) Label() string {
	switch t {
	case EventTypeCheckIn:
		return "Check-In"
	case EventTypeActivity:
		return "Activity"
	case EventTypeWorkshop:
		return "Workshop"
	case EventTypeFood:
		return "Food"
	default:
		return string(t)
	}
}

// Event is a scheduled item as returned by GET /events.
type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             EventType `json:"type"`
	Description      string    `json:"description,omitempty"`
	Location         *Location `json:"location,omitempty"`
	StartTime        Millis    `json:"startTime"`
	EndTime          Millis    `json:"endTime"`
	Icon             string    `json:"icon,omitempty"`
	WsPresenterNames string    `json:"wsPresenterNames,omitempty"`
	WsRelevantSkills string    `json:"wsRelevantSkills,omitempty"`
	WsSkillLevel     string    `json:"wsSkillLevel,omitempty"`
	WsUrls           []string  `json:"wsUrls,omitempty"`
	HackathonID      string    `json:"hackathonId,omitempty"`
}

// LocationName returns the location's name or "N/A".
func (e Event) LocationName() string {
	if e.Location == nil || e.Location.Name == "" {
		return "N/A"
	}
	return e.Location.Name
}

// CreateEventRequest is the JSON form of the event wizard. Icons are uploaded
// to storage separately and referenced by URL.
type CreateEventRequest struct {
	Name             string    `json:"name" binding:"notblank,max=200"`
	Type             EventType `json:"type" binding:"required,oneof=checkIn activity workshop food"`
	Description      string    `json:"description" binding:"max=2000"`
	LocationID       int       `json:"locationId" binding:"required,gt=0"`
	StartTime        int64     `json:"startTime" binding:"required,gt=0"`
	EndTime          int64     `json:"endTime" binding:"required,gtfield=StartTime"`
	Icon             string    `json:"icon,omitempty" binding:"omitempty,url"`
	WsPresenterNames string    `json:"wsPresenterNames,omitempty"`
	WsRelevantSkills string    `json:"wsRelevantSkills,omitempty"`
	WsSkillLevel     string    `json:"wsSkillLevel,omitempty" binding:"omitempty,oneof=beginner intermediate advanced"`
	WsUrls           []string  `json:"wsUrls,omitempty" binding:"omitempty,dive,url"`
	HackathonID      string    `json:"hackathonId,omitempty"`
}

// UpdateEventRequest is forwarded as PATCH /events/:id.
type UpdateEventRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,notblank,max=200"`
	Type        *EventType `json:"type,omitempty" binding:"omitempty,oneof=checkIn activity workshop food"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=2000"`
	LocationID  *int       `json:"locationId,omitempty" binding:"omitempty,gt=0"`
	StartTime   *int64     `json:"startTime,omitempty" binding:"omitempty,gt=0"`
	EndTime     *int64     `json:"endTime,omitempty" binding:"omitempty,gt=0"`
}
