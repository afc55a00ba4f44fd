package model

// Location is a room or venue events can be scheduled in.
type Location struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// CreateLocationRequest is the payload for adding a location.
type CreateLocationRequest struct {
	Name     string `json:"name" binding:"notblank,max=100"`
	Capacity *int   `json:"capacity" binding:"required,min=0"`
}

// UpdateLocationRequest is forwarded as PATCH /locations/:id.
type UpdateLocationRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}
