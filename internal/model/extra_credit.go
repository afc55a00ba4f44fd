package model

// ExtraCreditClass is a course that awards extra credit for attending.
type ExtraCreditClass struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	HackathonID string `json:"hackathonId,omitempty"`
}

// ExtraCreditAssignment is a class together with the hackers who claimed it.
type ExtraCreditAssignment struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Users []User `json:"users"`
}

// CreateExtraCreditClassRequest adds a class.
type CreateExtraCreditClassRequest struct {
	Name        string `json:"name" binding:"notblank,max=200"`
	HackathonID string `json:"hackathonId,omitempty"`
}

// UpdateExtraCreditClassRequest renames a class.
type UpdateExtraCreditClassRequest struct {
	Name string `json:"name" binding:"notblank,max=200"`
}
