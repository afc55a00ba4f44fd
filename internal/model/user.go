package model

import "strings"

// User is a hacker account as returned by GET /users.
type User struct {
	ID                 string `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Gender             string `json:"gender,omitempty"`
	ShirtSize          string `json:"shirtSize,omitempty"`
	DietaryRestriction string `json:"dietaryRestriction,omitempty"`
	Allergies          string `json:"allergies,omitempty"`
	University         string `json:"university,omitempty"`
	Major              string `json:"major,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Country            string `json:"country,omitempty"`
	Race               string `json:"race,omitempty"`
	Resume             string `json:"resume,omitempty"`
	IsActive           bool   `json:"isActive"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UpdateUserRequest is a partial update forwarded as PATCH /users/:id.
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName,omitempty" binding:"omitempty,min=1,max=100"`
	LastName   *string `json:"lastName,omitempty" binding:"omitempty,min=1,max=100"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	University *string `json:"university,omitempty" binding:"omitempty,max=200"`
	Major      *string `json:"major,omitempty" binding:"omitempty,max=200"`
	ShirtSize  *string `json:"shirtSize,omitempty" binding:"omitempty,max=10"`
	Phone      *string `json:"phone,omitempty" binding:"omitempty,max=30"`
}
