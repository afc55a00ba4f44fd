package model

import (
	"strconv"
	"strings"
)

// Role is an organizer's privilege level. Higher values are not strictly
// more powerful; TECH and FINANCE are special-purpose.
type Role int

const (
	RoleNone Role = iota
	RoleVolunteer
	RoleTeam
	RoleExec
	RoleTech
	RoleFinance
)

// Roles lists every privilege in order.
var Roles = []Role{RoleNone, RoleVolunteer, RoleTeam, RoleExec, RoleTech, RoleFinance}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleNone:
		return "None"
	case RoleVolunteer:
		return "Volunteer"
	case RoleTeam:
		return "Team Member"
	case RoleExec:
		return "Exec"
	case RoleTech:
		return "Tech"
	case RoleFinance:
		return "Finance"
	default:
		return strconv.Itoa(int(r))
	}
}

// Valid reports whether r is a known privilege.
func (r Role) Valid() bool {
	return r >= RoleNone && r <= RoleFinance
}

// Organizer teams offered when adding a member.
var Teams = []string{
	"Communications",
	"Design",
	"Education",
	"Entertainment",
	"Finance",
	"Logistics",
	"Marketing",
	"Sponsorship",
	"Technology",
	"Co-exec",
	"External",
	"Service Account",
	"Advisors",
	"Unassigned",
	"Exec",
}

// Organizer is a staff member as returned by GET /organizers.
type Organizer struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Privilege       Role   `json:"privilege"`
	Team            string `json:"team,omitempty"`
	JudgingLocation string `json:"judgingLocation,omitempty"`
	Award           string `json:"award,omitempty"`
	IsActive        bool   `json:"isActive"`
}

// FullName joins first and last name.
func (o Organizer) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// CreateOrganizerRequest adds a member. Privilege defaults to RoleTeam.
type CreateOrganizerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Team      string `json:"team" binding:"max=100"`
	Privilege *Role  `json:"privilege,omitempty" binding:"omitempty,min=0,max=5"`
}

// UpdateOrganizerRequest is forwarded as PATCH /organizers/:id.
type UpdateOrganizerRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Team      *string `json:"team,omitempty"`
	Privilege *Role   `json:"privilege,omitempty"`
}
