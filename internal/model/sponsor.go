package model

// Sponsor is a company sponsoring a hackathon.
type Sponsor struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	SponsorType string `json:"sponsorType,omitempty"`
	Level       string `json:"level"`
	Link        string `json:"link,omitempty"`
	DarkLogo    string `json:"darkLogo,omitempty"`
	LightLogo   string `json:"lightLogo,omitempty"`
	Order       int    `json:"order"`
	HackathonID string `json:"hackathonId,omitempty"`
}

// CreateSponsorRequest adds a sponsor. Logos are uploaded separately.
type CreateSponsorRequest struct {
	Name        string `json:"name" binding:"notblank,max=200"`
	SponsorType string `json:"sponsorType,omitempty" binding:"max=100"`
	Level       string `json:"level" binding:"required,max=50"`
	Link        string `json:"link,omitempty" binding:"omitempty,url"`
	Order       int    `json:"order" binding:"min=0"`
	HackathonID string `json:"hackathonId,omitempty"`
}

// UpdateSponsorRequest is forwarded as PATCH /sponsors/:id.
type UpdateSponsorRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,notblank,max=200"`
	SponsorType *string `json:"sponsorType,omitempty" binding:"omitempty,max=100"`
	Level       *string `json:"level,omitempty" binding:"omitempty,max=50"`
	Link        *string `json:"link,omitempty" binding:"omitempty,url"`
	Order       *int    `json:"order,omitempty" binding:"omitempty,min=0"`
}
