package model

// Flag is a runtime feature flag.
type Flag struct {
	Name        string   `json:"name"`
	IsEnabled   FlexBool `json:"isEnabled"`
	Description string   `json:"description,omitempty"`
}

// FlagState is one entry of PATCH /flags.
type FlagState struct {
	Name      string `json:"name"`
	IsEnabled bool   `json:"isEnabled"`
}

// PatchFlagsRequest is the body of PATCH /flags.
type PatchFlagsRequest struct {
	Flags []FlagState `json:"flags"`
}
