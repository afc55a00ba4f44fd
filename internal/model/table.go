package model

import "encoding/json"

// CellEdit changes one cell of a table row.
type CellEdit struct {
	ID     string          `json:"id" binding:"required"`
	Column string          `json:"column" binding:"required"`
	Value  json.RawMessage `json:"value"`
}

// SaveEditsRequest is the body of PATCH on an editable table screen.
type SaveEditsRequest struct {
	Edits []CellEdit `json:"edits" binding:"required,min=1,dive"`
}

// BulkDeleteRequest is the body of DELETE on a table screen.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

// SelectionRequest toggles rows in a table selection. Selected is the
// client's current selection; the response is the new one.
type SelectionRequest struct {
	Selected    []string `json:"selected" binding:"omitempty,dive,required"`
	Toggle      string   `json:"toggle,omitempty" binding:"required_without=ToggleAll"`
	ToggleAll   bool     `json:"toggle_all"`
	AcrossPages bool     `json:"across_pages"`
}

// SelectionResponse is the selection after a toggle.
type SelectionResponse struct {
	IDs         []string `json:"ids"`
	Count       int      `json:"count"`
	AllSelected bool     `json:"all_selected"`
}
