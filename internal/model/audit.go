package model

import "time"

// AuditEntry records one successful mutation made through the console.
type AuditEntry struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	RequestID  string    `json:"request_id"`
	At         time.Time `json:"at"`
}

// Audit actions.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionAccept = "accept"
	AuditActionReject = "reject"
	AuditActionStatus = "status"
)
