package domain

import "time"

// Audit actions recorded for admin mutations.
const (
	AuditUserCreated    = "user.created"
	AuditUserUpdated    = "user.updated"
	AuditUserDeleted    = "user.deleted"
	AuditProjectCreated = "project.created"
	AuditProjectUpdated = "project.updated"
	AuditProjectDeleted = "project.deleted"
	AuditUserAssigned   = "project.user_assigned"
)

// AuditEntry records a committed admin mutation. Entries are written
// asynchronously; a failed audit write never fails the mutation it describes.
type AuditEntry struct {
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resource_id"`
	At         time.Time `json:"at"`
}
