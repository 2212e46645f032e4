package ports

import (
	"context"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// Auditor accepts audit entries for asynchronous recording. Enqueue must not
// block the calling mutation beyond channel buffering.
type Auditor interface {
	Enqueue(entry domain.AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}
