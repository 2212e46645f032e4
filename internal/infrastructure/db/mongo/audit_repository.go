package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

const collectionAudit = "audit_log"

// AuditRepository appends audit entries. Write-only from the service's point
// of view; reading the trail is an operator concern.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDoc struct {
	ActorID    string `bson:"actor_id"`
	Action     string `bson:"action"`
	ResourceID string `bson:"resource_id"`
	At         int64  `bson:"at"`
}

func (r *AuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := auditDoc{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		ResourceID: entry.ResourceID,
		At:         entry.At.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
