package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// AssignmentRepository persists the User↔Project join rows. The compound
// unique index on (user_id, project_id) is the final authority for pair
// uniqueness.
type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

type assignmentDoc struct {
	UserID    string    `bson:"user_id"`
	ProjectID string    `bson:"project_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d assignmentDoc) toDomain() *domain.Assignment {
	return &domain.Assignment{UserID: d.UserID, ProjectID: d.ProjectID, CreatedAt: d.CreatedAt}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := assignmentDoc{UserID: a.UserID, ProjectID: a.ProjectID, CreatedAt: a.CreatedAt}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyAssigned
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "project_id": projectID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("find assignment: %w", err)
	}
	return true, nil
}

func (r *AssignmentRepository) List(ctx context.Context) ([]*domain.Assignment, error) {
	return r.find(ctx, bson.M{})
}

func (r *AssignmentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Assignment, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *AssignmentRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error) {
	return r.find(ctx, bson.M{"project_id": projectID})
}

func (r *AssignmentRepository) find(ctx context.Context, filter bson.M) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer cur.Close(ctx)

	var assignments []*domain.Assignment
	for cur.Next(ctx) {
		var doc assignmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode assignment: %w", err)
		}
		assignments = append(assignments, doc.toDomain())
	}
	return assignments, cur.Err()
}

// EnsureIndexes creates the compound unique (user_id, project_id) index plus
// the per-endpoint lookup indexes used by cascade deletes.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
