package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BugRepository serves the bug projections used by user and project views.
// Bug rows are only ever removed by the cascade deletes owned by the user and
// project repositories.
type BugRepository struct {
	col *mongo.Collection
}

func NewBugRepository(db *mongo.Database) *BugRepository {
	return &BugRepository{col: db.Collection(collectionBugs)}
}

func (r *BugRepository) CountByReporter(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"reporter_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count bugs: %w", err)
	}
	return n, nil
}

func (r *BugRepository) CountsByReporter(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$reporter_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate bug counts: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode bug count: %w", err)
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

func (r *BugRepository) IDsByProject(ctx context.Context, projectID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"project_id": projectID}}},
		{{Key: "$project", Value: bson.M{"id": bson.M{"$toString": "$_id"}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list bug ids: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode bug id: %w", err)
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

func (r *BugRepository) IDsGroupedByProject(ctx context.Context) (map[string][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": "$project_id",
			"ids": bson.M{"$push": bson.M{"$toString": "$_id"}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate bug ids: %w", err)
	}
	defer cur.Close(ctx)

	grouped := make(map[string][]string)
	for cur.Next(ctx) {
		var row struct {
			ID  string   `bson:"_id"`
			IDs []string `bson:"ids"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode bug group: %w", err)
		}
		grouped[row.ID] = row.IDs
	}
	return grouped, cur.Err()
}

// EnsureIndexes creates the lookup indexes used by projections and cascades.
func (r *BugRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
		{Keys: bson.D{{Key: "reporter_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
