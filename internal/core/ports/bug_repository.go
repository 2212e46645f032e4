package ports

import "context"

// BugRepository exposes the bug projections the tracker core needs. Bug CRUD
// itself lives outside this service; deletion of bugs happens only as part of
// user/project cascade deletes owned by the other repositories.
type BugRepository interface {
	// CountByReporter returns the number of bugs reported by userID.
	CountByReporter(ctx context.Context, userID string) (int64, error)
	// CountsByReporter returns reported-bug counts grouped by reporter id.
	CountsByReporter(ctx context.Context) (map[string]int64, error)
	// IDsByProject returns the ids of all bugs scoped to projectID.
	IDsByProject(ctx context.Context, projectID string) ([]string, error)
	// IDsGroupedByProject returns bug ids grouped by project id.
	IDsGroupedByProject(ctx context.Context) (map[string][]string, error)
}
