package domain

import "time"

// Project groups bugs and member assignments. Description is a pointer so
// "no description" and "empty description" stay distinguishable.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Assignment is the User↔Project join. Its identity is the (UserID,
// ProjectID) pair; at most one row exists per pair, and both endpoints must
// exist for the row to exist.
type Assignment struct {
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bug is a report scoped to a project. The tracker core only projects bugs
// (id lists per project, reported counts per user) and cascades them on
// parent deletion; bug CRUD lives outside this service.
type Bug struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ProjectID  string    `json:"project_id"`
	ReporterID string    `json:"reporter_id"`
	CreatedAt  time.Time `json:"created_at"`
}
