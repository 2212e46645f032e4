package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
	"github.com/bugtrackr/bugtrack-api/internal/core/ports"
)

// AssignmentService grants project membership. There is deliberately no
// unassign operation: membership only ends when the user or project is
// deleted.
type AssignmentService struct {
	projects    ports.ProjectRepository
	users       ports.UserRepository
	assignments ports.AssignmentRepository
	audit       ports.Auditor
	logger      zerolog.Logger
}

func NewAssignmentService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	assignments ports.AssignmentRepository,
	audit ports.Auditor,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		projects:    projects,
		users:       users,
		assignments: assignments,
		audit:       audit,
		logger:      logger,
	}
}

// Assign creates the (userID, projectID) membership. Checks run in order and
// short-circuit: userID present, project exists, user exists, pair not yet
// assigned. The compound unique index backstops the final check under
// concurrent assigns.
func (s *AssignmentService) Assign(ctx context.Context, p domain.Principal, projectID, userID string) error {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return err
	}

	if userID == "" {
		return domain.ErrUserIDRequired
	}
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	exists, err := s.assignments.Exists(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyAssigned
	}

	now := time.Now().UTC()
	if err := s.assignments.Create(ctx, &domain.Assignment{
		UserID:    userID,
		ProjectID: projectID,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	s.logger.Info().Str("project_id", projectID).Str("user_id", userID).Msg("user assigned to project")
	s.audit.Enqueue(domain.AuditEntry{ActorID: p.ID, Action: domain.AuditUserAssigned, ResourceID: projectID, At: now})
	return nil
}
