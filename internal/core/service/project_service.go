package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
	"github.com/bugtrackr/bugtrack-api/internal/core/ports"
)

// ProjectService implements project management: listing with membership and
// bug projections, creation, update and cascading deletion, all gated on the
// ADMIN role.
type ProjectService struct {
	projects    ports.ProjectRepository
	users       ports.UserRepository
	assignments ports.AssignmentRepository
	bugs        ports.BugRepository
	audit       ports.Auditor
	logger      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	assignments ports.AssignmentRepository,
	bugs ports.BugRepository,
	audit ports.Auditor,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:    projects,
		users:       users,
		assignments: assignments,
		bugs:        bugs,
		audit:       audit,
		logger:      logger,
	}
}

// List returns every project with its membership list and bug-id list.
func (s *ProjectService) List(ctx context.Context, p domain.Principal) ([]ports.ProjectView, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	bugIDs, err := s.bugs.IDsGroupedByProject(ctx)
	if err != nil {
		return nil, err
	}

	userByID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	membersByProject := make(map[string][]ports.ProjectMember)
	for _, a := range assignments {
		if u, ok := userByID[a.UserID]; ok {
			membersByProject[a.ProjectID] = append(membersByProject[a.ProjectID], ports.ProjectMember{
				ID:    u.ID,
				Name:  u.Name,
				Email: u.Email,
			})
		}
	}

	views := make([]ports.ProjectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, projectView(project, membersByProject[project.ID], bugIDs[project.ID]))
	}
	return views, nil
}

// Get returns a single project with members and bug ids.
func (s *ProjectService) Get(ctx context.Context, p domain.Principal, id string) (*ports.ProjectView, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.viewOf(ctx, project)
}

// Create inserts a new project. A duplicate name yields
// domain.ErrProjectNameTaken whether caught by the pre-check or by the
// store's unique index.
func (s *ProjectService) Create(ctx context.Context, p domain.Principal, name string, description *string) (*ports.ProjectView, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	if _, err := s.projects.FindByName(ctx, name); err == nil {
		return nil, domain.ErrProjectNameTaken
	} else if !errors.Is(err, domain.ErrProjectNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.projects.Create(ctx, &domain.Project{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", created.ID).Str("name", created.Name).Msg("project created")
	s.audit.Enqueue(domain.AuditEntry{ActorID: p.ID, Action: domain.AuditProjectCreated, ResourceID: created.ID, At: now})
	return s.viewOf(ctx, created)
}

// Update replaces the name and description. A nil description clears the
// stored one. A name change re-checks uniqueness.
func (s *ProjectService) Update(ctx context.Context, p domain.Principal, id, name string, description *string) (*ports.ProjectView, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != project.Name {
		if _, err := s.projects.FindByName(ctx, name); err == nil {
			return nil, domain.ErrProjectNameTaken
		} else if !errors.Is(err, domain.ErrProjectNotFound) {
			return nil, err
		}
	}

	project.Name = name
	project.Description = description
	project.UpdatedAt = time.Now().UTC()

	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", updated.ID).Msg("project updated")
	s.audit.Enqueue(domain.AuditEntry{ActorID: p.ID, Action: domain.AuditProjectUpdated, ResourceID: updated.ID, At: updated.UpdatedAt})
	return s.viewOf(ctx, updated)
}

// Delete removes a project and, atomically, every assignment and bug scoped
// to it.
func (s *ProjectService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("project_id", id).Str("actor_id", p.ID).Msg("project deleted")
	s.audit.Enqueue(domain.AuditEntry{ActorID: p.ID, Action: domain.AuditProjectDeleted, ResourceID: id, At: time.Now().UTC()})
	return nil
}

// viewOf builds the projection for a single project.
func (s *ProjectService) viewOf(ctx context.Context, project *domain.Project) (*ports.ProjectView, error) {
	assignments, err := s.assignments.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	members := make([]ports.ProjectMember, 0, len(assignments))
	for _, a := range assignments {
		user, err := s.users.FindByID(ctx, a.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, ports.ProjectMember{ID: user.ID, Name: user.Name, Email: user.Email})
	}

	bugIDs, err := s.bugs.IDsByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	view := projectView(project, members, bugIDs)
	return &view, nil
}

func projectView(p *domain.Project, members []ports.ProjectMember, bugs []string) ports.ProjectView {
	if members == nil {
		members = []ports.ProjectMember{}
	}
	if bugs == nil {
		bugs = []string{}
	}
	return ports.ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Users:       members,
		Bugs:        bugs,
	}
}
