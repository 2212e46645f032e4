package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
	"github.com/bugtrackr/bugtrack-api/internal/core/ports"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// normalizeEmail lowercases and trims an email so uniqueness checks are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserService implements admin user management: listing, creation, partial
// update and cascading deletion, all gated on the ADMIN role.
type UserService struct {
	users       ports.UserRepository
	projects    ports.ProjectRepository
	assignments ports.AssignmentRepository
	bugs        ports.BugRepository
	audit       ports.Auditor
	logger      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	projects ports.ProjectRepository,
	assignments ports.AssignmentRepository,
	bugs ports.BugRepository,
	audit ports.Auditor,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:       users,
		projects:    projects,
		assignments: assignments,
		bugs:        bugs,
		audit:       audit,
		logger:      logger,
	}
}

// List returns every user with their project-name list and reported-bug
// count. Unpaginated: bounded by expected deployment scale.
func (s *UserService) List(ctx context.Context, p domain.Principal) ([]ports.UserView, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	projectNames, err := s.projectNamesByUser(ctx)
	if err != nil {
		return nil, err
	}
	bugCounts, err := s.bugs.CountsByReporter(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u, projectNames[u.ID], bugCounts[u.ID]))
	}
	return views, nil
}

// Get returns a single user projection by id.
func (s *UserService) Get(ctx context.Context, p domain.Principal, id string) (*ports.UserView, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.viewOf(ctx, user)
}

// Create validates, hashes the password, and inserts a new user. A duplicate
// email yields domain.ErrEmailTaken whether caught by the pre-check or by the
// store's unique index.
func (s *UserService) Create(ctx context.Context, p domain.Principal, in ports.CreateUserInput) (*domain.User, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidRole
	}

	// Fast typed error for the common case; the unique index still backstops
	// the race window.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	s.audit.Enqueue(domain.AuditEntry{ActorID: p.ID, Action: domain.AuditUserCreated, ResourceID: created.ID, At: now})
	return created, nil
}

// Update applies a partial update: only supplied fields change, and every
// supplied field is re-validated. Email, password and role cannot be
// cleared; name can.
func (s *UserService) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*ports.UserView, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email, ok := in.Email.Get(); ok {
		email = normalizeEmail(email)
		if !emailPattern.MatchString(email) {
			return nil, domain.ErrInvalidEmail
		}
		if email != user.Email {
			if _, err := s.users.FindByEmail(ctx, email); err == nil {
				return nil, domain.ErrEmailTaken
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}

	if password, ok := in.Password.Get(); ok {
		if len(password) < minPasswordLength {
			return nil, domain.ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if role, ok := in.Role.Get(); ok {
		if !domain.ValidRole(role) {
			return nil, domain.ErrInvalidRole
		}
		user.Role = role
	}

	if name, ok := in.Name.Get(); ok {
		user.Name = name
	} else if in.Name.IsClear() {
		user.Name = ""
	}

	user.UpdatedAt = time.Now().UTC()
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	s.audit.Enqueue(domain.AuditEntry{ActorID: p.ID, Action: domain.AuditUserUpdated, ResourceID: updated.ID, At: updated.UpdatedAt})
	return s.viewOf(ctx, updated)
}

// Delete removes a user and, atomically, every assignment and bug reference
// to it. A principal can never delete its own account.
func (s *UserService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return err
	}
	if id == p.ID {
		return domain.ErrSelfDelete
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Str("actor_id", p.ID).Msg("user deleted")
	s.audit.Enqueue(domain.AuditEntry{ActorID: p.ID, Action: domain.AuditUserDeleted, ResourceID: id, At: time.Now().UTC()})
	return nil
}

// viewOf builds the projection for a single user.
func (s *UserService) viewOf(ctx context.Context, user *domain.User) (*ports.UserView, error) {
	assignments, err := s.assignments.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		project, err := s.projects.FindByID(ctx, a.ProjectID)
		if err != nil {
			if errors.Is(err, domain.ErrProjectNotFound) {
				continue
			}
			return nil, err
		}
		names = append(names, project.Name)
	}

	count, err := s.bugs.CountByReporter(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	view := userView(user, names, count)
	return &view, nil
}

// projectNamesByUser resolves, for every user, the names of the projects the
// user is assigned to.
func (s *UserService) projectNamesByUser(ctx context.Context) (map[string][]string, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}

	nameByID := make(map[string]string, len(projects))
	for _, project := range projects {
		nameByID[project.ID] = project.Name
	}

	out := make(map[string][]string)
	for _, a := range assignments {
		if name, ok := nameByID[a.ProjectID]; ok {
			out[a.UserID] = append(out[a.UserID], name)
		}
	}
	return out, nil
}

func userView(u *domain.User, projects []string, bugsReported int64) ports.UserView {
	if projects == nil {
		projects = []string{}
	}
	return ports.UserView{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		Projects:     projects,
		BugsReported: bugsReported,
	}
}
