package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// In-memory fakes implementing the repository ports. They enforce the same
// uniqueness rules the mongo indexes do, so services see identical error
// behavior.

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int

	// wired for cascade deletes, mirroring the real repository
	assignments *stubAssignmentRepo
	bugs        *stubBugRepo
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	if r.assignments != nil {
		r.assignments.deleteWhere(func(a *domain.Assignment) bool { return a.UserID == id })
	}
	if r.bugs != nil {
		r.bugs.deleteWhere(func(b *domain.Bug) bool { return b.ReporterID == id })
	}
	return nil
}

type stubProjectRepo struct {
	projects map[string]*domain.Project
	seq      int

	assignments *stubAssignmentRepo
	bugs        *stubBugRepo
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Description != nil {
		desc := *p.Description
		clone.Description = &desc
	}
	return &clone
}

func (r *stubProjectRepo) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	for _, existing := range r.projects {
		if existing.Name == project.Name {
			return nil, domain.ErrProjectNameTaken
		}
	}
	r.seq++
	created := cloneProject(project)
	created.ID = fmt.Sprintf("p%d", r.seq)
	r.projects[created.ID] = cloneProject(created)
	return created, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := r.projects[id]; ok {
		return cloneProject(p), nil
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) FindByName(_ context.Context, name string) (*domain.Project, error) {
	for _, p := range r.projects {
		if p.Name == name {
			return cloneProject(p), nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) List(_ context.Context) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, project *domain.Project) (*domain.Project, error) {
	if _, ok := r.projects[project.ID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	for id, existing := range r.projects {
		if id != project.ID && existing.Name == project.Name {
			return nil, domain.ErrProjectNameTaken
		}
	}
	r.projects[project.ID] = cloneProject(project)
	return cloneProject(project), nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	if r.assignments != nil {
		r.assignments.deleteWhere(func(a *domain.Assignment) bool { return a.ProjectID == id })
	}
	if r.bugs != nil {
		r.bugs.deleteWhere(func(b *domain.Bug) bool { return b.ProjectID == id })
	}
	return nil
}

type stubAssignmentRepo struct {
	rows []*domain.Assignment
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{}
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *domain.Assignment) error {
	for _, row := range r.rows {
		if row.UserID == a.UserID && row.ProjectID == a.ProjectID {
			return domain.ErrAlreadyAssigned
		}
	}
	clone := *a
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *stubAssignmentRepo) Exists(_ context.Context, userID, projectID string) (bool, error) {
	for _, row := range r.rows {
		if row.UserID == userID && row.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAssignmentRepo) List(_ context.Context) ([]*domain.Assignment, error) {
	return append([]*domain.Assignment(nil), r.rows...), nil
}

func (r *stubAssignmentRepo) ListByUser(_ context.Context, userID string) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, row := range r.rows {
		if row.ProjectID == projectID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) deleteWhere(match func(*domain.Assignment) bool) {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if !match(row) {
			kept = append(kept, row)
		}
	}
	r.rows = kept
}

type stubBugRepo struct {
	bugs []*domain.Bug
}

func newStubBugRepo() *stubBugRepo {
	return &stubBugRepo{}
}

func (r *stubBugRepo) CountByReporter(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, b := range r.bugs {
		if b.ReporterID == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubBugRepo) CountsByReporter(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, b := range r.bugs {
		counts[b.ReporterID]++
	}
	return counts, nil
}

func (r *stubBugRepo) IDsByProject(_ context.Context, projectID string) ([]string, error) {
	var ids []string
	for _, b := range r.bugs {
		if b.ProjectID == projectID {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (r *stubBugRepo) IDsGroupedByProject(_ context.Context) (map[string][]string, error) {
	grouped := make(map[string][]string)
	for _, b := range r.bugs {
		grouped[b.ProjectID] = append(grouped[b.ProjectID], b.ID)
	}
	return grouped, nil
}

func (r *stubBugRepo) deleteWhere(match func(*domain.Bug) bool) {
	kept := r.bugs[:0]
	for _, b := range r.bugs {
		if !match(b) {
			kept = append(kept, b)
		}
	}
	r.bugs = kept
}

// recordingAuditor captures enqueued audit entries.
type recordingAuditor struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (a *recordingAuditor) Enqueue(entry domain.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

// stubDenylist is an in-memory TokenDenylist.
type stubDenylist struct {
	revoked map[string]bool
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]bool)}
}

func (d *stubDenylist) Revoke(_ context.Context, token string, _ time.Duration) error {
	d.revoked[token] = true
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	return d.revoked[token], nil
}

// fixture wires a full set of stub repositories with cascades connected.
type fixture struct {
	users       *stubUserRepo
	projects    *stubProjectRepo
	assignments *stubAssignmentRepo
	bugs        *stubBugRepo
	audit       *recordingAuditor
}

func newFixture() *fixture {
	assignments := newStubAssignmentRepo()
	bugs := newStubBugRepo()
	users := newStubUserRepo()
	users.assignments = assignments
	users.bugs = bugs
	projects := newStubProjectRepo()
	projects.assignments = assignments
	projects.bugs = bugs
	return &fixture{
		users:       users,
		projects:    projects,
		assignments: assignments,
		bugs:        bugs,
		audit:       &recordingAuditor{},
	}
}

var (
	adminPrincipal    = domain.Principal{ID: "admin1", Email: "admin@example.com", Role: domain.RoleAdmin}
	reporterPrincipal = domain.Principal{ID: "rep1", Email: "rep@example.com", Role: domain.RoleReporter}
)
