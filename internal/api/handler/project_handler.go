package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bugtrackr/bugtrack-api/internal/api/metrics"
	"github.com/bugtrackr/bugtrack-api/internal/core/ports"
)

// ProjectHandler handles the project-management and assignment endpoints.
type ProjectHandler struct {
	projects    ports.ProjectService
	assignments ports.AssignmentService
}

func NewProjectHandler(projects ports.ProjectService, assignments ports.AssignmentService) *ProjectHandler {
	return &ProjectHandler{projects: projects, assignments: assignments}
}

type projectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type assignUserRequest struct {
	UserID string `json:"userId"`
}

// List returns all projects with members and bug ids.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]ports.ProjectView
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]ports.ProjectView{"projects": projects})
}

// Get returns a single project by id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  map[string]ports.ProjectView
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	project, err := h.projects.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]*ports.ProjectView{"project": project})
}

// Create adds a new project.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project details"
// @Success      201   {object}  map[string]ports.ProjectView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projects.Create(c.Request().Context(), p, req.Name, req.Description)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("project", "create", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "create", "ok").Inc()
	return c.JSON(http.StatusCreated, map[string]*ports.ProjectView{"project": project})
}

// Update replaces a project's name and description.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project id"
// @Param        body  body      projectRequest  true  "Project details"
// @Success      200   {object}  map[string]ports.ProjectView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projects.Update(c.Request().Context(), p, c.Param("id"), req.Name, req.Description)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("project", "update", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "update", "ok").Inc()
	return c.JSON(http.StatusOK, map[string]*ports.ProjectView{"project": project})
}

// Delete removes a project together with its assignments and bugs.
//
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.projects.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		metrics.MutationsTotal.WithLabelValues("project", "delete", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "delete", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "project deleted successfully"})
}

// AssignUser adds a user to a project's membership.
//
// @Summary      Assign a user to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Project id"
// @Param        body  body      assignUserRequest  true  "User to assign"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /projects/{id}/users [post]
func (h *ProjectHandler) AssignUser(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req assignUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.assignments.Assign(c.Request().Context(), p, c.Param("id"), req.UserID); err != nil {
		metrics.MutationsTotal.WithLabelValues("assignment", "assign", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("assignment", "assign", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "user assigned to project successfully"})
}
