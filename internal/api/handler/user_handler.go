package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bugtrackr/bugtrack-api/internal/api/metrics"
	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
	"github.com/bugtrackr/bugtrack-api/internal/core/ports"
)

// UserHandler handles the admin user-management endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=REPORTER DEVELOPER ADMIN"`
}

// updateUserRequest is a partial update: absent keys leave fields unchanged,
// a null name clears it.
type updateUserRequest struct {
	Email    domain.Patch[string] `json:"email"`
	Name     domain.Patch[string] `json:"name"`
	Password domain.Patch[string] `json:"password"`
	Role     domain.Patch[string] `json:"role"`
}

// List returns all users with their project and bug projections.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]ports.UserView
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]ports.UserView{"users": users})
}

// Get returns a single user by id.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  map[string]ports.UserView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]*ports.UserView{"user": user})
}

// Create adds a new user account.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  map[string]domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), p, ports.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("user", "create", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("user", "create", "ok").Inc()
	return c.JSON(http.StatusCreated, map[string]*domain.User{"user": user})
}

// Update applies a partial update to a user.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  map[string]ports.UserView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Update(c.Request().Context(), p, c.Param("id"), ports.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("user", "update", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("user", "update", "ok").Inc()
	return c.JSON(http.StatusOK, map[string]*ports.UserView{"user": user})
}

// Delete removes a user and its assignments. Self-deletion is rejected.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		metrics.MutationsTotal.WithLabelValues("user", "delete", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("user", "delete", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted successfully"})
}
