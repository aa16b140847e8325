package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindforge/mindforge-api/internal/api/metrics"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

// AdminHandler handles the role-gated user administration routes. The RBAC
// middleware guards them; the service re-checks the actor role anyway.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers returns all users, optionally narrowed by a username substring
// and/or a role.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "Username substring filter"
// @Param        role    query  string  false  "Role filter (USER or ADMIN)"
// @Success      200  {array}   adminUserInfoResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.adminService.ListUsers(c.Request().Context(), role, ports.UserFilter{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
	})
	if err != nil {
		return err
	}

	out := make([]adminUserInfoResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserInfo(u))
	}
	return c.JSON(http.StatusOK, out)
}

// GetUser returns a single user by id.
//
// @Summary      Get user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  adminUserInfoResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.GetUser(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminUserInfo(user))
}

// SetRole changes a user's role.
//
// @Summary      Set user role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true  "User id"
// @Param        role  query  string  true  "New role (USER or ADMIN)"
// @Success      200  {object}  adminUserInfoResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.SetRole(c.Request().Context(), role, c.Param("id"), c.QueryParam("role"))
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("set_role").Inc()
	return c.JSON(http.StatusOK, toAdminUserInfo(user))
}

// Lock locks a user account.
//
// @Summary      Lock user account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  adminUserInfoResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/lock [post]
func (h *AdminHandler) Lock(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.Lock(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("lock").Inc()
	return c.JSON(http.StatusOK, toAdminUserInfo(user))
}

// Unlock unlocks a user account and resets its failed-login counter.
//
// @Summary      Unlock user account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  adminUserInfoResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/unlock [post]
func (h *AdminHandler) Unlock(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.Unlock(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("unlock").Inc()
	return c.JSON(http.StatusOK, toAdminUserInfo(user))
}

// DeleteUser removes a user account.
//
// @Summary      Delete user
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), role, c.Param("id")); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusOK)
}
