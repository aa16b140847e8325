package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindforge/mindforge-api/internal/core/ports"
)

// ProjectHandler handles the authenticated project routes.
type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns every project.
//
// @Summary      List all projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  projectResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.projectService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjects(projects))
}

// ListPublic returns projects flagged public.
//
// @Summary      List public projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  projectResponse
// @Router       /api/projects/public [get]
func (h *ProjectHandler) ListPublic(c echo.Context) error {
	projects, err := h.projectService.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjects(projects))
}

// ListMine returns the caller's projects.
//
// @Summary      List own projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  projectResponse
// @Router       /api/projects/my [get]
func (h *ProjectHandler) ListMine(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.ListByOwner(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjects(projects))
}

// Get returns a single project by id.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.projectService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProject(project))
}

// Create creates a project owned by the caller.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project details"
// @Success      200   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.Create(c.Request().Context(), username, ports.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.IsPublic,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProject(project))
}

// Update mutates a project the caller owns.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project id"
// @Param        body  body      projectRequest  true  "Project details"
// @Success      200   {object}  projectResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.Update(c.Request().Context(), username, c.Param("id"), ports.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.IsPublic,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProject(project))
}

// Delete removes a project the caller owns.
//
// @Summary      Delete project
// @Tags         projects
// @Security     BearerAuth
// @Param        id  path  string  true  "Project id"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.projectService.Delete(c.Request().Context(), username, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
