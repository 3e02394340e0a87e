package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskman/internal/auth"
	apperrors "taskman/internal/errors"
	"taskman/internal/model"
	"taskman/internal/service"
)

// TaskHandler handles task lifecycle endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=100"`
	Description string    `json:"description"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	AssignedTo  string    `json:"assigned_to" validate:"required"`
	Completed   bool      `json:"completed"`
}

// UpdateTaskRequest represents a partial task update; absent fields are
// left untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
}

// AckResponse represents an acknowledgement message.
type AckResponse struct {
	Message string `json:"message"`
}

func identityFrom(c echo.Context) (*auth.Identity, error) {
	identity, ok := c.Get("user").(*auth.Identity)
	if !ok {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMissingToken)
		return nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return identity, nil
}

// CreateTask godoc
// @Summary Create a task
// @Description Superusers only. The assignee must be an existing non-superuser.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/create [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), identity, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Completed:   req.Completed,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary List all tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} model.Task
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/ [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.List(c.Request().Context())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask godoc
// @Summary Partially update a task
// @Description Applies only the fields present in the body.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}

	task, err := h.taskService.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, task)
}

// CompleteTask godoc
// @Summary Mark a task completed
// @Description Only the assigned user may complete a task; repeat calls succeed.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} AckResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/complete/{id} [put]
func (h *TaskHandler) CompleteTask(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Complete(c.Request().Context(), identity, c.Param("id")); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, AckResponse{Message: "Task marked as completed"})
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Superusers only.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} AckResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, AckResponse{Message: "Task deleted successfully"})
}
