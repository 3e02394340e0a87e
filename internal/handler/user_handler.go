package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskman/internal/auth"
	apperrors "taskman/internal/errors"
	"taskman/internal/service"
)

// UserHandler handles user profile and listing endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserSummary is the public projection of a user record.
type UserSummary struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Me godoc
// @Summary Get the authenticated identity
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Identity
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, ok := c.Get("user").(*auth.Identity)
	if !ok {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMissingToken)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, identity)
}

// ListUsers godoc
// @Summary List all users
// @Description Returns usernames and roles only; never password hashes.
// @Tags users
// @Produce json
// @Success 200 {array} UserSummary
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{
			Username: u.Username,
			Role:     string(u.Role),
		})
	}
	return c.JSON(http.StatusOK, summaries)
}
