package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskman/internal/auth"
	"taskman/internal/config"
	apperrors "taskman/internal/errors"
	"taskman/internal/handler"
	"taskman/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authenticator *auth.Authenticator,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(metrics.Middleware())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Task Management API"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// The JWT middleware delegates token resolution to the Authenticator,
	// which re-fetches the live user record. On failure the full header is
	// re-examined so the response carries the precise session error rather
	// than the middleware's generic one.
	requireAuth := echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authenticator.AuthenticateToken(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			_, err := authenticator.Authenticate(c.Request().Context(), header)
			if err == nil {
				err = apperrors.ErrInvalidToken
			}
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})

	users := e.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("/me", userHandler.Me, requireAuth)
	users.GET("/", userHandler.ListUsers)

	tasks := e.Group("/tasks")
	tasks.POST("/create", taskHandler.CreateTask, requireAuth)
	tasks.GET("/", taskHandler.ListTasks)
	// PATCH and GET are public in the upstream contract; see DESIGN.md for
	// the recorded policy gaps.
	tasks.PATCH("/:id", taskHandler.UpdateTask)
	tasks.PUT("/complete/:id", taskHandler.CompleteTask, requireAuth)
	tasks.DELETE("/:id", taskHandler.DeleteTask, requireAuth)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
