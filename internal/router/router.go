package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"jobtrack/internal/auth"
	"jobtrack/internal/config"
	"jobtrack/internal/handler"
	"jobtrack/internal/loader"
	"jobtrack/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	jobHandler *handler.JobHandler,
	chatHandler *handler.JobChatHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
	}))
	secured.Use(resolveIdentity)
	secured.Use(requestScopedLoader(userRepo))

	secured.GET("/me", authHandler.Me)
	secured.GET("/users", userHandler.ListUsers)

	secured.GET("/jobs", jobHandler.ListJobs)
	secured.POST("/jobs", jobHandler.CreateJob)
	secured.GET("/jobs/:id", jobHandler.GetJob)
	secured.PUT("/jobs/:id", jobHandler.UpdateJob)
	secured.DELETE("/jobs/:id", jobHandler.DeleteJob)
	secured.POST("/jobs/:id/status", jobHandler.ChangeJobStatus)
	secured.GET("/jobs/:id/tasks", jobHandler.ListJobTasks)
	secured.POST("/job-tasks/:id/complete", jobHandler.CompleteJobTask)

	secured.GET("/jobs/:id/messages", chatHandler.ListMessages)
	secured.POST("/jobs/:id/messages", chatHandler.CreateMessage)
}

// resolveIdentity converts validated JWT claims into the per-request identity
// consumed by the service layer.
func resolveIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		c.Set(handler.IdentityContextKey, claims.Identity())
		return next(c)
	}
}

// requestScopedLoader attaches a fresh user loader to each request. The
// loader memoizes per request only; nothing leaks across requests.
func requestScopedLoader(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(handler.UserLoaderContextKey, loader.NewUserLoader(userRepo))
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
