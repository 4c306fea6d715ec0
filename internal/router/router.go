package router

import (
	"log/slog"

	"github.com/anonto42/media-share/backend/internal/assets"
	"github.com/anonto42/media-share/backend/internal/handlers"
	"github.com/anonto42/media-share/backend/internal/metrics"
	"github.com/anonto42/media-share/backend/internal/middleware"
	"github.com/anonto42/media-share/backend/internal/repositories"
	"github.com/anonto42/media-share/backend/pkg/config"
	"github.com/anonto42/media-share/backend/pkg/logger"
	"github.com/anonto42/media-share/backend/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// Dependencies are the shared resources handed to every handler
type Dependencies struct {
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Sink     assets.Sink
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	AllowedOrigins      []string
	MaxUploadSize       string
	CommentTransactions bool

	// StaticDir is served under StaticPrefix when set (local asset sink).
	StaticDir    string
	StaticPrefix string
}

// New builds the Echo instance with middleware and routes configured
func New(deps Dependencies) *echo.Echo {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.MaxUploadSize == "" {
		deps.MaxUploadSize = "500M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	SetupMiddleware(e, deps)
	SetupRoutes(e, deps)
	return e
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, deps Dependencies) {
	e.Use(contextLogger(deps.Logger))
	e.Use(config.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(eMiddleware.RecoverWithConfig(eMiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.FromContext(c.Request().Context()).Error("panic recovered",
				"error", err,
				"stack", string(stack),
			)
			return err
		},
	}))
	e.Use(middleware.CORS(deps.AllowedOrigins))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.GET("/health", handlers.HealthCheck)
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}
	if deps.StaticDir != "" {
		e.Static(deps.StaticPrefix, deps.StaticDir)
	}

	api := e.Group("/api")

	uploadHandler := handlers.NewUploadHandler(deps.Sink, deps.Posts, deps.Metrics, deps.MaxUploadSize)
	uploadHandler.RegisterUploadRoutes(api)

	postHandler := handlers.NewPostHandler(deps.Posts)
	postHandler.RegisterPostRoutes(api)

	likeHandler := handlers.NewLikeHandler(deps.Posts)
	likeHandler.RegisterLikeRoutes(api)

	commentHandler := handlers.NewCommentHandler(deps.Comments, deps.Posts, deps.CommentTransactions)
	commentHandler.RegisterCommentRoutes(api)

	deps.Logger.Debug("routes configured", "routes", len(e.Routes()))
}

// contextLogger makes log available to handlers through the request context
func contextLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), log)))
			return next(c)
		}
	}
}
