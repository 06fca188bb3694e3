package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cwveysey/coding-agent-notifications/internal/app"
)

// DefaultAddr keeps the command API on the loopback interface
const DefaultAddr = "127.0.0.1:8787"

// Server represents the HTTP command API
type Server struct {
	echo   *echo.Echo
	addr   string
	svc    *app.Service
	logger *slog.Logger
}

// New creates a new Server listening on addr
func New(addr string, svc *app.Service, logger *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.Debug("request", attrs...)
			return nil
		},
	}))

	s := &Server{
		echo:   e,
		addr:   addr,
		svc:    svc,
		logger: logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/config", s.handleGetConfig)
	api.PUT("/config", s.handlePutConfig)
	api.GET("/sounds-enabled", s.handleGetSoundsEnabled)
	api.PUT("/sounds-enabled", s.handlePutSoundsEnabled)
	api.GET("/uninstalled", s.handleGetUninstalled)

	api.POST("/preview/sound", s.handlePreviewSound)
	api.POST("/preview/voice", s.handlePreviewVoice)

	api.POST("/install", s.handleInstall)
	api.POST("/uninstall", s.handleUninstall)
	api.POST("/dev/reset", s.handleDevReset)

	api.GET("/sounds", s.handleListSounds)
	api.POST("/sounds", s.handleUploadSound)
	api.GET("/projects/recent", s.handleRecentProjects)

	api.POST("/voices/pregenerate", s.handlePregenerate)
	api.POST("/voices/generate", s.handleGenerate)

	api.GET("/installation", s.handleInstallation)
	api.GET("/installation/log", s.handleInstallationLog)
	api.GET("/installation/backup", s.handleBackupPath)
	api.GET("/activity", s.handleActivity)
	api.GET("/diagnostics", s.handleDiagnostics)

	api.POST("/open/log", s.handleOpenLog)
	api.POST("/open/focus", s.handleOpenFocus)
	api.POST("/notify/test", s.handleTestNotification)

	api.GET("/state", s.handleGetState)
	api.GET("/state/stream", s.handleSSE)

	// Health check
	s.echo.GET("/health", s.handleHealth)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.addr
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("command API listening", slog.String("addr", "http://"+s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
