package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

type pathRequest struct {
	Path string `json:"path"`
}

type voiceRequest struct {
	Text   string `json:"text"`
	APIKey string `json:"api_key"`
}

type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

type messageRequest struct {
	Message string `json:"message"`
}

// StatusCode maps an error marker to an HTTP status
func StatusCode(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrParse:
		return http.StatusUnprocessableEntity
	case apperr.ErrConfiguration:
		return http.StatusBadRequest
	case apperr.ErrRemoteService, apperr.ErrExternalTool:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	return c.JSON(StatusCode(err), ErrorResponse{Error: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func statusOK(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleHealth returns server health status
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": s.svc.Version()})
}

func (s *Server) handleGetConfig(c echo.Context) error {
	cfg, err := s.svc.LoadConfig()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

// handlePutConfig decodes the body over the defaults so omitted fields
// keep their default values
func (s *Server) handlePutConfig(c echo.Context) error {
	cfg := config.DefaultConfig()
	if err := json.NewDecoder(c.Request().Body).Decode(cfg); err != nil {
		return badRequest(c, "invalid configuration: "+err.Error())
	}
	if err := s.svc.SaveConfig(cfg); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleGetSoundsEnabled(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"enabled": s.svc.SoundsEnabled()})
}

func (s *Server) handlePutSoundsEnabled(c echo.Context) error {
	var req enabledRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return badRequest(c, `expected {"enabled": true|false}`)
	}
	if err := s.svc.SetSoundsEnabled(*req.Enabled); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

func (s *Server) handleGetUninstalled(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"uninstalled": s.svc.Uninstalled()})
}

func (s *Server) handlePreviewSound(c echo.Context) error {
	var req pathRequest
	if err := c.Bind(&req); err != nil || req.Path == "" {
		return badRequest(c, "path is required")
	}
	if err := s.svc.PreviewSound(req.Path); err != nil {
		return s.fail(c, err)
	}
	return statusOK(c)
}

func (s *Server) handlePreviewVoice(c echo.Context) error {
	var req voiceRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return badRequest(c, "text is required")
	}
	path, err := s.svc.PreviewVoice(c.Request().Context(), req.Text, req.APIKey)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleInstall(c echo.Context) error {
	result, err := s.svc.Install()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleUninstall(c echo.Context) error {
	result, err := s.svc.Uninstall()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleDevReset(c echo.Context) error {
	if err := s.svc.DevReset(); err != nil {
		return s.fail(c, err)
	}
	return statusOK(c)
}

func (s *Server) handleListSounds(c echo.Context) error {
	list, err := s.svc.ListSounds()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleUploadSound(c echo.Context) error {
	var req pathRequest
	if err := c.Bind(&req); err != nil || req.Path == "" {
		return badRequest(c, "path is required")
	}
	dst, err := s.svc.UploadSound(req.Path)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"path": dst})
}

func (s *Server) handleRecentProjects(c echo.Context) error {
	projects, err := s.svc.RecentProjects()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handlePregenerate(c echo.Context) error {
	var req apiKeyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	result, err := s.svc.PregenerateVoices(c.Request().Context(), req.APIKey)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGenerate(c echo.Context) error {
	var req apiKeyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	count, err := s.svc.GenerateVoices(c.Request().Context(), req.APIKey)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleInstallation(c echo.Context) error {
	m, err := s.svc.InstallationInfo()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) handleInstallationLog(c echo.Context) error {
	raw, err := s.svc.InstallationLog()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSONBlob(http.StatusOK, []byte(raw))
}

func (s *Server) handleBackupPath(c echo.Context) error {
	path, err := s.svc.BackupPath()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"backup_path": path})
}

func (s *Server) handleActivity(c echo.Context) error {
	events, err := s.svc.ActivityLog()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) handleDiagnostics(c echo.Context) error {
	report, err := s.svc.Diagnostics(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSONBlob(http.StatusOK, []byte(report))
}

func (s *Server) handleOpenLog(c echo.Context) error {
	if err := s.svc.OpenLog(); err != nil {
		return s.fail(c, err)
	}
	return statusOK(c)
}

func (s *Server) handleOpenFocus(c echo.Context) error {
	if err := s.svc.OpenFocusSettings(); err != nil {
		return s.fail(c, err)
	}
	return statusOK(c)
}

func (s *Server) handleTestNotification(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if err := s.svc.TestNotification(req.Message); err != nil {
		return s.fail(c, err)
	}
	return statusOK(c)
}

func (s *Server) handleGetState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.State())
}

// handleSSE handles Server-Sent Events for toggle-state changes
func (s *Server) handleSSE(c echo.Context) error {
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")

	manager := s.svc.StateManager()
	eventCh := manager.Subscribe()
	defer manager.Unsubscribe(eventCh)

	// Send initial state
	initialData, _ := json.Marshal(manager.Get())
	fmt.Fprintf(c.Response(), "event: init\ndata: %s\n\n", initialData)
	c.Response().Flush()

	// Stream updates
	for {
		select {
		case <-c.Request().Context().Done():
			return nil

		case event, ok := <-eventCh:
			if !ok {
				return nil
			}

			data, err := json.Marshal(event)
			if err != nil {
				continue
			}

			fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event.Type, data)
			c.Response().Flush()
		}
	}
}
