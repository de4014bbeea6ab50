// Package server exposes the verdict pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jessewalberg/aita/internal/application"
	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/ports"
)

// Server wires the pipeline and stores into an echo HTTP server.
type Server struct {
	echo     *echo.Echo
	pipeline *application.Pipeline
	verdicts ports.VerdictStore
	stats    ports.ModelStatsStore
	logger   *zap.Logger
}

// New creates a Server over the given collaborators.
func New(pipeline *application.Pipeline, verdicts ports.VerdictStore, stats ports.ModelStatsStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:     e,
		pipeline: pipeline,
		verdicts: verdicts,
		stats:    stats,
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.POST("/verdicts", s.handleCreateVerdict)
	api.GET("/verdicts/:shareId", s.handleGetVerdict)
	api.GET("/stats/leaderboard", s.handleLeaderboard)
}

// VerdictRequest is the body for POST /api/verdicts.
type VerdictRequest struct {
	Situation string `json:"situation"`
	Mode      string `json:"mode"`
	UserID    string `json:"userId"`
	VisitorID string `json:"visitorId"`
	IsPublic  bool   `json:"isPublic"`
	// Tier and Role are trusted here; in production they come from the
	// session, not the client.
	Tier string `json:"tier"`
	Role string `json:"role"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateVerdict(c echo.Context) error {
	var req VerdictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var user *domain.User
	if req.Tier != "" || req.Role != "" {
		user = &domain.User{Tier: req.Tier, Role: domain.Role(req.Role)}
	}

	pipelineReq := application.VerdictRequest{
		Situation: req.Situation,
		UserID:    req.UserID,
		VisitorID: req.VisitorID,
		User:      user,
		IsPublic:  req.IsPublic,
	}

	ctx := c.Request().Context()
	var (
		result any
		err    error
	)
	if req.Mode == string(domain.ModeSingle) {
		result, err = s.pipeline.GenerateSingleVerdict(ctx, pipelineReq)
	} else {
		result, err = s.pipeline.GeneratePanelVerdict(ctx, pipelineReq)
	}
	if err != nil {
		return s.mapPipelineError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) mapPipelineError(err error) error {
	switch {
	case errors.Is(err, ports.ErrMissingIdentifier):
		return echo.NewHTTPError(http.StatusBadRequest, "exactly one of userId or visitorId is required")
	case errors.Is(err, ports.ErrInvalidSituation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "daily verdict limit reached")
	default:
		s.logger.Error("verdict pipeline failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "verdict generation failed")
	}
}

func (s *Server) handleGetVerdict(c echo.Context) error {
	record, err := s.verdicts.GetByShareID(c.Request().Context(), c.Param("shareId"))
	if errors.Is(err, ports.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "verdict not found")
	}
	if err != nil {
		s.logger.Error("verdict lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) handleLeaderboard(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = parsed
	}

	board, err := s.stats.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error("leaderboard query failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "leaderboard unavailable")
	}
	return c.JSON(http.StatusOK, board)
}

// Start begins serving on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
