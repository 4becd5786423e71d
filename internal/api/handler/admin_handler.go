package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pitwall/tourney-system/internal/api/metrics"
	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// AdminHandler serves the admin configuration panel surface: tournament
// settings, manual feed refresh, and the root-only audit log listing.
type AdminHandler struct {
	content ports.ContentStore
	sync    ports.SyncService
	logs    ports.AuditLog
	audit   ports.AuditNotifier
}

func NewAdminHandler(content ports.ContentStore, sync ports.SyncService, logs ports.AuditLog, audit ports.AuditNotifier) *AdminHandler {
	return &AdminHandler{content: content, sync: sync, logs: logs, audit: audit}
}

type streamerRequest struct {
	Username string `json:"username" validate:"required"`
}

type replaceConfigRequest struct {
	Title        string            `json:"title" validate:"required"`
	Season       string            `json:"season" validate:"required"`
	PointsSystem map[int]int       `json:"points_system" validate:"required"`
	Streamers    []streamerRequest `json:"streamers"`
}

// GetConfig handles GET /v1/config.
//
// @Summary      Tournament configuration
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.TournamentConfig
// @Router       /v1/config [get]
func (h *AdminHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.content.Config())
}

// ReplaceConfig handles PUT /v1/config as a wholesale settings replacement.
//
// @Summary      Replace tournament configuration
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  replaceConfigRequest  true  "Configuration"
// @Success      200   {object}  domain.TournamentConfig
// @Failure      400   {object}  map[string]string
// @Router       /v1/config [put]
func (h *AdminHandler) ReplaceConfig(c echo.Context) error {
	var req replaceConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	streamers := make([]domain.Streamer, 0, len(req.Streamers))
	for _, s := range req.Streamers {
		streamers = append(streamers, domain.Streamer{Username: s.Username})
	}
	cfg := domain.TournamentConfig{
		Title:        req.Title,
		Season:       req.Season,
		PointsSystem: req.PointsSystem,
		Streamers:    streamers,
	}

	if err := h.content.ReplaceConfig(c.Request().Context(), cfg); err != nil {
		return err
	}

	if actor, err := ctxIdentity(c); err == nil && domain.CapabilitiesFor(actor).IsAdmin {
		h.audit.Emit(domain.AuditEvent{
			Action:    domain.AuditConfigChange,
			Actor:     actor.Username,
			Detail:    map[string]string{"title": cfg.Title, "season": cfg.Season},
			Timestamp: time.Now().UTC(),
		})
	}
	metrics.ContentMutationsTotal.WithLabelValues("config", "replace").Inc()

	return c.JSON(http.StatusOK, cfg)
}

// Refresh handles POST /v1/refresh, one manual feed refresh attempt. A
// refresh already in flight yields 409; a feed failure yields 503 and the
// cached collections stay authoritative.
//
// @Summary      Refresh collections from the feed
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /v1/refresh [post]
func (h *AdminHandler) Refresh(c echo.Context) error {
	start := time.Now()
	err := h.sync.Refresh(c.Request().Context())
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrSyncInFlight) {
			metrics.SyncRefreshTotal.WithLabelValues("rejected").Inc()
			return err
		}
		metrics.SyncRefreshTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "feed unavailable, cached data remains in effect",
		})
	}

	metrics.SyncRefreshTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
}

type auditEventResponse struct {
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Detail    map[string]string `json:"detail,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Logs handles GET /v1/logs, the root-only audit trail, newest first.
//
// @Summary      Audit log
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "Maximum events to return"
// @Success      200    {array}  auditEventResponse
// @Router       /v1/logs [get]
func (h *AdminHandler) Logs(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	events, err := h.logs.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			Action:    e.Action,
			Actor:     e.Actor,
			Detail:    e.Detail,
			Timestamp: e.Timestamp.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}
