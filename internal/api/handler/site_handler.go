package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// SiteHandler serves the public site views: home standings, the streaming
// listing, and the tournament application form.
type SiteHandler struct {
	content ports.ContentStore
	audit   ports.AuditNotifier
}

func NewSiteHandler(content ports.ContentStore, audit ports.AuditNotifier) *SiteHandler {
	return &SiteHandler{content: content, audit: audit}
}

type homeResponse struct {
	Title        string            `json:"title"`
	Season       string            `json:"season"`
	Drivers      []domain.Driver   `json:"drivers"`
	Teams        []domain.Team     `json:"teams"`
	FeaturedNews []domain.NewsItem `json:"featured_news"`
}

type streamingResponse struct {
	Streamers []domain.Streamer `json:"streamers"`
}

type applyRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Experience string `json:"experience"`
	Message    string `json:"message"`
}

// Home handles GET /, the standings page: drivers and teams ordered by
// points descending, plus featured news.
//
// @Summary      Standings home
// @Tags         site
// @Produce      json
// @Success      200  {object}  homeResponse
// @Router       / [get]
func (h *SiteHandler) Home(c echo.Context) error {
	cfg := h.content.Config()

	var featured []domain.NewsItem
	for _, n := range h.content.News() {
		if n.Featured {
			featured = append(featured, n)
		}
	}

	return c.JSON(http.StatusOK, homeResponse{
		Title:        cfg.Title,
		Season:       cfg.Season,
		Drivers:      h.content.SortedDrivers(),
		Teams:        h.content.SortedTeams(),
		FeaturedNews: featured,
	})
}

// Streaming handles GET /streaming, the configured streamer listing.
// Embed-URL construction is the client's concern.
//
// @Summary      Streaming listing
// @Tags         site
// @Produce      json
// @Success      200  {object}  streamingResponse
// @Router       /streaming [get]
func (h *SiteHandler) Streaming(c echo.Context) error {
	return c.JSON(http.StatusOK, streamingResponse{
		Streamers: h.content.Config().Streamers,
	})
}

// Apply handles POST /apply, the public tournament application form. The
// submission is forwarded as a notification; delivery failure never reaches
// the applicant.
//
// @Summary      Apply to the tournament
// @Tags         site
// @Accept       json
// @Produce      json
// @Param        body  body  applyRequest  true  "Application"
// @Success      202
// @Failure      400  {object}  map[string]string
// @Router       /apply [post]
func (h *SiteHandler) Apply(c echo.Context) error {
	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	h.audit.Emit(domain.AuditEvent{
		Action: domain.AuditApply,
		Actor:  req.Email,
		Detail: map[string]string{
			"name":       req.Name,
			"experience": req.Experience,
		},
		Timestamp: time.Now().UTC(),
	})

	return c.JSON(http.StatusAccepted, map[string]string{"status": "received"})
}
