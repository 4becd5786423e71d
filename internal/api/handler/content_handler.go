package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pitwall/tourney-system/internal/api/metrics"
	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// ContentHandler serves the domain collections: public reads plus the
// admin-gated mutations. Entity add/remove emits an audit notification with
// the acting identity.
type ContentHandler struct {
	content ports.ContentStore
	audit   ports.AuditNotifier
}

func NewContentHandler(content ports.ContentStore, audit ports.AuditNotifier) *ContentHandler {
	return &ContentHandler{content: content, audit: audit}
}

// --- Request types ---

type addDriverRequest struct {
	Name     string `json:"name" validate:"required"`
	Team     string `json:"team"`
	Points   int    `json:"points"`
	Country  string `json:"country"`
	Number   int    `json:"number"`
	Color    string `json:"color"`
	ImageURL string `json:"image_url"`
}

type updateDriverRequest struct {
	Name     *string `json:"name"`
	Team     *string `json:"team"`
	Points   *int    `json:"points"`
	Country  *string `json:"country"`
	Number   *int    `json:"number"`
	Color    *string `json:"color"`
	ImageURL *string `json:"image_url"`
}

type addTeamRequest struct {
	Name   string `json:"name" validate:"required"`
	Points int    `json:"points"`
	Color  string `json:"color"`
}

type updateTeamRequest struct {
	Name   *string `json:"name"`
	Points *int    `json:"points"`
	Color  *string `json:"color"`
}

type addRaceRequest struct {
	Name     string `json:"name" validate:"required"`
	Circuit  string `json:"circuit"`
	Date     string `json:"date" validate:"required"`
	Location string `json:"location"`
}

type updateRaceRequest struct {
	Name      *string `json:"name"`
	Circuit   *string `json:"circuit"`
	Date      *string `json:"date"`
	Location  *string `json:"location"`
	Completed *bool   `json:"completed"`
	Winner    *string `json:"winner"`
}

type gridRowRequest struct {
	Position   int    `json:"position"`
	DriverID   string `json:"driver_id"`
	DriverName string `json:"driver_name"`
	Points     int    `json:"points"`
	FastestLap bool   `json:"fastest_lap"`
}

type raceDetailsRequest struct {
	Grid []gridRowRequest `json:"grid" validate:"required"`
}

type addNewsRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Date     string `json:"date"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
	Featured bool   `json:"featured"`
}

type updateNewsRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Date     *string `json:"date"`
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
	Featured *bool   `json:"featured"`
}

// --- Public reads ---

// ListDrivers handles GET /drivers.
//
// @Summary      List drivers
// @Tags         content
// @Produce      json
// @Success      200  {array}  domain.Driver
// @Router       /drivers [get]
func (h *ContentHandler) ListDrivers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.content.Drivers())
}

// ListRaces handles GET /calendar.
//
// @Summary      Race calendar
// @Tags         content
// @Produce      json
// @Success      200  {array}  domain.Race
// @Router       /calendar [get]
func (h *ContentHandler) ListRaces(c echo.Context) error {
	return c.JSON(http.StatusOK, h.content.Races())
}

// ListNews handles GET /news.
//
// @Summary      News feed
// @Tags         content
// @Produce      json
// @Success      200  {array}  domain.NewsItem
// @Router       /news [get]
func (h *ContentHandler) ListNews(c echo.Context) error {
	return c.JSON(http.StatusOK, h.content.News())
}

// --- Driver mutations (admin) ---

func (h *ContentHandler) AddDriver(c echo.Context) error {
	var req addDriverRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	driver, err := h.content.AddDriver(c.Request().Context(), domain.Driver{
		Name:     req.Name,
		Team:     req.Team,
		Points:   req.Points,
		Country:  req.Country,
		Number:   req.Number,
		Color:    req.Color,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return err
	}

	h.notifyEntity(c, domain.AuditEntityAdd, "driver", driver.ID, driver.Name)
	metrics.ContentMutationsTotal.WithLabelValues("drivers", "add").Inc()
	return c.JSON(http.StatusCreated, driver)
}

func (h *ContentHandler) UpdateDriver(c echo.Context) error {
	var req updateDriverRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	err := h.content.UpdateDriver(c.Request().Context(), c.Param("id"), ports.DriverUpdate{
		Name:     req.Name,
		Team:     req.Team,
		Points:   req.Points,
		Country:  req.Country,
		Number:   req.Number,
		Color:    req.Color,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("drivers", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) RemoveDriver(c echo.Context) error {
	id := c.Param("id")
	if err := h.content.RemoveDriver(c.Request().Context(), id); err != nil {
		return err
	}
	h.notifyEntity(c, domain.AuditEntityRemove, "driver", id, "")
	metrics.ContentMutationsTotal.WithLabelValues("drivers", "remove").Inc()
	return c.NoContent(http.StatusNoContent)
}

// --- Team mutations (admin) ---

func (h *ContentHandler) AddTeam(c echo.Context) error {
	var req addTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	team, err := h.content.AddTeam(c.Request().Context(), domain.Team{
		Name:   req.Name,
		Points: req.Points,
		Color:  req.Color,
	})
	if err != nil {
		return err
	}

	h.notifyEntity(c, domain.AuditEntityAdd, "team", team.ID, team.Name)
	metrics.ContentMutationsTotal.WithLabelValues("teams", "add").Inc()
	return c.JSON(http.StatusCreated, team)
}

func (h *ContentHandler) UpdateTeam(c echo.Context) error {
	var req updateTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	err := h.content.UpdateTeam(c.Request().Context(), c.Param("id"), ports.TeamUpdate{
		Name:   req.Name,
		Points: req.Points,
		Color:  req.Color,
	})
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("teams", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) RemoveTeam(c echo.Context) error {
	id := c.Param("id")
	if err := h.content.RemoveTeam(c.Request().Context(), id); err != nil {
		return err
	}
	h.notifyEntity(c, domain.AuditEntityRemove, "team", id, "")
	metrics.ContentMutationsTotal.WithLabelValues("teams", "remove").Inc()
	return c.NoContent(http.StatusNoContent)
}

// --- Race mutations (admin) ---

func (h *ContentHandler) AddRace(c echo.Context) error {
	var req addRaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	race, err := h.content.AddRace(c.Request().Context(), domain.Race{
		Name:     req.Name,
		Circuit:  req.Circuit,
		Date:     req.Date,
		Location: req.Location,
	})
	if err != nil {
		return err
	}

	h.notifyEntity(c, domain.AuditEntityAdd, "race", race.ID, race.Name)
	metrics.ContentMutationsTotal.WithLabelValues("races", "add").Inc()
	return c.JSON(http.StatusCreated, race)
}

func (h *ContentHandler) UpdateRace(c echo.Context) error {
	var req updateRaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	err := h.content.UpdateRace(c.Request().Context(), c.Param("id"), ports.RaceUpdate{
		Name:      req.Name,
		Circuit:   req.Circuit,
		Date:      req.Date,
		Location:  req.Location,
		Completed: req.Completed,
		Winner:    req.Winner,
	})
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("races", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) RemoveRace(c echo.Context) error {
	id := c.Param("id")
	if err := h.content.RemoveRace(c.Request().Context(), id); err != nil {
		return err
	}
	h.notifyEntity(c, domain.AuditEntityRemove, "race", id, "")
	metrics.ContentMutationsTotal.WithLabelValues("races", "remove").Inc()
	return c.NoContent(http.StatusNoContent)
}

// UpdateRaceDetails stores the submitted result grid in submitted order.
func (h *ContentHandler) UpdateRaceDetails(c echo.Context) error {
	var req raceDetailsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	grid := make([]domain.GridRow, 0, len(req.Grid))
	for _, row := range req.Grid {
		grid = append(grid, domain.GridRow{
			Position:   row.Position,
			DriverID:   row.DriverID,
			DriverName: row.DriverName,
			Points:     row.Points,
			FastestLap: row.FastestLap,
		})
	}

	err := h.content.UpdateRaceDetails(c.Request().Context(), c.Param("id"), domain.RaceDetails{Grid: grid})
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("races", "update_details").Inc()
	return c.NoContent(http.StatusNoContent)
}

// SortRaceGrid is the explicit save-sorted operation for a race grid.
func (h *ContentHandler) SortRaceGrid(c echo.Context) error {
	if err := h.content.SortRaceGrid(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("races", "sort_grid").Inc()
	return c.NoContent(http.StatusNoContent)
}

// --- News mutations (admin) ---

func (h *ContentHandler) AddNews(c echo.Context) error {
	var req addNewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	date := req.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	item, err := h.content.AddNews(c.Request().Context(), domain.NewsItem{
		Title:    req.Title,
		Content:  req.Content,
		Date:     date,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
		Featured: req.Featured,
	})
	if err != nil {
		return err
	}

	h.notifyEntity(c, domain.AuditEntityAdd, "news", item.ID, item.Title)
	metrics.ContentMutationsTotal.WithLabelValues("news", "add").Inc()
	return c.JSON(http.StatusCreated, item)
}

func (h *ContentHandler) UpdateNews(c echo.Context) error {
	var req updateNewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	err := h.content.UpdateNews(c.Request().Context(), c.Param("id"), ports.NewsUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Date:     req.Date,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
		Featured: req.Featured,
	})
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("news", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) RemoveNews(c echo.Context) error {
	id := c.Param("id")
	if err := h.content.RemoveNews(c.Request().Context(), id); err != nil {
		return err
	}
	h.notifyEntity(c, domain.AuditEntityRemove, "news", id, "")
	metrics.ContentMutationsTotal.WithLabelValues("news", "remove").Inc()
	return c.NoContent(http.StatusNoContent)
}

// notifyEntity emits an audit event for an entity add/remove when an
// authenticated admin or root actor is present.
func (h *ContentHandler) notifyEntity(c echo.Context, action, kind, id, name string) {
	actor, err := ctxIdentity(c)
	if err != nil || !domain.CapabilitiesFor(actor).IsAdmin {
		return
	}
	detail := map[string]string{"kind": kind, "id": id}
	if name != "" {
		detail["name"] = name
	}
	h.audit.Emit(domain.AuditEvent{
		Action:    action,
		Actor:     actor.Username,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
