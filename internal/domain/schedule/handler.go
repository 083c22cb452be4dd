package schedule

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "clinician", "caregiver")

	g := api.Group("/patients/:id", role)
	g.POST("/schedule", h.PlanDay)
	g.GET("/schedule", h.GetSchedule)
	g.GET("/schedules", h.ListSchedules)
	g.POST("/schedule/replan", h.Replan)
	g.GET("/next-dose", h.NextDose)
	g.GET("/reminders", h.Reminders)
	g.GET("/preferences", h.GetPreferences)
	g.PUT("/preferences", h.SavePreferences)
}

func patientID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return id, nil
}

// scheduleDate reads the date query param, defaulting to today.
func scheduleDate(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}

type planRequest struct {
	Date        string            `json:"date,omitempty"`
	Medications []MedicationInput `json:"medications,omitempty"`
}

func (h *Handler) PlanDay(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	var req planRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}

	sched, err := h.svc.PlanDay(c.Request().Context(), id, date, req.Medications)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sched)
}

func (h *Handler) GetSchedule(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	date, err := scheduleDate(c)
	if err != nil {
		return err
	}

	sched, err := h.svc.GetSchedule(c.Request().Context(), id, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if sched == nil {
		return echo.NewHTTPError(http.StatusNotFound, "schedule not found")
	}
	return c.JSON(http.StatusOK, sched)
}

func (h *Handler) ListSchedules(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)

	schedules, total, err := h.svc.ListSchedules(c.Request().Context(), id, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(schedules, total, p.Limit, p.Offset))
}

type replanRequest struct {
	Date           string `json:"date,omitempty"`
	DisruptionType string `json:"disruption_type"`
	Details        string `json:"details,omitempty"`
}

func (h *Handler) Replan(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	var req replanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.DisruptionType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "disruption_type is required")
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}

	sched, err := h.svc.Replan(c.Request().Context(), id, date, req.DisruptionType, req.Details)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, sched)
}

func (h *Handler) NextDose(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	date, err := scheduleDate(c)
	if err != nil {
		return err
	}

	at := TimeOfDay(time.Now().Hour()*60 + time.Now().Minute())
	if raw := c.QueryParam("at"); raw != "" {
		at, err = ParseTimeOfDay(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid at, expected HH:MM")
		}
	}

	item, err := h.svc.NextDose(c.Request().Context(), id, date, at)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if item == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no remaining doses today")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) Reminders(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	date, err := scheduleDate(c)
	if err != nil {
		return err
	}

	reminders, err := h.svc.Reminders(c.Request().Context(), id, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": len(reminders),
		"data":  reminders,
	})
}

func (h *Handler) GetPreferences(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	prefs, err := h.svc.GetPreferences(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, prefs)
}

func (h *Handler) SavePreferences(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	var prefs PatientPreferences
	if err := c.Bind(&prefs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SavePreferences(c.Request().Context(), id, &prefs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, prefs)
}
