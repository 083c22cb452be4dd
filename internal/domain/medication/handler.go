package medication

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

	g := api.Group("", role)
	g.POST("/medications", h.Create)
	g.GET("/medications/:id", h.Get)
	g.PUT("/medications/:id", h.Update)
	g.POST("/medications/:id/discontinue", h.Discontinue)
	g.DELETE("/medications/:id", h.Delete, auth.RequireRole("admin"))
	g.GET("/patients/:id/medications", h.ListByPatient)

	g.POST("/medications/:id/doses", h.LogDose)
	g.GET("/medications/:id/doses", h.DoseHistory)
	g.GET("/patients/:id/doses", h.DoseLogsForDay)
}

func paramID(c echo.Context, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+what+" id")
	}
	return id, nil
}

// createResponse carries the stored medication plus any interaction
// conflicts against the rest of the regimen.
type createResponse struct {
	Medication *Medication `json:"medication"`
	Conflicts  []string    `json:"conflicts,omitempty"`
}

func (h *Handler) Create(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	conflicts, err := h.svc.AddMedication(c.Request().Context(), &m)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, createResponse{Medication: &m, Conflicts: conflicts})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := paramID(c, "medication")
	if err != nil {
		return err
	}
	m, err := h.svc.GetMedication(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := paramID(c, "medication")
	if err != nil {
		return err
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMedication(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Discontinue(c echo.Context) error {
	id, err := paramID(c, "medication")
	if err != nil {
		return err
	}
	if err := h.svc.DiscontinueMedication(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := paramID(c, "medication")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMedication(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	id, err := paramID(c, "patient")
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	status := c.QueryParam("status")

	meds, total, err := h.svc.ListMedications(c.Request().Context(), id, status, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(meds, total, p.Limit, p.Offset))
}

func (h *Handler) LogDose(c echo.Context) error {
	id, err := paramID(c, "medication")
	if err != nil {
		return err
	}
	var l DoseLog
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l.MedicationID = id
	if err := h.svc.LogDose(c.Request().Context(), &l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) DoseHistory(c echo.Context) error {
	id, err := paramID(c, "medication")
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)

	logs, total, err := h.svc.DoseHistory(c.Request().Context(), id, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(logs, total, p.Limit, p.Offset))
}

func (h *Handler) DoseLogsForDay(c echo.Context) error {
	id, err := paramID(c, "patient")
	if err != nil {
		return err
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := c.QueryParam("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}

	logs, err := h.svc.DoseLogsForDay(c.Request().Context(), id, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": len(logs),
		"data":  logs,
	})
}
