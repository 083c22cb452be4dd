package interaction

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/auth"
)

// Handler exposes the interaction checker so callers can validate a drug
// against a patient's regimen before committing it.
type Handler struct {
	checker *Checker
}

func NewHandler(checker *Checker) *Handler {
	return &Handler{checker: checker}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "clinician", "caregiver")

	g := api.Group("", role)
	g.GET("/interactions", h.ListKnownInteractions)
	g.GET("/interactions/pair", h.CheckPair)
	g.POST("/interactions/check", h.CheckMedications)
}

type checkRequest struct {
	Medications []string `json:"medications"`
}

func (h *Handler) CheckMedications(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Medications) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least two medication names are required")
	}
	return c.JSON(http.StatusOK, h.checker.InteractionSummary(req.Medications))
}

type pairResponse struct {
	DrugA           string `json:"drug_a"`
	DrugB           string `json:"drug_b"`
	CanTakeTogether bool   `json:"can_take_together"`
	Reason          string `json:"reason"`
}

func (h *Handler) CheckPair(c echo.Context) error {
	a, b := c.QueryParam("a"), c.QueryParam("b")
	if a == "" || b == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query params a and b are required")
	}
	ok, reason := h.checker.CanTakeTogether(a, b)
	return c.JSON(http.StatusOK, pairResponse{DrugA: a, DrugB: b, CanTakeTogether: ok, Reason: reason})
}

func (h *Handler) ListKnownInteractions(c echo.Context) error {
	all := h.checker.repo.All()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Severity.Rank() != all[j].Severity.Rank() {
			return all[i].Severity.Rank() < all[j].Severity.Rank()
		}
		return PairKey(all[i].DrugA, all[i].DrugB) < PairKey(all[j].DrugA, all[j].DrugB)
	})
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": len(all),
		"data":  all,
	})
}
