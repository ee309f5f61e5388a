package diagnostics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/onemedi/onemedi/internal/platform/auth"
	"github.com/onemedi/onemedi/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/lab-tests", h.ListLabTests)
	api.GET("/lab-tests/:id", h.GetLabTest)
	api.GET("/scans", h.ListScans)
	api.GET("/scans/:id", h.GetScan)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/lab-tests", h.CreateLabTest)
	admin.PATCH("/lab-tests/:id", h.UpdateLabTest)
	admin.POST("/scans", h.CreateScan)
	admin.PATCH("/scans/:id", h.UpdateScan)
}

func (h *Handler) ListLabTests(c echo.Context) error {
	f := LabTestFilter{
		Category:   c.QueryParam("category"),
		City:       c.QueryParam("city"),
		NamePrefix: c.QueryParam("search"),
	}
	if raw := c.QueryParam("home_collection"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid home_collection")
		}
		f.HomeCollection = &v
	}

	pg := pagination.FromContext(c)
	items, err := h.svc.ListLabTests(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetLabTest(c echo.Context) error {
	lt, err := h.svc.GetLabTest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lab test not found")
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *Handler) CreateLabTest(c echo.Context) error {
	var lt LabTest
	if err := c.Bind(&lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateLabTest(c.Request().Context(), &lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, lt)
}

func (h *Handler) UpdateLabTest(c echo.Context) error {
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lt, err := h.svc.UpdateLabTest(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *Handler) ListScans(c echo.Context) error {
	f := ScanFilter{
		Modality:   c.QueryParam("modality"),
		City:       c.QueryParam("city"),
		NamePrefix: c.QueryParam("search"),
	}

	pg := pagination.FromContext(c)
	items, err := h.svc.ListScans(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetScan(c echo.Context) error {
	sc, err := h.svc.GetScan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scan not found")
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *Handler) CreateScan(c echo.Context) error {
	var sc Scan
	if err := c.Bind(&sc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateScan(c.Request().Context(), &sc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sc)
}

func (h *Handler) UpdateScan(c echo.Context) error {
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sc, err := h.svc.UpdateScan(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sc)
}
