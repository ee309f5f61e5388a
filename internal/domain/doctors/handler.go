package doctors

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
	api.GET("/doctors", h.List)
	api.GET("/doctors/:id", h.Get)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/doctors", h.Create)
	admin.PATCH("/doctors/:id", h.Update)
	admin.PUT("/doctors/:id/availability", h.SetAvailability)
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Specialty:  c.QueryParam("specialty"),
		City:       c.QueryParam("city"),
		Mode:       c.QueryParam("mode"),
		NamePrefix: c.QueryParam("search"),
	}
	if raw := c.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid available")
		}
		f.Available = &v
	}

	pg := pagination.FromContext(c)
	items, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	d, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Create(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Update(c echo.Context) error {
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) SetAvailability(c echo.Context) error {
	var body struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.SetAvailability(c.Request().Context(), c.Param("id"), body.Available)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, d)
}
