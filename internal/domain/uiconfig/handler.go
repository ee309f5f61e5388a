package uiconfig

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onemedi/onemedi/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/ui/home", h.HomeConfig)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.GET("/ui/sections", h.ListSections)
	admin.POST("/ui/sections", h.CreateSection)
	admin.PATCH("/ui/sections/:id", h.UpdateSection)
	admin.GET("/ui/banners", h.ListBanners)
	admin.POST("/ui/banners", h.CreateBanner)
	admin.PATCH("/ui/banners/:id", h.UpdateBanner)
}

func (h *Handler) HomeConfig(c echo.Context) error {
	cfg, err := h.svc.HomeConfig(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ListSections(c echo.Context) error {
	items, err := h.svc.ListSections(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateSection(c echo.Context) error {
	var s Section
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateSection(c.Request().Context(), &s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) UpdateSection(c echo.Context) error {
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s, err := h.svc.UpdateSection(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ListBanners(c echo.Context) error {
	items, err := h.svc.ListBanners(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateBanner(c echo.Context) error {
	var b Banner
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBanner(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBanner(c echo.Context) error {
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.UpdateBanner(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}
