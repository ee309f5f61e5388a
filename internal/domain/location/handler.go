package location

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
	api.GET("/location", h.Get)
	api.PUT("/location", h.Set)
	api.DELETE("/location", h.Clear)
}

func userID(c echo.Context) (string, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	if uid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return uid, nil
}

func (h *Handler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	loc, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if loc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no saved location")
	}
	return c.JSON(http.StatusOK, loc)
}

func (h *Handler) Set(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var loc Location
	if err := c.Bind(&loc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.svc.Set(c.Request().Context(), uid, loc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, loc)
}

func (h *Handler) Clear(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Clear(c.Request().Context(), uid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
