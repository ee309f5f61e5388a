package booking

import (
	"net/http"

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
	api.GET("/bookings", h.ListMine)
	api.GET("/bookings/:id", h.Get)
	api.POST("/bookings", h.Create)
	api.POST("/bookings/:id/cancel", h.Cancel)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.PUT("/bookings/:id/status", h.UpdateStatus)
}

func userID(c echo.Context) (string, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	if uid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return uid, nil
}

func (h *Handler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.UserID = uid
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	b, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}
	if b.UserID != uid && !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not your booking")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListMine(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, err := h.svc.ListByUser(c.Request().Context(), uid, c.QueryParam("kind"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Cancel(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	b, err := h.svc.Cancel(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

func isAdmin(c echo.Context) bool {
	for _, r := range auth.RolesFromContext(c.Request().Context()) {
		if r == "admin" {
			return true
		}
	}
	return false
}
