package cart

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onemedi/onemedi/internal/platform/auth"
)

type Handler struct {
	carts *Manager
}

func NewHandler(carts *Manager) *Handler {
	return &Handler{carts: carts}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/cart", h.GetCart)
	api.DELETE("/cart", h.ClearCart)
	api.POST("/cart/items", h.AddItem)
	api.PUT("/cart/items/:id", h.SetQuantity)
	api.DELETE("/cart/items/:id", h.RemoveItem)
	api.PUT("/cart/prescription", h.SetPrescription)
}

func (h *Handler) store(c echo.Context) (*Store, error) {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	s, err := h.carts.StoreFor(c.Request().Context(), userID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return s, nil
}

func (h *Handler) GetCart(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.View())
}

func (h *Handler) AddItem(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	var item Item
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.AddItem(c.Request().Context(), item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s.View())
}

func (h *Handler) SetQuantity(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	var body struct {
		Qty int `json:"qty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.SetQuantity(c.Request().Context(), c.Param("id"), body.Qty); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s.View())
}

func (h *Handler) RemoveItem(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	if err := s.RemoveItem(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s.View())
}

func (h *Handler) SetPrescription(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	var body struct {
		Ref string `json:"ref"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.SetPrescription(c.Request().Context(), body.Ref); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s.View())
}

func (h *Handler) ClearCart(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	if err := s.Clear(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
