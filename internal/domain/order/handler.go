package order

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onemedi/onemedi/internal/domain/cart"
	"github.com/onemedi/onemedi/internal/platform/auth"
	"github.com/onemedi/onemedi/pkg/pagination"
)

type Handler struct {
	svc   *Service
	carts *cart.Manager
}

func NewHandler(svc *Service, carts *cart.Manager) *Handler {
	return &Handler{svc: svc, carts: carts}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.GET("/orders/quote", h.QuoteCart)
	api.POST("/orders", h.PlaceOrder)
	api.POST("/coupons/validate", h.ValidateCoupon)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.PUT("/orders/:id/status", h.UpdateStatus)
}

func (h *Handler) userStore(c echo.Context) (string, *cart.Store, error) {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	s, err := h.carts.StoreFor(c.Request().Context(), userID)
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return userID, s, nil
}

func gatingStatus(err error) int {
	if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrPrescriptionRequired) ||
		errors.Is(err, ErrCouponInvalid) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// QuoteCart prices the caller's current cart, optionally with a coupon.
func (h *Handler) QuoteCart(c echo.Context) error {
	_, store, err := h.userStore(c)
	if err != nil {
		return err
	}
	q, err := h.svc.Quote(c.Request().Context(), store.Items(), store.Prescription(),
		c.QueryParam("coupon"))
	if err != nil {
		return echo.NewHTTPError(gatingStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) PlaceOrder(c echo.Context) error {
	userID, store, err := h.userStore(c)
	if err != nil {
		return err
	}
	var body struct {
		Address       string `json:"address"`
		PaymentMethod string `json:"payment_method"`
		CouponCode    string `json:"coupon_code"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	o, err := h.svc.PlaceOrder(c.Request().Context(), userID, store.Items(),
		store.Prescription(), body.Address, body.PaymentMethod, body.CouponCode)
	if err != nil {
		return echo.NewHTTPError(gatingStatus(err), err.Error())
	}
	// The placed order owns the snapshot; the live cart resets.
	if err := store.Clear(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) GetOrder(c echo.Context) error {
	o, err := h.svc.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if o.UserID != userID && !hasRole(c, "admin") {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListOrders(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	// Admins may inspect another user's orders.
	if other := c.QueryParam("user_id"); other != "" && hasRole(c, "admin") {
		userID = other
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByUser(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ValidateCoupon(c echo.Context) error {
	_, store, err := h.userStore(c)
	if err != nil {
		return err
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}
	coupon, discount, err := h.svc.ValidateCoupon(c.Request().Context(), body.Code, store.TotalPrice())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"coupon":   coupon,
		"discount": discount,
	})
}

func hasRole(c echo.Context, role string) bool {
	for _, r := range auth.RolesFromContext(c.Request().Context()) {
		if r == role {
			return true
		}
	}
	return false
}
