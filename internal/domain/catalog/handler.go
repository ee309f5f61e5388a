package catalog

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
	api.GET("/medicines", h.ListMedicines)
	api.GET("/medicines/:id", h.GetMedicine)
	api.GET("/vendors", h.ListVendors)
	api.GET("/vendors/:id", h.GetVendor)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/medicines", h.CreateMedicine)
	admin.PATCH("/medicines/:id", h.UpdateMedicine)
	admin.PUT("/medicines/:id/stock", h.SetStock)
	admin.POST("/vendors", h.CreateVendor)
	admin.PATCH("/vendors/:id", h.UpdateVendor)
}

// boolParam parses an optional boolean query parameter, nil when absent.
func boolParam(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &v, nil
}

func (h *Handler) ListMedicines(c echo.Context) error {
	f := MedicineFilter{
		Category:   c.QueryParam("category"),
		VendorID:   c.QueryParam("vendor_id"),
		NamePrefix: c.QueryParam("search"),
	}
	var err error
	if f.PrescriptionRequired, err = boolParam(c, "prescription_required"); err != nil {
		return err
	}
	if f.InStock, err = boolParam(c, "in_stock"); err != nil {
		return err
	}

	pg := pagination.FromContext(c)
	items, err := h.svc.ListMedicines(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetMedicine(c echo.Context) error {
	m, err := h.svc.GetMedicine(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMedicine(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.UpdateMedicine(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) SetStock(c echo.Context) error {
	var body struct {
		InStock bool `json:"in_stock"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.SetStock(c.Request().Context(), c.Param("id"), body.InStock)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListVendors(c echo.Context) error {
	f := VendorFilter{City: c.QueryParam("city")}
	var err error
	if f.Active, err = boolParam(c, "active"); err != nil {
		return err
	}

	pg := pagination.FromContext(c)
	items, err := h.svc.ListVendors(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetVendor(c echo.Context) error {
	v, err := h.svc.GetVendor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "vendor not found")
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) CreateVendor(c echo.Context) error {
	var v Vendor
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateVendor(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) UpdateVendor(c echo.Context) error {
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.svc.UpdateVendor(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}
