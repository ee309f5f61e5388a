package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/onemedi/onemedi/internal/domain/cart"
	"github.com/onemedi/onemedi/internal/platform/auth"
	"github.com/onemedi/onemedi/internal/platform/clientstate"
)

func newTestHandler() (*Handler, *cart.Manager, *echo.Echo) {
	svc, _ := newTestService()
	carts := cart.NewManager(clientstate.NewMemoryStorage())
	return NewHandler(svc, carts), carts, echo.New()
}

func authedContext(e *echo.Echo, method, target, body string, roles ...string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, "u1")
	if len(roles) > 0 {
		ctx = context.WithValue(ctx, auth.UserRolesKey, roles)
	}
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func seedCart(t *testing.T, carts *cart.Manager) {
	t.Helper()
	s, err := carts.StoreFor(context.Background(), "u1")
	if err != nil {
		t.Fatalf("StoreFor: %v", err)
	}
	add := func(it cart.Item) {
		if err := s.AddItem(context.Background(), it); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	add(cart.Item{ID: "a", Name: "Item A", Price: 100, MRP: 120})
	add(cart.Item{ID: "a", Name: "Item A", Price: 100, MRP: 120})
	add(cart.Item{ID: "b", Name: "Item B", Price: 50, MRP: 50})
}

func TestHandler_QuoteCart(t *testing.T) {
	h, carts, e := newTestHandler()
	seedCart(t, carts)

	c, rec := authedContext(e, http.MethodGet, "/orders/quote?coupon=SAVE10", "")
	if err := h.QuoteCart(c); err != nil {
		t.Fatalf("QuoteCart: %v", err)
	}
	var q Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Subtotal != 250 || q.Discount != 20 || q.DeliveryFee != 40 || q.Total != 270 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestHandler_PlaceOrderClearsCart(t *testing.T) {
	h, carts, e := newTestHandler()
	seedCart(t, carts)

	c, rec := authedContext(e, http.MethodPost, "/orders",
		`{"address":"12 Main St","payment_method":"cod"}`)
	if err := h.PlaceOrder(c); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var o Order
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.TotalAmount != 290 {
		t.Fatalf("expected total 290, got %v", o.TotalAmount)
	}

	s, _ := carts.StoreFor(context.Background(), "u1")
	if len(s.Items()) != 0 {
		t.Fatalf("expected cart cleared after placement, got %v", s.Items())
	}
}

func TestHandler_PlaceOrderEmptyCart(t *testing.T) {
	h, _, e := newTestHandler()

	c, _ := authedContext(e, http.MethodPost, "/orders",
		`{"address":"12 Main St","payment_method":"cod"}`)
	err := h.PlaceOrder(c)
	if err == nil {
		t.Fatal("expected gating error for empty cart")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestHandler_GetOrderOwnership(t *testing.T) {
	h, carts, e := newTestHandler()
	seedCart(t, carts)

	c, rec := authedContext(e, http.MethodPost, "/orders",
		`{"address":"addr","payment_method":"cod"}`)
	if err := h.PlaceOrder(c); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	var o Order
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode: %v", err)
	}

	c, rec = authedContext(e, http.MethodGet, "/orders/"+o.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(o.ID)
	if err := h.GetOrder(c); err != nil {
		t.Fatalf("GetOrder as owner: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Another user without the admin role is rejected.
	req := httptest.NewRequest(http.MethodGet, "/orders/"+o.ID, nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "intruder"))
	c = e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(o.ID)
	err := h.GetOrder(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for other user, got %v", err)
	}
}

func TestHandler_ListOrders(t *testing.T) {
	h, carts, e := newTestHandler()
	seedCart(t, carts)

	c, _ := authedContext(e, http.MethodPost, "/orders",
		`{"address":"addr","payment_method":"cod"}`)
	if err := h.PlaceOrder(c); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	c, rec := authedContext(e, http.MethodGet, "/orders", "")
	if err := h.ListOrders(c); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	var resp struct {
		Data  []Order `json:"data"`
		Total int     `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected one order, got %+v", resp)
	}
}

func TestHandler_ValidateCoupon(t *testing.T) {
	h, carts, e := newTestHandler()
	seedCart(t, carts)

	c, rec := authedContext(e, http.MethodPost, "/coupons/validate", `{"code":"SAVE10"}`)
	if err := h.ValidateCoupon(c); err != nil {
		t.Fatalf("ValidateCoupon: %v", err)
	}
	var resp struct {
		Discount float64 `json:"discount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Discount != 20 {
		t.Fatalf("expected discount 20, got %v", resp.Discount)
	}

	c, _ = authedContext(e, http.MethodPost, "/coupons/validate", `{"code":"DEAD"}`)
	if err := h.ValidateCoupon(c); err == nil {
		t.Fatal("expected error for inactive coupon")
	}
}
