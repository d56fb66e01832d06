package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/internal/common/httpx"
	"cantina/internal/common/logger"
	"cantina/internal/domain"
	"cantina/internal/microservices/order/domain/dto"
)

func newRouter(svc *MockOrderService, limit func(http.Handler) http.Handler) http.Handler {
	h := NewOrderHandler(svc, logger.NewWithWriter("test", io.Discard), limit)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r)
		r.Route("/admin", func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(httpx.WithAdmin(r.Context(), "gerente@campus.br")))
				})
			})
			h.RegisterAdminRoutes(r)
		})
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func TestCheckout(t *testing.T) {
	product := uuid.New()
	var got dto.CheckoutRequest
	svc := &MockOrderService{
		CheckoutFunc: func(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
			got = req
			return dto.CheckoutResponse{
				Order:   dto.OrderResponse{ID: uuid.New(), Code: "001", TotalAmount: "15.90", Status: "pending"},
				Payment: &dto.Charge{PaymentID: uuid.New(), PixPayload: "00020126", Amount: "15.90"},
			}, nil
		},
	}
	r := newRouter(svc, nil)

	body := fmt.Sprintf(`{"customer_name":"Maria","items":[{"product_id":%q,"quantity":2}]}`, product)
	rec := do(t, r, http.MethodPost, "/api/checkout", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, dto.PaymentPix, got.PaymentMethod, "pix is the default")
	require.Len(t, got.Items, 1)
	assert.Equal(t, product, got.Items[0].ProductID)

	var res map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "15.90", res["order"]["total_amount"])
	assert.Equal(t, "00020126", res["payment"]["pix_payload"])
}

func TestCheckoutRejectsBadBodies(t *testing.T) {
	product := uuid.New().String()
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"customer_name":`},
		{name: "noItems", body: `{"customer_name":"Maria","items":[]}`},
		{name: "noName", body: fmt.Sprintf(`{"items":[{"product_id":%q,"quantity":1}]}`, product)},
		{name: "badProductID", body: `{"customer_name":"Maria","items":[{"product_id":"x","quantity":1}]}`},
		{name: "badMethod", body: fmt.Sprintf(`{"customer_name":"Maria","payment_method":"card","items":[{"product_id":%q,"quantity":1}]}`, product)},
		{name: "hugeQuantity", body: fmt.Sprintf(`{"customer_name":"Maria","items":[{"product_id":%q,"quantity":1000}]}`, product)},
	}
	called := false
	svc := &MockOrderService{
		CheckoutFunc: func(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
			called = true
			return dto.CheckoutResponse{}, nil
		},
	}
	r := newRouter(svc, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/checkout", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.False(t, called)
}

func TestCheckoutServiceErrors(t *testing.T) {
	product := uuid.New().String()
	body := fmt.Sprintf(`{"customer_name":"Maria","items":[{"product_id":%q,"quantity":1}]}`, product)
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "validation", err: domain.Validationf("delivery address is required for delivery"), code: http.StatusBadRequest},
		{name: "unavailable", err: fmt.Errorf("%w: Pastel is not available", domain.ErrUnavailable), code: http.StatusUnprocessableEntity},
		{name: "internal", err: fmt.Errorf("failed to save order: boom"), code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockOrderService{
				CheckoutFunc: func(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
					return dto.CheckoutResponse{}, tt.err
				},
			}
			rec := do(t, newRouter(svc, nil), http.MethodPost, "/api/checkout", body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestOrderCreationIsRateLimited(t *testing.T) {
	rl := httpx.NewRateLimiter(0.001, 1)
	r := newRouter(&MockOrderService{}, rl.Middleware)
	body := fmt.Sprintf(`{"customer_name":"Maria","items":[{"product_id":%q,"quantity":1}]}`, uuid.New())

	assert.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/orders", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, r, http.MethodPost, "/api/checkout", body).Code)
	// reads are not limited
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/orders/"+uuid.New().String(), "").Code)
}

func TestQuote(t *testing.T) {
	svc := &MockOrderService{
		QuoteFunc: func(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error) {
			assert.True(t, req.Delivery)
			return dto.QuoteResponse{Subtotal: "13.00", DeliveryFee: "2.00", Total: "15.00"}, nil
		},
	}
	body := fmt.Sprintf(`{"delivery":true,"items":[{"product_id":%q,"quantity":2}]}`, uuid.New())
	rec := do(t, newRouter(svc, nil), http.MethodPost, "/api/cart/quote", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":"15.00"`)
}

func TestGetOrderAndTimeline(t *testing.T) {
	known := uuid.New()
	svc := &MockOrderService{
		GetFunc: func(ctx context.Context, id uuid.UUID) (dto.OrderResponse, error) {
			if id != known {
				return dto.OrderResponse{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
			}
			return dto.OrderResponse{ID: id, Code: "012"}, nil
		},
		TimelineFunc: func(ctx context.Context, id uuid.UUID) ([]dto.TimelineEntry, error) {
			return []dto.TimelineEntry{{Status: "pending", ChangedBy: "storefront"}}, nil
		},
	}
	r := newRouter(svc, nil)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/orders/"+known.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/orders/"+uuid.New().String(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/orders/12", "").Code)

	rec := do(t, r, http.MethodGet, "/api/orders/"+known.String()+"/timeline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront")
}

func TestAdminListOrders(t *testing.T) {
	var got dto.ListFilter
	svc := &MockOrderService{
		ListFunc: func(ctx context.Context, f dto.ListFilter) ([]dto.OrderResponse, error) {
			got = f
			return []dto.OrderResponse{}, nil
		},
	}
	rec := do(t, newRouter(svc, nil), http.MethodGet, "/api/admin/orders?status=confirmed&limit=20&offset=40", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.ListFilter{Status: "confirmed", Limit: 20, Offset: 40}, got)
}

func TestAdminUpdateStatus(t *testing.T) {
	id := uuid.New()
	var by string
	svc := &MockOrderService{
		UpdateStatusFunc: func(ctx context.Context, oid uuid.UUID, req dto.StatusRequest, changedBy string) (dto.OrderResponse, error) {
			by = changedBy
			if req.Status == "done" {
				return dto.OrderResponse{}, fmt.Errorf("%w: pending -> done", domain.ErrInvalidTransition)
			}
			return dto.OrderResponse{ID: oid, Status: req.Status}, nil
		},
	}
	r := newRouter(svc, nil)
	path := "/api/admin/orders/" + id.String() + "/status"

	rec := do(t, r, http.MethodPatch, path, `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gerente@campus.br", by)

	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPatch, path, `{"status":"done"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPatch, path, `{"status":"eaten"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPatch, path, `{}`).Code)
}

func TestAdminStats(t *testing.T) {
	svc := &MockOrderService{
		StatsFunc: func(ctx context.Context) (dto.StatsResponse, error) {
			return dto.StatsResponse{Day: "2026-10-16", OrdersToday: 4, RevenueToday: "80.00", ByStatus: map[string]int{"done": 4}}, nil
		},
	}
	rec := do(t, newRouter(svc, nil), http.MethodGet, "/api/admin/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"day":"2026-10-16","orders_today":4,"revenue_today":"80.00","by_status":{"done":4}}`, rec.Body.String())
}
