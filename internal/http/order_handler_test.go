package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Koalla18/TakeSmart/internal/order"
)

func (f *fixture) adminDo(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, method, path, body, map[string]string{
		"Authorization": "Bearer " + f.adminToken(t),
	})
}

func TestListOrders_EmptyIsJSONArray(t *testing.T) {
	f := newFixture(t)
	f.orders.listFn = func(context.Context) ([]order.Order, error) { return nil, nil }

	rec := f.adminDo(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	f.orders.getFn = func(_ context.Context, orderID string) (*order.Order, error) {
		if orderID != "ord-1" {
			return nil, order.ErrNotFound
		}
		return &order.Order{ID: "ord-1", Name: "Ivan", TotalAmount: 1000}, nil
	}

	rec := f.adminDo(t, http.MethodGet, "/api/orders/ord-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	o := decode[order.Order](t, rec)
	assert.Equal(t, "Ivan", o.Name)

	rec = f.adminDo(t, http.MethodGet, "/api/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	f.orders.updateStatusFn = func(_ context.Context, orderID string, next order.Status) (*order.Order, error) {
		return &order.Order{ID: orderID, Status: next}, nil
	}

	rec := f.adminDo(t, http.MethodPatch, "/api/orders/ord-1/status",
		map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, rec.Code)

	o := decode[order.Order](t, rec)
	assert.Equal(t, order.StatusProcessing, o.Status)
}

func TestUpdateOrderStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)
	called := false
	f.orders.updateStatusFn = func(context.Context, string, order.Status) (*order.Order, error) {
		called = true
		return nil, nil
	}

	rec := f.adminDo(t, http.MethodPatch, "/api/orders/ord-1/status",
		map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestUpdateOrderStatus_BadTransition(t *testing.T) {
	f := newFixture(t)
	f.orders.updateStatusFn = func(_ context.Context, _ string, next order.Status) (*order.Order, error) {
		return nil, fmt.Errorf("%w: completed -> %s", order.ErrBadTransition, next)
	}

	rec := f.adminDo(t, http.MethodPatch, "/api/orders/ord-1/status",
		map[string]string{"status": "processing"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	f.orders.deleteFn = func(_ context.Context, orderID string) error {
		if orderID != "ord-1" {
			return order.ErrNotFound
		}
		return nil
	}

	rec := f.adminDo(t, http.MethodDelete, "/api/orders/ord-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.adminDo(t, http.MethodDelete, "/api/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
