package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Koalla18/TakeSmart/internal/auth"
)

func TestCorrelationID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderCorrelationID))
}

func TestCorrelationID_PropagatesIncoming(t *testing.T) {
	var seen string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "cid-from-gateway")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "cid-from-gateway", seen)
	assert.Equal(t, "cid-from-gateway", rec.Header().Get(HeaderCorrelationID))
}

func TestGetCorrelationID_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetCorrelationID(req.Context()))
}

func newAuthPair(t *testing.T) (*auth.Manager, string) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	manager := auth.NewManager("test-key", time.Hour, "admin", hash)
	token, err := manager.Login("admin", "s3cret")
	require.NoError(t, err)
	return manager, token
}

func TestRequireAdmin(t *testing.T) {
	manager, token := newAuthPair(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := RequireAdmin(manager)(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusTeapot},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireAdmin_RejectsForeignToken(t *testing.T) {
	manager, _ := newAuthPair(t)

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	other := auth.NewManager("different-key", time.Hour, "admin", hash)
	foreign, err := other.Login("admin", "s3cret")
	require.NoError(t, err)

	h := RequireAdmin(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
