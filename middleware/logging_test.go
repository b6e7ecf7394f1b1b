package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tripplanner/logger"
	"tripplanner/middleware"
)

func TestLogger_logsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logger.New(&buf, "info", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "test-req-id")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test-req-id", rec.Header().Get(middleware.RequestIDHeader))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, "/api/health", entry["path"])
	require.EqualValues(t, http.StatusOK, entry["status"])
	require.Equal(t, "test-req-id", entry["request_id"])
	require.NotNil(t, entry["duration_ms"])
}

func TestLogger_beforeIdentity(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logger.New(&buf, "info", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Identity(testSecret))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := middleware.NewToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		auth       string
		wantStatus int
		wantUser   any
	}{
		{"valid token carries user", "Bearer " + token, http.StatusOK, "user-42"},
		{"rejected token still logged", "Bearer garbage", http.StatusUnauthorized, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", tt.auth)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			require.EqualValues(t, tt.wantStatus, entry["status"])
			require.Equal(t, tt.wantUser, entry["user_id"])
		})
	}
}

func TestRecovery_returns500(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
