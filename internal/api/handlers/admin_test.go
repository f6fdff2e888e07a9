package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmarkle/trade-analyzer/internal/api/middleware"
	"github.com/cmarkle/trade-analyzer/internal/services"
)

const testJWTSecret = "test-secret"

func adminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	refresher := services.NewRefresherService(nil, nil, nil, logger, time.Minute, 30)
	handler := NewAdminHandler(nil, refresher, logger)

	router := gin.New()
	admin := router.Group("/admin", middleware.AuthRequired(testJWTSecret))
	admin.GET("/refresher/status", handler.GetRefresherStatus)
	admin.POST("/cache/flush", handler.FlushCache)
	return router
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: "user-1",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	router := adminRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signedToken(t, "other-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/refresher/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestGetRefresherStatus(t *testing.T) {
	router := adminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/refresher/status", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	status, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, status["is_running"])
	assert.Equal(t, "1m0s", status["refresh_interval"])
	assert.Equal(t, float64(0), status["registered_leagues"])
}
