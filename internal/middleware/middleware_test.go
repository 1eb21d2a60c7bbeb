package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*domain.Caller, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Caller), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth := new(mockAuthenticator)
	admin := &domain.Caller{AccountID: "admin-1", Role: domain.RoleAdmin}
	user := &domain.Caller{AccountID: "user-1", Role: domain.RoleUser}
	auth.On("Authenticate", mock.Anything, "admin").Return(admin, nil)
	auth.On("Authenticate", mock.Anything, "user").Return(user, nil)
	auth.On("Authenticate", mock.Anything, "down").Return(nil, apperrors.NewStorageError("failed", errors.New("db down")))
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, apperrors.ErrUnauthorized)

	r := gin.New()
	r.GET("/admin", middleware.AuthMiddleware(auth), middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		caller, ok := middleware.GetCallerFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, caller.AccountID)
	})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token admin", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer user", http.StatusForbidden},
		{"Bearer down", http.StatusServiceUnavailable},
		{"bearer admin", http.StatusOK},
	}
	for _, tc := range cases {
		w := serve(r, http.MethodGet, "/admin", tc.header)
		assert.Equal(t, tc.status, w.Code, tc.header)
		if tc.status == http.StatusServiceUnavailable {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
		if tc.status == http.StatusOK {
			assert.Equal(t, "admin-1", w.Body.String())
		}
	}
}

func TestRequireRole_WithoutCaller(t *testing.T) {
	r := gin.New()
	r.GET("/x", middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/x", "").Code)
}

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestTimeout(50 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		<-c.Request.Context().Done()
		c.Status(http.StatusGatewayTimeout)
	})

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, http.MethodGet, "/slow", "").Code)
}

func TestStructuredLoggingMiddleware_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(middleware.GetLoggerFromCtx(context.Background())))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, middleware.GetLoggerFromContext(c))
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPosthogMiddleware_TracksAuthenticatedSuccess(t *testing.T) {
	auth := new(mockAuthenticator)
	auth.On("Authenticate", mock.Anything, "user").Return(&domain.Caller{AccountID: "user-1", Role: domain.RoleUser}, nil)
	publisher := new(mockPublisher)
	publisher.On("Enqueue", "user-1", "api_v1_transactions_:transactionID", mock.MatchedBy(func(props map[string]any) bool {
		params, ok := props["params"].(map[string]string)
		return ok && params["transactionID"] == "9" && props["method"] == http.MethodGet
	})).Once()

	r := gin.New()
	r.Use(middleware.PosthogMiddleware(publisher))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(auth))
	v1.GET("/transactions/:transactionID", func(c *gin.Context) { c.Status(http.StatusOK) })
	v1.GET("/fails", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/health", "")
	serve(r, http.MethodGet, "/api/v1/fails", "Bearer user")
	serve(r, http.MethodGet, "/api/v1/transactions/9", "Bearer user")

	publisher.AssertExpectations(t)
}

func TestRateLimit_RejectsAfterLimit(t *testing.T) {
	limiter, err := middleware.NewMemoryLimiter("2-M")
	require.NoError(t, err)
	r := gin.New()
	r.POST("/login", middleware.RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)
	w := serve(r, http.MethodPost, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	_, err = middleware.NewMemoryLimiter("lots")
	assert.Error(t, err)
}

func TestMetricsMiddleware_LabelsByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(middleware.MetricsMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	serve(r, http.MethodGet, "/items/42", "")
	serve(r, http.MethodGet, "/nowhere", "")

	body := serve(r, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `brokerdesk_http_requests_total{endpoint="/items/:id",method="GET",status="200"}`)
	assert.Contains(t, body, `brokerdesk_http_requests_total{endpoint="unmatched",method="GET",status="404"}`)
	assert.NotContains(t, body, `endpoint="/items/42"`)
}
