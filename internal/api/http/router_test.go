package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auditlog"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/observability"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/retention"
)

type testServer struct {
	app    *fiber.App
	tokens *auth.TokenManager
	repo   *repository.MemoryUserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC) }
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	repo := repository.NewMemoryUserRepository()

	svc := retention.NewService(retention.Dependencies{
		Store:    repo,
		Policy:   retention.NewPolicy(),
		Audit:    auditlog.New(100),
		Schedule: retention.ScheduleConfig{CleanupHour: 2, ReviewHour: 9, Location: time.UTC},
		Metrics:  metrics,
		Clock:    now,
	})
	tokens := auth.NewTokenManager("test-secret", 5)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("account-service", "test", map[string]handlers.Pinger{"postgres": nil}),
		Retention:      handlers.NewRetentionHandler(svc),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Gatherer:       reg,
	})
	return &testServer{app: app, tokens: tokens, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path string, role domain.Role) (*nethttp.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		_, token, err := s.tokens.GenerateToken("ops", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func TestRoutes_CleanupEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	stale := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, srv.repo.Insert(ctx, &domain.User{Email: "stale@example.com", LastActivityAt: stale}))

	resp, body := srv.do(t, nethttp.MethodPost, "/admin/retention/cleanup", domain.RoleAdmin)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	result := body["data"].(map[string]any)["result"].(map[string]any)
	assert.EqualValues(t, 1, result["anonymized"])

	resp, body = srv.do(t, nethttp.MethodGet, "/admin/retention/logs?limit=2", domain.RoleAuditor)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Len(t, data["logs"], 2)
	assert.EqualValues(t, 4, data["total"])

	resp, body = srv.do(t, nethttp.MethodGet, "/admin/retention/status", domain.RoleAdmin)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	status := body["data"].(map[string]any)
	assert.EqualValues(t, 1, status["total_deleted_users"])
	assert.EqualValues(t, 0, status["users_to_be_anonymized"])
}

func TestRoutes_Authorization(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, nethttp.MethodGet, "/admin/retention/status", "")
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])

	resp, _ = srv.do(t, nethttp.MethodPost, "/admin/retention/cleanup", domain.RoleAuditor)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	resp, _ = srv.do(t, nethttp.MethodGet, "/admin/retention/report", domain.RoleAuditor)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, nethttp.MethodGet, "/health/ready", "")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "disabled", body["dependencies"].(map[string]any)["postgres"])

	srv.do(t, nethttp.MethodPost, "/admin/retention/cleanup", domain.RoleAdmin)

	resp, err := srv.app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `account_retention_cleanup_runs_total{outcome="completed",trigger="manual"} 1`)
}

func TestRoutes_ReviewScheduleAndReport(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/admin/retention/next-review", "/admin/retention/review-dates"} {
		resp, body := srv.do(t, nethttp.MethodGet, path, domain.RoleAuditor)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, path)
		quarterly := body["data"].(map[string]any)["quarterly"].(map[string]any)
		assert.Equal(t, "2027-01-01", quarterly["next_review"], path)
	}

	srv.do(t, nethttp.MethodPost, "/admin/retention/cleanup", domain.RoleAdmin)

	resp, body := srv.do(t, nethttp.MethodGet, "/admin/retention/report", domain.RoleAdmin)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 4, data["total_cleanup_runs"])
	assert.Len(t, data["recent_cleanups"], 4)
}

func TestRoutes_UnknownRouteIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, nethttp.MethodGet, "/admin/retention/nope", domain.RoleAdmin)

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
	assert.Equal(t, "route not found", errBody["message"])
}
