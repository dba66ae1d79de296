package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/config"
	"github.com/Ismaelg12/timeflow/internal/api/handler"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
)

func setupTestRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Attendance: config.AttendanceConfig{ClockInRateLimit: 30, UTCOffsetHours: -3},
	}
	logger := zap.NewNop()
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 只验证路由与中间件，请求不会落到数据库
	svc := service.NewService(cfg, repository.NewRepository(nil), jwtMgr, nil, clock.NewZoned(-3), logger)
	return Setup(cfg, handler.NewHandler(svc, logger), jwtMgr, nil, logger), jwtMgr
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("应生成 X-Request-ID")
	}
	if w.Header().Get("Content-Language") != "pt-BR" {
		t.Errorf("默认语言应为 pt-BR，实际 %q", w.Header().Get("Content-Language"))
	}
}

func TestProtectedRoutes(t *testing.T) {
	r, jwtMgr := setupTestRouter(t)
	workerToken, _ := jwtMgr.GenerateAccessToken("user-1", model.RoleWorker, "w-1")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"未认证访问看板", "GET", "/api/v1/dashboard", "", http.StatusUnauthorized},
		{"未认证访问员工列表", "GET", "/api/v1/workers", "", http.StatusUnauthorized},
		{"员工角色访问看板", "GET", "/api/v1/dashboard", workerToken, http.StatusForbidden},
		{"员工角色管理用户", "GET", "/api/v1/users", workerToken, http.StatusForbidden},
		{"员工角色补录", "POST", "/api/v1/manual-adjustments/exits", workerToken, http.StatusForbidden},
		{"员工查看他人报表", "GET", "/api/v1/reports/workers/w-2", workerToken, http.StatusForbidden},
		{"员工导出他人报表", "GET", "/api/v1/exports/workers/w-2", workerToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("期望 %d，实际 %d", tt.status, w.Code)
			}
		})
	}
}
