package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ismaelg12/timeflow/config"
	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
)

// ── Mock Blacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── 测试辅助 ──

const testPassword = "senha-forte-123"

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func seedUser(store *mockStore, username, role string, active bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	u := &model.User{
		Username:     username,
		Name:         "Gestor " + username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	_ = store.users.Create(context.Background(), u)
	return u
}

func setupTestAuthService(blacklist TokenBlacklist) (AuthService, *mockStore, *jwt.Manager) {
	store := newMockStore()
	mgr := newTestJWTManager()
	return NewAuthService(store.repo(), mgr, blacklist, zap.NewNop()), store, mgr
}

// ── Login 测试 ──

func TestLogin_Success(t *testing.T) {
	svc, store, mgr := setupTestAuthService(nil)
	u := seedUser(store, "gestor", model.RoleAdmin, true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "gestor", Password: testPassword})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("应返回 Token 对")
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际 %d", resp.ExpiresIn)
	}
	if resp.User.ID != u.UserID || resp.User.Role != model.RoleAdmin {
		t.Errorf("用户信息错误: %+v", resp.User)
	}

	claims, err := mgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.UserID != u.UserID || claims.TokenType != jwt.TokenAccess {
		t.Errorf("Claims 错误: %+v", claims)
	}
}

func TestLogin_LinkedWorkerCarriesWorkerID(t *testing.T) {
	svc, store, mgr := setupTestAuthService(nil)
	u := seedUser(store, "ana", model.RoleWorker, true)
	w := seedWorker(store, testCPF, true)
	w.UserID = &u.UserID

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: testPassword})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}
	if resp.User.WorkerID != w.WorkerID {
		t.Errorf("期望 worker_id=%s，实际 %s", w.WorkerID, resp.User.WorkerID)
	}
	claims, _ := mgr.ParseToken(resp.AccessToken)
	if claims.WorkerID != w.WorkerID {
		t.Errorf("Token 应携带 worker_id，实际 %q", claims.WorkerID)
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, store, _ := setupTestAuthService(nil)
	seedUser(store, "gestor", model.RoleAdmin, true)
	seedUser(store, "antigo", model.RoleStaff, false)

	tests := []struct {
		name string
		req  dto.LoginRequest
		want error
	}{
		{"用户不存在", dto.LoginRequest{Username: "ninguem", Password: testPassword}, ErrInvalidCredentials},
		{"密码错误", dto.LoginRequest{Username: "gestor", Password: "errada"}, ErrInvalidCredentials},
		{"用户已停用", dto.LoginRequest{Username: "antigo", Password: testPassword}, ErrUserInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

// ── Refresh 测试 ──

func TestRefresh_RotatesRefreshToken(t *testing.T) {
	bl := newMockBlacklist()
	svc, store, _ := setupTestAuthService(bl)
	seedUser(store, "gestor", model.RoleAdmin, true)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "gestor", Password: testPassword})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("刷新应成功: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("应签发新的 RefreshToken")
	}
	if len(bl.revoked) != 1 {
		t.Errorf("旧 RefreshToken 应加入黑名单，实际 %d 条", len(bl.revoked))
	}

	// 旧 Token 不可重复使用
	_, err = svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("期望 ErrInvalidToken，实际: %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, store, _ := setupTestAuthService(nil)
	seedUser(store, "gestor", model.RoleAdmin, true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{Username: "gestor", Password: testPassword})
	_, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("AccessToken 不能用于刷新，实际: %v", err)
	}

	_, err = svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("期望 ErrInvalidToken，实际: %v", err)
	}
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	svc, store, _ := setupTestAuthService(nil)
	u := seedUser(store, "gestor", model.RoleAdmin, true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{Username: "gestor", Password: testPassword})
	u.IsActive = false

	_, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("期望 ErrUserInactive，实际: %v", err)
	}
}

// ── Logout / Me 测试 ──

func TestLogout_BlacklistsAccessToken(t *testing.T) {
	bl := newMockBlacklist()
	svc, store, mgr := setupTestAuthService(bl)
	seedUser(store, "gestor", model.RoleAdmin, true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{Username: "gestor", Password: testPassword})
	claims, err := mgr.ParseToken(login.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("登出应成功: %v", err)
	}
	ttl, ok := bl.revoked[claims.ID]
	if !ok {
		t.Fatal("AccessToken 应加入黑名单")
	}
	if ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("黑名单 TTL 应为剩余有效期，实际 %v", ttl)
	}
}

func TestLogout_WithoutBlacklist(t *testing.T) {
	svc, _, _ := setupTestAuthService(nil)
	if err := svc.Logout(context.Background(), &jwt.Claims{UserID: "x"}); err != nil {
		t.Errorf("未启用 Redis 时登出应直接成功: %v", err)
	}
}

func TestMe(t *testing.T) {
	svc, store, _ := setupTestAuthService(nil)
	u := seedUser(store, "gestor", model.RoleAdmin, true)

	resp, err := svc.Me(context.Background(), u.UserID)
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if resp.Username != "gestor" {
		t.Errorf("用户名错误: %s", resp.Username)
	}

	if _, err := svc.Me(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
