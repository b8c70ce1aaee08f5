package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fusion-Mind-co/worklog-system/config"
	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
	"github.com/Fusion-Mind-co/worklog-system/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, *jwt.Manager) {
	t.Helper()
	userRepo := newMockUserRepo()
	// 测试用密码: password123（MinCost 加速）
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	for _, u := range userRepo.users {
		u.PasswordHash = string(hash)
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := &repository.Repository{User: userRepo}
	// rdb 为 nil：黑名单功能降级
	return NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop()), jwtMgr
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeID: "1001", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("应返回 access/refresh token 对")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望 expires_in=900，实际=%d", resp.ExpiresIn)
	}
	if resp.User.EmployeeID != "1001" || resp.User.Name != "田中太郎" {
		t.Errorf("用户信息不正确: %+v", resp.User)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("access token 应可解析: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != 1 {
		t.Errorf("claims 不正确: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeID: "1001", Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	// 用户不存在与密码错误返回同一错误，避免泄露账号存在性
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeID: "9999", Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeID: "1001", Password: "password123", RememberMe: true,
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	claims, err := jwtMgr.ParseToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("新 refresh token 应可解析: %v", err)
	}
	// remember_me 跨轮换保持
	if !claims.RememberMe {
		t.Error("轮换后的 refresh token 应保持 remember_me")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeID: "1001", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// access token 不可用于刷新
	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际: %v", err)
	}
}

func TestAuthService_Refresh_MalformedToken(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: "not-a-jwt",
	})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际: %v", err)
	}
}

func TestAuthService_Logout_NoRedis(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t)

	token, err := jwtMgr.GenerateAccessToken(1, "1001", 1, "")
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	// Redis 未配置时登出为空操作，不报错
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("Logout 应为空操作: %v", err)
	}
}
