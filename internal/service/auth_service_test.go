package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"dinehub/backend/config"
	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/model"
	"dinehub/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService(t *testing.T) (AuthService, *mockRepos) {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "unit-test-secret-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 168 * time.Hour,
		},
	}
	mocks := newMockRepos()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, mocks.repo, jwtMgr, nil, zap.NewNop())
	return svc, mocks
}

func seedUser(t *testing.T, mocks *mockRepos, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	user := &model.User{
		UserID:       "user-001",
		Name:         "张三",
		Email:        email,
		PasswordHash: string(hash),
		AccountRole:  model.AccountRoleManager,
		IsActive:     active,
	}
	mocks.users.users[user.UserID] = user
	return user
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ZhangSan@Example.com", // 邮箱不区分大小写
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("应返回 Token 对")
	}
	if result.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in 不符，实际=%d", result.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	// 未注册邮箱与密码错误返回同一错误，不泄露账号存在性
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-pass",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	result, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("刷新应返回新的 AccessToken")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-pass",
	})

	// 用 Access Token 冒充 Refresh Token
	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrNotRefreshToken) {
		t.Errorf("期望 ErrNotRefreshToken，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_DisabledUser(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	user := seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-pass",
	})

	// Token 有效期内账号被停用：拒绝刷新
	user.IsActive = false
	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ── GetCurrentUser / ChangePassword 测试 ──

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	result, err := svc.GetCurrentUser(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Email != "zhangsan@example.com" || result.AccountRole != model.AccountRoleManager {
		t.Errorf("用户信息不符: %+v", result)
	}
}

func TestAuthService_GetCurrentUser_NotFound(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.GetCurrentUser(context.Background(), "user-missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	err := svc.ChangePassword(context.Background(), "user-001", &dto.ChangePasswordRequest{
		OldPassword: "secret-pass",
		NewPassword: "brand-new-pass",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 旧密码失效，新密码生效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@example.com", Password: "secret-pass",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("旧密码应失效")
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhangsan@example.com", Password: "brand-new-pass",
	}); err != nil {
		t.Errorf("新密码应可登录: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	svc, mocks := setupTestAuthService(t)
	seedUser(t, mocks, "zhangsan@example.com", "secret-pass", true)

	err := svc.ChangePassword(context.Background(), "user-001", &dto.ChangePasswordRequest{
		OldPassword: "not-the-password",
		NewPassword: "brand-new-pass",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}
