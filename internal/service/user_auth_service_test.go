package service

import (
	"errors"
	"testing"

	"github.com/dailyfresh-next/internal/config"
	"github.com/dailyfresh-next/internal/repository"

	"gorm.io/gorm"
)

func newUserAuthServiceForTest(t *testing.T, name string) (*UserAuthService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, name)

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret-key-0123456789abcdef"
	cfg.UserJWT.ExpireHours = 24
	cfg.UserJWT.ActivationExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireLetter: true,
		RequireNumber: true,
	}

	emailService := NewEmailService(&cfg.Email, &cfg.Site)
	return NewUserAuthService(cfg, repository.NewUserRepository(db), emailService, nil), db
}

func TestRegisterCreatesInactiveUser(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(t, "auth_register")

	user, err := svc.Register("zhangsan", "ZhangSan@Example.com", "passw0rd1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.IsActive {
		t.Fatalf("new user should be inactive before email activation")
	}
	if user.Email != "zhangsan@example.com" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if user.PasswordHash == "passw0rd1" || user.PasswordHash == "" {
		t.Fatalf("password should be stored hashed")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(t, "auth_register_dup")

	if _, err := svc.Register("zhangsan", "zhangsan@example.com", "passw0rd1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register("zhangsan", "other@example.com", "passw0rd1"); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected username exists, got: %v", err)
	}
	if _, err := svc.Register("lisi", "zhangsan@example.com", "passw0rd1"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got: %v", err)
	}
}

func TestRegisterValidations(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(t, "auth_register_validate")

	if _, err := svc.Register("", "a@example.com", "passw0rd1"); !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("expected incomplete input for empty username, got: %v", err)
	}
	if _, err := svc.Register("zhangsan", "not-an-email", "passw0rd1"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got: %v", err)
	}
	if _, err := svc.Register("zhangsan", "a@example.com", "short1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password for short password, got: %v", err)
	}
	if _, err := svc.Register("zhangsan", "a@example.com", "12345678901"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password for digits only, got: %v", err)
	}
	if _, err := svc.Register("zhangsan", "a@example.com", "abcdefghijk"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password for letters only, got: %v", err)
	}
}

func TestActivateTokenRoundTrip(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(t, "auth_activate")

	user, err := svc.Register("zhangsan", "zhangsan@example.com", "passw0rd1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := svc.GenerateActivationToken(user)
	if err != nil {
		t.Fatalf("generate activation token failed: %v", err)
	}

	activated, err := svc.Activate(token)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if !activated.IsActive || activated.ActivatedAt == nil {
		t.Fatalf("user should be active after activation")
	}

	// 重复激活幂等
	again, err := svc.Activate(token)
	if err != nil {
		t.Fatalf("repeated activation failed: %v", err)
	}
	if !again.IsActive {
		t.Fatalf("repeated activation should keep user active")
	}
}

func TestActivateRejectsInvalidToken(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(t, "auth_activate_invalid")

	if _, err := svc.Activate("not-a-token"); !errors.Is(err, ErrActivationInvalid) {
		t.Fatalf("expected activation invalid for garbage token, got: %v", err)
	}

	// 登录 token 不能当激活 token 用
	user, err := svc.Register("zhangsan", "zhangsan@example.com", "passw0rd1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	loginToken, _, err := svc.GenerateUserJWT(user)
	if err != nil {
		t.Fatalf("generate user jwt failed: %v", err)
	}
	if _, err := svc.Activate(loginToken); !errors.Is(err, ErrActivationInvalid) {
		t.Fatalf("expected activation invalid for login token, got: %v", err)
	}
}

func TestLoginFlow(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(t, "auth_login")

	user, err := svc.Register("zhangsan", "zhangsan@example.com", "passw0rd1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// 未激活拒绝登录
	if _, _, _, err := svc.Login("zhangsan", "passw0rd1"); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected user inactive, got: %v", err)
	}

	token, err := svc.GenerateActivationToken(user)
	if err != nil {
		t.Fatalf("generate activation token failed: %v", err)
	}
	if _, err := svc.Activate(token); err != nil {
		t.Fatalf("activate failed: %v", err)
	}

	if _, _, _, err := svc.Login("zhangsan", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "passw0rd1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got: %v", err)
	}

	loggedIn, jwtToken, expiresAt, err := svc.Login("zhangsan", "passw0rd1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if jwtToken == "" || expiresAt.IsZero() {
		t.Fatalf("login should return token and expiry")
	}
	if loggedIn.LastLoginAt == nil {
		t.Fatalf("login should record last login time")
	}

	claims, err := svc.ParseUserJWT(jwtToken)
	if err != nil {
		t.Fatalf("parse user jwt failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "zhangsan" {
		t.Fatalf("unexpected jwt claims: %+v", claims)
	}
}
