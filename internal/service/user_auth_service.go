package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/dailyfresh-next/internal/cache"
	"github.com/dailyfresh-next/internal/config"
	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/logger"
	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/queue"
	"github.com/dailyfresh-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务：注册、邮箱激活、登录
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	emailService *EmailService
	queueClient  *queue.Client
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, emailService *EmailService, queueClient *queue.Client) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		emailService: emailService,
		queueClient:  queueClient,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// ActivationClaims 邮箱激活 token 声明
type ActivationClaims struct {
	UserID  uint   `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.UserJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// GenerateActivationToken 生成邮箱激活 token
func (s *UserAuthService) GenerateActivationToken(user *models.User) (string, error) {
	expireHours := s.cfg.UserJWT.ActivationExpireHours
	if expireHours <= 0 {
		expireHours = 1
	}
	claims := ActivationClaims{
		UserID:  user.ID,
		Purpose: constants.ActivationTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
}

// Register 注册新用户。账号创建后默认未激活，激活链接通过邮件下发。
func (s *UserAuthService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if username == "" || password == "" {
		return nil, ErrIncompleteInput
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, err
	}

	if exist, err := s.userRepo.GetByUsername(username); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrUsernameExists
	}
	if exist, err := s.userRepo.GetByEmail(normalized); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		IsActive:     false,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := s.GenerateActivationToken(user)
	if err != nil {
		return nil, err
	}
	s.deliverActivationEmail(user, token)

	return user, nil
}

// Activate 校验激活 token 并激活账号
func (s *UserAuthService) Activate(tokenString string) (*models.User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &ActivationClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrActivationInvalid
	}
	if claims.Purpose != constants.ActivationTokenPurpose || claims.UserID == 0 {
		return nil, ErrActivationInvalid
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrActivationInvalid
	}
	if user.IsActive {
		return user, nil
	}

	now := time.Now()
	user.IsActive = true
	user.ActivatedAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

// Login 用户名密码登录。未激活账号拒绝登录。
func (s *UserAuthService) Login(username, password string) (*models.User, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", time.Time{}, ErrIncompleteInput
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", time.Time{}, ErrUserInactive
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// GetByID 获取用户信息
func (s *UserAuthService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// deliverActivationEmail 激活邮件优先走队列，队列未启用时同步发送。
func (s *UserAuthService) deliverActivationEmail(user *models.User, token string) {
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueActivationEmail(user.ID, user.Email, user.Username, token); err != nil {
			logger.Errorw("激活邮件任务入队失败", "user_id", user.ID, "error", err)
		}
		return
	}
	if err := s.emailService.SendActivationEmail(user.Email, user.Username, token); err != nil {
		logger.Warnw("激活邮件发送失败", "user_id", user.ID, "email", user.Email, "error", err)
	}
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	if trimmed == "" {
		return "", ErrIncompleteInput
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}
