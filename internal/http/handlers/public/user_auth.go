package public

import (
	"strings"

	"github.com/dailyfresh-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册，注册后发送激活邮件
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeIncompleteInput, "数据不完整", err)
		return
	}

	user, err := h.UserAuthService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.SuccessWithMsg(c, "注册成功，请查收激活邮件", gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Activate 邮箱激活
func (h *Handler) Activate(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		respondError(c, response.CodeIncompleteInput, "缺少激活凭证", nil)
		return
	}

	user, err := h.UserAuthService.Activate(token)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.SuccessWithMsg(c, "激活成功", gin.H{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeIncompleteInput, "数据不完整", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Username, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Me 当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetByID(uid)
	if err != nil {
		respondError(c, response.CodeNotFound, "用户不存在", err)
		return
	}

	response.Success(c, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"is_active":     user.IsActive,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	})
}
