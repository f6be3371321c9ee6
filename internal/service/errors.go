package service

import "errors"

// 业务错误定义，handler 层负责映射为响应码
var (
	// 购物车与下单
	ErrIncompleteInput   = errors.New("incomplete input")
	ErrGoodsNotFound     = errors.New("goods not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrStockInsufficient = errors.New("stock insufficient")
	ErrPayMethodInvalid  = errors.New("pay method invalid")
	ErrAddressNotFound   = errors.New("address not found")
	ErrOrderCommitFailed = errors.New("order commit failed")
	ErrOrderNotFound     = errors.New("order not found")
	ErrCartEmpty         = errors.New("cart empty")

	// 用户与认证
	ErrUsernameExists     = errors.New("username exists")
	ErrEmailExists        = errors.New("email exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrActivationInvalid  = errors.New("activation token invalid")
	ErrWeakPassword       = errors.New("weak password")

	// 商品目录
	ErrTypeNotFound = errors.New("goods type not found")

	// 邮件
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)
