package public

import (
	"errors"

	"github.com/dailyfresh-next/internal/http/response"
	"github.com/dailyfresh-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrIncompleteInput, code: response.CodeIncompleteInput, msg: "数据不完整"},
	{target: service.ErrGoodsNotFound, code: response.CodeGoodsNotFound, msg: "商品不存在"},
	{target: service.ErrInvalidQuantity, code: response.CodeInvalidQuantity, msg: "商品数目出错"},
	{target: service.ErrStockInsufficient, code: response.CodeStockInsufficient, msg: "商品库存不足"},
}

var orderCommitErrorRules = []mappedHandlerError{
	{target: service.ErrIncompleteInput, code: response.CodeIncompleteInput, msg: "参数不完整"},
	{target: service.ErrGoodsNotFound, code: response.CodeGoodsNotFound, msg: "商品不存在"},
	{target: service.ErrStockInsufficient, code: response.CodeStockInsufficient, msg: "商品库存不足"},
	{target: service.ErrPayMethodInvalid, code: response.CodePayMethodInvalid, msg: "非法的支付方式"},
	{target: service.ErrAddressNotFound, code: response.CodeAddressNotFound, msg: "地址非法"},
	{target: service.ErrOrderCommitFailed, code: response.CodeCommitFailed, msg: "下单失败"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrIncompleteInput, code: response.CodeIncompleteInput, msg: "数据不完整"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "密码强度不足"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "邮箱格式不正确"},
	{target: service.ErrUsernameExists, code: response.CodeBadRequest, msg: "用户名已存在"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "邮箱已被注册"},
	{target: service.ErrInvalidCredentials, code: response.CodeBadRequest, msg: "用户名或密码错误"},
	{target: service.ErrUserInactive, code: response.CodeForbidden, msg: "账号未激活，请先完成邮箱激活"},
	{target: service.ErrActivationInvalid, code: response.CodeBadRequest, msg: "激活链接无效或已过期"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "购物车操作失败")
}

func respondOrderCommitError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCommitErrorRules, response.CodeCommitFailed, "下单失败")
}

func respondAuthError(c *gin.Context, err error) {
	respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "操作失败")
}
