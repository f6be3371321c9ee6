package response

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeInternal        = 500

	// 业务错误码
	CodeIncompleteInput   = 1001
	CodeGoodsNotFound     = 1002
	CodeInvalidQuantity   = 1003
	CodeStockInsufficient = 1004
	CodePayMethodInvalid  = 1005
	CodeAddressNotFound   = 1006
	CodeCommitFailed      = 1007
)
