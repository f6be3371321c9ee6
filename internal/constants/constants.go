package constants

// 订单状态常量（与前端展示顺序一致）
const (
	OrderStatusPendingPayment = 1 // 待支付
	OrderStatusPendingShip    = 2 // 待发货
	OrderStatusPendingReceive = 3 // 待收货
	OrderStatusPendingComment = 4 // 待评价
	OrderStatusCompleted      = 5 // 已完成
)

// OrderStatusName 订单状态展示名
var OrderStatusName = map[int]string{
	OrderStatusPendingPayment: "待支付",
	OrderStatusPendingShip:    "待发货",
	OrderStatusPendingReceive: "待收货",
	OrderStatusPendingComment: "待评价",
	OrderStatusCompleted:      "已完成",
}

// 支付方式常量
const (
	PayMethodCOD    = 1 // 货到付款
	PayMethodWechat = 2 // 微信支付
	PayMethodAlipay = 3 // 支付宝
	PayMethodUnion  = 4 // 银联支付
)

// PayMethodName 支付方式展示名
var PayMethodName = map[int]string{
	PayMethodCOD:    "货到付款",
	PayMethodWechat: "微信支付",
	PayMethodAlipay: "支付宝",
	PayMethodUnion:  "银联支付",
}

// IsPayMethodSupported 判断支付方式是否在受支持的枚举内
func IsPayMethodSupported(method int) bool {
	_, ok := PayMethodName[method]
	return ok
}

// 商品状态常量
const (
	GoodsStatusOffline = 0 // 下架
	GoodsStatusOnline  = 1 // 上架
)

// 商品列表排序方式常量
const (
	GoodsSortDefault = "default" // 按上架时间倒序
	GoodsSortPrice   = "price"   // 按价格升序
	GoodsSortHot     = "hot"     // 按销量倒序
)

// 浏览历史保留条数
const BrowseHistoryLimit = 5

// 异步任务名称常量
const (
	TaskActivationEmail = "user:activation_email"
	TaskCartCleanup     = "cart:cleanup"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 激活令牌用途
const ActivationTokenPurpose = "activate"
