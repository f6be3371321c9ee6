package repository

// GoodsListFilter 查询商品列表的过滤条件
type GoodsListFilter struct {
	Page     int
	PageSize int
	TypeID   uint
	Sort     string // default / price / hot
	Search   string
	OnlySale bool // 仅返回上架商品
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   int // 0 表示不过滤
}
