package service

import (
	"context"
	"sort"

	"github.com/dailyfresh-next/internal/cache"
	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/logger"
	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/repository"
)

// CartService 购物车服务。
// 购物车数据保存在 Redis hash 中，field 为 SKU ID，value 为数量。
type CartService struct {
	store   cache.CartStore
	skuRepo repository.GoodsSKURepository
}

// NewCartService 创建购物车服务
func NewCartService(store cache.CartStore, skuRepo repository.GoodsSKURepository) *CartService {
	return &CartService{store: store, skuRepo: skuRepo}
}

// CartLine 购物车条目
type CartLine struct {
	SKUID    uint         `json:"sku_id"`
	Name     string       `json:"name"`
	Image    string       `json:"image"`
	Unit     string       `json:"unit"`
	Price    models.Money `json:"price"`
	Count    int          `json:"count"`
	Subtotal models.Money `json:"subtotal"`
	Stock    int          `json:"stock"`
}

// CartView 购物车页数据
type CartView struct {
	Lines      []CartLine   `json:"lines"`
	TotalCount int          `json:"total_count"`
	TotalPrice models.Money `json:"total_price"`
}

// Add 加入购物车：与已有数量合并，返回购物车条目数（去重后的商品种类数）。
func (s *CartService) Add(ctx context.Context, userID, skuID uint, count int) (int64, error) {
	if userID == 0 || skuID == 0 {
		return 0, ErrIncompleteInput
	}
	if count <= 0 {
		return 0, ErrInvalidQuantity
	}

	sku, err := s.skuRepo.GetByID(skuID)
	if err != nil {
		return 0, err
	}
	if sku == nil || sku.Status != constants.GoodsStatusOnline {
		return 0, ErrGoodsNotFound
	}

	existing, _, err := s.store.Get(ctx, userID, skuID)
	if err != nil {
		return 0, err
	}
	merged := existing + count
	if merged > sku.Stock {
		return 0, ErrStockInsufficient
	}

	if err := s.store.Set(ctx, userID, skuID, merged); err != nil {
		return 0, err
	}
	return s.store.Count(ctx, userID)
}

// Update 覆盖购物车中某条目的数量，返回购物车商品总件数（各条目数量之和）。
func (s *CartService) Update(ctx context.Context, userID, skuID uint, count int) (int, error) {
	if userID == 0 || skuID == 0 {
		return 0, ErrIncompleteInput
	}
	if count <= 0 {
		return 0, ErrInvalidQuantity
	}

	sku, err := s.skuRepo.GetByID(skuID)
	if err != nil {
		return 0, err
	}
	if sku == nil || sku.Status != constants.GoodsStatusOnline {
		return 0, ErrGoodsNotFound
	}
	if count > sku.Stock {
		return 0, ErrStockInsufficient
	}

	if err := s.store.Set(ctx, userID, skuID, count); err != nil {
		return 0, err
	}
	return s.sumQuantities(ctx, userID)
}

// Remove 删除购物车条目，返回剩余商品总件数。
func (s *CartService) Remove(ctx context.Context, userID, skuID uint) (int, error) {
	if userID == 0 || skuID == 0 {
		return 0, ErrIncompleteInput
	}
	if err := s.store.Del(ctx, userID, skuID); err != nil {
		return 0, err
	}
	return s.sumQuantities(ctx, userID)
}

// View 构建购物车页数据，顺带清理已下架或不存在的 SKU。
func (s *CartService) View(ctx context.Context, userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrIncompleteInput
	}
	entries, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: []CartLine{}}
	if len(entries) == 0 {
		return view, nil
	}

	skuIDs := make([]uint, 0, len(entries))
	for id := range entries {
		skuIDs = append(skuIDs, id)
	}
	sort.Slice(skuIDs, func(i, j int) bool { return skuIDs[i] < skuIDs[j] })

	skus, err := s.skuRepo.ListByIDs(skuIDs)
	if err != nil {
		return nil, err
	}
	skuByID := make(map[uint]*models.GoodsSKU, len(skus))
	for i := range skus {
		skuByID[skus[i].ID] = &skus[i]
	}

	var stale []uint
	for _, skuID := range skuIDs {
		sku, ok := skuByID[skuID]
		if !ok || sku.Status != constants.GoodsStatusOnline {
			stale = append(stale, skuID)
			continue
		}
		count := entries[skuID]
		subtotal := sku.Price.MulCount(count)
		view.Lines = append(view.Lines, CartLine{
			SKUID:    sku.ID,
			Name:     sku.Name,
			Image:    sku.Image,
			Unit:     sku.Unit,
			Price:    sku.Price,
			Count:    count,
			Subtotal: subtotal,
			Stock:    sku.Stock,
		})
		view.TotalCount += count
		view.TotalPrice = view.TotalPrice.AddMoney(subtotal)
	}

	if len(stale) > 0 {
		if err := s.store.Del(ctx, userID, stale...); err != nil {
			logger.Warnw("清理失效购物车条目失败", "user_id", userID, "sku_ids", stale, "error", err)
		}
	}
	return view, nil
}

// Entries 返回购物车原始条目（下单流程使用）
func (s *CartService) Entries(ctx context.Context, userID uint) (map[uint]int, error) {
	return s.store.GetAll(ctx, userID)
}

// Clear 删除购物车中指定的 SKU（下单成功后调用）
func (s *CartService) Clear(ctx context.Context, userID uint, skuIDs ...uint) error {
	if len(skuIDs) == 0 {
		return nil
	}
	return s.store.Del(ctx, userID, skuIDs...)
}

func (s *CartService) sumQuantities(ctx context.Context, userID uint) (int, error) {
	entries, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, count := range entries {
		total += count
	}
	return total, nil
}
