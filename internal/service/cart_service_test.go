package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// fakeCartStore 内存版购物车存储，供服务层测试使用。
type fakeCartStore struct {
	carts   map[uint]map[uint]int
	failDel bool
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[uint]map[uint]int{}}
}

func (s *fakeCartStore) Set(_ context.Context, userID, skuID uint, quantity int) error {
	if s.carts[userID] == nil {
		s.carts[userID] = map[uint]int{}
	}
	s.carts[userID][skuID] = quantity
	return nil
}

func (s *fakeCartStore) Get(_ context.Context, userID, skuID uint) (int, bool, error) {
	quantity, ok := s.carts[userID][skuID]
	return quantity, ok, nil
}

func (s *fakeCartStore) GetAll(_ context.Context, userID uint) (map[uint]int, error) {
	entries := make(map[uint]int, len(s.carts[userID]))
	for skuID, quantity := range s.carts[userID] {
		entries[skuID] = quantity
	}
	return entries, nil
}

func (s *fakeCartStore) Del(_ context.Context, userID uint, skuIDs ...uint) error {
	if s.failDel {
		return errors.New("del failed")
	}
	for _, skuID := range skuIDs {
		delete(s.carts[userID], skuID)
	}
	return nil
}

func (s *fakeCartStore) Count(_ context.Context, userID uint) (int64, error) {
	return int64(len(s.carts[userID])), nil
}

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.GoodsType{},
		&models.GoodsSKU{},
		&models.Order{},
		&models.OrderGoods{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestSKU(t *testing.T, db *gorm.DB, name, price string, stock, status int) *models.GoodsSKU {
	t.Helper()
	amount, err := models.NewMoneyFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	sku := &models.GoodsSKU{
		TypeID: 1,
		Name:   name,
		Unit:   "500g",
		Price:  amount,
		Stock:  stock,
		Status: status,
	}
	if err := db.Create(sku).Error; err != nil {
		t.Fatalf("create sku failed: %v", err)
	}
	return sku
}

func newCartServiceForTest(t *testing.T, name string) (*CartService, *fakeCartStore, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, name)
	store := newFakeCartStore()
	return NewCartService(store, repository.NewGoodsSKURepository(db)), store, db
}

func TestCartAddMergesExistingQuantity(t *testing.T) {
	svc, store, db := newCartServiceForTest(t, "cart_add_merge")
	sku := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, sku.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := svc.Add(ctx, 1, sku.ID, 3); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	quantity, ok, _ := store.Get(ctx, 1, sku.ID)
	if !ok || quantity != 5 {
		t.Fatalf("merged quantity want 5 got %d (exists=%v)", quantity, ok)
	}
}

func TestCartAddReturnsDistinctLineCount(t *testing.T) {
	svc, _, db := newCartServiceForTest(t, "cart_add_count")
	first := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	second := createTestSKU(t, db, "葡萄 500g", "15.50", 10, constants.GoodsStatusOnline)
	ctx := context.Background()

	count, err := svc.Add(ctx, 1, first.ID, 2)
	if err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cart line count want 1 got %d", count)
	}

	count, err = svc.Add(ctx, 1, second.ID, 4)
	if err != nil {
		t.Fatalf("add second failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("cart line count want 2 got %d", count)
	}

	// 重复加购同一 SKU 不增加条目数
	count, err = svc.Add(ctx, 1, first.ID, 1)
	if err != nil {
		t.Fatalf("add repeat failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("cart line count after repeat add want 2 got %d", count)
	}
}

func TestCartAddRejectsMergedOverStock(t *testing.T) {
	svc, store, db := newCartServiceForTest(t, "cart_add_overstock")
	sku := createTestSKU(t, db, "鲈鱼 1条", "32.00", 5, constants.GoodsStatusOnline)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, sku.ID, 3); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := svc.Add(ctx, 1, sku.ID, 3); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected stock insufficient, got: %v", err)
	}

	// 失败的加购不应改动已有数量
	quantity, _, _ := store.Get(ctx, 1, sku.ID)
	if quantity != 3 {
		t.Fatalf("quantity after rejected add want 3 got %d", quantity)
	}
}

func TestCartAddValidations(t *testing.T) {
	svc, _, db := newCartServiceForTest(t, "cart_add_validate")
	offline := createTestSKU(t, db, "下架商品", "9.90", 10, constants.GoodsStatusOffline)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 0, 1, 1); !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("expected incomplete input for zero user, got: %v", err)
	}
	if _, err := svc.Add(ctx, 1, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity for zero count, got: %v", err)
	}
	if _, err := svc.Add(ctx, 1, 1, -2); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity for negative count, got: %v", err)
	}
	if _, err := svc.Add(ctx, 1, 9999, 1); !errors.Is(err, ErrGoodsNotFound) {
		t.Fatalf("expected goods not found for missing sku, got: %v", err)
	}
	if _, err := svc.Add(ctx, 1, offline.ID, 1); !errors.Is(err, ErrGoodsNotFound) {
		t.Fatalf("expected goods not found for offline sku, got: %v", err)
	}
}

func TestCartUpdateReplacesQuantityAndReturnsSum(t *testing.T) {
	svc, store, db := newCartServiceForTest(t, "cart_update")
	first := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	second := createTestSKU(t, db, "葡萄 500g", "15.50", 10, constants.GoodsStatusOnline)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, first.ID, 5); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if _, err := svc.Add(ctx, 1, second.ID, 3); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	// 覆盖式更新：5 -> 2，总件数 = 2 + 3
	total, err := svc.Update(ctx, 1, first.ID, 2)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("total quantity after update want 5 got %d", total)
	}
	quantity, _, _ := store.Get(ctx, 1, first.ID)
	if quantity != 2 {
		t.Fatalf("line quantity after update want 2 got %d", quantity)
	}
}

func TestCartUpdateRejectsOverStock(t *testing.T) {
	svc, store, db := newCartServiceForTest(t, "cart_update_overstock")
	sku := createTestSKU(t, db, "鲈鱼 1条", "32.00", 4, constants.GoodsStatusOnline)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, sku.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.Update(ctx, 1, sku.ID, 5); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected stock insufficient, got: %v", err)
	}
	quantity, _, _ := store.Get(ctx, 1, sku.ID)
	if quantity != 2 {
		t.Fatalf("quantity after rejected update want 2 got %d", quantity)
	}
}

func TestCartRemoveReturnsRemainingSum(t *testing.T) {
	svc, _, db := newCartServiceForTest(t, "cart_remove")
	first := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	second := createTestSKU(t, db, "葡萄 500g", "15.50", 10, constants.GoodsStatusOnline)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, first.ID, 2); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if _, err := svc.Add(ctx, 1, second.ID, 3); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	total, err := svc.Remove(ctx, 1, first.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total quantity after remove want 3 got %d", total)
	}

	// 删除不存在的条目不报错，总件数不变
	total, err = svc.Remove(ctx, 1, first.ID)
	if err != nil {
		t.Fatalf("remove missing line failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total quantity after repeated remove want 3 got %d", total)
	}
}

func TestCartViewTotalsAndStalePruning(t *testing.T) {
	svc, store, db := newCartServiceForTest(t, "cart_view")
	online := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	offline := createTestSKU(t, db, "下架商品", "9.90", 10, constants.GoodsStatusOnline)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, online.ID, 2); err != nil {
		t.Fatalf("add online failed: %v", err)
	}
	if _, err := svc.Add(ctx, 1, offline.ID, 1); err != nil {
		t.Fatalf("add offline failed: %v", err)
	}

	// 加购后商品下架
	if err := db.Model(&models.GoodsSKU{}).Where("id = ?", offline.ID).Update("status", constants.GoodsStatusOffline).Error; err != nil {
		t.Fatalf("take sku offline failed: %v", err)
	}

	view, err := svc.View(ctx, 1)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("view lines want 1 got %d", len(view.Lines))
	}
	if view.Lines[0].SKUID != online.ID || view.Lines[0].Count != 2 {
		t.Fatalf("unexpected view line: %+v", view.Lines[0])
	}
	if view.TotalCount != 2 {
		t.Fatalf("view total count want 2 got %d", view.TotalCount)
	}
	if view.TotalPrice.String() != "39.80" {
		t.Fatalf("view total price want 39.80 got %s", view.TotalPrice.String())
	}

	// 失效条目应从存储中清理
	if _, ok, _ := store.Get(ctx, 1, offline.ID); ok {
		t.Fatalf("stale cart line should be pruned")
	}
}

func TestCartViewEmpty(t *testing.T) {
	svc, _, _ := newCartServiceForTest(t, "cart_view_empty")
	view, err := svc.View(context.Background(), 1)
	if err != nil {
		t.Fatalf("view empty cart failed: %v", err)
	}
	if len(view.Lines) != 0 || view.TotalCount != 0 {
		t.Fatalf("empty cart view should have no lines, got: %+v", view)
	}
}
