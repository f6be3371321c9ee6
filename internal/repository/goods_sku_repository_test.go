package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupGoodsSKURepositoryTest(t *testing.T) (*GormGoodsSKURepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:goods_sku_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.GoodsType{}, &models.GoodsSKU{}); err != nil {
		t.Fatalf("migrate goods models failed: %v", err)
	}
	return NewGoodsSKURepository(db), db
}

func createSKURow(t *testing.T, db *gorm.DB, typeID uint, name, summary, price string, stock, sales, status int) *models.GoodsSKU {
	t.Helper()
	amount, err := models.NewMoneyFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	sku := &models.GoodsSKU{
		TypeID:  typeID,
		Name:    name,
		Summary: summary,
		Unit:    "500g",
		Price:   amount,
		Stock:   stock,
		Sales:   sales,
		Status:  status,
	}
	if err := db.Create(sku).Error; err != nil {
		t.Fatalf("create sku failed: %v", err)
	}
	return sku
}

func TestDecrementStockGuard(t *testing.T) {
	repo, db := setupGoodsSKURepositoryTest(t)
	sku := createSKURow(t, db, 1, "草莓 500g", "", "19.90", 3, 0, constants.GoodsStatusOnline)

	ok, err := repo.DecrementStock(db, sku.ID, 2)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if !ok {
		t.Fatalf("decrement within stock should succeed")
	}

	// 超出剩余库存时拒绝扣减
	ok, err = repo.DecrementStock(db, sku.ID, 2)
	if err != nil {
		t.Fatalf("decrement over stock errored: %v", err)
	}
	if ok {
		t.Fatalf("decrement over stock should be rejected")
	}

	ok, err = repo.DecrementStock(db, sku.ID, 1)
	if err != nil {
		t.Fatalf("decrement exact stock failed: %v", err)
	}
	if !ok {
		t.Fatalf("decrement exact remaining stock should succeed")
	}

	var got models.GoodsSKU
	if err := db.First(&got, sku.ID).Error; err != nil {
		t.Fatalf("reload sku failed: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock want 0 got %d", got.Stock)
	}

	// 库存为 0 后任何扣减均失败，库存不会为负
	ok, err = repo.DecrementStock(db, sku.ID, 1)
	if err != nil {
		t.Fatalf("decrement empty stock errored: %v", err)
	}
	if ok {
		t.Fatalf("decrement on empty stock should be rejected")
	}
}

func TestIncrementSales(t *testing.T) {
	repo, db := setupGoodsSKURepositoryTest(t)
	sku := createSKURow(t, db, 1, "草莓 500g", "", "19.90", 10, 2, constants.GoodsStatusOnline)

	if err := repo.IncrementSales(db, sku.ID, 3); err != nil {
		t.Fatalf("increment sales failed: %v", err)
	}
	var got models.GoodsSKU
	if err := db.First(&got, sku.ID).Error; err != nil {
		t.Fatalf("reload sku failed: %v", err)
	}
	if got.Sales != 5 {
		t.Fatalf("sales want 5 got %d", got.Sales)
	}
}

func TestListByTypeSortsAndPagination(t *testing.T) {
	repo, db := setupGoodsSKURepositoryTest(t)

	cheapHot := createSKURow(t, db, 1, "西兰花 1个", "", "6.50", 10, 30, constants.GoodsStatusOnline)
	midCold := createSKURow(t, db, 1, "葡萄 500g", "", "15.50", 10, 5, constants.GoodsStatusOnline)
	priceyWarm := createSKURow(t, db, 1, "鲈鱼 1条", "", "32.00", 10, 20, constants.GoodsStatusOnline)
	createSKURow(t, db, 1, "下架商品", "", "9.90", 10, 99, constants.GoodsStatusOffline)
	createSKURow(t, db, 2, "其他分类", "", "1.00", 10, 0, constants.GoodsStatusOnline)

	skus, total, err := repo.ListByType(GoodsListFilter{
		Page:     1,
		PageSize: 10,
		TypeID:   1,
		Sort:     constants.GoodsSortPrice,
		OnlySale: true,
	})
	if err != nil {
		t.Fatalf("list by price failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if skus[0].ID != cheapHot.ID || skus[2].ID != priceyWarm.ID {
		t.Fatalf("price sort mismatch: %+v", skus)
	}

	skus, _, err = repo.ListByType(GoodsListFilter{
		Page:     1,
		PageSize: 10,
		TypeID:   1,
		Sort:     constants.GoodsSortHot,
		OnlySale: true,
	})
	if err != nil {
		t.Fatalf("list by hot failed: %v", err)
	}
	if skus[0].ID != cheapHot.ID || skus[1].ID != priceyWarm.ID || skus[2].ID != midCold.ID {
		t.Fatalf("hot sort mismatch: %+v", skus)
	}

	// 分页
	skus, total, err = repo.ListByType(GoodsListFilter{
		Page:     2,
		PageSize: 2,
		TypeID:   1,
		Sort:     constants.GoodsSortPrice,
		OnlySale: true,
	})
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if total != 3 || len(skus) != 1 {
		t.Fatalf("page 2 want 1 row of 3 got total=%d len=%d", total, len(skus))
	}
}

func TestSearchMatchesNameAndSummary(t *testing.T) {
	repo, db := setupGoodsSKURepositoryTest(t)
	createSKURow(t, db, 1, "草莓 500g", "新鲜草莓，当日采摘", "19.90", 10, 0, constants.GoodsStatusOnline)
	createSKURow(t, db, 1, "手工水饺 500g", "三鲜馅速冻水饺", "18.00", 10, 0, constants.GoodsStatusOnline)
	createSKURow(t, db, 1, "下架草莓", "", "9.90", 10, 0, constants.GoodsStatusOffline)

	skus, total, err := repo.Search("草莓", 1, 10)
	if err != nil {
		t.Fatalf("search by name failed: %v", err)
	}
	if total != 1 || len(skus) != 1 {
		t.Fatalf("search by name want 1 online row got total=%d len=%d", total, len(skus))
	}

	skus, total, err = repo.Search("三鲜", 1, 10)
	if err != nil {
		t.Fatalf("search by summary failed: %v", err)
	}
	if total != 1 || skus[0].Name != "手工水饺 500g" {
		t.Fatalf("search by summary mismatch: total=%d rows=%+v", total, skus)
	}
}

func TestListNewestByType(t *testing.T) {
	repo, db := setupGoodsSKURepositoryTest(t)

	old := createSKURow(t, db, 1, "旧商品", "", "1.00", 10, 0, constants.GoodsStatusOnline)
	if err := db.Model(&models.GoodsSKU{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate sku failed: %v", err)
	}
	newest := createSKURow(t, db, 1, "新商品", "", "2.00", 10, 0, constants.GoodsStatusOnline)
	createSKURow(t, db, 1, "下架新品", "", "3.00", 10, 0, constants.GoodsStatusOffline)

	skus, err := repo.ListNewestByType(1, 1)
	if err != nil {
		t.Fatalf("list newest failed: %v", err)
	}
	if len(skus) != 1 || skus[0].ID != newest.ID {
		t.Fatalf("newest sku mismatch: %+v", skus)
	}
}
