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

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Address{}, &models.GoodsSKU{}, &models.Order{}, &models.OrderGoods{}); err != nil {
		t.Fatalf("migrate order models failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createOrderRow(t *testing.T, repo *GormOrderRepository, userID uint, orderNo string, status int) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:   orderNo,
		UserID:    userID,
		AddressID: 1,
		PayMethod: constants.PayMethodCOD,
		Status:    status,
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderUpdateTotals(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	order := createOrderRow(t, repo, 1, "DF20260829000001", constants.OrderStatusPendingPayment)

	totalPrice, err := models.NewMoneyFromString("55.30")
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	if err := repo.UpdateTotals(order.ID, 3, totalPrice); err != nil {
		t.Fatalf("update totals failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.TotalCount != 3 {
		t.Fatalf("total count want 3 got %d", got.TotalCount)
	}
	if got.TotalPrice.String() != "55.30" {
		t.Fatalf("total price want 55.30 got %s", got.TotalPrice.String())
	}
}

func TestOrderListByUserStatusFilter(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createOrderRow(t, repo, 1, "DF20260829000001", constants.OrderStatusPendingPayment)
	createOrderRow(t, repo, 1, "DF20260829000002", constants.OrderStatusCompleted)
	createOrderRow(t, repo, 2, "DF20260829000003", constants.OrderStatusPendingPayment)

	orders, total, err := repo.ListByUser(OrderListFilter{Page: 1, PageSize: 10, UserID: 1})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("user 1 orders want 2 got total=%d len=%d", total, len(orders))
	}
	// 按 ID 倒序
	if orders[0].OrderNo != "DF20260829000002" {
		t.Fatalf("newest order should come first, got: %s", orders[0].OrderNo)
	}

	orders, total, err = repo.ListByUser(OrderListFilter{
		Page:     1,
		PageSize: 10,
		UserID:   1,
		Status:   constants.OrderStatusCompleted,
	})
	if err != nil {
		t.Fatalf("list orders by status failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].Status != constants.OrderStatusCompleted {
		t.Fatalf("status filter mismatch: total=%d rows=%+v", total, orders)
	}
}

func TestOrderGetByIDAndUserScoping(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	order := createOrderRow(t, repo, 1, "DF20260829000001", constants.OrderStatusPendingPayment)

	price, _ := models.NewMoneyFromString("19.90")
	sku := &models.GoodsSKU{TypeID: 1, Name: "草莓 500g", Price: price, Stock: 10, Status: constants.GoodsStatusOnline}
	if err := db.Create(sku).Error; err != nil {
		t.Fatalf("create sku failed: %v", err)
	}
	if err := repo.CreateGoods(&models.OrderGoods{OrderID: order.ID, SKUID: sku.ID, Count: 2, Price: price}); err != nil {
		t.Fatalf("create order goods failed: %v", err)
	}

	got, err := repo.GetByIDAndUser(order.ID, 1)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil || len(got.Goods) != 1 {
		t.Fatalf("order goods should be preloaded, got: %+v", got)
	}
	if got.Goods[0].SKU == nil || got.Goods[0].SKU.Name != "草莓 500g" {
		t.Fatalf("order goods sku should be preloaded, got: %+v", got.Goods[0])
	}

	// 其他用户查不到
	other, err := repo.GetByIDAndUser(order.ID, 2)
	if err != nil {
		t.Fatalf("get order for other user errored: %v", err)
	}
	if other != nil {
		t.Fatalf("order should not be visible to other user")
	}
}

func TestOrderGetByOrderNo(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createOrderRow(t, repo, 1, "DF20260829000001", constants.OrderStatusPendingPayment)

	got, err := repo.GetByOrderNo("DF20260829000001")
	if err != nil {
		t.Fatalf("get by order no failed: %v", err)
	}
	if got == nil || got.UserID != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}

	missing, err := repo.GetByOrderNo("DF-NOT-EXIST")
	if err != nil {
		t.Fatalf("get missing order errored: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing order should return nil")
	}
}
