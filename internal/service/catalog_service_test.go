package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/repository"

	"gorm.io/gorm"
)

// fakeHistoryStore 内存版浏览历史，最近访问在前。
type fakeHistoryStore struct {
	items map[uint][]uint
}

func newFakeHistoryStore() *fakeHistoryStore {
	return &fakeHistoryStore{items: map[uint][]uint{}}
}

func (s *fakeHistoryStore) Push(_ context.Context, userID, skuID uint) error {
	history := make([]uint, 0, len(s.items[userID])+1)
	history = append(history, skuID)
	for _, id := range s.items[userID] {
		if id != skuID {
			history = append(history, id)
		}
	}
	if len(history) > constants.BrowseHistoryLimit {
		history = history[:constants.BrowseHistoryLimit]
	}
	s.items[userID] = history
	return nil
}

func (s *fakeHistoryStore) List(_ context.Context, userID uint, limit int64) ([]uint, error) {
	history := s.items[userID]
	if limit > 0 && int64(len(history)) > limit {
		history = history[:limit]
	}
	return history, nil
}

func newCatalogServiceForTest(t *testing.T, name string) (*CatalogService, *fakeHistoryStore, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, name)
	history := newFakeHistoryStore()
	svc := NewCatalogService(
		repository.NewGoodsTypeRepository(db),
		repository.NewGoodsSKURepository(db),
		history,
	)
	return svc, history, db
}

func createTestType(t *testing.T, db *gorm.DB, name string, sortOrder int) *models.GoodsType {
	t.Helper()
	goodsType := &models.GoodsType{Name: name, SortOrder: sortOrder}
	if err := db.Create(goodsType).Error; err != nil {
		t.Fatalf("create goods type failed: %v", err)
	}
	return goodsType
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		page       int
		totalPages int
		want       []int
	}{
		{1, 1, []int{1}},
		{2, 4, []int{1, 2, 3, 4}},
		{1, 5, []int{1, 2, 3, 4, 5}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{3, 10, []int{1, 2, 3, 4, 5}},
		{4, 10, []int{2, 3, 4, 5, 6}},
		{6, 10, []int{4, 5, 6, 7, 8}},
		{8, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{99, 10, []int{6, 7, 8, 9, 10}},
		{0, 3, []int{1, 2, 3}},
	}
	for _, tc := range cases {
		got := pageWindow(tc.page, tc.totalPages)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("pageWindow(%d, %d) want %v got %v", tc.page, tc.totalPages, tc.want, got)
		}
	}
}

func TestTotalPageCount(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
	}
	for _, tc := range cases {
		if got := totalPageCount(tc.total, tc.pageSize); got != tc.want {
			t.Fatalf("totalPageCount(%d, %d) want %d got %d", tc.total, tc.pageSize, tc.want, got)
		}
	}
}

func TestNormalizeGoodsSort(t *testing.T) {
	if got := normalizeGoodsSort("price"); got != constants.GoodsSortPrice {
		t.Fatalf("price sort want price got %s", got)
	}
	if got := normalizeGoodsSort("hot"); got != constants.GoodsSortHot {
		t.Fatalf("hot sort want hot got %s", got)
	}
	if got := normalizeGoodsSort("bogus"); got != constants.GoodsSortDefault {
		t.Fatalf("unknown sort should fall back to default, got %s", got)
	}
	if got := normalizeGoodsSort(""); got != constants.GoodsSortDefault {
		t.Fatalf("empty sort should fall back to default, got %s", got)
	}
}

func TestCatalogListSortsAndFilters(t *testing.T) {
	svc, _, db := newCatalogServiceForTest(t, "catalog_list")
	goodsType := createTestType(t, db, "新鲜水果", 1)

	cheap := createTestSKU(t, db, "西兰花 1个", "6.50", 10, constants.GoodsStatusOnline)
	cheap.TypeID = goodsType.ID
	cheap.Sales = 5
	expensive := createTestSKU(t, db, "鲈鱼 1条", "32.00", 10, constants.GoodsStatusOnline)
	expensive.TypeID = goodsType.ID
	expensive.Sales = 20
	offline := createTestSKU(t, db, "下架商品", "9.90", 10, constants.GoodsStatusOffline)
	offline.TypeID = goodsType.ID
	for _, sku := range []*models.GoodsSKU{cheap, expensive, offline} {
		if err := db.Save(sku).Error; err != nil {
			t.Fatalf("save sku failed: %v", err)
		}
	}

	page, err := svc.List(goodsType.ID, 1, 20, constants.GoodsSortPrice)
	if err != nil {
		t.Fatalf("list by price failed: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("list should exclude offline sku, total want 2 got %d", page.Total)
	}
	if len(page.Skus) != 2 || page.Skus[0].ID != cheap.ID {
		t.Fatalf("price sort should put cheapest first, got: %+v", page.Skus)
	}

	page, err = svc.List(goodsType.ID, 1, 20, constants.GoodsSortHot)
	if err != nil {
		t.Fatalf("list by hot failed: %v", err)
	}
	if len(page.Skus) != 2 || page.Skus[0].ID != expensive.ID {
		t.Fatalf("hot sort should put best seller first, got: %+v", page.Skus)
	}

	if _, err := svc.List(9999, 1, 20, ""); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected type not found, got: %v", err)
	}
}

func TestCatalogSearch(t *testing.T) {
	svc, _, db := newCatalogServiceForTest(t, "catalog_search")
	createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	createTestSKU(t, db, "葡萄 500g", "15.50", 10, constants.GoodsStatusOnline)

	page, err := svc.Search("草莓", 1, 20)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if page.Total != 1 || len(page.Skus) != 1 {
		t.Fatalf("search want 1 result got total=%d len=%d", page.Total, len(page.Skus))
	}

	if _, err := svc.Search("   ", 1, 20); !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("expected incomplete input for blank keyword, got: %v", err)
	}
}

func TestCatalogDetailRecordsHistoryForLoggedInUser(t *testing.T) {
	svc, history, db := newCatalogServiceForTest(t, "catalog_detail")
	goodsType := createTestType(t, db, "新鲜水果", 1)
	sku := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	sku.TypeID = goodsType.ID
	if err := db.Save(sku).Error; err != nil {
		t.Fatalf("save sku failed: %v", err)
	}
	ctx := context.Background()

	// 游客访问不记录历史
	if _, err := svc.Detail(ctx, sku.ID, 0); err != nil {
		t.Fatalf("guest detail failed: %v", err)
	}
	if len(history.items) != 0 {
		t.Fatalf("guest visit should not record history")
	}

	detail, err := svc.Detail(ctx, sku.ID, 1)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if detail.SKU == nil || detail.SKU.ID != sku.ID {
		t.Fatalf("unexpected detail sku: %+v", detail.SKU)
	}
	if got := history.items[1]; len(got) != 1 || got[0] != sku.ID {
		t.Fatalf("history should record visited sku, got: %v", got)
	}

	offline := createTestSKU(t, db, "下架商品", "9.90", 10, constants.GoodsStatusOffline)
	if _, err := svc.Detail(ctx, offline.ID, 1); !errors.Is(err, ErrGoodsNotFound) {
		t.Fatalf("expected goods not found for offline sku, got: %v", err)
	}
}

func TestCatalogHistoryKeepsVisitOrder(t *testing.T) {
	svc, _, db := newCatalogServiceForTest(t, "catalog_history")
	goodsType := createTestType(t, db, "新鲜水果", 1)
	first := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	second := createTestSKU(t, db, "葡萄 500g", "15.50", 10, constants.GoodsStatusOnline)
	for _, sku := range []*models.GoodsSKU{first, second} {
		sku.TypeID = goodsType.ID
		if err := db.Save(sku).Error; err != nil {
			t.Fatalf("save sku failed: %v", err)
		}
	}
	ctx := context.Background()

	if _, err := svc.Detail(ctx, first.ID, 1); err != nil {
		t.Fatalf("visit first failed: %v", err)
	}
	if _, err := svc.Detail(ctx, second.ID, 1); err != nil {
		t.Fatalf("visit second failed: %v", err)
	}
	// 重复访问把条目提到最前
	if _, err := svc.Detail(ctx, first.ID, 1); err != nil {
		t.Fatalf("revisit first failed: %v", err)
	}

	skus, err := svc.History(ctx, 1)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(skus) != 2 || skus[0].ID != first.ID || skus[1].ID != second.ID {
		t.Fatalf("history order mismatch, got: %+v", skus)
	}
}

func TestCatalogIndexSections(t *testing.T) {
	svc, _, db := newCatalogServiceForTest(t, "catalog_index")
	fruit := createTestType(t, db, "新鲜水果", 1)
	seafood := createTestType(t, db, "海鲜水产", 2)
	sku := createTestSKU(t, db, "草莓 500g", "19.90", 10, constants.GoodsStatusOnline)
	sku.TypeID = fruit.ID
	if err := db.Save(sku).Error; err != nil {
		t.Fatalf("save sku failed: %v", err)
	}

	data, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if len(data.Types) != 2 {
		t.Fatalf("index types want 2 got %d", len(data.Types))
	}
	if data.Types[0].ID != fruit.ID || data.Types[1].ID != seafood.ID {
		t.Fatalf("index types should follow sort order, got: %+v", data.Types)
	}
	if len(data.Sections) != 2 {
		t.Fatalf("index sections want 2 got %d", len(data.Sections))
	}
	if len(data.Sections[0].Newest) != 1 || data.Sections[0].Newest[0].ID != sku.ID {
		t.Fatalf("fruit section should contain the sku, got: %+v", data.Sections[0].Newest)
	}
}
