package service

import (
	"context"
	"strings"
	"time"

	"github.com/dailyfresh-next/internal/cache"
	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/logger"
	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/repository"
)

const (
	indexCacheKey = "index:data"
	indexCacheTTL = 5 * time.Minute
)

// CatalogService 商品目录服务：首页、列表、详情、搜索、浏览历史
type CatalogService struct {
	typeRepo     repository.GoodsTypeRepository
	skuRepo      repository.GoodsSKURepository
	historyStore cache.HistoryStore
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(typeRepo repository.GoodsTypeRepository, skuRepo repository.GoodsSKURepository, historyStore cache.HistoryStore) *CatalogService {
	return &CatalogService{
		typeRepo:     typeRepo,
		skuRepo:      skuRepo,
		historyStore: historyStore,
	}
}

// IndexSection 首页分类板块
type IndexSection struct {
	Type   models.GoodsType  `json:"type"`
	Newest []models.GoodsSKU `json:"newest"`
}

// IndexData 首页数据
type IndexData struct {
	Types    []models.GoodsType `json:"types"`
	Sections []IndexSection     `json:"sections"`
}

// GoodsPage 商品列表页数据
type GoodsPage struct {
	Type       *models.GoodsType `json:"type,omitempty"`
	Skus       []models.GoodsSKU `json:"skus"`
	Newest     []models.GoodsSKU `json:"newest,omitempty"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	Pages      []int             `json:"pages"`
	Sort       string            `json:"sort"`
}

// GoodsDetail 商品详情页数据
type GoodsDetail struct {
	SKU    *models.GoodsSKU  `json:"sku"`
	Newest []models.GoodsSKU `json:"newest"`
}

// Index 首页数据，带 Redis 缓存。
func (s *CatalogService) Index(ctx context.Context) (*IndexData, error) {
	var cached IndexData
	if hit, err := cache.GetJSON(ctx, indexCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	types, err := s.typeRepo.List()
	if err != nil {
		return nil, err
	}

	data := &IndexData{Types: types, Sections: []IndexSection{}}
	for _, goodsType := range types {
		newest, err := s.skuRepo.ListNewestByType(goodsType.ID, 4)
		if err != nil {
			return nil, err
		}
		data.Sections = append(data.Sections, IndexSection{Type: goodsType, Newest: newest})
	}

	if err := cache.SetJSON(ctx, indexCacheKey, data, indexCacheTTL); err != nil {
		logger.Warnw("首页数据写缓存失败", "error", err)
	}
	return data, nil
}

// Detail 商品详情。登录用户访问时记录浏览历史。
func (s *CatalogService) Detail(ctx context.Context, skuID, userID uint) (*GoodsDetail, error) {
	if skuID == 0 {
		return nil, ErrIncompleteInput
	}
	sku, err := s.skuRepo.GetByID(skuID)
	if err != nil {
		return nil, err
	}
	if sku == nil || sku.Status != constants.GoodsStatusOnline {
		return nil, ErrGoodsNotFound
	}

	newest, err := s.skuRepo.ListNewestByType(sku.TypeID, 2)
	if err != nil {
		return nil, err
	}
	recommended := make([]models.GoodsSKU, 0, len(newest))
	for _, candidate := range newest {
		if candidate.ID != sku.ID {
			recommended = append(recommended, candidate)
		}
	}

	if userID > 0 {
		if err := s.historyStore.Push(ctx, userID, skuID); err != nil {
			logger.Warnw("记录浏览历史失败", "user_id", userID, "sku_id", skuID, "error", err)
		}
	}

	return &GoodsDetail{SKU: sku, Newest: recommended}, nil
}

// List 分类商品列表，支持默认 / 价格 / 人气排序。
func (s *CatalogService) List(typeID uint, page, pageSize int, sort string) (*GoodsPage, error) {
	if typeID == 0 {
		return nil, ErrIncompleteInput
	}
	goodsType, err := s.typeRepo.GetByID(typeID)
	if err != nil {
		return nil, err
	}
	if goodsType == nil {
		return nil, ErrTypeNotFound
	}

	page, pageSize = normalizePage(page, pageSize)
	sort = normalizeGoodsSort(sort)

	skus, total, err := s.skuRepo.ListByType(repository.GoodsListFilter{
		Page:     page,
		PageSize: pageSize,
		TypeID:   typeID,
		Sort:     sort,
		OnlySale: true,
	})
	if err != nil {
		return nil, err
	}

	newest, err := s.skuRepo.ListNewestByType(typeID, 2)
	if err != nil {
		return nil, err
	}

	totalPages := totalPageCount(total, pageSize)
	return &GoodsPage{
		Type:       goodsType,
		Skus:       skus,
		Newest:     newest,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Pages:      pageWindow(page, totalPages),
		Sort:       sort,
	}, nil
}

// Search 按关键字搜索上架商品
func (s *CatalogService) Search(keyword string, page, pageSize int) (*GoodsPage, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrIncompleteInput
	}
	page, pageSize = normalizePage(page, pageSize)

	skus, total, err := s.skuRepo.Search(keyword, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := totalPageCount(total, pageSize)
	return &GoodsPage{
		Skus:       skus,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Pages:      pageWindow(page, totalPages),
		Sort:       constants.GoodsSortDefault,
	}, nil
}

// History 浏览历史，按最近访问倒序返回
func (s *CatalogService) History(ctx context.Context, userID uint) ([]models.GoodsSKU, error) {
	if userID == 0 {
		return nil, ErrIncompleteInput
	}
	skuIDs, err := s.historyStore.List(ctx, userID, constants.BrowseHistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(skuIDs) == 0 {
		return []models.GoodsSKU{}, nil
	}

	skus, err := s.skuRepo.ListByIDs(skuIDs)
	if err != nil {
		return nil, err
	}
	skuByID := make(map[uint]models.GoodsSKU, len(skus))
	for _, sku := range skus {
		skuByID[sku.ID] = sku
	}

	ordered := make([]models.GoodsSKU, 0, len(skuIDs))
	for _, skuID := range skuIDs {
		if sku, ok := skuByID[skuID]; ok {
			ordered = append(ordered, sku)
		}
	}
	return ordered, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func normalizeGoodsSort(sort string) string {
	switch sort {
	case constants.GoodsSortPrice, constants.GoodsSortHot:
		return sort
	default:
		return constants.GoodsSortDefault
	}
}

func totalPageCount(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// pageWindow 返回最多 5 个连续页码，当前页尽量居中。
func pageWindow(page, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start, end := 1, totalPages
	switch {
	case totalPages <= 5:
		// 全部页码
	case page <= 3:
		start, end = 1, 5
	case page >= totalPages-2:
		start, end = totalPages-4, totalPages
	default:
		start, end = page-2, page+2
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
