package public

import (
	"errors"
	"strconv"

	handlershared "github.com/dailyfresh-next/internal/http/handlers/shared"
	"github.com/dailyfresh-next/internal/http/response"
	"github.com/dailyfresh-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Index 首页：分类列表与各分类新品
func (h *Handler) Index(c *gin.Context) {
	data, err := h.CatalogService.Index(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "获取首页数据失败", err)
		return
	}
	response.Success(c, data)
}

// GoodsList 分类商品列表，支持排序与分页
func (h *Handler) GoodsList(c *gin.Context) {
	typeID, err := strconv.ParseUint(c.Param("type_id"), 10, 64)
	if err != nil || typeID == 0 {
		respondError(c, response.CodeIncompleteInput, "分类参数非法", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	sort := c.DefaultQuery("sort", "default")

	result, err := h.CatalogService.List(uint(typeID), page, pageSize, sort)
	if err != nil {
		if errors.Is(err, service.ErrTypeNotFound) {
			respondError(c, response.CodeNotFound, "分类不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}
	response.Success(c, result)
}

// GoodsDetail 商品详情。登录用户访问时记录浏览历史。
func (h *Handler) GoodsDetail(c *gin.Context) {
	skuID, err := strconv.ParseUint(c.Param("sku_id"), 10, 64)
	if err != nil || skuID == 0 {
		respondError(c, response.CodeIncompleteInput, "商品参数非法", nil)
		return
	}

	detail, err := h.CatalogService.Detail(c.Request.Context(), uint(skuID), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrGoodsNotFound) {
			respondError(c, response.CodeGoodsNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取商品详情失败", err)
		return
	}
	response.Success(c, detail)
}

// SearchGoods 商品搜索
func (h *Handler) SearchGoods(c *gin.Context) {
	keyword := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	result, err := h.CatalogService.Search(keyword, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrIncompleteInput) {
			respondError(c, response.CodeIncompleteInput, "搜索关键字不能为空", nil)
			return
		}
		respondError(c, response.CodeInternal, "搜索失败", err)
		return
	}
	response.Success(c, result)
}

// BrowseHistory 浏览历史
func (h *Handler) BrowseHistory(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	skus, err := h.CatalogService.History(c.Request.Context(), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "获取浏览历史失败", err)
		return
	}
	response.Success(c, gin.H{"skus": skus})
}
