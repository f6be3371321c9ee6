package public

import (
	"strconv"

	"github.com/dailyfresh-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车条目请求
type CartItemRequest struct {
	SKUID uint `json:"sku_id" binding:"required"`
	Count int  `json:"count" binding:"required"`
}

// GetCart 购物车页数据
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	view, err := h.CartService.View(c.Request.Context(), uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车。返回购物车中的商品条目数。
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeIncompleteInput, "数据不完整", err)
		return
	}

	cartCount, err := h.CartService.Add(c.Request.Context(), uid, req.SKUID, req.Count)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, "添加成功", gin.H{"cart_count": cartCount})
}

// UpdateCartItem 更新购物车条目数量。返回购物车商品总件数。
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeIncompleteInput, "数据不完整", err)
		return
	}

	totalCount, err := h.CartService.Update(c.Request.Context(), uid, req.SKUID, req.Count)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, "更新成功", gin.H{"total_count": totalCount})
}

// DeleteCartItem 删除购物车条目。返回购物车商品总件数。
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	skuID, err := strconv.ParseUint(c.Param("sku_id"), 10, 64)
	if err != nil || skuID == 0 {
		respondError(c, response.CodeIncompleteInput, "商品参数非法", nil)
		return
	}

	totalCount, err := h.CartService.Remove(c.Request.Context(), uid, uint(skuID))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, "删除成功", gin.H{"total_count": totalCount})
}
