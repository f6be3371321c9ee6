package public

import (
	"errors"
	"strconv"

	handlershared "github.com/dailyfresh-next/internal/http/handlers/shared"
	"github.com/dailyfresh-next/internal/http/response"
	"github.com/dailyfresh-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderPreviewRequest 订单提交页请求
type OrderPreviewRequest struct {
	SKUIDs []uint `json:"sku_ids" binding:"required"`
}

// OrderCommitRequest 提交订单请求
type OrderCommitRequest struct {
	AddressID uint   `json:"address_id" binding:"required"`
	PayMethod int    `json:"pay_method" binding:"required"`
	SKUIDs    []uint `json:"sku_ids" binding:"required"`
}

// PreviewOrder 订单提交页：勾选商品的结算信息与可用地址
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req OrderPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeIncompleteInput, "数据不完整", err)
		return
	}

	preview, err := h.OrderService.Preview(c.Request.Context(), uid, req.SKUIDs)
	if err != nil {
		respondOrderCommitError(c, err)
		return
	}
	response.Success(c, preview)
}

// CommitOrder 提交订单
func (h *Handler) CommitOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req OrderCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeIncompleteInput, "参数不完整", err)
		return
	}

	result, err := h.OrderService.Commit(c.Request.Context(), uid, service.CommitInput{
		AddressID: req.AddressID,
		PayMethod: req.PayMethod,
		SKUIDs:    req.SKUIDs,
	})
	if err != nil {
		respondOrderCommitError(c, err)
		return
	}
	response.SuccessWithMsg(c, "创建成功", result)
}

// ListOrders 用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	status, _ := strconv.Atoi(c.DefaultQuery("status", "0"))

	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize, status)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeIncompleteInput, "订单参数非法", nil)
		return
	}

	order, err := h.OrderService.GetByIDAndUser(uint(orderID), uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}
	response.Success(c, gin.H{"order": order, "total_pay": order.TotalPay()})
}
