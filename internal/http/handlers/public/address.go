package public

import (
	"errors"
	"strconv"

	"github.com/dailyfresh-next/internal/http/response"
	"github.com/dailyfresh-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 新增地址请求
type AddressRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Addr     string `json:"addr" binding:"required"`
	ZipCode  string `json:"zip_code"`
	Phone    string `json:"phone" binding:"required"`
}

// ListAddresses 地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "获取地址失败", err)
		return
	}
	response.Success(c, gin.H{"addresses": addresses})
}

// CreateAddress 新增收货地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeIncompleteInput, "数据不完整", err)
		return
	}

	address, err := h.AddressService.Create(uid, service.AddressInput{
		Receiver: req.Receiver,
		Addr:     req.Addr,
		ZipCode:  req.ZipCode,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrIncompleteInput) {
			respondError(c, response.CodeIncompleteInput, "数据不完整", nil)
			return
		}
		respondError(c, response.CodeInternal, "添加地址失败", err)
		return
	}
	response.SuccessWithMsg(c, "添加成功", gin.H{"address": address})
}

// SetDefaultAddress 设置默认地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || addressID == 0 {
		respondError(c, response.CodeIncompleteInput, "地址参数非法", nil)
		return
	}

	if err := h.AddressService.SetDefault(uid, uint(addressID)); err != nil {
		switch {
		case errors.Is(err, service.ErrAddressNotFound):
			respondError(c, response.CodeAddressNotFound, "地址非法", nil)
		case errors.Is(err, service.ErrIncompleteInput):
			respondError(c, response.CodeIncompleteInput, "数据不完整", nil)
		default:
			respondError(c, response.CodeInternal, "设置默认地址失败", err)
		}
		return
	}
	response.SuccessWithMsg(c, "设置成功", gin.H{"updated": true})
}
