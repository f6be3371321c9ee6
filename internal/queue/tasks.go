package queue

import (
	"encoding/json"

	"github.com/dailyfresh-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskActivationEmail 账号激活邮件任务
	TaskActivationEmail = constants.TaskActivationEmail
	// TaskCartCleanup 下单后购物车清理补偿任务
	TaskCartCleanup = constants.TaskCartCleanup
)

// ActivationEmailPayload 激活邮件任务载荷
type ActivationEmailPayload struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// CartCleanupPayload 购物车清理任务载荷
type CartCleanupPayload struct {
	UserID uint   `json:"user_id"`
	SKUIDs []uint `json:"sku_ids"`
}

// NewActivationEmailTask 创建激活邮件任务
func NewActivationEmailTask(payload ActivationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivationEmail, body), nil
}

// NewCartCleanupTask 创建购物车清理任务
func NewCartCleanupTask(payload CartCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartCleanup, body), nil
}
