package worker

import (
	"context"
	"encoding/json"

	"github.com/dailyfresh-next/internal/logger"
	"github.com/dailyfresh-next/internal/provider"
	"github.com/dailyfresh-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskActivationEmail, c.handleActivationEmail)
	mux.HandleFunc(queue.TaskCartCleanup, c.handleCartCleanup)
}

func (c *Consumer) handleActivationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_activation_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ActivationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_activation_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 || payload.Email == "" || payload.Token == "" {
		logger.Debugw("worker_activation_email_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_activation_email_skip_email_service_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.EmailService.SendActivationEmail(payload.Email, payload.Username, payload.Token); err != nil {
		logger.Warnw("worker_activation_email_send_failed",
			"user_id", payload.UserID,
			"email", payload.Email,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleCartCleanup(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 || len(payload.SKUIDs) == 0 {
		logger.Debugw("worker_cart_cleanup_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.CartStore == nil {
		logger.Warnw("worker_cart_cleanup_skip_store_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.CartStore.Del(ctx, payload.UserID, payload.SKUIDs...); err != nil {
		logger.Warnw("worker_cart_cleanup_failed", "user_id", payload.UserID, "sku_ids", payload.SKUIDs, "error", err)
		return err
	}
	return nil
}
