package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/provider"
	"github.com/nivelup-next/internal/queue"
	"github.com/nivelup-next/internal/service"

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
	mux.HandleFunc(queue.TaskCommissionCalculate, c.handleCommissionCalculate)
}

func (c *Consumer) handleCommissionCalculate(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_commission_calculate_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CommissionCalculatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_commission_calculate_unmarshal_failed", "error", err)
		return err
	}
	if payload.ConversionEventID == 0 {
		logger.Debugw("worker_commission_calculate_skip_invalid_payload", "conversion_event_id", payload.ConversionEventID)
		return nil
	}
	if c.CommissionService == nil {
		logger.Warnw("worker_commission_calculate_skip_service_nil", "conversion_event_id", payload.ConversionEventID)
		return nil
	}
	if err := c.CommissionService.Calculate(payload.ConversionEventID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_commission_calculate_skip_event_not_found", "conversion_event_id", payload.ConversionEventID)
			return nil
		}
		logger.Warnw("worker_commission_calculate_failed", "conversion_event_id", payload.ConversionEventID, "error", err)
		return err
	}
	return nil
}
