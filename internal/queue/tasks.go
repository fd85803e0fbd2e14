package queue

import (
	"encoding/json"

	"github.com/nivelup-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCommissionCalculate 转化佣金计算任务
	TaskCommissionCalculate = constants.TaskCommissionCalculate
)

// CommissionCalculatePayload 佣金计算任务载荷
type CommissionCalculatePayload struct {
	ConversionEventID uint `json:"conversion_event_id"`
}

// NewCommissionCalculateTask 创建佣金计算任务
func NewCommissionCalculateTask(payload CommissionCalculatePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionCalculate, body), nil
}
