package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSubscriptionsExpire expires subscriptions whose period has ended.
	TaskSubscriptionsExpire = "subscriptions:expire"
	// TaskInventoryLowStockScan reports items at or below their reorder level.
	TaskInventoryLowStockScan = "inventory:low_stock_scan"
)

// Cron specs, evaluated in UTC.
const (
	SpecSubscriptionsExpire   = "0 * * * *"
	SpecInventoryLowStockScan = "0 6 * * *"
)

// SchedulePayload carries the time a scheduled run was requested for. The
// zero value means "now".
type SchedulePayload struct {
	ScheduledFor time.Time `json:"scheduled_for,omitempty"`
}

// NewSubscriptionsExpireTask constructs the expiry task.
func NewSubscriptionsExpireTask(at time.Time) (*asynq.Task, error) {
	return newScheduledTask(TaskSubscriptionsExpire, at)
}

// NewLowStockScanTask constructs the low-stock scan task.
func NewLowStockScanTask(at time.Time) (*asynq.Task, error) {
	return newScheduledTask(TaskInventoryLowStockScan, at)
}

func newScheduledTask(typ string, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SchedulePayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typ, body, asynq.Queue(QueueDefault)), nil
}

func decodeSchedule(t *asynq.Task) (SchedulePayload, error) {
	var payload SchedulePayload
	if len(t.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, asynq.SkipRetry
	}
	return payload, nil
}

// Schedule returns the periodic tasks the worker registers.
func Schedule() ([]CronRegistration, error) {
	expire, err := NewSubscriptionsExpireTask(time.Time{})
	if err != nil {
		return nil, err
	}
	scan, err := NewLowStockScanTask(time.Time{})
	if err != nil {
		return nil, err
	}
	return []CronRegistration{
		{Spec: SpecSubscriptionsExpire, Task: expire, Options: []asynq.Option{asynq.MaxRetry(3)}},
		{Spec: SpecInventoryLowStockScan, Task: scan, Options: []asynq.Option{asynq.MaxRetry(3)}},
	}, nil
}
