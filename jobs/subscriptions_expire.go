package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Expirer expires lapsed subscriptions.
type Expirer interface {
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// Observer counts task executions.
type Observer interface {
	ObserveJob(task string, err error)
}

// SubscriptionsExpireJob marks lapsed subscriptions as expired.
type SubscriptionsExpireJob struct {
	Expirer  Expirer
	Logger   *slog.Logger
	Observer Observer
	clock    func() time.Time
}

// NewSubscriptionsExpireJob initialises the expiry handler.
func NewSubscriptionsExpireJob(expirer Expirer, logger *slog.Logger, observer Observer) *SubscriptionsExpireJob {
	return &SubscriptionsExpireJob{
		Expirer:  expirer,
		Logger:   logger,
		Observer: observer,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Handle runs one expiry sweep.
func (j *SubscriptionsExpireJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Expirer == nil {
		return errors.New("subscriptions expire: handler not configured")
	}
	payload, err := decodeSchedule(t)
	if err != nil {
		return err
	}
	defer func() { observe(j.Observer, TaskSubscriptionsExpire, err) }()

	now := j.clock()
	if !payload.ScheduledFor.IsZero() && payload.ScheduledFor.Before(now) {
		now = payload.ScheduledFor.UTC()
	}
	n, err := j.Expirer.ExpireDue(ctx, now)
	if err != nil {
		logger(j.Logger).Error("subscription expiry failed", slog.Any("error", err))
		return err
	}
	logger(j.Logger).Info("subscription expiry done", slog.Int("expired", n), slog.Time("as_of", now))
	return nil
}

func observe(o Observer, task string, err error) {
	if o != nil {
		o.ObserveJob(task, err)
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
