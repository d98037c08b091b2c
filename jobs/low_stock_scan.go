package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/tillpoint/tillpoint/internal/inventory"
)

// StockSource lists items at or below their reorder level.
type StockSource interface {
	LowStock(ctx context.Context) ([]inventory.Item, error)
}

// LowStockScanJob logs a warning per item that needs reordering.
type LowStockScanJob struct {
	Source   StockSource
	Logger   *slog.Logger
	Observer Observer
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(source StockSource, logger *slog.Logger, observer Observer) *LowStockScanJob {
	return &LowStockScanJob{Source: source, Logger: logger, Observer: observer}
}

// Handle runs one scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Source == nil {
		return errors.New("low stock scan: handler not configured")
	}
	if _, err := decodeSchedule(t); err != nil {
		return err
	}
	defer func() { observe(j.Observer, TaskInventoryLowStockScan, err) }()

	items, err := j.Source.LowStock(ctx)
	if err != nil {
		logger(j.Logger).Error("low stock scan failed", slog.Any("error", err))
		return err
	}
	for _, it := range items {
		logger(j.Logger).Warn("item needs reorder",
			slog.String("sku", it.SKU),
			slog.String("name", it.Name),
			slog.Int("quantity", it.Quantity),
			slog.Int("reorder_level", it.ReorderLevel),
			slog.String("status", it.Status))
	}
	logger(j.Logger).Info("low stock scan done", slog.Int("items", len(items)))
	return nil
}
