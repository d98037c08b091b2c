package procurement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/inventory"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Service is the purchase order CRUD service.
type Service = crud.Service[PurchaseOrder, Input]

// Module owns purchase orders and the receive workflow.
type Module struct {
	Service *Service
	tx      Transactor
	cache   crud.StatsCache
	logger  *slog.Logger
	handler *crud.Handler[PurchaseOrder, Input]
	deps    crud.Deps
	now     func() time.Time
}

// New builds the module. tx may be nil when receiving is not needed.
func New(repo crud.Repository[PurchaseOrder], tx Transactor, deps crud.Deps) *Module {
	m := &Module{tx: tx, cache: deps.Cache, logger: deps.Logger, deps: deps, now: time.Now}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	opts := crud.OptionsFor[PurchaseOrder](deps, "purchase_orders")
	opts.BeforeWrite = m.beforeWrite
	m.Service = crud.NewService[PurchaseOrder, Input](repo, opts)
	m.handler = newHandler(m)
	return m
}

func (m *Module) beforeWrite(_ context.Context, po PurchaseOrder, existing *PurchaseOrder) (PurchaseOrder, error) {
	if existing == nil {
		po.Number = shared.NewReference("PO", m.now())
		return po, nil
	}
	if existing.Status == StatusReceived {
		return po, fmt.Errorf("%w: purchase order %s was already received", httpx.ErrConflict, existing.Number)
	}
	po.Number = existing.Number
	return po, nil
}

// Receive marks the order received and adds every line to inventory in one
// transaction. Received and cancelled orders are rejected.
func (m *Module) Receive(ctx context.Context, id int64) (PurchaseOrder, error) {
	if m.tx == nil {
		return PurchaseOrder{}, fmt.Errorf("procurement: receiving is not configured")
	}
	var out PurchaseOrder
	err := m.tx.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		po, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch po.Status {
		case StatusReceived, StatusCancelled:
			return fmt.Errorf("%w: purchase order %s is %s", httpx.ErrConflict, po.Number, po.Status)
		}
		for _, line := range po.Items {
			if err := tx.Restock(ctx, line.InventoryItemID, line.Quantity); err != nil {
				return err
			}
		}
		out, err = tx.MarkReceived(ctx, id)
		return err
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	m.Service.Record(ctx, "receive", id, map[string]any{"lines": len(out.Items), "total": out.Total})
	m.Service.Invalidate(ctx)
	if m.cache != nil {
		if err := m.cache.Bump(ctx, crud.StatsNamespace(inventory.Namespace)); err != nil {
			m.logger.Warn("invalidate inventory stats", slog.Any("error", err))
		}
	}
	return out, nil
}
