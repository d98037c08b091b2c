package paymentmethods

import (
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

var table = db.Table[PaymentMethod]{
	Name:        "payment_methods",
	Columns:     []string{"name", "type", "status"},
	Search:      []string{"name", "type"},
	Sorts:       map[string]string{"name": "name", "type": "type", "created_at": "created_at"},
	DefaultSort: "name",
	Scan: func(row db.Scanner) (PaymentMethod, error) {
		var p PaymentMethod
		err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	},
	Values: func(p PaymentMethod) []any {
		return []any{p.Name, p.Type, p.Status}
	},
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *crud.PgRepository[PaymentMethod] {
	return crud.NewPgRepository(conn, table)
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[PaymentMethod] {
	return crud.NewMemoryRepository(crud.MemoryOptions[PaymentMethod]{
		Stamp: func(p PaymentMethod, id int64, created, now time.Time) PaymentMethod {
			p.ID, p.CreatedAt, p.UpdatedAt = id, created, now
			return p
		},
		Status: func(p PaymentMethod) string { return p.Status },
		Match: func(p PaymentMethod, q string) bool {
			return strings.Contains(strings.ToLower(p.Name), strings.ToLower(q))
		},
		Unique: func(p PaymentMethod) string { return strings.ToLower(p.Name) },
	})
}

// Service is the payment method CRUD service.
type Service = crud.Service[PaymentMethod, Input]

// Module wires payment method endpoints.
type Module struct {
	Service *Service
	handler *crud.Handler[PaymentMethod, Input]
}

// New builds the module over repo.
func New(repo crud.Repository[PaymentMethod], deps crud.Deps) *Module {
	svc := crud.NewService[PaymentMethod, Input](repo, crud.OptionsFor[PaymentMethod](deps, "payment_methods"))
	return &Module{
		Service: svc,
		handler: crud.NewHandler(deps.Logger, svc, deps.RBAC, crud.Permissions{View: rbac.PermPaymentMethodsView, Manage: rbac.PermPaymentMethodsManage}),
	}
}

// MountRoutes registers payment method routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
