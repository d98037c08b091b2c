package app

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint/tillpoint/internal/billing/paymentmethods"
	"github.com/tillpoint/tillpoint/internal/billing/subscriptions"
	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/inventory"
	"github.com/tillpoint/tillpoint/internal/masterdata/companies"
	"github.com/tillpoint/tillpoint/internal/masterdata/suppliers"
	"github.com/tillpoint/tillpoint/internal/procurement"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/restaurant"
	"github.com/tillpoint/tillpoint/internal/sales/customers"
	"github.com/tillpoint/tillpoint/internal/sales/orders"
	"github.com/tillpoint/tillpoint/internal/staff"
	"github.com/tillpoint/tillpoint/internal/users"
)

// CompanyStore persists companies and finds them by name.
type CompanyStore interface {
	crud.Repository[companies.Company]
	FindByName(ctx context.Context, name string) (companies.Company, error)
}

// Stores bundles the persistence behind every resource module.
type Stores struct {
	Suppliers      crud.Repository[suppliers.Supplier]
	Companies      CompanyStore
	Inventory      crud.Repository[inventory.Item]
	Customers      crud.Repository[customers.Customer]
	Sales          crud.Repository[orders.Sale]
	PurchaseOrders crud.Repository[procurement.PurchaseOrder]
	Receiving      procurement.Transactor
	Staff          staff.Store
	Users          users.Repository
	Subscriptions  subscriptions.Repository
	PaymentMethods crud.Repository[paymentmethods.PaymentMethod]
	Tables         crud.Repository[restaurant.Table]
}

// PostgresStores returns Stores backed by pool.
func PostgresStores(pool *pgxpool.Pool) Stores {
	purchaseOrders := procurement.NewRepository(pool)
	return Stores{
		Suppliers:      suppliers.NewRepository(pool),
		Companies:      companies.NewRepository(pool),
		Inventory:      inventory.NewRepository(pool),
		Customers:      customers.NewRepository(pool),
		Sales:          orders.NewRepository(pool),
		PurchaseOrders: purchaseOrders,
		Receiving:      purchaseOrders,
		Staff:          staff.NewRepository(pool),
		Users:          users.NewRepository(pool),
		Subscriptions:  subscriptions.NewRepository(pool),
		PaymentMethods: paymentmethods.NewRepository(pool),
		Tables:         restaurant.NewRepository(pool),
	}
}

// Mounter registers routes on a router.
type Mounter interface {
	MountRoutes(r chi.Router)
}

// Resource is a module mounted under /api.
type Resource struct {
	Path   string
	Module Mounter
}

// Modules holds every resource module.
type Modules struct {
	Suppliers      *suppliers.Module
	Companies      *companies.Module
	Inventory      *inventory.Module
	Customers      *customers.Module
	Sales          *orders.Module
	PurchaseOrders *procurement.Module
	Staff          *staff.Module
	Users          *users.Module
	Subscriptions  *subscriptions.Module
	PaymentMethods *paymentmethods.Module
	Tables         *restaurant.Module
}

// NewModules builds the resource modules over stores.
func NewModules(stores Stores, catalog *rbac.Catalog, deps crud.Deps) *Modules {
	return &Modules{
		Suppliers:      suppliers.New(stores.Suppliers, deps),
		Companies:      companies.New(stores.Companies, deps),
		Inventory:      inventory.New(stores.Inventory, deps),
		Customers:      customers.New(stores.Customers, deps),
		Sales:          orders.New(stores.Sales, deps),
		PurchaseOrders: procurement.New(stores.PurchaseOrders, stores.Receiving, deps),
		Staff:          staff.New(stores.Staff, catalog, deps),
		Users:          users.New(stores.Users, catalog, deps),
		Subscriptions:  subscriptions.New(stores.Subscriptions, deps),
		PaymentMethods: paymentmethods.New(stores.PaymentMethods, deps),
		Tables:         restaurant.New(stores.Tables, deps),
	}
}

// Resources lists the modules with their API paths.
func (m *Modules) Resources() []Resource {
	return []Resource{
		{Path: "/suppliers", Module: m.Suppliers},
		{Path: "/companies", Module: m.Companies},
		{Path: "/inventory", Module: m.Inventory},
		{Path: "/customers", Module: m.Customers},
		{Path: "/sales", Module: m.Sales},
		{Path: "/purchase-orders", Module: m.PurchaseOrders},
		{Path: "/staff", Module: m.Staff},
		{Path: "/users", Module: m.Users},
		{Path: "/subscriptions", Module: m.Subscriptions},
		{Path: "/payment-methods", Module: m.PaymentMethods},
		{Path: "/restaurant/tables", Module: m.Tables},
	}
}
