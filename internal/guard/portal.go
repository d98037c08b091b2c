package guard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
)

// Section is a navigation entry shown when the principal holds Permission.
type Section struct {
	Name       string `json:"name"`
	Href       string `json:"href"`
	Permission string `json:"-"`
}

var sections = []Section{
	{"Inventory", "/api/inventory", rbac.PermInventoryView},
	{"Sales", "/api/sales", rbac.PermSalesView},
	{"Customers", "/api/customers", rbac.PermCustomersView},
	{"Suppliers", "/api/suppliers", rbac.PermSuppliersView},
	{"Purchase orders", "/api/purchase-orders", rbac.PermPurchasesView},
	{"Staff", "/api/staff", rbac.PermStaffView},
	{"Restaurant", "/api/restaurant/tables", rbac.PermRestaurantView},
	{"Payment methods", "/api/payment-methods", rbac.PermPaymentMethodsView},
	{"Companies", "/api/companies", rbac.PermCompaniesView},
	{"Subscriptions", "/api/subscriptions", rbac.PermSubscriptionsView},
	{"Users", "/api/users", rbac.PermUsersView},
	{"Roles", "/api/roles", rbac.PermRolesView},
	{"Migrations", "/api/admin/migrations", rbac.PermSystemMigrations},
}

// Page describes a portal page for the client to render.
type Page struct {
	Path         string          `json:"path"`
	Title        string          `json:"title"`
	Principal    *session.View   `json:"principal,omitempty"`
	Sections     []Section       `json:"sections"`
	Capabilities map[string]bool `json:"capabilities,omitempty"`
}

// Portal serves the guarded landing pages.
type Portal struct {
	logger  *slog.Logger
	catalog *rbac.Catalog
}

// NewPortal builds a Portal.
func NewPortal(logger *slog.Logger, catalog *rbac.Catalog) *Portal {
	return &Portal{logger: logger, catalog: catalog}
}

// MountRoutes registers the login page and one landing page per kind.
func (p *Portal) MountRoutes(r chi.Router) {
	r.Get(LoginPath, p.login)
	r.With(Pages(session.KindOwner)).Get("/owner", p.page("Owner portal"))
	r.With(Pages(session.KindProvider)).Get("/provider", p.page("Provider console"))
	r.With(Pages(session.KindStaff)).Get("/checkin", p.page("Staff check-in"))
	r.With(Pages(session.KindRegular, session.KindStaff, session.KindOwner)).Get("/dashboard", p.page("Dashboard"))
}

func (p *Portal) login(w http.ResponseWriter, r *http.Request) {
	if cur := session.CurrentPrincipal(r.Context()); cur != nil {
		http.Redirect(w, r, Landing(cur.Kind()), http.StatusSeeOther)
		return
	}
	httpx.OK(w, Page{Path: LoginPath, Title: "Sign in", Sections: []Section{}})
}

func (p *Portal) page(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur := session.CurrentPrincipal(r.Context())
		view := session.Describe(cur)
		role := cur.AuthKey()
		page := Page{
			Path:      r.URL.Path,
			Title:     title,
			Principal: &view,
			Sections:  make([]Section, 0, len(sections)),
			Capabilities: map[string]bool{
				string(rbac.CapAccessCheckin):    p.catalog.CanAccessCheckin(role),
				string(rbac.CapViewOwnDetails):   p.catalog.CanViewOwnDetails(role),
				string(rbac.CapManageRestaurant): p.catalog.CanManageRestaurant(role),
			},
		}
		for _, s := range sections {
			if p.catalog.HasPermission(role, s.Permission) {
				page.Sections = append(page.Sections, s)
			}
		}
		httpx.OK(w, page)
	}
}
