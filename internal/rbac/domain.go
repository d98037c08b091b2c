package rbac

// Role is a named grant of permissions plus three independent capability flags.
type Role struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	Description         string   `json:"description" yaml:"description"`
	Permissions         []string `json:"permissions" yaml:"permissions"`
	CanAccessCheckin    bool     `json:"can_access_checkin" yaml:"can_access_checkin"`
	CanViewOwnDetails   bool     `json:"can_view_own_details" yaml:"can_view_own_details"`
	CanManageRestaurant bool     `json:"can_manage_restaurant" yaml:"can_manage_restaurant"`

	set map[string]struct{}
}

// Permission represents an atomic capability, keyed by a dot-namespaced string.
type Permission struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
}

// Capability names one of the role flags.
type Capability string

const (
	CapAccessCheckin    Capability = "access_checkin"
	CapViewOwnDetails   Capability = "view_own_details"
	CapManageRestaurant Capability = "manage_restaurant"
)

// Permission keys referenced by route registration.
const (
	PermStaffView   = "staff.view"
	PermStaffManage = "staff.manage"

	PermInventoryView   = "inventory.view"
	PermInventoryManage = "inventory.manage"

	PermCustomersView   = "customers.view"
	PermCustomersManage = "customers.manage"

	PermSuppliersView   = "suppliers.view"
	PermSuppliersManage = "suppliers.manage"

	PermPurchasesView    = "purchases.view"
	PermPurchasesManage  = "purchases.manage"
	PermPurchasesReceive = "purchases.receive"

	PermSalesView   = "sales.view"
	PermSalesManage = "sales.manage"

	PermPaymentMethodsView   = "payment_methods.view"
	PermPaymentMethodsManage = "payment_methods.manage"

	PermRestaurantView   = "restaurant.view"
	PermRestaurantManage = "restaurant.manage"

	PermCompaniesView   = "companies.view"
	PermCompaniesManage = "companies.manage"

	PermSubscriptionsView   = "subscriptions.view"
	PermSubscriptionsManage = "subscriptions.manage"

	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"

	PermRolesView = "roles.view"

	PermSystemMigrations = "system.migrations"
)
