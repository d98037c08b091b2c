package rbac

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalogT(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestHasPermissionMatchesDeclaredSet(t *testing.T) {
	c := defaultCatalogT(t)
	roles := c.Roles()
	require.NotEmpty(t, roles)
	for _, role := range roles {
		for _, perm := range c.Permissions() {
			want := slices.Contains(role.Permissions, perm.Key)
			assert.Equal(t, want, c.HasPermission(role.ID, perm.Key), "%s/%s", role.ID, perm.Key)
		}
		assert.False(t, c.HasPermission(role.ID, "no.such_permission"))
	}
	assert.False(t, c.HasPermission("ghost", PermStaffView))
}

func TestFlagsDefaultToFalseForUnknownRoles(t *testing.T) {
	c := defaultCatalogT(t)
	assert.False(t, c.CanAccessCheckin("ghost"))
	assert.False(t, c.CanViewOwnDetails("ghost"))
	assert.False(t, c.CanManageRestaurant("ghost"))
	assert.False(t, c.Has("ghost", CapManageRestaurant))
	assert.False(t, c.Has("owner", Capability("fly")))

	var nilCatalog *Catalog
	assert.False(t, nilCatalog.HasPermission("owner", PermStaffView))
	assert.Nil(t, nilCatalog.Roles())
}

func TestBuiltInRoleFlags(t *testing.T) {
	c := defaultCatalogT(t)
	assert.True(t, c.CanAccessCheckin("cashier"))
	assert.False(t, c.CanManageRestaurant("cashier"))
	assert.True(t, c.CanManageRestaurant("owner"))
	assert.False(t, c.CanAccessCheckin("owner"))
	assert.True(t, c.HasPermission("software_provider", PermSystemMigrations))
	assert.False(t, c.HasPermission("owner", PermSystemMigrations))
	assert.True(t, c.IsRole("user"))
}

func TestRoleReturnsDetachedCopy(t *testing.T) {
	c := defaultCatalogT(t)
	role, ok := c.Role("cashier")
	require.True(t, ok)
	role.Permissions[0] = "system.migrations"

	again, _ := c.Role("cashier")
	assert.NotEqual(t, "system.migrations", again.Permissions[0])
	assert.False(t, c.HasPermission("cashier", PermSystemMigrations))
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"unknown permission": `
permissions: [{key: a.view}]
roles: [{id: r, permissions: [a.edit]}]`,
		"duplicate role": `
permissions: [{key: a.view}]
roles: [{id: r}, {id: r}]`,
		"duplicate permission": `
permissions: [{key: a.view}, {key: a.view}]`,
		"bad key": `
permissions: [{key: NoDot}]`,
		"missing id": `
roles: [{name: nameless}]`,
		"not yaml": `roles: [`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileOverridesCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
permissions:
  - {key: tables.view, label: Tables}
roles:
  - {id: host, name: Host, permissions: [tables.view], can_manage_restaurant: true}
`), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, c.HasPermission("host", "tables.view"))
	assert.True(t, c.CanManageRestaurant("host"))
	assert.Len(t, c.Roles(), 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
