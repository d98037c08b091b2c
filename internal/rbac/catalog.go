package rbac

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the immutable role and permission table. It is built once at
// startup and safe for concurrent use.
type Catalog struct {
	roles       map[string]Role
	roleOrder   []string
	permissions map[string]Permission
	permOrder   []string
}

type catalogFile struct {
	Permissions []Permission `yaml:"permissions"`
	Roles       []Role       `yaml:"roles"`
}

// Default loads the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rbac: read catalog: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML catalog.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("rbac: parse catalog: %w", err)
	}

	c := &Catalog{
		roles:       make(map[string]Role, len(file.Roles)),
		permissions: make(map[string]Permission, len(file.Permissions)),
	}
	for _, p := range file.Permissions {
		key := strings.TrimSpace(p.Key)
		if key == "" || key != strings.ToLower(key) || !strings.Contains(key, ".") {
			return nil, fmt.Errorf("rbac: invalid permission key %q", p.Key)
		}
		if _, dup := c.permissions[key]; dup {
			return nil, fmt.Errorf("rbac: duplicate permission %q", key)
		}
		p.Key = key
		c.permissions[key] = p
		c.permOrder = append(c.permOrder, key)
	}
	for _, r := range file.Roles {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, fmt.Errorf("rbac: role without id")
		}
		if _, dup := c.roles[id]; dup {
			return nil, fmt.Errorf("rbac: duplicate role %q", id)
		}
		r.ID = id
		r.set = make(map[string]struct{}, len(r.Permissions))
		for _, key := range r.Permissions {
			if _, ok := c.permissions[key]; !ok {
				return nil, fmt.Errorf("rbac: role %q grants unknown permission %q", id, key)
			}
			r.set[key] = struct{}{}
		}
		c.roles[id] = r
		c.roleOrder = append(c.roleOrder, id)
	}
	return c, nil
}

// Role returns the role with id.
func (c *Catalog) Role(id string) (Role, bool) {
	if c == nil {
		return Role{}, false
	}
	r, ok := c.roles[id]
	if !ok {
		return Role{}, false
	}
	r.Permissions = append([]string(nil), r.Permissions...)
	return r, true
}

// HasPermission reports whether the role exists and grants key.
func (c *Catalog) HasPermission(roleID, key string) bool {
	if c == nil {
		return false
	}
	r, ok := c.roles[roleID]
	if !ok {
		return false
	}
	_, granted := r.set[key]
	return granted
}

// CanAccessCheckin reads the check-in flag; false for unknown roles.
func (c *Catalog) CanAccessCheckin(roleID string) bool {
	r, ok := c.Role(roleID)
	return ok && r.CanAccessCheckin
}

// CanViewOwnDetails reads the own-details flag; false for unknown roles.
func (c *Catalog) CanViewOwnDetails(roleID string) bool {
	r, ok := c.Role(roleID)
	return ok && r.CanViewOwnDetails
}

// CanManageRestaurant reads the restaurant flag; false for unknown roles.
func (c *Catalog) CanManageRestaurant(roleID string) bool {
	r, ok := c.Role(roleID)
	return ok && r.CanManageRestaurant
}

// Has evaluates a capability flag by name.
func (c *Catalog) Has(roleID string, capability Capability) bool {
	switch capability {
	case CapAccessCheckin:
		return c.CanAccessCheckin(roleID)
	case CapViewOwnDetails:
		return c.CanViewOwnDetails(roleID)
	case CapManageRestaurant:
		return c.CanManageRestaurant(roleID)
	default:
		return false
	}
}

// Roles lists every role in declaration order.
func (c *Catalog) Roles() []Role {
	if c == nil {
		return nil
	}
	out := make([]Role, 0, len(c.roleOrder))
	for _, id := range c.roleOrder {
		r, _ := c.Role(id)
		out = append(out, r)
	}
	return out
}

// Permissions lists every permission in declaration order.
func (c *Catalog) Permissions() []Permission {
	if c == nil {
		return nil
	}
	out := make([]Permission, 0, len(c.permOrder))
	for _, key := range c.permOrder {
		out = append(out, c.permissions[key])
	}
	return out
}

// IsRole reports whether id names a catalog role.
func (c *Catalog) IsRole(id string) bool {
	_, ok := c.Role(id)
	return ok
}
