package session

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoAccount reports that a directory has no account for the email and kind.
var ErrNoAccount = errors.New("session: no such account")

// Account is a directory entry a principal can be built from.
type Account struct {
	Kind      Kind
	ID        string
	Name      string
	Email     string
	Role      string
	CompanyID string
	// PasswordHash is a bcrypt hash. Empty means the account accepts any
	// password, which only the demo roster relies on.
	PasswordHash string
	Disabled     bool
}

// Principal builds the principal variant matching the account kind.
func (a Account) Principal() Principal {
	switch a.Kind {
	case KindStaff:
		return StaffMember{ID: a.ID, Name: a.Name, Email: a.Email, RoleID: a.Role}
	case KindOwner:
		return Owner{ID: a.ID, Name: a.Name, Email: a.Email, CompanyID: a.CompanyID}
	case KindProvider:
		return SoftwareProvider{ID: a.ID, Name: a.Name, Email: a.Email}
	default:
		return RegularUser{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
	}
}

// Directory resolves login emails to accounts of one kind.
type Directory interface {
	Lookup(ctx context.Context, kind Kind, email string) (*Account, error)
}

// NormalizeEmail is the comparison form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

//go:embed roster.yaml
var demoRoster []byte

type rosterEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	CompanyID string `yaml:"company_id"`
}

// StaticDirectory is an immutable in-memory directory.
type StaticDirectory struct {
	accounts map[Kind]map[string]Account
}

// DemoDirectory returns the directory of built-in demo accounts.
func DemoDirectory() (*StaticDirectory, error) {
	return NewStaticDirectory(demoRoster)
}

// NewStaticDirectory parses a roster keyed by kind.
func NewStaticDirectory(data []byte) (*StaticDirectory, error) {
	var raw map[string][]rosterEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("session: parse roster: %w", err)
	}
	d := &StaticDirectory{accounts: make(map[Kind]map[string]Account, len(Priority))}
	for rawKind, entries := range raw {
		kind, err := ParseKind(rawKind)
		if err != nil {
			return nil, err
		}
		bucket := make(map[string]Account, len(entries))
		for _, e := range entries {
			email := NormalizeEmail(e.Email)
			if email == "" || e.ID == "" {
				return nil, fmt.Errorf("session: %s roster entry needs id and email", kind)
			}
			if kind == KindStaff && e.Role == "" {
				return nil, fmt.Errorf("session: staff %s has no role", email)
			}
			if _, dup := bucket[email]; dup {
				return nil, fmt.Errorf("session: duplicate %s email %s", kind, email)
			}
			bucket[email] = Account{
				Kind:      kind,
				ID:        e.ID,
				Name:      e.Name,
				Email:     email,
				Role:      e.Role,
				CompanyID: e.CompanyID,
			}
		}
		d.accounts[kind] = bucket
	}
	return d, nil
}

// Lookup implements Directory.
func (d *StaticDirectory) Lookup(_ context.Context, kind Kind, email string) (*Account, error) {
	if d == nil {
		return nil, ErrNoAccount
	}
	acc, ok := d.accounts[kind][NormalizeEmail(email)]
	if !ok {
		return nil, ErrNoAccount
	}
	return &acc, nil
}

// Chain consults directories in order; the first one that knows the email wins.
type Chain []Directory

// Lookup implements Directory.
func (c Chain) Lookup(ctx context.Context, kind Kind, email string) (*Account, error) {
	for _, dir := range c {
		if dir == nil {
			continue
		}
		acc, err := dir.Lookup(ctx, kind, email)
		if errors.Is(err, ErrNoAccount) {
			continue
		}
		return acc, err
	}
	return nil, ErrNoAccount
}
