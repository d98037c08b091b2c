package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tillpoint/tillpoint/internal/masterdata/companies"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/session"
)

// Bootstrap describes the administrative account created on first start.
type Bootstrap struct {
	Name     string
	Email    string
	Password string
	Company  string
}

// Enabled reports whether an account is configured at all.
func (b Bootstrap) Enabled() bool {
	return strings.TrimSpace(b.Email) != ""
}

// CompanyStore is the company persistence the seeder needs.
type CompanyStore interface {
	FindByName(ctx context.Context, name string) (companies.Company, error)
	Create(ctx context.Context, c companies.Company) (companies.Company, error)
}

// Seeder creates the bootstrap owner and its company when missing.
type Seeder struct {
	users     Repository
	companies CompanyStore
	logger    *slog.Logger
	cost      int
}

// NewSeeder constructs a Seeder.
func NewSeeder(users Repository, companies CompanyStore, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{users: users, companies: companies, logger: logger, cost: bcrypt.DefaultCost}
}

// Seed creates the owner described by b. It reports whether anything was
// created; an existing owner with that email makes it a no-op.
func (s *Seeder) Seed(ctx context.Context, b Bootstrap) (bool, error) {
	if !b.Enabled() {
		return false, nil
	}
	if b.Password == "" || strings.TrimSpace(b.Company) == "" {
		return false, errors.New("bootstrap account needs a password and a company")
	}
	email := session.NormalizeEmail(b.Email)
	_, err := s.users.FindByEmail(ctx, session.KindOwner, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return false, fmt.Errorf("find bootstrap owner: %w", err)
	}

	company, err := s.ensureCompany(ctx, strings.TrimSpace(b.Company))
	if err != nil {
		return false, err
	}
	hash, err := HashPassword(b.Password, s.cost)
	if err != nil {
		return false, err
	}
	name := strings.TrimSpace(b.Name)
	if name == "" {
		name = email
	}
	_, err = s.users.Create(ctx, User{
		Name:         name,
		Email:        email,
		Kind:         session.KindOwner,
		Role:         session.RoleOwner,
		CompanyID:    &company.ID,
		PasswordHash: hash,
		Status:       StatusActive,
	})
	if err != nil {
		return false, fmt.Errorf("create bootstrap owner: %w", err)
	}
	s.logger.Info("bootstrap owner created", slog.String("email", email), slog.String("company", company.Name))
	return true, nil
}

func (s *Seeder) ensureCompany(ctx context.Context, name string) (companies.Company, error) {
	c, err := s.companies.FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return companies.Company{}, fmt.Errorf("find bootstrap company: %w", err)
	}
	c, err = s.companies.Create(ctx, companies.Company{Name: name, Status: companies.StatusActive})
	if err != nil {
		return companies.Company{}, fmt.Errorf("create bootstrap company: %w", err)
	}
	return c, nil
}
