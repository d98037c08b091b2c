package customers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/sales/customers"
)

func TestOptionalEmailIsUniqueWhenPresent(t *testing.T) {
	m := customers.New(customers.NewMemoryRepository(), crud.Deps{})
	ctx := context.Background()

	a, err := m.Service.Create(ctx, customers.Input{Name: "Walk-in"}, "")
	require.NoError(t, err)
	assert.Nil(t, a.Email)
	_, err = m.Service.Create(ctx, customers.Input{Name: "Walk-in 2"}, "")
	require.NoError(t, err)

	b, err := m.Service.Create(ctx, customers.Input{Name: "Ada", Email: "Ada@Example.com"}, "")
	require.NoError(t, err)
	require.NotNil(t, b.Email)
	assert.Equal(t, "ada@example.com", *b.Email)

	_, err = m.Service.Create(ctx, customers.Input{Name: "Ada again", Email: "ada@example.com"}, "")
	assert.ErrorIs(t, err, httpx.ErrConflict)
}

func TestLoyaltyPointsCannotBeNegative(t *testing.T) {
	m := customers.New(customers.NewMemoryRepository(), crud.Deps{})
	_, err := m.Service.Create(context.Background(), customers.Input{Name: "Bob", LoyaltyPoints: -5}, "")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
