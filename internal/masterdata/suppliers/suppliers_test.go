package suppliers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/masterdata/suppliers"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

func TestCreateNormalizesAndDefaultsStatus(t *testing.T) {
	m := suppliers.New(suppliers.NewMemoryRepository(), crud.Deps{})
	ctx := context.Background()

	sup, err := m.Service.Create(ctx, suppliers.Input{Code: " sup-01 ", Name: "Fresh Farms", Email: "Orders@Fresh.Example"}, "")
	require.NoError(t, err)
	assert.Equal(t, "SUP-01", sup.Code)
	assert.Equal(t, "orders@fresh.example", sup.Email)
	assert.Equal(t, suppliers.StatusActive, sup.Status)

	_, err = m.Service.Create(ctx, suppliers.Input{Code: "SUP-01", Name: "Copycat"}, "")
	assert.ErrorIs(t, err, httpx.ErrConflict)
}

func TestInputRejectsBadFields(t *testing.T) {
	m := suppliers.New(suppliers.NewMemoryRepository(), crud.Deps{})
	_, err := m.Service.Create(context.Background(), suppliers.Input{Code: "X", Name: "Y", Email: "nope", Status: "gone"}, "")
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "status")
}

func TestListFiltersByStatusAndSearch(t *testing.T) {
	m := suppliers.New(suppliers.NewMemoryRepository(), crud.Deps{})
	ctx := context.Background()
	for _, in := range []suppliers.Input{
		{Code: "A1", Name: "Alpha Dairy"},
		{Code: "B1", Name: "Beta Bakery", Status: suppliers.StatusInactive},
		{Code: "C1", Name: "Gamma Dairy"},
	} {
		_, err := m.Service.Create(ctx, in, "")
		require.NoError(t, err)
	}

	page, err := m.Service.List(ctx, httpx.ListFilters{Page: 1, Limit: 10, Search: "dairy"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = m.Service.List(ctx, httpx.ListFilters{Page: 1, Limit: 10, Status: suppliers.StatusInactive})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "B1", page.Items[0].Code)
}
