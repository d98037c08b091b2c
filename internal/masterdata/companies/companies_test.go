package companies_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/masterdata/companies"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

func TestCompanyLifecycle(t *testing.T) {
	m := companies.New(companies.NewMemoryRepository(), crud.Deps{})
	ctx := context.Background()

	c, err := m.Service.Create(ctx, companies.Input{Name: "Bistro Uno"}, "")
	require.NoError(t, err)
	assert.Equal(t, companies.StatusActive, c.Status)

	_, err = m.Service.Create(ctx, companies.Input{Name: "bistro uno"}, "")
	assert.ErrorIs(t, err, httpx.ErrConflict)

	c, err = m.Service.Update(ctx, c.ID, companies.Input{Name: "Bistro Uno", Status: companies.StatusSuspended})
	require.NoError(t, err)
	assert.Equal(t, companies.StatusSuspended, c.Status)

	stats, err := m.Service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByStatus[companies.StatusSuspended])
}
