package paymentmethods_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/billing/paymentmethods"
	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

func TestPaymentMethods(t *testing.T) {
	m := paymentmethods.New(paymentmethods.NewMemoryRepository(), crud.Deps{})
	ctx := context.Background()

	cash, err := m.Service.Create(ctx, paymentmethods.Input{Name: " Cash ", Type: paymentmethods.TypeCash}, "")
	require.NoError(t, err)
	assert.Equal(t, "Cash", cash.Name)
	assert.Equal(t, paymentmethods.StatusActive, cash.Status)

	_, err = m.Service.Create(ctx, paymentmethods.Input{Name: "cash", Type: paymentmethods.TypeCard}, "")
	assert.ErrorIs(t, err, httpx.ErrConflict)

	_, err = m.Service.Create(ctx, paymentmethods.Input{Name: "Cheque", Type: "cheque"}, "")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = m.Service.Update(ctx, cash.ID, paymentmethods.Input{Name: "Cash", Type: paymentmethods.TypeCash, Status: paymentmethods.StatusInactive})
	require.NoError(t, err)
	stats, err := m.Service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[paymentmethods.StatusInactive])
}
