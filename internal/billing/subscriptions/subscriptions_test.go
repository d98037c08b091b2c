package subscriptions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/billing/subscriptions"
	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

func ptr(t time.Time) *time.Time { return &t }

func TestInputRejectsInvertedPeriod(t *testing.T) {
	m := subscriptions.New(subscriptions.NewMemoryRepository(), crud.Deps{})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := m.Service.Create(context.Background(), subscriptions.Input{
		CompanyID: 1, Plan: subscriptions.PlanPro, StartsAt: start, EndsAt: ptr(start.Add(-time.Hour)),
	}, "")
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ends_at")
}

func TestExpireDue(t *testing.T) {
	m := subscriptions.New(subscriptions.NewMemoryRepository(), crud.Deps{})
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.AddDate(0, -2, 0)

	lapsed, err := m.Service.Create(ctx, subscriptions.Input{CompanyID: 1, Plan: subscriptions.PlanBasic, Amount: 19.999, StartsAt: start, EndsAt: ptr(now.Add(-time.Minute))}, "")
	require.NoError(t, err)
	assert.InDelta(t, 20.00, lapsed.Amount, 0.0001)
	trial, err := m.Service.Create(ctx, subscriptions.Input{CompanyID: 2, Plan: subscriptions.PlanPro, Status: subscriptions.StatusTrial, StartsAt: start, EndsAt: ptr(now.AddDate(0, 0, -3))}, "")
	require.NoError(t, err)
	current, err := m.Service.Create(ctx, subscriptions.Input{CompanyID: 3, Plan: subscriptions.PlanPro, StartsAt: start, EndsAt: ptr(now.AddDate(0, 1, 0))}, "")
	require.NoError(t, err)
	cancelled, err := m.Service.Create(ctx, subscriptions.Input{CompanyID: 4, Plan: subscriptions.PlanBasic, Status: subscriptions.StatusCancelled, StartsAt: start, EndsAt: ptr(now.AddDate(0, 0, -1))}, "")
	require.NoError(t, err)
	_, err = m.Service.Create(ctx, subscriptions.Input{CompanyID: 5, Plan: subscriptions.PlanEnterprise, StartsAt: start}, "")
	require.NoError(t, err)

	n, err := m.ExpireDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for id, want := range map[int64]string{
		lapsed.ID:    subscriptions.StatusExpired,
		trial.ID:     subscriptions.StatusExpired,
		current.ID:   subscriptions.StatusActive,
		cancelled.ID: subscriptions.StatusCancelled,
	} {
		got, err := m.Service.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, "subscription %d", id)
	}

	n, err = m.ExpireDue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
