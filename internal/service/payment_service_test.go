package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleCurrentFlipsPaidOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")

	p, err := env.payments.ToggleCurrent(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-07", p.Month)
	assert.True(t, p.Paid)
	assert.False(t, p.Voided)
	assert.Equal(t, "2", p.Plan)
	assert.True(t, decimal.NewFromInt(20000).Equal(p.Amount.Decimal))

	p, err = env.payments.ToggleCurrent(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, p.Paid)
	assert.False(t, p.Voided)

	p, err = env.payments.ToggleCurrent(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, p.Paid)
	assert.False(t, p.Voided)

	all, err := env.store.Payments.ListByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestToggleKeepsVoided(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")

	p, err := env.payments.ToggleMonth(ctx, m.ID, "05-2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-05", p.Month)

	_, err = env.payments.Void(ctx, p.ID)
	require.NoError(t, err)

	p, err = env.payments.ToggleMonth(ctx, m.ID, "2024-05")
	require.NoError(t, err)
	assert.False(t, p.Paid)
	assert.True(t, p.Voided)
}

func TestToggleErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.payments.ToggleCurrent(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrMemberNotFound)

	m := env.member(t, "100", "Ana")
	_, err = env.payments.ToggleMonth(ctx, m.ID, "13-2024")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRecordPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")

	p, err := env.payments.Record(ctx, m.ID, "06-2024", "1", nil)
	require.NoError(t, err)
	assert.True(t, p.Paid)
	assert.Equal(t, "1", p.Plan)
	assert.True(t, decimal.NewFromInt(15000).Equal(p.Amount.Decimal))

	custom := decimal.RequireFromString("12500.50")
	p2, err := env.payments.Record(ctx, m.ID, "06-2024", "1", &custom)
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID)
	assert.Equal(t, "12500.5", p2.Amount.String())

	_, err = env.payments.Record(ctx, m.ID, "06-2024", "99", nil)
	assert.ErrorIs(t, err, ErrUnknownPlan)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestDeletePayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	p, err := env.payments.ToggleCurrent(ctx, m.ID)
	require.NoError(t, err)

	require.NoError(t, env.payments.Delete(ctx, p.ID))
	assert.ErrorIs(t, env.payments.Delete(ctx, p.ID), ErrPaymentNotFound)
	_, err = env.payments.Void(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestHistorySpansJoinToNow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.now = time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	m := env.member(t, "100", "Ana")
	_, err := env.payments.ToggleCurrent(ctx, m.ID)
	require.NoError(t, err)

	env.now = fixedNow
	history, err := env.payments.History(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "2024-04", history[0].Month)
	assert.Equal(t, "04-2024", history[0].Label)
	assert.True(t, history[0].Paid)
	require.NotNil(t, history[0].Payment)
	assert.Equal(t, "2024-07", history[3].Month)
	assert.False(t, history[3].Paid)
	assert.Nil(t, history[3].Payment)
}

func TestMonthlySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.member(t, "100", "Ana")
	bruno := env.member(t, "200", "Bruno")
	carla := env.member(t, "300", "Carla")

	_, err := env.payments.ToggleCurrent(ctx, ana.ID)
	require.NoError(t, err)
	_, err = env.payments.Record(ctx, bruno.ID, "", "1", nil)
	require.NoError(t, err)
	voided, err := env.payments.ToggleCurrent(ctx, carla.ID)
	require.NoError(t, err)
	_, err = env.payments.Void(ctx, voided.ID)
	require.NoError(t, err)

	summary, err := env.payments.MonthlySummary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-07", summary.Month)
	require.Len(t, summary.Entries, 2)
	assert.Equal(t, "Ana", summary.Entries[0].MemberName)
	assert.Equal(t, "Bruno", summary.Entries[1].MemberName)
	assert.True(t, decimal.NewFromInt(35000).Equal(summary.Total))
	require.Len(t, summary.ByPlan, 2)
	assert.Equal(t, "1", summary.ByPlan[0].Plan)
	assert.Equal(t, 1, summary.ByPlan[0].Count)

	other, err := env.payments.MonthlySummary(ctx, "2024-01")
	require.NoError(t, err)
	assert.Empty(t, other.Entries)
	assert.True(t, other.Total.IsZero())
}
