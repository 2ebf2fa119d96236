package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/routine"
)

func TestCreateMemberValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	age := -1

	cases := map[string]MemberInput{
		"missing dni":     {FullName: "Ana"},
		"missing name":    {DNI: "1"},
		"not gmail":       {DNI: "1", FullName: "Ana", Email: "ana@hotmail.com"},
		"bare suffix":     {DNI: "1", FullName: "Ana", Email: "@gmail.com"},
		"dni too long":    {DNI: strings.Repeat("1", domain.MaxDNILen+1), FullName: "Ana"},
		"negative age":    {DNI: "1", FullName: "Ana", Age: &age},
		"frequency width": {DNI: "1", FullName: "Ana", Intake: domain.MemberIntake{WeeklyFrequency: strings.Repeat("x", 51)}},
	}
	for name, in := range cases {
		_, err := env.members.CreateMember(ctx, in)
		assert.ErrorIs(t, err, ErrValidationFailed, name)
	}

	m, err := env.members.CreateMember(ctx, MemberInput{DNI: " 30111222 ", FullName: "  Ana   Pérez ", Email: "Ana@Gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, "30111222", m.DNI)
	assert.Equal(t, "Ana Pérez", m.FullName)
	assert.Equal(t, "ana@gmail.com", m.Email)
	assert.Equal(t, fixedNow, m.JoinedAt)

	_, err = env.members.CreateMember(ctx, MemberInput{DNI: "30111222", FullName: "Otra"})
	assert.ErrorIs(t, err, ErrDNITaken)
}

func TestListMembersFlagsPaidThisMonth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.member(t, "100", "Ana")
	env.member(t, "200", "Bruno")

	_, err := env.payments.ToggleCurrent(ctx, ana.ID)
	require.NoError(t, err)

	list, err := env.members.ListMembers(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].PaidThisMonth)
	assert.False(t, list[1].PaidThisMonth)

	list, err = env.members.ListMembers(ctx, "bru")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bruno", list[0].FullName)
}

func TestUpdateMemberAndIntake(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	env.member(t, "200", "Bruno")

	updated, err := env.members.UpdateMember(ctx, m.ID, MemberInput{DNI: "100", FullName: "Ana María", Phone: "351"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.FullName)

	_, err = env.members.UpdateMember(ctx, m.ID, MemberInput{DNI: "200", FullName: "Ana"})
	assert.ErrorIs(t, err, ErrDNITaken)

	withIntake, err := env.members.UpdateIntake(ctx, m.ID, domain.MemberIntake{Goals: " Correr 10k ", WeeklyFrequency: "3 veces"})
	require.NoError(t, err)
	assert.Equal(t, "Correr 10k", withIntake.Goals)
	assert.Equal(t, "Ana María", withIntake.FullName)

	got, err := env.members.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 veces", got.WeeklyFrequency)
	assert.Equal(t, "351", got.Phone)
}

func TestDeleteMemberCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	other := env.member(t, "200", "Bruno")

	v, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)
	_, err = env.routines.SaveEdit(ctx, v.ID, routine.Submission{Rows: []routine.RawRow{{Category: "Espalda"}}})
	require.NoError(t, err)
	_, err = env.payments.ToggleCurrent(ctx, m.ID)
	require.NoError(t, err)
	_, err = env.routines.CreateFromKind(ctx, other.ID, "hipertrofia")
	require.NoError(t, err)

	require.NoError(t, env.members.DeleteMember(ctx, m.ID))

	_, err = env.members.GetMember(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Zero(t, env.versionCount(t, m.ID))
	payments, err := env.store.Payments.ListByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Equal(t, 1, env.versionCount(t, other.ID))

	assert.ErrorIs(t, env.members.DeleteMember(ctx, m.ID), ErrMemberNotFound)
}
