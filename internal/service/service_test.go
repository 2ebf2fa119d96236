package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository/memory"
)

// fixedNow is a Wednesday in the middle of a month.
var fixedNow = time.Date(2024, 7, 17, 15, 30, 0, 0, time.UTC)

type testEnv struct {
	store    *memory.Store
	now      time.Time
	members  MemberService
	payments PaymentService
	routines RoutineService
	exercise ExerciseService
	clients  ClientService
	auth     AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{store: memory.NewStore(), now: fixedNow}
	clock := func() time.Time { return env.now }
	plans := map[string]decimal.Decimal{
		"1": decimal.NewFromInt(15000),
		"2": decimal.NewFromInt(20000),
	}
	// Tokens are checked against the wall clock by the JWT library.
	tokens := NewTokenIssuer("test-secret", time.Hour, nil)

	s := env.store
	env.members = NewMemberService(s.Members, s.Payments, s.Routines, time.UTC, clock)
	env.payments = NewPaymentService(s.Payments, s.Members, plans, "2", time.UTC, clock)
	env.routines = NewRoutineService(s.Routines, s.Members, s.Exercises, clock)
	env.exercise = NewExerciseService(s.Exercises, s.Routines)
	env.clients = NewClientService(s.Members, s.Routines, s.Exercises, tokens)
	env.auth = NewAuthService(s.Operators, tokens)
	return env
}

func (e *testEnv) member(t *testing.T, dni, name string) *domain.Member {
	t.Helper()
	m, err := e.members.CreateMember(context.Background(), MemberInput{DNI: dni, FullName: name})
	require.NoError(t, err)
	return m
}

func (e *testEnv) exerciseID(t *testing.T, name string) primitive.ObjectID {
	t.Helper()
	ex, err := e.exercise.CreateExercise(context.Background(), name)
	require.NoError(t, err)
	return ex.ID
}

func (e *testEnv) versionCount(t *testing.T, memberID primitive.ObjectID) int {
	t.Helper()
	versions, err := e.store.Routines.ListByMember(context.Background(), memberID)
	require.NoError(t, err)
	return len(versions)
}
