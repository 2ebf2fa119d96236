package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateExercise(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ex, err := env.exercise.CreateExercise(ctx, "  Sentadilla  ")
	require.NoError(t, err)
	assert.Equal(t, "Sentadilla", ex.Name)

	_, err = env.exercise.CreateExercise(ctx, "Sentadilla")
	assert.ErrorIs(t, err, ErrExerciseExists)

	_, err = env.exercise.CreateExercise(ctx, "   ")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.exercise.CreateExercise(ctx, strings.Repeat("x", 201))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestListAndGetExercises(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.exerciseID(t, "Remo")
	press := env.exerciseID(t, "Press banca")
	env.exerciseID(t, "Dominadas")

	list, err := env.exercise.ListExercises(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Dominadas", "Press banca", "Remo"},
		[]string{list[0].Name, list[1].Name, list[2].Name})

	got, err := env.exercise.GetExerciseByID(ctx, press)
	require.NoError(t, err)
	assert.Equal(t, "Press banca", got.Name)

	_, err = env.exercise.GetExerciseByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
