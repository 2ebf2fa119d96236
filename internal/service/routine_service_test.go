package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/routine"
)

func strPtr(s string) *string { return &s }

func TestViewOrCreateFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")

	versions, err := env.routines.ViewOrCreateFirst(ctx, m.ID, "")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, DefaultFirstKind, versions[0].Kind)
	assert.Equal(t, domain.DefaultWeek, versions[0].Week)
	assert.Empty(t, versions[0].Rows)

	again, err := env.routines.ViewOrCreateFirst(ctx, m.ID, domain.KindConditioning)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, versions[0].ID, again[0].ID)

	_, err = env.routines.ViewOrCreateFirst(ctx, primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestDuplicateCopiesRowsWeekAndComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	bench := env.exerciseID(t, "Press banca")

	first, err := env.routines.CreateFromKind(ctx, m.ID, "Hipertrofia")
	require.NoError(t, err)

	saved, err := env.routines.SaveEdit(ctx, first.ID, routine.Submission{
		Week:    "4",
		Comment: strPtr("Subir carga la semana próxima"),
		Rows: []routine.RawRow{
			{Category: "Movilidad", Reps: "10", WarmUp: true},
			{Category: "Trote", Rest: "5 min", WarmUp: true},
			{Category: "Pectorales", ExerciseID: bench.Hex(), Series: "3", Reps: "8-10", Weight: "40"},
			{Category: "Espalda", Series: "4", Reps: "12"},
			{Category: "Piernas", Series: "3", Reps: "15", Notes: "RIR 2"},
		},
	})
	require.NoError(t, err)

	env.now = env.now.Add(time.Hour)
	dup, err := env.routines.Duplicate(ctx, m.ID, "")
	require.NoError(t, err)

	assert.NotEqual(t, saved.ID, dup.ID)
	assert.Equal(t, saved.Kind, dup.Kind)
	assert.Equal(t, 4, dup.Week)
	assert.Equal(t, "Subir carga la semana próxima", dup.CommentText())
	require.Len(t, dup.Rows, 5)
	assert.Len(t, dup.WarmUpRows(), 2)
	assert.Len(t, dup.MainRows(), 3)
	for i := range dup.Rows {
		orig, cp := saved.Rows[i], dup.Rows[i]
		assert.NotEqual(t, orig.ID, cp.ID)
		orig.ID, cp.ID = primitive.NilObjectID, primitive.NilObjectID
		assert.Equal(t, orig, cp)
	}

	latest, err := env.store.Routines.Latest(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, dup.ID, latest.ID)
	assert.Equal(t, 3, env.versionCount(t, m.ID))
}

func TestDuplicateWithoutVersions(t *testing.T) {
	env := newTestEnv(t)
	m := env.member(t, "100", "Ana")

	v, err := env.routines.Duplicate(context.Background(), m.ID, domain.KindInitiation)
	require.NoError(t, err)
	assert.Equal(t, domain.KindInitiation, v.Kind)
	assert.Empty(t, v.Rows)
	assert.Nil(t, v.Comment)
}

func TestCreateFromKindFallsBackToBaseStrength(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")

	v, err := env.routines.CreateFromKind(ctx, m.ID, "  ACONDICIONAMIENTO físico ")
	require.NoError(t, err)
	assert.Equal(t, domain.KindConditioning, v.Kind)

	v, err = env.routines.CreateFromKind(ctx, m.ID, "zumba")
	require.NoError(t, err)
	assert.Equal(t, domain.KindBaseStrength, v.Kind)
	assert.Empty(t, v.Rows)
}

func TestVersionsAreStrictlyOrdered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")

	var ids []primitive.ObjectID
	for i := 0; i < 4; i++ {
		v, err := env.routines.Duplicate(ctx, m.ID, "")
		require.NoError(t, err)
		ids = append(ids, v.ID)
	}

	versions, err := env.routines.ListVersions(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, versions, 4)
	for i := 1; i < len(versions); i++ {
		assert.True(t, versions[i-1].CreatedAt.After(versions[i].CreatedAt))
	}
	assert.Equal(t, ids[3], versions[0].ID)
	assert.Equal(t, ids[0], versions[3].ID)
}

func TestSaveEditDropsBlankRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	bench := env.exerciseID(t, "Press banca")
	source, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)

	v, err := env.routines.SaveEdit(ctx, source.ID, routine.Submission{Rows: []routine.RawRow{
		{},
		{Category: "Pectorales", ExerciseID: bench.Hex(), Series: "3", Reps: "8-10", Weight: "40", Notes: "RIR 2"},
	}})
	require.NoError(t, err)
	require.Len(t, v.Rows, 1)

	r := v.Rows[0]
	assert.Equal(t, "Pectorales", r.Category)
	require.NotNil(t, r.ExerciseID)
	assert.Equal(t, bench, *r.ExerciseID)
	assert.Equal(t, "3", r.Series)
	assert.Equal(t, "8-10", r.Reps)
	assert.Equal(t, "40", r.Weight)
	assert.Equal(t, "RIR 2", r.Notes)

	stored, err := env.routines.GetVersion(ctx, source.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Rows, "source version must stay untouched")
	assert.Equal(t, 2, env.versionCount(t, m.ID))
}

func TestSaveEditRejectsWithoutSideEffects(t *testing.T) {
	cases := map[string][]routine.RawRow{
		"category too long": {{Category: strings.Repeat("x", domain.MaxCategoryLen+1)}},
		"missing exercise":  {{Category: "Espalda", ExerciseID: primitive.NewObjectID().Hex()}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			m := env.member(t, "100", "Ana")
			source, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
			require.NoError(t, err)

			_, err = env.routines.SaveEdit(ctx, source.ID, routine.Submission{Rows: rows})
			var verr *routine.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, 1, verr.Row)
			assert.Equal(t, 1, env.versionCount(t, m.ID))
		})
	}
}

func TestSaveEditTooManyRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	source, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)

	rows := make([]routine.RawRow, routine.MaxRows+1)
	for i := range rows {
		rows[i] = routine.RawRow{Category: "Espalda"}
	}
	_, err = env.routines.SaveEdit(ctx, source.ID, routine.Submission{Rows: rows})
	require.ErrorIs(t, err, routine.ErrInvalidSubmission)
	assert.Contains(t, err.Error(), "maximum")
	assert.Equal(t, 1, env.versionCount(t, m.ID))
}

func TestSaveEditWeekAndCommentFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	source, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)

	first, err := env.routines.SaveEdit(ctx, source.ID, routine.Submission{Week: "3", Comment: strPtr("Bien")})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Week)
	assert.Equal(t, "Bien", first.CommentText())

	second, err := env.routines.SaveEdit(ctx, first.ID, routine.Submission{Week: "not-a-week"})
	require.NoError(t, err)
	assert.Equal(t, 3, second.Week)
	assert.Equal(t, "Bien", second.CommentText())

	third, err := env.routines.SaveEdit(ctx, second.ID, routine.Submission{Week: "9", Comment: strPtr("   ")})
	require.NoError(t, err)
	assert.Equal(t, 3, third.Week)
	assert.Equal(t, "Bien", third.CommentText())

	fourth, err := env.routines.SaveEdit(ctx, third.ID, routine.Submission{Week: "5", Comment: strPtr("Nuevo")})
	require.NoError(t, err)
	assert.Equal(t, 5, fourth.Week)
	assert.Equal(t, "Nuevo", fourth.CommentText())
}

func TestSaveEditEnforcesLayoutBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	source, err := env.routines.CreateFromKind(ctx, m.ID, "deportista avanzado")
	require.NoError(t, err)

	var rows []routine.RawRow
	for i := 0; i < 7; i++ {
		rows = append(rows, routine.RawRow{Category: "Saltos", Block: routine.BlockPower})
	}
	_, err = env.routines.SaveEdit(ctx, source.ID, routine.Submission{Rows: rows})
	var verr *routine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 7, verr.Row)
}

func TestSaveEditSpillsUntaggedRowsIntoAccessories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	source, err := env.routines.CreateFromKind(ctx, m.ID, "deportista avanzado")
	require.NoError(t, err)

	for _, n := range []int{9, 12} {
		var rows []routine.RawRow
		for i := 0; i < n; i++ {
			rows = append(rows, routine.RawRow{Category: fmt.Sprintf("Accesorio %d", i), Series: "3", Block: routine.BlockMain})
		}
		v, err := env.routines.SaveEdit(ctx, source.ID, routine.Submission{Rows: rows})
		require.NoError(t, err, "%d rows", n)
		assert.Len(t, v.Rows, n)
	}

	var rows []routine.RawRow
	for i := 0; i < 13; i++ {
		rows = append(rows, routine.RawRow{Category: fmt.Sprintf("Accesorio %d", i)})
	}
	before := env.versionCount(t, m.ID)
	_, err = env.routines.SaveEdit(ctx, source.ID, routine.Submission{Rows: rows})
	var verr *routine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 13, verr.Row)
	assert.Equal(t, before, env.versionCount(t, m.ID))
}

func TestSaveEditRejectsLongComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	source, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)

	long := strings.Repeat("a", domain.MaxLongTextLen+1)
	_, err = env.routines.SaveEdit(ctx, source.ID, routine.Submission{
		Rows:    []routine.RawRow{{Category: "Pectorales", Series: "3"}},
		Comment: &long,
	})
	var verr *routine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "comentario", verr.Field)
	assert.ErrorIs(t, err, routine.ErrInvalidSubmission)
	assert.Equal(t, 1, env.versionCount(t, m.ID))
}

func TestUpdateCommentInPlace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	v, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)

	updated, err := env.routines.UpdateComment(ctx, v.ID, " Hola ")
	require.NoError(t, err)
	assert.Equal(t, v.ID, updated.ID)
	assert.Equal(t, "Hola", updated.CommentText())
	assert.Equal(t, 1, env.versionCount(t, m.ID))

	cleared, err := env.routines.UpdateComment(ctx, v.ID, "")
	require.NoError(t, err)
	assert.Nil(t, cleared.Comment)

	_, err = env.routines.UpdateComment(ctx, primitive.NewObjectID(), "x")
	assert.ErrorIs(t, err, ErrRoutineNotFound)
}

func TestDeleteVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	v, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)

	require.NoError(t, env.routines.Delete(ctx, v.ID))
	_, err = env.routines.GetVersion(ctx, v.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)
	assert.ErrorIs(t, env.routines.Delete(ctx, v.ID), ErrRoutineNotFound)
}

func TestEditorRendersPlaceholders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	env.exerciseID(t, "Sentadilla")
	v, err := env.routines.CreateFromKind(ctx, m.ID, "acondicionamiento")
	require.NoError(t, err)

	ed, err := env.routines.Editor(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, ed.KnownKind)
	require.Len(t, ed.Sections, 2)
	assert.Len(t, ed.Sections[0].Rows, 3)
	main := ed.Sections[1]
	require.Len(t, main.Rows, 5)
	assert.Equal(t, "Cadena anterior", main.Rows[0].Category)
	assert.Equal(t, "Variabilidad de movimiento", main.Rows[4].Category)
	assert.Len(t, ed.Exercises, 1)
	assert.Equal(t, CategorySuggestions, ed.Categories)
}

func TestDeleteExerciseClearsRowReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	squat := env.exerciseID(t, "Sentadilla")
	source, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)
	saved, err := env.routines.SaveEdit(ctx, source.ID, routine.Submission{Rows: []routine.RawRow{
		{Category: "Piernas", ExerciseID: squat.Hex(), Series: "5"},
	}})
	require.NoError(t, err)

	require.NoError(t, env.exercise.DeleteExercise(ctx, squat))

	v, err := env.routines.GetVersion(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, v.Rows, 1)
	assert.Nil(t, v.Rows[0].ExerciseID)
	assert.Equal(t, "Piernas", v.Rows[0].Category)
	assert.Equal(t, "5", v.Rows[0].Series)

	assert.ErrorIs(t, env.exercise.DeleteExercise(ctx, squat), ErrExerciseNotFound)
}
