package routine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
)

type stubLookup struct {
	ids   map[primitive.ObjectID]struct{}
	calls int
	err   error
}

func newStubLookup(ids ...primitive.ObjectID) *stubLookup {
	s := &stubLookup{ids: map[primitive.ObjectID]struct{}{}}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *stubLookup) ExistingIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := map[primitive.ObjectID]struct{}{}
	for _, id := range ids {
		if _, ok := s.ids[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func TestValidateDropsBlankRows(t *testing.T) {
	bench := primitive.NewObjectID()
	lookup := newStubLookup(bench)

	rows, err := Validate(context.Background(), lookup, []RawRow{
		{Notes: "   ", Rest: "90s"},
		{Category: " Pectorales ", ExerciseID: bench.Hex(), Series: "3", Reps: "8-10", Weight: "40", Notes: "RIR 2"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.False(t, r.ID.IsZero())
	assert.Equal(t, "Pectorales", r.Category)
	require.NotNil(t, r.ExerciseID)
	assert.Equal(t, bench, *r.ExerciseID)
	assert.Equal(t, "3", r.Series)
	assert.Equal(t, "8-10", r.Reps)
	assert.Equal(t, "40", r.Weight)
	assert.Equal(t, "RIR 2", r.Notes)
	assert.Equal(t, 1, lookup.calls)
}

func TestValidateCategoryTooLong(t *testing.T) {
	_, err := Validate(context.Background(), newStubLookup(), []RawRow{
		{Category: strings.Repeat("a", domain.MaxCategoryLen+1)},
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Row)
	assert.Equal(t, "categoria", verr.Field)
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	_, err := Validate(context.Background(), newStubLookup(), []RawRow{
		{Category: strings.Repeat("ñ", domain.MaxCategoryLen)},
	}, nil)
	assert.NoError(t, err)
}

func TestValidateUnknownExercise(t *testing.T) {
	missing := primitive.NewObjectID().Hex()
	cases := []struct {
		name  string
		row   RawRow
		field string
	}{
		{"id field", RawRow{ExerciseID: missing}, "ejercicio_id"},
		{"alternate field", RawRow{Exercise: missing}, "ejercicio"},
		{"id field wins", RawRow{ExerciseID: missing, Exercise: "whatever"}, "ejercicio_id"},
		{"not an id", RawRow{Exercise: "press banca"}, "ejercicio"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(context.Background(), newStubLookup(), []RawRow{tc.row}, nil)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, 1, verr.Row)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, "selected exercise does not exist", verr.Reason)
		})
	}
}

func TestValidateReportsFirstOffendingRow(t *testing.T) {
	_, err := Validate(context.Background(), newStubLookup(), []RawRow{
		{Category: "Espalda"},
		{},
		{Category: "Piernas", Series: strings.Repeat("9", domain.MaxShortTextLen+1)},
		{Category: strings.Repeat("x", domain.MaxCategoryLen+1)},
	}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, verr.Row)
	assert.Equal(t, "series", verr.Field)
	assert.Equal(t, "row 3: series: must be at most 50 characters", verr.Error())
}

func TestValidateTooManyRows(t *testing.T) {
	raws := make([]RawRow, MaxRows+1)
	lookup := newStubLookup()
	_, err := Validate(context.Background(), lookup, raws, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, verr.Row)
	assert.Contains(t, verr.Error(), "maximum of 200 rows")
	assert.Zero(t, lookup.calls)

	_, err = Validate(context.Background(), lookup, raws[:MaxRows], nil)
	assert.NoError(t, err)
}

func TestValidateLookupFailure(t *testing.T) {
	lookup := newStubLookup()
	lookup.err = errors.New("connection reset")
	_, err := Validate(context.Background(), lookup, []RawRow{{ExerciseID: primitive.NewObjectID().Hex()}}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSubmission)
}

func TestValidateAppliesLayoutBounds(t *testing.T) {
	l, _ := LayoutFor(domain.KindAdvancedAthlete)
	var raws []RawRow
	for i := 0; i < 6; i++ {
		raws = append(raws, RawRow{Category: "Movilidad", WarmUp: true, Block: "CALENTAMIENTO"})
	}
	_, err := Validate(context.Background(), newStubLookup(), raws, &l)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 6, verr.Row)

	rows, err := Validate(context.Background(), newStubLookup(), raws[:5], &l)
	require.NoError(t, err)
	assert.Equal(t, BlockWarmUp, rows[0].Block)
}
