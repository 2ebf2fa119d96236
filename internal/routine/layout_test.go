package routine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/gym-admin/internal/domain"
)

func TestLayoutForUnknownKind(t *testing.T) {
	l, ok := LayoutFor("zumba")
	assert.False(t, ok)
	assert.Equal(t, domain.Kind("zumba"), l.Kind)
	require.Len(t, l.Sections, 2)
	assert.True(t, l.Sections[0].WarmUp)
}

func TestRenderEmptyVersionYieldsFixedPlaceholders(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(string(l.Kind), func(t *testing.T) {
			rendered := l.Render(nil)
			require.Len(t, rendered, len(l.Sections))
			for _, rs := range rendered {
				if rs.Fixed() {
					require.Len(t, rs.Rows, len(rs.FixedCategories))
					seen := map[string]bool{}
					for i, r := range rs.Rows {
						assert.Equal(t, rs.FixedCategories[i], r.Category)
						assert.False(t, seen[r.Category], "duplicate category %s", r.Category)
						seen[r.Category] = true
						assert.Empty(t, r.Series)
						assert.Empty(t, r.Reps)
						assert.Empty(t, r.Weight)
						assert.Nil(t, r.ExerciseID)
					}
				} else {
					assert.Len(t, rs.Rows, rs.InitialRows)
				}
				for _, r := range rs.Rows {
					assert.Equal(t, rs.WarmUp, r.WarmUp)
					assert.Equal(t, rs.Block, r.Block)
				}
			}
		})
	}
}

func TestRenderAdvancedAthlete(t *testing.T) {
	l, ok := LayoutFor(domain.KindAdvancedAthlete)
	require.True(t, ok)

	rows := []domain.Row{
		{Category: "Movilidad", WarmUp: true},
		{Category: "tracción", Series: "4"},
		{Category: "Saltos", Block: BlockPower, Series: "3"},
	}
	rendered := l.Render(rows)
	require.Len(t, rendered, 4)

	assert.Len(t, rendered[0].Rows, 5)
	assert.Equal(t, "Movilidad", rendered[0].Rows[0].Category)

	strength := rendered[1]
	require.Len(t, strength.Rows, 3)
	assert.Equal(t, "Empuje", strength.Rows[0].Category)
	assert.Equal(t, "tracción", strength.Rows[1].Category)
	assert.Equal(t, "4", strength.Rows[1].Series)
	assert.Equal(t, "Dominante de rodilla", strength.Rows[2].Category)

	power := rendered[2]
	require.Len(t, power.Rows, 3)
	assert.Equal(t, "Saltos", power.Rows[0].Category)

	assert.Len(t, rendered[3].Rows, 3)
}

func TestRenderConditioningKeepsExtraRows(t *testing.T) {
	l, _ := LayoutFor(domain.KindConditioning)
	rows := []domain.Row{
		{Category: "Empujes", Series: "3"},
		{Category: "Core", Series: "2"},
	}
	rendered := l.Render(rows)
	main := rendered[1]
	require.Len(t, main.Rows, 6)
	assert.Equal(t, "Cadena anterior", main.Rows[0].Category)
	assert.Equal(t, "3", main.Rows[3].Series)
	assert.Equal(t, "Core", main.Rows[5].Category)
}

func TestCheckBounds(t *testing.T) {
	l, _ := LayoutFor(domain.KindAdvancedAthlete)

	var rows []domain.Row
	var positions []int
	for i := 0; i < 7; i++ {
		rows = append(rows, domain.Row{Category: "Saltos", Block: BlockPower})
		positions = append(positions, i+1)
	}
	err := l.checkBounds(rows, positions)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 7, verr.Row)
	assert.Equal(t, "bloque", verr.Field)

	assert.NoError(t, l.checkBounds(rows[:6], positions[:6]))

	free, _ := LayoutFor(domain.KindHypertrophy)
	assert.NoError(t, free.checkBounds(rows, positions))
}

func untaggedRows(n int, block string) []domain.Row {
	rows := make([]domain.Row, n)
	for i := range rows {
		rows[i] = domain.Row{Category: fmt.Sprintf("Accesorio %d", i), Series: "3", Block: block}
	}
	return rows
}

func TestUntaggedRowsSpillIntoNextFreeSection(t *testing.T) {
	l, _ := LayoutFor(domain.KindAdvancedAthlete)

	for _, n := range []int{9, 12} {
		for _, block := range []string{"", BlockMain} {
			rows := untaggedRows(n, block)
			positions := make([]int, n)
			for i := range positions {
				positions[i] = i + 1
			}
			assert.NoError(t, l.checkBounds(rows, positions), "%d rows, block %q", n, block)

			rendered := l.Render(rows)
			require.Len(t, rendered[2].Rows, 6)
			assert.Equal(t, "Accesorio 0", rendered[2].Rows[0].Category)
			require.Len(t, rendered[3].Rows, max(n-6, 3))
			assert.Equal(t, "Accesorio 6", rendered[3].Rows[0].Category)
		}
	}

	rows := untaggedRows(13, "")
	positions := make([]int, 13)
	for i := range positions {
		positions[i] = i + 1
	}
	var verr *ValidationError
	require.ErrorAs(t, l.checkBounds(rows, positions), &verr)
	assert.Equal(t, 13, verr.Row)
}

func TestTaggedRowsKeepTheirSection(t *testing.T) {
	l, _ := LayoutFor(domain.KindAdvancedAthlete)
	rows := append(untaggedRows(6, ""), domain.Row{Category: "Saltos", Block: BlockPower})

	rendered := l.Render(rows)
	require.Len(t, rendered[2].Rows, 6)
	assert.Equal(t, "Accesorio 0", rendered[2].Rows[0].Category)
	assert.Equal(t, "Saltos", rendered[2].Rows[5].Category)
	require.Len(t, rendered[3].Rows, 3)
	assert.Equal(t, "Accesorio 5", rendered[3].Rows[0].Category)
	assert.Empty(t, rendered[3].Rows[1].Category)
}
