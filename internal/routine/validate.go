package routine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
)

// MaxRows is the largest number of rows a single submission may carry.
const MaxRows = 200

// ErrInvalidSubmission is the root of every ValidationError.
var ErrInvalidSubmission = errors.New("invalid routine submission")

// ValidationError reports the first offending row of a submission.
// Row is 1-based; 0 means the error concerns the submission as a whole.
type ValidationError struct {
	Row    int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Row > 0:
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	default:
		return e.Reason
	}
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSubmission }

// ExerciseLookup resolves which of the given exercise ids exist.
type ExerciseLookup interface {
	ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error)
}

type fieldLimit struct {
	name  string
	value string
	max   int
}

// Validate trims and checks submitted rows, dropping fully blank ones.
// It fails on the first offending row. When layout is non-nil, bounded
// sections are checked as well. Returned rows carry fresh ids.
func Validate(ctx context.Context, lookup ExerciseLookup, raws []RawRow, layout *Layout) ([]domain.Row, error) {
	if len(raws) > MaxRows {
		return nil, &ValidationError{Field: "filas", Reason: fmt.Sprintf("maximum of %d rows exceeded", MaxRows)}
	}

	trimmed := make([]RawRow, len(raws))
	var refs []primitive.ObjectID
	for i, r := range raws {
		t := trimRow(r)
		trimmed[i] = t
		if ref, _ := exerciseRef(t); ref != "" {
			if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
				refs = append(refs, oid)
			}
		}
	}

	existing := map[primitive.ObjectID]struct{}{}
	if len(refs) > 0 {
		var err error
		existing, err = lookup.ExistingIDs(ctx, refs)
		if err != nil {
			return nil, fmt.Errorf("looking up exercises: %w", err)
		}
	}

	rows := make([]domain.Row, 0, len(trimmed))
	positions := make([]int, 0, len(trimmed))
	for i, r := range trimmed {
		pos := i + 1
		if blank(r) {
			continue
		}
		for _, f := range limits(r) {
			if utf8.RuneCountInString(f.value) > f.max {
				return nil, &ValidationError{
					Row:    pos,
					Field:  f.name,
					Reason: fmt.Sprintf("must be at most %d characters", f.max),
				}
			}
		}

		row := domain.Row{
			ID:         primitive.NewObjectID(),
			Category:   r.Category,
			Series:     r.Series,
			Reps:       r.Reps,
			Weight:     r.Weight,
			Rest:       r.Rest,
			RIR:        r.RIR,
			Sensations: r.Sensations,
			Notes:      r.Notes,
			WarmUp:     r.WarmUp,
			Block:      r.Block,
		}
		if ref, field := exerciseRef(r); ref != "" {
			oid, err := primitive.ObjectIDFromHex(ref)
			if _, ok := existing[oid]; err != nil || !ok {
				return nil, &ValidationError{Row: pos, Field: field, Reason: "selected exercise does not exist"}
			}
			row.ExerciseID = &oid
		}
		rows = append(rows, row)
		positions = append(positions, pos)
	}

	if layout != nil {
		if err := layout.checkBounds(rows, positions); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func trimRow(r RawRow) RawRow {
	return RawRow{
		Category:   strings.TrimSpace(r.Category),
		ExerciseID: strings.TrimSpace(r.ExerciseID),
		Exercise:   strings.TrimSpace(r.Exercise),
		Series:     strings.TrimSpace(r.Series),
		Reps:       strings.TrimSpace(r.Reps),
		Weight:     strings.TrimSpace(r.Weight),
		Rest:       strings.TrimSpace(r.Rest),
		RIR:        strings.TrimSpace(r.RIR),
		Sensations: strings.TrimSpace(r.Sensations),
		Notes:      strings.TrimSpace(r.Notes),
		Block:      strings.ToLower(strings.TrimSpace(r.Block)),
		WarmUp:     r.WarmUp,
	}
}

// exerciseRef returns the exercise reference and the field that supplied it.
func exerciseRef(r RawRow) (string, string) {
	if r.ExerciseID != "" {
		return r.ExerciseID, "ejercicio_id"
	}
	if r.Exercise != "" {
		return r.Exercise, "ejercicio"
	}
	return "", ""
}

func blank(r RawRow) bool {
	return r.Category == "" && r.ExerciseID == "" && r.Exercise == "" &&
		r.Series == "" && r.Reps == "" && r.Weight == ""
}

func limits(r RawRow) []fieldLimit {
	return []fieldLimit{
		{"categoria", r.Category, domain.MaxCategoryLen},
		{"series", r.Series, domain.MaxShortTextLen},
		{"repeticiones", r.Reps, domain.MaxShortTextLen},
		{"peso", r.Weight, domain.MaxShortTextLen},
		{"descanso", r.Rest, domain.MaxShortTextLen},
		{"rir", r.RIR, domain.MaxShortTextLen},
		{"sensaciones", r.Sensations, domain.MaxLongTextLen},
		{"notas", r.Notes, domain.MaxLongTextLen},
		{"bloque", r.Block, domain.MaxBlockLen},
	}
}
