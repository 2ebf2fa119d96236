// internal/domain/routine.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the template structure a routine version was built with.
type Kind string

const (
	KindHypertrophy     Kind = "hipertrofia"
	KindBaseStrength    Kind = "fuerza_base"
	KindAdvancedAthlete Kind = "deportista"
	KindConditioning    Kind = "acondicionamiento"
	KindInitiation      Kind = "edad_temprana"
	KindOriginal        Kind = "original" // Legacy free-form layout
)

// Kinds lists every known template kind in display order.
func Kinds() []Kind {
	return []Kind{KindHypertrophy, KindBaseStrength, KindAdvancedAthlete, KindConditioning, KindInitiation, KindOriginal}
}

var kindLabels = map[Kind]string{
	KindHypertrophy:     "Hipertrofia",
	KindBaseStrength:    "Fuerza base",
	KindAdvancedAthlete: "Deportista avanzado",
	KindConditioning:    "Acondicionamiento físico",
	KindInitiation:      "Edad temprana",
	KindOriginal:        "Original",
}

// Label returns the human readable name of the kind.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// Week numbers a routine version can be tagged with.
const (
	MinWeek     = 1
	MaxWeek     = 8
	DefaultWeek = 1
)

// Stored widths of the row fields.
const (
	MaxCategoryLen  = 100
	MaxShortTextLen = 50 // series, reps, weight, rest, RIR
	MaxLongTextLen  = 2000
	MaxBlockLen     = 30
)

// RoutineVersion is one immutable snapshot of a member's workout routine.
// Editing a routine always produces a new version; the newest CreatedAt is the current one.
type RoutineVersion struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	Kind      Kind               `bson:"kind" json:"kind"`
	Week      int                `bson:"week" json:"week"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Rows      []Row              `bson:"rows" json:"rows"`
	Comment   *Comment           `bson:"comment,omitempty" json:"comment,omitempty"`
}

// Row is a single exercise line of a routine version.
// Series/reps/weight/rest/RIR are free text ("8-10", "RIR 2").
type Row struct {
	ID         primitive.ObjectID  `bson:"_id" json:"id"`
	Category   string              `bson:"category,omitempty" json:"category"`
	ExerciseID *primitive.ObjectID `bson:"exerciseId" json:"exerciseId,omitempty"` // nil when unset or the exercise was deleted
	Series     string              `bson:"series,omitempty" json:"series"`
	Reps       string              `bson:"reps,omitempty" json:"reps"`
	Weight     string              `bson:"weight,omitempty" json:"weight"`
	Rest       string              `bson:"rest,omitempty" json:"rest"`
	RIR        string              `bson:"rir,omitempty" json:"rir"`
	Sensations string              `bson:"sensations,omitempty" json:"sensations"`
	Notes      string              `bson:"notes,omitempty" json:"notes"`
	WarmUp     bool                `bson:"warmUp" json:"warmUp"`
	Block      string              `bson:"block,omitempty" json:"block,omitempty"` // Layout section the row was entered in
}

// Comment is the free-text note attached to a routine version.
type Comment struct {
	Text string `bson:"text" json:"text"`
}

// CommentText returns the comment text or "" when the version has none.
func (v *RoutineVersion) CommentText() string {
	if v == nil || v.Comment == nil {
		return ""
	}
	return v.Comment.Text
}

// WarmUpRows returns the rows of the warm-up section, in order.
func (v *RoutineVersion) WarmUpRows() []Row {
	var out []Row
	for _, r := range v.Rows {
		if r.WarmUp {
			out = append(out, r)
		}
	}
	return out
}

// MainRows returns the rows outside the warm-up section, in order.
func (v *RoutineVersion) MainRows() []Row {
	var out []Row
	for _, r := range v.Rows {
		if !r.WarmUp {
			out = append(out, r)
		}
	}
	return out
}

// CloneRows copies rows with fresh identities, keeping every field value.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		c := r
		c.ID = primitive.NewObjectID()
		if r.ExerciseID != nil {
			id := *r.ExerciseID
			c.ExerciseID = &id
		}
		out[i] = c
	}
	return out
}
