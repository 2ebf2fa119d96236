// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxExerciseNameLen = 200

// Exercise is an entry of the exercise catalog. Names are unique.
// Routine rows reference exercises by ID; deleting an exercise clears those references.
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
