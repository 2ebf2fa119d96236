package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExportArchive stores metadata about a member spreadsheet kept in object storage.
// The file itself lives in S3 under ObjectKey.
type ExportArchive struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ObjectKey   string             `bson:"objectKey" json:"-"` // Internal use only
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	MemberCount int                `bson:"memberCount" json:"memberCount"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"` // Operator who requested it
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
