package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field widths mirrored by the storage layer and the API validators.
const (
	MaxDNILen             = 10
	MaxFullNameLen        = 100
	MaxPhoneLen           = 20
	MaxAddressLen         = 200
	MaxEmailLen           = 100
	MaxWeeklyFrequencyLen = 50
)

// Member is a gym member ("socio"). DNI is the external identifier and is unique.
type Member struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DNI      string             `bson:"dni" json:"dni"`
	FullName string             `bson:"fullName" json:"fullName"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address  string             `bson:"address,omitempty" json:"address,omitempty"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"` // Must be a gmail address when present
	Age      *int               `bson:"age,omitempty" json:"age,omitempty"`

	MemberIntake `bson:",inline"`

	JoinedAt  time.Time `bson:"joinedAt" json:"joinedAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MemberIntake groups the free-text intake interview answers.
type MemberIntake struct {
	SportHistory    string `bson:"sportHistory,omitempty" json:"sportHistory,omitempty"`
	GymExperience   string `bson:"gymExperience,omitempty" json:"gymExperience,omitempty"`
	InjuryHistory   string `bson:"injuryHistory,omitempty" json:"injuryHistory,omitempty"`
	Illnesses       string `bson:"illnesses,omitempty" json:"illnesses,omitempty"`
	Goals           string `bson:"goals,omitempty" json:"goals,omitempty"`
	WeeklyFrequency string `bson:"weeklyFrequency,omitempty" json:"weeklyFrequency,omitempty"` // e.g. "3 veces"
}
