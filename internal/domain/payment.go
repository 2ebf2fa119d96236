package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	monthKeyLayout   = "2006-01"
	monthLabelLayout = "01-2006"
)

// Payment records a member's fee for one calendar month.
// (MemberID, Month) is unique.
type Payment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	Month     string             `bson:"month" json:"month"` // "YYYY-MM"
	Paid      bool               `bson:"paid" json:"paid"`
	Voided    bool               `bson:"voided" json:"voided"` // Annulled by an operator; never flipped by toggling
	Plan      string             `bson:"plan,omitempty" json:"plan,omitempty"`
	Amount    Money              `bson:"amount" json:"amount"`
	PaidAt    time.Time          `bson:"paidAt" json:"paidAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Settled reports whether the payment counts as paid for its month.
func (p *Payment) Settled() bool {
	return p != nil && p.Paid && !p.Voided
}

// MonthKey returns the storage key ("YYYY-MM") of the month containing t.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// MonthStart parses a storage key back to the first day of the month.
func MonthStart(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(monthKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", key, err)
	}
	return t, nil
}

// ParseMonthLabel accepts the "MM-YYYY" form used in URLs and returns the storage key.
func ParseMonthLabel(label string) (string, error) {
	t, err := time.Parse(monthLabelLayout, label)
	if err != nil {
		return "", fmt.Errorf("invalid month label %q: %w", label, err)
	}
	return MonthKey(t), nil
}

// MonthLabel renders a storage key as "MM-YYYY".
func MonthLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format(monthLabelLayout)
}
