package entity

import (
	"time"

	"github.com/campusnex/backend/pkg/enum"
	"gorm.io/gorm"
)

type RSVPStatus string

var (
	RSVPAttending    = enum.New(RSVPStatus("attending"))
	RSVPInterested   = enum.New(RSVPStatus("interested"))
	RSVPNotAttending = enum.New(RSVPStatus("not_attending"))
)

// RSVP records a user's attendance intent for an event. The composite
// primary key guarantees at most one row per (user, event) pair.
type RSVP struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	EventID string `gorm:"primaryKey"`
	Event   Event  `gorm:"foreignKey:EventID"`

	Status RSVPStatus
}
