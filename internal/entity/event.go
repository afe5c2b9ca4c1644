package entity

import (
	"time"

	"github.com/campusnex/backend/pkg/enum"
)

type EventStatus string

var (
	EventDraft     = enum.New(EventStatus("draft"))
	EventPublished = enum.New(EventStatus("published"))
	EventCancelled = enum.New(EventStatus("cancelled"))
	EventCompleted = enum.New(EventStatus("completed"))
)

type Event struct {
	Base

	Title       string
	Description string
	Location    string
	Category    string
	StartTime   time.Time
	EndTime     time.Time
	Capacity    int
	Status      EventStatus `gorm:"default:draft"`
	ImageURL    string

	OrganizerID string
	Organizer   User `gorm:"foreignKey:OrganizerID"`
}
