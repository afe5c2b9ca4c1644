package entity

import (
	"database/sql"
	"time"
)

// UserStats caches one aggregate row per user. TotalPoints mirrors the sum
// of the user's activity points; both are written in the same transaction.
// Rank is not stored: it is derived at read time from the points ordering.
type UserStats struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	TotalPoints    int
	EventsCreated  int
	EventsAttended int

	CurrentStreak int
	LongestStreak int

	LastActivity sql.NullTime
}
