package entity

import (
	"database/sql"
	"fmt"

	"github.com/campusnex/backend/pkg/enum"
)

type ActivityKind string

var (
	ActivityCreateEvent      = enum.New(ActivityKind("create_event"))
	ActivityAttendEvent      = enum.New(ActivityKind("attend_event"))
	ActivityEarlyBird        = enum.New(ActivityKind("early_bird"))
	ActivityProfileCompleted = enum.New(ActivityKind("profile_completed"))
	ActivityEventShared      = enum.New(ActivityKind("event_shared"))
	ActivityDailyCheckin     = enum.New(ActivityKind("daily_checkin"))
	ActivityStreakBonus      = enum.New(ActivityKind("streak_bonus"))
)

// ActivityRule binds an activity kind to its base points and the user_stats
// counter it bumps. Every registered kind must have a rule, so the mapping
// from kind to side effects lives in exactly one place.
type ActivityRule struct {
	BasePoints int

	// CounterColumn is a user_stats column incremented together with
	// total_points, or empty when the kind bumps no counter.
	CounterColumn string
}

var activityRules = map[ActivityKind]ActivityRule{
	ActivityCreateEvent:      {BasePoints: 10, CounterColumn: "events_created"},
	ActivityAttendEvent:      {BasePoints: 5, CounterColumn: "events_attended"},
	ActivityEarlyBird:        {BasePoints: 3},
	ActivityProfileCompleted: {BasePoints: 5},
	ActivityEventShared:      {BasePoints: 2},
	ActivityDailyCheckin:     {BasePoints: 1},
	ActivityStreakBonus:      {BasePoints: 5},
}

func (k ActivityKind) Rule() (ActivityRule, error) {
	rule, ok := activityRules[k]
	if !ok {
		return ActivityRule{}, fmt.Errorf("no rule registered for activity kind %s", k)
	}

	return rule, nil
}

// Activity is an append-only log entry recording a point-earning action. It
// is the durable source of truth for point totals; rows are never updated
// or deleted.
type Activity struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_activities_dedup"`
	User   User   `gorm:"foreignKey:UserID"`

	Kind   ActivityKind `gorm:"uniqueIndex:idx_activities_dedup"`
	Points int

	// The dedup key keeps event-scoped kinds at one row per (user, event).
	// A NULL event_id never conflicts, so kinds without an event repeat.
	EventID sql.NullString `gorm:"uniqueIndex:idx_activities_dedup"`
	Event   Event          `gorm:"foreignKey:EventID"`

	Metadata Map `gorm:"type:text"`
}
