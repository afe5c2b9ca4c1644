package model

import (
	"time"

	"github.com/campusnex/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	result := User{
		ID:        user.ID,
		Name:      user.Name,
		Role:      string(user.Role),
		AvatarURL: user.AvatarURL,
	}

	if includeSensitive {
		result.Email = user.Email
		result.Interests = user.Interests
	}

	return result
}

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

func ConvertEvent(event *entity.Event) Event {
	if event == nil {
		return Event{}
	}

	return Event{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Category:    event.Category,
		StartTime:   event.StartTime.Format(DefaultTimeLayout),
		EndTime:     event.EndTime.Format(DefaultTimeLayout),
		Capacity:    event.Capacity,
		Status:      string(event.Status),
		ImageURL:    event.ImageURL,
		Organizer:   ConvertShortUser(&event.Organizer),
	}
}

func ConvertActivity(activity *entity.Activity) ActivityEntry {
	if activity == nil {
		return ActivityEntry{}
	}

	result := ActivityEntry{
		ID:        activity.ID,
		Kind:      string(activity.Kind),
		Points:    activity.Points,
		Metadata:  activity.Metadata,
		CreatedAt: activity.CreatedAt.Format(DefaultTimeLayout),
	}

	if activity.EventID.Valid {
		result.EventID = activity.EventID.String
		result.EventName = activity.Event.Title
	}

	return result
}
