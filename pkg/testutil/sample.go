package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/repository"
	"github.com/google/uuid"
)

// SampleUser creates a user with randomized fields. Non-zero fields of init
// overwrite the sample before it is saved.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	sample := &entity.User{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      uuid.NewString(),
		Email:     uuid.NewString() + "@example.edu",
		Role:      entity.RoleStudent,
		AvatarURL: "https://example.edu/avatar.png",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SampleEvent creates a published event starting in 48 hours. Non-zero
// fields of init overwrite the sample before it is saved.
func SampleEvent(ctx context.Context, init *entity.Event) (entity.Event, error) {
	start := time.Now().Add(48 * time.Hour)
	sample := &entity.Event{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       uuid.NewString(),
		Description: "sample event",
		Location:    "Main Hall",
		Category:    "technology",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Status:      entity.EventPublished,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewEventRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
