package entity

import (
	"context"

	"github.com/campusnex/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&OAuth2{},
		&RefreshToken{},
		&Event{},
		&RSVP{},
		&Activity{},
		&UserStats{},
	)
}
