package entity

import (
	"github.com/campusnex/backend/pkg/enum"
)

type GlobalRole string

var (
	RoleStudent   = enum.New(GlobalRole("student"))
	RoleOrganizer = enum.New(GlobalRole("organizer"))
	RoleAdmin     = enum.New(GlobalRole("admin"))
)

// GlobalAdminRoles may manage any event regardless of ownership.
var GlobalAdminRoles = []GlobalRole{RoleAdmin}

// EventManagerRoles may create events.
var EventManagerRoles = []GlobalRole{RoleOrganizer, RoleAdmin}

type User struct {
	Base

	Name      string
	Email     string     `gorm:"unique"`
	Role      GlobalRole `gorm:"default:student"`
	AvatarURL string

	// Interest categories used by the interest feed ordering.
	Interests Array[string] `gorm:"type:text"`
}
