package entity

import "time"

// RefreshToken stores one rotating token family per login. Family is the
// sha256 of the random family secret embedded in the client token.
type RefreshToken struct {
	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Family     string `gorm:"unique"`
	Counter    uint64
	Expiration time.Time
}
