package models

import "time"

// RevokedToken records a blacklisted refresh-token id. Access-token
// validation never reads this table; only the refresh and logout flows
// consult it. Rows past ExpiresAt are safe to purge since the token could
// no longer pass validation anyway.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	JTI       string    `gorm:"column:jti;size:64;not null;uniqueIndex"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
