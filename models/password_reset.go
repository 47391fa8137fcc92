package models

import "time"

// PasswordReset is an ephemeral single-use credential-recovery record.
// The user id is snapshotted at request time and consumption resolves by
// that id, so an email change between request and confirmation cannot
// redirect the reset. Email is kept for operator visibility only.
type PasswordReset struct {
	ID        uint   `gorm:"primaryKey"`
	CreatedAt time.Time
	Email     string `gorm:"size:255;not null;index"`
	UserID    uint   `gorm:"index;not null"`
	Token     string `gorm:"size:100;not null;uniqueIndex"`
}
