package models

import (
	"time"
)

// User is the application identity record. Email is the login field. The
// password is stored only as a bcrypt hash and never serialized out.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	IsActive       bool       `gorm:"default:true;not null" json:"is_active"`
	IsStaff        bool       `gorm:"default:false;not null" json:"is_staff"`
	IsSuperuser    bool       `gorm:"default:false;not null;index" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
	DeletedAt      *time.Time `gorm:"index" json:"-"`
}
