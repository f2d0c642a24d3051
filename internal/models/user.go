package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(100);not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	RoleID       uint64    `gorm:"not null" json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Single-use reset token, cleared on consumption or detected expiry.
	PasswordResetToken       *string    `gorm:"type:varchar(64);index" json:"-"`
	PasswordResetTokenExpiry *time.Time `json:"-"`

	// Relations
	Role         Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	ProjectUsers []ProjectUser `gorm:"foreignKey:UserID" json:"-"`
	TaskUsers    []TaskUser    `gorm:"foreignKey:UserID" json:"-"`
}
