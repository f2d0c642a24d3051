package models

import "time"

// SmtpSettings holds the outbound mail configuration. At most one row
// is active at a time; creating new settings deactivates the others.
type SmtpSettings struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Host      string    `gorm:"type:varchar(255);not null" json:"host"`
	Port      int       `gorm:"not null" json:"port"`
	Username  string    `gorm:"type:varchar(255)" json:"username"`
	Password  string    `gorm:"type:varchar(255)" json:"-"`
	EnableSsl bool      `json:"enable_ssl"`
	FromEmail string    `gorm:"type:varchar(255);not null" json:"from_email"`
	FromName  string    `gorm:"type:varchar(255)" json:"from_name"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
