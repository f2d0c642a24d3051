package models

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type Role struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`

	Users []User `gorm:"foreignKey:RoleID" json:"-"`
}
