package models

// ProjectUser is the membership relation between projects and users.
// Replaced wholesale when a project update supplies a member list.
type ProjectUser struct {
	ProjectID uint64 `gorm:"primarykey" json:"project_id"`
	UserID    uint64 `gorm:"primarykey" json:"user_id"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
