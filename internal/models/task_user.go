package models

// TaskUser is the assignment relation between tasks and users.
type TaskUser struct {
	TaskID uint64 `gorm:"primarykey" json:"task_id"`
	UserID uint64 `gorm:"primarykey" json:"user_id"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
