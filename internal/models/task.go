package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	ProjectID   uint64       `gorm:"not null;index" json:"project_id"`
	CreatedDate time.Time    `json:"created_date"`

	// Relations
	Project   Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	TaskUsers []TaskUser `gorm:"foreignKey:TaskID" json:"task_users,omitempty"`
}
