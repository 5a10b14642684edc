package models

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusBlocked    = "blocked"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

type Task struct {
	ID          uint       `gorm:"column:id;primaryKey" json:"id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description" json:"description,omitempty"`
	Status      string     `gorm:"column:status;default:todo" json:"status"`
	Priority    string     `gorm:"column:priority;default:medium" json:"priority"`
	CampaignID  *uint      `gorm:"column:campaign_id;index" json:"campaign_id,omitempty"`
	BeachID     *uint      `gorm:"column:beach_id;index" json:"beach_id,omitempty"`
	AssignedTo  *uint      `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }
