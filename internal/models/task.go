package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	OwnerID      uint  `gorm:"not null;index"` // creator, immutable
	ProjectID    *uint `gorm:"index"`
	AssigneeID   *uint `gorm:"index"`
	AssignedByID *uint
	AssignedAt   *time.Time

	Title       string `gorm:"not null"`
	Description string
	DueDate     *time.Time `gorm:"index"`
	Priority    string     `gorm:"not null;default:medium"` // low, medium, high
	Category    string     `gorm:"not null;default:Other"`
	Subcategory string
	Tags        datatypes.JSON `gorm:"type:jsonb"` // JSON array of strings
	Status      string         `gorm:"not null;default:pending;index"` // pending, in_progress, completed
	CompletedAt *time.Time

	// Relationships
	Owner      User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project    *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Assignee   *User    `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	AssignedBy *User    `gorm:"foreignKey:AssignedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
