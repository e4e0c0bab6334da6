package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is pure data copied into a new task at instantiation time.
// DefaultReminders is informational; the reminder scheduler does not read it.
type Template struct {
	gorm.Model

	OwnerID     uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Title       string `gorm:"not null"`
	Description string
	Category    string `gorm:"not null;default:Work"`
	Subcategory string
	Priority    string `gorm:"not null;default:medium"`

	DefaultDueOffsetMinutes int            `gorm:"not null;default:0"`
	DefaultReminders        datatypes.JSON `gorm:"type:jsonb"` // JSON array of minute offsets

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
