package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	OwnerID    uint   `gorm:"not null;index"` // immutable after creation
	Name       string `gorm:"not null"`
	Color      string `gorm:"not null;default:#3b82f6"`
	OwnerTitle string

	// Relationships
	Owner   User            `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
