package models

import "gorm.io/gorm"

// ProjectMember holds one membership entry per (project, user). The composite
// unique index makes the upsert on re-share atomic: a user can never appear
// twice in a project's member list. The owner is never stored here.
type ProjectMember struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	Role      string `gorm:"not null;default:viewer"` // "viewer" or "editor"
	Title     string

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
