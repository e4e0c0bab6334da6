package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Phone        string
	Role         string `gorm:"not null;default:user"` // "user" or "admin"

	// Notification preferences, independent toggles per channel. No column
	// defaults: gorm omits zero-value fields that carry a default tag on
	// insert, which would turn an explicit false back into the default.
	// Signup sets the starting values instead.
	NotifyEmail bool `gorm:"not null"`
	NotifySMS   bool `gorm:"not null"`
	NotifyPush  bool `gorm:"not null"`

	// Gamification
	Points int            `gorm:"not null;default:0"`
	Badges datatypes.JSON `gorm:"type:jsonb"` // JSON array of badge names, never shrinks

	// Relationships
	OwnedProjects  []Project       `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships    []ProjectMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OwnedTasks     []Task          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OwnedTemplates []Template      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
