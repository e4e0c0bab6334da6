// Package authz answers every permission question in one place so route
// handlers never re-derive owner/member/editor logic inline. All predicates
// are pure: they read a loaded project or task snapshot and return a bool;
// the caller decides how a false answer surfaces (403 vs 404).
package authz

import (
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/types"
)

// IsOwner reports whether userID owns the project.
func IsOwner(project *models.Project, userID uint) bool {
	return project.OwnerID == userID
}

// IsMember reports whether userID appears in the project's member list.
// The owner is never stored as a member and is not matched here.
func IsMember(project *models.Project, userID uint) bool {
	for _, m := range project.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanView allows the owner and any member, regardless of role.
func CanView(project *models.Project, userID uint) bool {
	return IsOwner(project, userID) || IsMember(project, userID)
}

// CanEdit allows the owner and members holding the editor role.
func CanEdit(project *models.Project, userID uint) bool {
	if IsOwner(project, userID) {
		return true
	}
	for _, m := range project.Members {
		if m.UserID == userID && m.Role == types.MemberEditor {
			return true
		}
	}
	return false
}

// CanAssignWithinProject matches CanEdit: assignment is an edit.
func CanAssignWithinProject(project *models.Project, userID uint) bool {
	return CanEdit(project, userID)
}

// CanViewTask delegates to the owning project when the task has one;
// a projectless task is visible to its owner only. Callers pass project=nil
// when the task has no project.
func CanViewTask(task *models.Task, project *models.Project, userID uint) bool {
	if task.OwnerID == userID {
		return true
	}
	if task.ProjectID != nil && project != nil {
		return CanView(project, userID)
	}
	return false
}

// CanEditTask allows the task owner, the project owner, and project editors.
func CanEditTask(task *models.Task, project *models.Project, userID uint) bool {
	if task.OwnerID == userID {
		return true
	}
	if task.ProjectID != nil && project != nil {
		return CanEdit(project, userID)
	}
	return false
}
