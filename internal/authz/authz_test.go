package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/types"
)

func project(ownerID uint, members ...models.ProjectMember) *models.Project {
	p := &models.Project{OwnerID: ownerID, Members: members}
	return p
}

func member(userID uint, role string) models.ProjectMember {
	return models.ProjectMember{UserID: userID, Role: role}
}

func TestOwnerHasFullRights(t *testing.T) {
	p := project(1)

	assert.True(t, IsOwner(p, 1))
	assert.False(t, IsMember(p, 1))
	assert.True(t, CanView(p, 1))
	assert.True(t, CanEdit(p, 1))
	assert.True(t, CanAssignWithinProject(p, 1))
}

func TestViewerCanViewButNotEdit(t *testing.T) {
	p := project(1, member(2, types.MemberViewer))

	assert.True(t, IsMember(p, 2))
	assert.True(t, CanView(p, 2))
	assert.False(t, CanEdit(p, 2))
	assert.False(t, CanAssignWithinProject(p, 2))
}

func TestEditorCanEdit(t *testing.T) {
	p := project(1, member(2, types.MemberEditor))

	assert.True(t, CanView(p, 2))
	assert.True(t, CanEdit(p, 2))
	assert.True(t, CanAssignWithinProject(p, 2))
}

func TestStrangerHasNoRights(t *testing.T) {
	p := project(1, member(2, types.MemberEditor))

	assert.False(t, IsOwner(p, 3))
	assert.False(t, IsMember(p, 3))
	assert.False(t, CanView(p, 3))
	assert.False(t, CanEdit(p, 3))
}

func TestProjectlessTaskIsOwnerOnly(t *testing.T) {
	task := &models.Task{OwnerID: 5}

	assert.True(t, CanViewTask(task, nil, 5))
	assert.True(t, CanEditTask(task, nil, 5))
	assert.False(t, CanViewTask(task, nil, 6))
	assert.False(t, CanEditTask(task, nil, 6))
}

func TestProjectTaskDelegatesToProject(t *testing.T) {
	projectID := uint(10)
	p := project(1, member(2, types.MemberViewer), member(3, types.MemberEditor))
	p.ID = projectID

	task := &models.Task{OwnerID: 1, ProjectID: &projectID}

	// viewer sees but cannot edit
	assert.True(t, CanViewTask(task, p, 2))
	assert.False(t, CanEditTask(task, p, 2))

	// editor edits
	assert.True(t, CanViewTask(task, p, 3))
	assert.True(t, CanEditTask(task, p, 3))

	// stranger gets nothing
	assert.False(t, CanViewTask(task, p, 4))
	assert.False(t, CanEditTask(task, p, 4))
}
