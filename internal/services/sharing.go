package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskhive/taskhive/internal/authz"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/notify"
	"github.com/taskhive/taskhive/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShareProject grants or updates a membership on the project. Only the owner
// may share. Re-sharing to an existing member updates role/title in place; the
// upsert rides on the (project_id, user_id) unique index so concurrent shares
// cannot duplicate an entry. Sharing to the owner's own address is a no-op:
// the owner is never listed as a member. Returns the refreshed member list in
// insertion order.
func ShareProject(db *gorm.DB, project *models.Project, actorID uint, email, role, title string) ([]models.ProjectMember, error) {
	if !authz.IsOwner(project, actorID) {
		return nil, ErrForbidden
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var target models.User
	if err := db.Where("email = ?", email).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if target.ID != project.OwnerID {
		if err := upsertMember(db, project.ID, target.ID, role, title); err != nil {
			return nil, err
		}
	}

	return loadMembers(db, project.ID)
}

// upsertMember inserts or updates the single membership row for (project,
// user). Role always follows the request (anything but "editor" collapses to
// "viewer", matching the enum default); an empty title keeps the existing one.
func upsertMember(db *gorm.DB, projectID, userID uint, role, title string) error {
	if role != types.MemberEditor {
		role = types.MemberViewer
	}

	assignments := map[string]interface{}{
		"role":       role,
		"updated_at": time.Now(),
	}
	if title != "" {
		assignments["title"] = title
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		Title:     title,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&member).Error
}

func loadMembers(db *gorm.DB, projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := db.Preload("User").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// CreateTaskInput carries the task fields plus the optional inline-assignment
// request that can ride along with creation.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Category    string
	Subcategory string
	Tags        []byte // JSON array, already encoded
	Status      string
	ProjectID   *uint

	AssignEmail string
	MemberRole  string
	MemberTitle string
}

// CreateTaskWithAssignment creates a task owned by the actor. When the task
// targets a project, the actor must hold edit rights there. An AssignEmail
// that resolves to a user first upserts that user into the project's member
// list and then assigns the task to them; an unknown AssignEmail still lets
// the task be created and only triggers an informational "mentioned" email.
// All emails are best-effort and never fail the creation.
func CreateTaskWithAssignment(db *gorm.DB, mailer notify.Mailer, log *zap.Logger, actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Priority != "" && !types.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, input.Priority)
	}
	if input.Status != "" && !types.ValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, input.Status)
	}

	task := models.Task{
		OwnerID:     actor.ID,
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Tags:        input.Tags,
		Status:      input.Status,
	}
	if task.Priority == "" {
		task.Priority = types.PriorityMedium
	}
	if task.Category == "" {
		task.Category = "Other"
	}
	if task.Status == "" {
		task.Status = types.StatusPending
	}

	var project *models.Project
	var assignee *models.User

	if input.ProjectID != nil {
		var p models.Project
		if err := db.Preload("Members").First(&p, *input.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		project = &p

		if !authz.CanEdit(project, actor.ID) {
			return nil, ErrForbidden
		}

		if input.AssignEmail != "" {
			email := strings.ToLower(strings.TrimSpace(input.AssignEmail))

			var u models.User
			err := db.Where("email = ?", email).First(&u).Error
			switch {
			case err == nil:
				assignee = &u
				if u.ID != project.OwnerID {
					if err := upsertMember(db, project.ID, u.ID, input.MemberRole, input.MemberTitle); err != nil {
						return nil, err
					}
				}
				now := time.Now()
				task.AssigneeID = &u.ID
				task.AssignedByID = &actor.ID
				task.AssignedAt = &now
			case errors.Is(err, gorm.ErrRecordNotFound):
				// unknown email: task is still created, mention email below
			default:
				return nil, err
			}
		}
	}

	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}

	// Notifications after the write has committed.
	if input.AssignEmail != "" && project != nil {
		to := strings.ToLower(strings.TrimSpace(input.AssignEmail))
		var subject, body string
		if assignee != nil {
			subject = notify.TaskAssignedSubject(task.Title)
			body = notify.TaskAssignedBody(assignee.Name, project.Name, task.Title, task.DueDate, task.AssignedAt)
		} else {
			subject = notify.MentionedSubject(project.Name)
			body = notify.MentionedBody(project.Name, task.Title, task.DueDate)
		}
		if err := mailer.SendEmail(to, subject, body); err != nil {
			log.Warn("assignment email failed", zap.String("to", to), zap.Error(err))
		}
	}

	if input.ProjectID == nil && actor.Email != "" {
		subject := notify.TaskCreatedSubject(task.Title)
		body := notify.TaskCreatedBody(actor.Name, task.Title, task.DueDate)
		if err := mailer.SendEmail(actor.Email, subject, body); err != nil {
			log.Warn("creation email failed", zap.String("to", actor.Email), zap.Error(err))
		}
	}

	return &task, nil
}

// AssignTask points an existing task at a new assignee. The actor needs edit
// rights on the task's effective scope. For project tasks the assignee must be
// the project owner or a current member; membership is checked at assignment
// time only, later removal does not retroactively clear the field.
func AssignTask(db *gorm.DB, task *models.Task, actorID, targetUserID uint) error {
	var project *models.Project
	if task.ProjectID != nil {
		var p models.Project
		if err := db.Preload("Members").First(&p, *task.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		project = &p
	}

	if !authz.CanEditTask(task, project, actorID) {
		return ErrForbidden
	}

	if project != nil {
		if targetUserID != project.OwnerID && !memberID(project, targetUserID) {
			return ErrInvalidAssignee
		}
	} else {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", targetUserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}

	now := time.Now()
	task.AssigneeID = &targetUserID
	task.AssignedByID = &actorID
	task.AssignedAt = &now

	return db.Model(task).Updates(map[string]interface{}{
		"assignee_id":    task.AssigneeID,
		"assigned_by_id": task.AssignedByID,
		"assigned_at":    task.AssignedAt,
	}).Error
}

func memberID(project *models.Project, userID uint) bool {
	for _, m := range project.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	Category    *string
	Subcategory *string
	Tags        []byte
	Status      *string
}

// CompletionAward reports the ledger state after a first completion.
type CompletionAward struct {
	Points int
	Badges []string
}

// UpdateTask applies the patch under the task's edit rules. On the first
// transition into completed it awards points to the task's owner and emails
// the owner/assignee/assignedBy set (deduplicated); award and emails are
// best-effort and never roll back the committed update.
func UpdateTask(db *gorm.DB, mailer notify.Mailer, log *zap.Logger, task *models.Task, actorID uint, patch TaskPatch) (*CompletionAward, error) {
	var project *models.Project
	if task.ProjectID != nil {
		var p models.Project
		if err := db.Preload("Members").First(&p, *task.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		project = &p
	}

	if !authz.CanEditTask(task, project, actorID) {
		return nil, ErrForbidden
	}

	if patch.Priority != nil && !types.ValidPriority(*patch.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, *patch.Priority)
	}
	if patch.Status != nil && !types.ValidStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *patch.Status)
	}

	wasCompleted := task.Status == types.StatusCompleted

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Subcategory != nil {
		task.Subcategory = *patch.Subcategory
	}
	if patch.Tags != nil {
		task.Tags = patch.Tags
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}

	completedNow := task.Status == types.StatusCompleted && !wasCompleted
	if completedNow {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := db.Save(task).Error; err != nil {
		return nil, err
	}

	if !completedNow {
		return nil, nil
	}

	// The task update is committed; a failed award or fan-out must not turn
	// it into an error response. The ledger payload is simply omitted.
	var owner models.User
	if err := db.First(&owner, task.OwnerID).Error; err != nil {
		log.Warn("completion award skipped", zap.Uint("owner", task.OwnerID), zap.Error(err))
		return nil, nil
	}
	if err := AwardCompletion(db, &owner); err != nil {
		log.Warn("completion award failed", zap.Uint("owner", task.OwnerID), zap.Error(err))
		return nil, nil
	}
	award := &CompletionAward{Points: owner.Points, Badges: DecodeBadges(owner.Badges)}

	notifyCompletion(db, mailer, log, task, &owner)

	return award, nil
}

// notifyCompletion emails the union of owner, assignee and assigner addresses.
// Individual send failures are logged and do not stop the remaining sends.
func notifyCompletion(db *gorm.DB, mailer notify.Mailer, log *zap.Logger, task *models.Task, owner *models.User) {
	recipients := map[string]bool{}
	if owner.Email != "" {
		recipients[owner.Email] = true
	}

	for _, id := range []*uint{task.AssigneeID, task.AssignedByID} {
		if id == nil {
			continue
		}
		var u models.User
		if err := db.First(&u, *id).Error; err != nil {
			continue
		}
		if u.Email != "" {
			recipients[u.Email] = true
		}
	}

	subject := notify.TaskCompletedSubject(task.Title)
	body := notify.TaskCompletedBody(task.Title, task.DueDate)

	for to := range recipients {
		if err := mailer.SendEmail(to, subject, body); err != nil {
			log.Warn("completion email failed", zap.String("to", to), zap.Error(err))
		}
	}
}
