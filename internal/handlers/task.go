package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/authz"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	ProjectID   *uint      `json:"project"`

	// Optional inline assignment when creating inside a project.
	AssignEmail string `json:"assignEmail"`
	MemberRole  string `json:"memberRole"`
	MemberTitle string `json:"memberTitle"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	Subcategory *string    `json:"subcategory"`
	Tags        *[]string  `json:"tags"`
	Status      *string    `json:"status"`
}

type AssignTaskRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type TaskResponse struct {
	ID           uint            `json:"id"`
	OwnerID      uint            `json:"owner_id"`
	ProjectID    *uint           `json:"project_id,omitempty"`
	AssigneeID   *uint           `json:"assignee_id,omitempty"`
	AssignedByID *uint           `json:"assigned_by_id,omitempty"`
	AssignedAt   *time.Time      `json:"assigned_at,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Priority     string          `json:"priority"`
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	Tags         json.RawMessage `json:"tags,omitempty"`
	Status       string          `json:"status"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		OwnerID:      task.OwnerID,
		ProjectID:    task.ProjectID,
		AssigneeID:   task.AssigneeID,
		AssignedByID: task.AssignedByID,
		AssignedAt:   task.AssignedAt,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      task.DueDate,
		Priority:     task.Priority,
		Category:     task.Category,
		Subcategory:  task.Subcategory,
		Tags:         json.RawMessage(task.Tags),
		Status:       task.Status,
		CompletedAt:  task.CompletedAt,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// accessibleProjectIDs returns ids of projects the user owns or belongs to.
func accessibleProjectIDs(userID uint) ([]uint, error) {
	var ids []uint

	if err := db.DB.Model(&models.Project{}).
		Where("owner_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	var memberIDs []uint
	if err := db.DB.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &memberIDs).Error; err != nil {
		return nil, err
	}

	return append(ids, memberIDs...), nil
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Model(&models.Task{})

	if project := ctx.Query("project"); project != "" {
		ids, err := accessibleProjectIDs(userID)
		if err != nil {
			respondServiceError(ctx, err)
			return
		}
		query = query.Where("project_id = ?", project)
		if len(ids) > 0 {
			query = query.Where("owner_id = ? OR project_id IN ?", userID, ids)
		} else {
			query = query.Where("owner_id = ?", userID)
		}
	} else {
		// Without a project filter, project tasks stay out of the plain list.
		query = query.Where("owner_id = ? AND project_id IS NULL", userID)
	}

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := ctx.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if subcategory := ctx.Query("subcategory"); subcategory != "" {
		query = query.Where("subcategory = ?", subcategory)
	}
	if q := ctx.Query("q"); q != "" {
		// LOWER/LOWER rather than ILIKE so the match is case-insensitive on
		// postgres and sqlite alike.
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+q+"%")
	}

	var tasks []models.Task

	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"tasks": response})
}

func CreateTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var tags []byte
	if body.Tags != nil {
		if tags, err = json.Marshal(body.Tags); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tags"})
			return
		}
	}

	actor := models.User{Name: currentUser.Name, Email: currentUser.Email}
	actor.ID = currentUser.ID

	task, err := services.CreateTaskWithAssignment(db.DB, mailer, log, &actor, services.CreateTaskInput{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		Category:    body.Category,
		Subcategory: body.Subcategory,
		Tags:        tags,
		Status:      body.Status,
		ProjectID:   body.ProjectID,
		AssignEmail: body.AssignEmail,
		MemberRole:  body.MemberRole,
		MemberTitle: body.MemberTitle,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"task": toTaskResponse(task)})
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return
	}

	var project *models.Project
	if task.ProjectID != nil {
		var p models.Project
		if err := db.DB.Preload("Members").First(&p, *task.ProjectID).Error; err == nil {
			project = &p
		}
	}

	if !authz.CanViewTask(&task, project, userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"task": toTaskResponse(&task)})
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return
	}

	patch := services.TaskPatch{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		Category:    body.Category,
		Subcategory: body.Subcategory,
		Status:      body.Status,
	}
	if body.Tags != nil {
		encoded, err := json.Marshal(*body.Tags)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tags"})
			return
		}
		patch.Tags = encoded
	}

	award, err := services.UpdateTask(db.DB, mailer, log, &task, userID, patch)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := gin.H{"task": toTaskResponse(&task)}
	if award != nil {
		response["user"] = gin.H{"points": award.Points, "badges": award.Badges}
	}

	ctx.JSON(http.StatusOK, response)
}

func AssignTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body AssignTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return
	}

	if err := services.AssignTask(db.DB, &task, userID, body.UserID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"task": toTaskResponse(&task)})
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Only the task owner can delete; invisibility folds into 404.
	result := db.DB.Where("id = ? AND owner_id = ?", ctx.Param("id"), userID).Delete(&models.Task{})

	if result.Error != nil {
		respondServiceError(ctx, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
