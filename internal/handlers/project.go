package handlers

import (
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

type CreateProjectRequest struct {
	Name       string `json:"name" binding:"required"`
	Color      string `json:"color"`
	OwnerTitle string `json:"ownerTitle"`
}

type UpdateProjectRequest struct {
	Name       string `json:"name" binding:"required"`
	Color      string `json:"color"`
	OwnerTitle string `json:"ownerTitle"`
}

type ShareProjectRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
	Title string `json:"title"`
}

type ProjectResponse struct {
	ID         uint      `json:"id"`
	OwnerID    uint      `json:"owner_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	OwnerTitle string    `json:"owner_title"`
	CreatedAt  time.Time `json:"created_at"`
}

type MemberResponse struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Title  string `json:"title"`
}

func toProjectResponse(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:         project.ID,
		OwnerID:    project.OwnerID,
		Name:       project.Name,
		Color:      project.Color,
		OwnerTitle: project.OwnerTitle,
		CreatedAt:  project.CreatedAt,
	}
}

func toMemberResponses(members []models.ProjectMember) []MemberResponse {
	response := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		response = append(response, MemberResponse{
			UserID: m.UserID,
			Name:   m.User.Name,
			Email:  m.User.Email,
			Role:   m.Role,
			Title:  m.Title,
		})
	}
	return response
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := models.Project{
		OwnerID:    userID,
		Name:       body.Name,
		Color:      body.Color,
		OwnerTitle: body.OwnerTitle,
	}
	if project.Color == "" {
		project.Color = "#3b82f6"
	}

	if err := db.DB.Create(&project).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"project": toProjectResponse(&project)})
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Owner or member, newest first.
	var projects []models.Project
	err = db.DB.
		Distinct("projects.*").
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id AND project_members.deleted_at IS NULL").
		Where("projects.owner_id = ? OR project_members.user_id = ?", userID, userID).
		Order("projects.created_at DESC").
		Find(&projects).Error

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, toProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"projects": response})
}

func getProjectWithMembers(ctx *gin.Context) (*models.Project, bool) {
	var project models.Project

	err := db.DB.
		Preload("Members", func(tx *gorm.DB) *gorm.DB {
			// insertion order for display fidelity
			return tx.Order("project_members.id ASC")
		}).
		Preload("Members.User").
		First(&project, ctx.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return nil, false
	}

	return &project, true
}

func GetProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, ok := getProjectWithMembers(ctx)
	if !ok {
		return
	}

	if !authz.CanView(project, userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"project": toProjectResponse(project)})
}

func UpdateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var project models.Project

	// Owner only; non-owners get 404 rather than confirming existence.
	if err := db.DB.Where("id = ? AND owner_id = ?", ctx.Param("id"), userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return
	}

	project.Name = body.Name
	if body.Color != "" {
		project.Color = body.Color
	}
	project.OwnerTitle = body.OwnerTitle

	if err := db.DB.Save(&project).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"project": toProjectResponse(&project)})
}

func ShareProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body ShareProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email required"})
		return
	}

	project, ok := getProjectWithMembers(ctx)
	if !ok {
		return
	}

	members, err := services.ShareProject(db.DB, project, userID, body.Email, body.Role, body.Title)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"members": toMemberResponses(members)})
}

func ListMembers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, ok := getProjectWithMembers(ctx)
	if !ok {
		return
	}

	if !authz.CanView(project, userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var owner models.User
	if err := db.DB.First(&owner, project.OwnerID).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"owner":      gin.H{"id": owner.ID, "name": owner.Name, "email": owner.Email},
		"ownerTitle": project.OwnerTitle,
		"members":    toMemberResponses(project.Members),
	})
}
