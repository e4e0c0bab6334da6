package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/types"
	"gorm.io/gorm"
)

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type AdminUserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ListUsers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, AdminUserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"users": response})
}

func UpdateUserRole(ctx *gin.Context) {
	var body UpdateRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Role != types.RoleUser && body.Role != types.RoleAdmin {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return
	}

	if err := db.DB.Model(&user).Update("role", body.Role).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: body.Role},
	})
}

func Analytics(ctx *gin.Context) {
	var usersCount, tasksTotal, tasksCompleted, tasksPending, tasksInProgress int64

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&usersCount, db.DB.Model(&models.User{})},
		{&tasksTotal, db.DB.Model(&models.Task{})},
		{&tasksCompleted, db.DB.Model(&models.Task{}).Where("status = ?", types.StatusCompleted)},
		{&tasksPending, db.DB.Model(&models.Task{}).Where("status = ?", types.StatusPending)},
		{&tasksInProgress, db.DB.Model(&models.Task{}).Where("status = ?", types.StatusInProgress)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			respondServiceError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"usersCount": usersCount,
		"tasks": gin.H{
			"total":       tasksTotal,
			"completed":   tasksCompleted,
			"pending":     tasksPending,
			"in_progress": tasksInProgress,
		},
	})
}
