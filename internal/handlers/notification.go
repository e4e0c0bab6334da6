package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/utils"
	"gorm.io/gorm"
)

func TestEmail(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	body := fmt.Sprintf("<p>Hello %s, this is a test email from TaskHive.</p>", currentUser.Name)

	if err := mailer.SendEmail(currentUser.Email, "TaskHive test email", body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestSMS(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	if user.Phone == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No phone configured"})
		return
	}

	if err := texter.SendSMS(user.Phone, "TaskHive test SMS"); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// SendNow fires a manual reminder for one of the caller's own tasks.
func SendNow(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.Task

	if err := db.DB.Preload("Owner").Where("id = ? AND owner_id = ?", ctx.Param("taskId"), userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return
	}

	owner := task.Owner
	subject := fmt.Sprintf("Reminder: %s", task.Title)
	body := fmt.Sprintf("<p>Hi %s,</p><p>This is a manual reminder for <b>%s</b>.</p>", owner.Name, task.Title)

	if owner.NotifyEmail && owner.Email != "" {
		if err := mailer.SendEmail(owner.Email, subject, body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if owner.NotifySMS && owner.Phone != "" {
		if err := texter.SendSMS(owner.Phone, fmt.Sprintf("Manual reminder: %s", task.Title)); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
