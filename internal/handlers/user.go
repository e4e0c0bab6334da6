package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/utils"
)

type UpdateProfileRequest struct {
	Phone         *string                   `json:"phone"`
	Notifications *NotificationPrefsRequest `json:"notifications"`
}

type NotificationPrefsRequest struct {
	Email *bool `json:"email"`
	SMS   *bool `json:"sms"`
	Push  *bool `json:"push"`
}

type ProfileResponse struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Notifications NotificationPrefs `json:"notifications"`
	Points        int               `json:"points"`
	Badges        []string          `json:"badges"`
}

type NotificationPrefs struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

func toProfileResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Notifications: NotificationPrefs{
			Email: user.NotifyEmail,
			SMS:   user.NotifySMS,
			Push:  user.NotifyPush,
		},
		Points: user.Points,
		Badges: services.DecodeBadges(user.Badges),
	}
}

func GetProfile(ctx *gin.Context) {
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

	ctx.JSON(http.StatusOK, gin.H{"user": toProfileResponse(&user)})
}

func UpdateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	updates := make(map[string]interface{})

	if body.Phone != nil {
		updates["phone"] = *body.Phone
	}
	if body.Notifications != nil {
		// Partial merge: only the toggles present in the request change.
		if body.Notifications.Email != nil {
			updates["notify_email"] = *body.Notifications.Email
		}
		if body.Notifications.SMS != nil {
			updates["notify_sms"] = *body.Notifications.SMS
		}
		if body.Notifications.Push != nil {
			updates["notify_push"] = *body.Notifications.Push
		}
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			respondServiceError(ctx, err)
			return
		}
		if err := db.DB.First(&user, userID).Error; err != nil {
			respondServiceError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"user": toProfileResponse(&user)})
}
